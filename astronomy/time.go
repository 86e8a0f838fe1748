// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package astronomy

import (
	"math"
	"time"
)

// LocalMeanTime returns t in the local mean time of longitude, ie. offset
// from UTC by four minutes per degree, rounded to the nearest second.
func LocalMeanTime(t time.Time, longitude float64) time.Time {
	offset := int(math.Round(240 * longitude))
	return t.In(time.FixedZone("LMT", offset))
}
