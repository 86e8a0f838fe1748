// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package contacts

import (
	"fmt"
	"math"
	"strings"
)

// MidpointStrategy determines how the instant of maximum eclipse is
// chosen from the samples that share the largest obscuration.
type MidpointStrategy int

const (
	// MidpointIndex selects the sample at position round(n/2), rounding
	// halves to even, of the n samples with the largest obscuration. For
	// central eclipses this is the midpoint between C2 and C3 to within the
	// sampling interval.
	MidpointIndex MidpointStrategy = iota
	// MidpointMinSeparation selects the sample with the smallest separation
	// of those with the largest obscuration, preferring the larger radius
	// ratio and then the earlier time when separations are equal.
	MidpointMinSeparation
)

func (m MidpointStrategy) String() string {
	switch m {
	case MidpointIndex:
		return "index"
	case MidpointMinSeparation:
		return "separation"
	}
	return fmt.Sprintf("MidpointStrategy(%d)", int(m))
}

// ParseMidpointStrategy parses the names returned by MidpointStrategy.String.
func ParseMidpointStrategy(v string) (MidpointStrategy, error) {
	switch strings.ToLower(v) {
	case "index", "":
		return MidpointIndex, nil
	case "separation":
		return MidpointMinSeparation, nil
	}
	return 0, fmt.Errorf("unrecognised midpoint strategy: %q", v)
}

func (m MidpointStrategy) pick(series Series, maxima []int) int {
	if m != MidpointMinSeparation {
		return maxima[midIndex(len(maxima))]
	}
	best := maxima[0]
	for _, i := range maxima[1:] {
		s, b := series[i], series[best]
		if s.Separation < b.Separation ||
			(s.Separation == b.Separation && s.Ratio > b.Ratio) {
			best = i
		}
	}
	return best
}

func midIndex(n int) int {
	return int(math.RoundToEven(float64(n) / 2))
}

func sampleAt(series Series, i int) *Sample {
	s := series[i]
	return &s
}

// Extract determines the contacts from a single, time ordered, Series in
// one pass:
//   - C1 and C4 are the earliest and latest samples with any obscuration.
//   - C2 and C3 are the earliest and latest samples that share the maximum
//     obscuration, provided that maximum is at least 1.
//   - Mid is chosen from the samples that share the maximum obscuration
//     according to the supplied strategy.
//
// A zero ContactSet is returned if no sample shows any obscuration. The
// returned samples are copies and do not refer to series.
func Extract(series Series, strategy MidpointStrategy) ContactSet {
	first, last := -1, -1
	maxFraction := 0.0
	var maxima []int
	for i, s := range series {
		if s.Obscuration <= 0 {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
		switch {
		case s.Obscuration > maxFraction:
			maxFraction = s.Obscuration
			maxima = append(maxima[:0], i)
		case s.Obscuration == maxFraction:
			maxima = append(maxima, i)
		}
	}
	if first < 0 {
		return ContactSet{}
	}
	cs := ContactSet{
		C1:  sampleAt(series, first),
		Mid: sampleAt(series, strategy.pick(series, maxima)),
		C4:  sampleAt(series, last),
	}
	if maxFraction >= 1 {
		cs.C2 = sampleAt(series, maxima[0])
		cs.C3 = sampleAt(series, maxima[len(maxima)-1])
	}
	return cs
}
