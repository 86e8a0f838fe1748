// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package astronomy

import (
	"time"

	"cloudeng.io/datetime"
)

// ApparentSolarNoon returns the instant midway between sunrise and sunset,
// in the place's location, or the zero time if the Sun does not rise.
func ApparentSolarNoon(date datetime.CalendarDate, place datetime.Place) time.Time {
	rise, set := SunRiseAndSet(date, place)
	if rise.IsZero() {
		return time.Time{}
	}
	return rise.Add(set.Sub(rise) / 2)
}

// SolarNoon implements datetime.DynamicTimeOfDay for the solar noon.
type SolarNoon struct{}

func (s SolarNoon) Name() string {
	return "SolarNoon"
}

func (s SolarNoon) Evaluate(cd datetime.CalendarDate, place datetime.Place) datetime.TimeOfDay {
	return datetime.TimeOfDayFromTime(ApparentSolarNoon(cd, place))
}

// Sunrise implements datetime.DynamicTimeOfDay for sunrise.
type Sunrise struct{}

func (s Sunrise) Name() string {
	return "Sunrise"
}

func (s Sunrise) Evaluate(cd datetime.CalendarDate, place datetime.Place) datetime.TimeOfDay {
	rise, _ := SunRiseAndSet(cd, place)
	return datetime.TimeOfDayFromTime(rise)
}

// Sunset implements datetime.DynamicTimeOfDay for sunset.
type Sunset struct{}

func (s Sunset) Name() string {
	return "Sunset"
}

func (s Sunset) Evaluate(cd datetime.CalendarDate, place datetime.Place) datetime.TimeOfDay {
	_, set := SunRiseAndSet(cd, place)
	return datetime.TimeOfDayFromTime(set)
}
