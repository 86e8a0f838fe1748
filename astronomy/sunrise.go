// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package astronomy provides the times of sunrise, sunset and solar noon
// for the dates of eclipses along with related time conversions.
package astronomy

import (
	"time"

	"cloudeng.io/datetime"
	"github.com/nathan-osman/go-sunrise"
)

// SunRiseAndSet returns the time of sunrise and sunset for the specified
// date and place. The returned times are in the place's location. Both
// times are zero if the Sun neither rises nor sets on that date.
func SunRiseAndSet(date datetime.CalendarDate, place datetime.Place) (rise, set time.Time) {
	rise, set = sunrise.SunriseSunset(
		place.Latitude, place.Longitude,
		date.Year(), time.Month(date.Month()), date.Day())
	if rise.IsZero() || set.IsZero() {
		return time.Time{}, time.Time{}
	}
	return rise.In(location(place)), set.In(location(place))
}

// CalendarDate returns the calendar date of t in t's location.
func CalendarDate(t time.Time) datetime.CalendarDate {
	return datetime.NewCalendarDate(t.Year(), datetime.Month(t.Month()), t.Day())
}

func location(place datetime.Place) *time.Location {
	if place.TimeLocation == nil {
		return time.UTC
	}
	return place.TimeLocation
}
