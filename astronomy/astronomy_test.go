// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package astronomy_test

import (
	"testing"
	"time"

	"cloudeng.io/datetime"
	"cloudeng.io/eclipse/astronomy"
)

func within(t *testing.T, name string, got, want time.Time, tolerance time.Duration) {
	t.Helper()
	if d := got.Sub(want); d < -tolerance || d > tolerance {
		t.Errorf("%v: got %v, want %v", name, got, want)
	}
}

func forest(t *testing.T) datetime.Place {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip(err)
	}
	return datetime.Place{
		TimeLocation: loc,
		Latitude:     40.81738,
		Longitude:    -83.50347,
	}
}

func TestSunRiseAndSet(t *testing.T) {
	place := forest(t)
	cd := datetime.NewCalendarDate(2024, 4, 8)
	rise, set := astronomy.SunRiseAndSet(cd, place)
	if got, want := rise.Location(), place.TimeLocation; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	within(t, "rise", rise, time.Date(2024, 4, 8, 7, 6, 0, 0, place.TimeLocation), 5*time.Minute)
	within(t, "set", set, time.Date(2024, 4, 8, 20, 6, 0, 0, place.TimeLocation), 5*time.Minute)

	noon := astronomy.ApparentSolarNoon(cd, place)
	within(t, "noon", noon, time.Date(2024, 4, 8, 13, 36, 0, 0, place.TimeLocation), 3*time.Minute)
	if got, want := (astronomy.SolarNoon{}).Evaluate(cd, place), datetime.TimeOfDayFromTime(noon); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := (astronomy.Sunrise{}).Evaluate(cd, place), datetime.TimeOfDayFromTime(rise); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := (astronomy.Sunset{}).Evaluate(cd, place), datetime.TimeOfDayFromTime(set); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPolarNight(t *testing.T) {
	polar := datetime.Place{Latitude: 80, Longitude: 0}
	rise, set := astronomy.SunRiseAndSet(datetime.NewCalendarDate(2024, 12, 21), polar)
	if !rise.IsZero() || !set.IsZero() {
		t.Errorf("got %v and %v, want zero times", rise, set)
	}
}

func TestLocalMeanTime(t *testing.T) {
	when := time.Date(2024, 4, 8, 19, 12, 40, 0, time.UTC)
	lmt := astronomy.LocalMeanTime(when, -83.50347)
	if !lmt.Equal(when) {
		t.Errorf("got %v, want %v", lmt, when)
	}
	name, offset := lmt.Zone()
	if got, want := name, "LMT"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	// 83.50347 degrees is 5h 34m 0.8s, rounded to 5h 34m 1s.
	if got, want := offset, -(5*3600 + 34*60 + 1); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := lmt.Format(time.TimeOnly), "13:38:39"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
