// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"cloudeng.io/eclipse/contacts"
	"cloudeng.io/eclipse/locations"
	"gopkg.in/yaml.v3"
)

func TestParseDate(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want time.Time
	}{
		{"2024-04-08", time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC)},
		{"-584-05-28", time.Date(-584, 5, 28, 0, 0, 0, 0, time.UTC)},
		{"2024-04-08T17:55:00Z", time.Date(2024, 4, 8, 17, 55, 0, 0, time.UTC)},
		{"2024-04-08T13:55:00-04:00", time.Date(2024, 4, 8, 17, 55, 0, 0, time.UTC)},
		{"2024-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
	} {
		got, err := parseDate(tc.in)
		if err != nil {
			t.Errorf("%v: %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("%v: got %v, want %v", tc.in, got, tc.want)
		}
	}
	for _, in := range []string{"", "2024-04", "2024-13-01", "2024-04-xx", "April 8", "2024-02-31", "2023-02-29", "2024-04-31", "2024-00-10", "2024-04-00"} {
		if _, err := parseDate(in); err == nil {
			t.Errorf("%q: expected an error", in)
		}
	}
}

func TestSplitList(t *testing.T) {
	if got, want := splitList(" US, GB,,CA "), []string{"US", "GB", "CA"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := splitList(""); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

var closest = time.Date(2024, 4, 8, 19, 12, 40, 0, time.UTC)

// passing is a PositionSource for which the Moon passes across the Sun
// at 0.5 arcseconds per second, missing its centre by an amount that
// depends on the observer's latitude.
type passing struct{}

var errUnavailable = errors.New("unavailable")

func (passing) ApparentPosition(_ context.Context, when time.Time, obs contacts.Observer) (contacts.Position, error) {
	if obs.Latitude < -80 {
		return contacts.Position{}, errUnavailable
	}
	x := when.Sub(closest).Seconds() * 0.5 / 3600
	return contacts.Position{
		Separation:   math.Hypot(obs.Latitude/100, x),
		MoonDistance: 360000,
		SunDistance:  149.6e6,
		SunAltitude:  45,
	}, nil
}

func TestBatch(t *testing.T) {
	engine := contacts.NewEngine(passing{}, contacts.WithCoarseWindow(24*time.Hour, time.Minute))
	locs := locations.Locations{
		{Name: "central", Latitude: 0},
		{Name: "partial", Latitude: 30},
		{Name: "none", Latitude: 89},
		{Name: "broken", Latitude: -89},
	}
	reports, err := batch(context.Background(), engine, locs, closest, 2, 0.9)
	if err == nil || !errors.Is(err, errUnavailable) || !strings.Contains(err.Error(), "broken") {
		t.Fatalf("unexpected or missing error: %v", err)
	}
	out := &strings.Builder{}
	if err := writeReports(out, "text", reports...); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	var headers []string
	for _, l := range lines {
		if !strings.HasPrefix(l, " ") {
			headers = append(headers, l)
		}
	}
	want := []string{
		"central (0.00000, 0.00000): total",
		"partial (30.00000, 0.00000): partial",
		"none (89.00000, 0.00000): none",
	}
	if got := headers; !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
	for _, name := range []string{"C1 ", "C2 ", "MAX", "C3 ", "C4 "} {
		if !strings.Contains(out.String(), "  "+name+"  2024-04-08") {
			t.Errorf("missing %v in %v", name, out.String())
		}
	}
	if !strings.Contains(out.String(), "central phase") {
		t.Errorf("missing central phase in %v", out.String())
	}
}

func TestReportBelowHorizon(t *testing.T) {
	s := &contacts.Sample{When: closest, Obscuration: 0.5, SunAltitude: -1, Ratio: 1.01, MoonRadius: 0.27, SunRadius: 0.26, Separation: 0.2}
	cs := contacts.ContactSet{C1: s, Mid: s, C4: s}
	out := &strings.Builder{}
	loc := locations.Location{Name: "x", Longitude: 15}
	if err := newReport(loc, cs, 0.9).write(out); err != nil {
		t.Fatal(err)
	}
	if got, want := strings.Count(out.String(), "(sun below horizon)"), 3; got != want {
		t.Errorf("got %v, want %v: %v", got, want, out.String())
	}
	// One hour ahead of UTC at 15 degrees east.
	if !strings.Contains(out.String(), "20:12:40 LMT") {
		t.Errorf("missing local mean time: %v", out.String())
	}
}

func TestReportYAML(t *testing.T) {
	engine := contacts.NewEngine(passing{}, contacts.WithCoarseWindow(24*time.Hour, time.Minute))
	locs := locations.Locations{
		{Name: "central", Latitude: 0},
		{Name: "none", Latitude: 89},
	}
	reports, err := batch(context.Background(), engine, locs, closest, 1, 0.9)
	if err != nil {
		t.Fatal(err)
	}
	out := &strings.Builder{}
	if err := writeReports(out, "yaml", reports...); err != nil {
		t.Fatal(err)
	}
	var parsed []reportYAML
	if err := yaml.Unmarshal([]byte(out.String()), &parsed); err != nil {
		t.Fatal(err)
	}
	if got, want := len(parsed), 2; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got, want := parsed[0].Kind, "total"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	var names []string
	for _, c := range parsed[0].Contacts {
		names = append(names, c.Name)
	}
	if got, want := names, []string{"C1", "C2", "MAX", "C3", "C4"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if len(parsed[0].Central) == 0 {
		t.Errorf("missing central duration")
	}
	if got, want := parsed[1], (reportYAML{Location: "none", Latitude: 89, Kind: "none"}); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if err := writeReports(out, "csv", reports...); err == nil {
		t.Errorf("expected an error for an unknown format")
	}
}
