// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"cloudeng.io/eclipse/geometry"
	"cloudeng.io/eclipse/locations"
	"cloudeng.io/errors"
)

type contactsFlags struct {
	CommonFlags
	Latitude  float64 `subcmd:"lat,,'latitude in degrees, north is positive'"`
	Longitude float64 `subcmd:"lon,,'longitude in degrees, east is positive'"`
	Elevation float64 `subcmd:"elevation,100,'elevation in metres'"`
	Date      string  `subcmd:"date,,'date of the eclipse as YYYY-MM-DD, or the start of the search as an RFC3339 time if --end is set'"`
	End       string  `subcmd:"end,,'optional end of the search as an RFC3339 time'"`
	TimeZone  string  `subcmd:"tz,,'time zone used to display local times, eg. America/New_York'"`
}

type fractionFlags struct {
	Precision int `subcmd:"precision,6,'number of decimal places to display'"`
}

type rangesFlags struct {
	Datasets string `subcmd:"datasets,,'YAML file specifying the ranges of years supported by the ephemeris'"`
}

// parseDate parses YYYY-MM-DD where the year may be negative, using
// astronomical year numbering, or an RFC3339 time.
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	neg := strings.HasPrefix(v, "-")
	parts := strings.Split(strings.TrimPrefix(v, "-"), "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid date: %q", v)
	}
	var ymd [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date: %q: %w", v, err)
		}
		ymd[i] = n
	}
	if neg {
		ymd[0] = -ymd[0]
	}
	t := time.Date(ymd[0], time.Month(ymd[1]), ymd[2], 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out of range months and days.
	if y, m, d := t.Date(); y != ymd[0] || int(m) != ymd[1] || d != ymd[2] {
		return time.Time{}, fmt.Errorf("invalid date: %q", v)
	}
	return t, nil
}

func contactsCmd(ctx context.Context, values any, _ []string) error {
	cl := values.(*contactsFlags)
	ctx, closer, err := cl.setup(ctx)
	if err != nil {
		return err
	}
	defer closer()
	if len(cl.Date) == 0 {
		return errors.New("--date must be specified")
	}
	nominal, err := parseDate(cl.Date)
	if err != nil {
		return err
	}
	var end *time.Time
	if len(cl.End) > 0 {
		e, err := time.Parse(time.RFC3339, cl.End)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
		end = &e
	}
	engine, err := cl.engine(ctx)
	if err != nil {
		return err
	}
	loc := locations.Location{
		Name:      fmt.Sprintf("%.5f, %.5f", cl.Latitude, cl.Longitude),
		Latitude:  cl.Latitude,
		Longitude: cl.Longitude,
		Elevation: &cl.Elevation,
		TimeZone:  cl.TimeZone,
	}
	cs, err := engine.FindCircumstances(ctx, loc.Observer(), nominal, end)
	if err != nil {
		return err
	}
	return writeReports(os.Stdout, cl.Format, newReport(loc, cs, cl.NearPath))
}

func fractionCmd(_ context.Context, values any, args []string) error {
	fl := values.(*fractionFlags)
	var v [3]float64
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("invalid argument %q: %w", a, err)
		}
		v[i] = f
	}
	fraction, err := geometry.Obscuration(v[0], v[1], v[2])
	if err != nil {
		return err
	}
	fmt.Printf("obscuration: %.*f\n", fl.Precision, fraction)
	fmt.Printf("magnitude:   %.*f\n", fl.Precision, geometry.Magnitude(v[0], v[1], v[2]))
	return nil
}

func rangesCmd(ctx context.Context, values any, _ []string) error {
	fl := values.(*rangesFlags)
	ds, err := loadDatasets(ctx, fl.Datasets)
	if err != nil {
		return err
	}
	for _, d := range ds {
		fmt.Println(d)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); len(s) > 0 {
			out = append(out, s)
		}
	}
	return out
}
