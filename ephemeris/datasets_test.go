// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package ephemeris_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cloudeng.io/eclipse/contacts"
	"cloudeng.io/eclipse/ephemeris"
	"github.com/mooncaker816/learnmeeus/v3/julian"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestSelectDataset(t *testing.T) {
	for _, tc := range []struct {
		year int
		name string
	}{
		{-1999, "ancient"},
		{-1499, "ancient"},
		{947, "ancient"},
		{948, "medieval"},
		{1619, "medieval"},
		{1620, "telescopic"},
		{1997, "telescopic"},
		{1998, "observed"},
		{2024, "observed"},
		{2025, "observed"},
		{2026, "predicted"},
		{3000, "predicted"},
	} {
		ds, err := ephemeris.SelectDataset(tc.year)
		if err != nil {
			t.Errorf("%v: %v", tc.year, err)
			continue
		}
		if got, want := ds.Name, tc.name; got != want {
			t.Errorf("%v: got %v, want %v", tc.year, got, want)
		}
	}
	for _, year := range []int{-2000, 3001, -13200, 17191} {
		if _, err := ephemeris.SelectDataset(year); !errors.Is(err, ephemeris.ErrOutOfRange) {
			t.Errorf("%v: unexpected or missing error: %v", year, err)
		}
	}
}

func TestDefaultDatasets(t *testing.T) {
	if err := ephemeris.DefaultDatasets.Validate(); err != nil {
		t.Fatal(err)
	}
	// No gaps between the first and last supported years.
	for year := -1999; year <= 3000; year++ {
		if _, err := ephemeris.SelectDataset(year); err != nil {
			t.Fatalf("%v: %v", year, err)
		}
	}
}

const datasetsSpec = `datasets:
  - name: recent
    from: 1900
    to: 2100
    delta_t: observed
  - name: everything
    from: 1
    to: 2999
    delta_t: extrapolated
`

func TestParseDatasets(t *testing.T) {
	ds, err := ephemeris.ParseDatasets([]byte(datasetsSpec))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(ds), 2; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	d, err := ds.Select(2000)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := d.String(), "recent: 1900..2100 (observed)"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if _, err := ds.Select(0); !errors.Is(err, ephemeris.ErrOutOfRange) {
		t.Errorf("unexpected or missing error: %v", err)
	}

	filename := filepath.Join(t.TempDir(), "datasets.yaml")
	if err := os.WriteFile(filename, []byte(datasetsSpec), 0600); err != nil {
		t.Fatal(err)
	}
	fds, err := ephemeris.ParseDatasetsFile(context.Background(), filename)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(fds), len(ds); got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	// Restricting the datasets restricts the ephemeris.
	eph := ephemeris.New(ephemeris.WithDatasets(ds[:1]))
	_, err = eph.ApparentPosition(context.Background(), time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC), contacts.Observer{})
	if !errors.Is(err, ephemeris.ErrOutOfRange) {
		t.Errorf("unexpected or missing error: %v", err)
	}
}

func TestParseDatasetsErrors(t *testing.T) {
	for _, tc := range []struct {
		spec, msg string
	}{
		{"datasets:\n  - name: x\n    from: 1\n    to: 2\n    delta_t: guess\n", "unrecognised delta-t model"},
		{"datasets:\n  - name: x\n    from: 3\n    to: 2\n    delta_t: observed\n", "3 is after 2"},
		{"datasets:\n  - from: 1\n    to: 2\n    delta_t: observed\n", "missing name"},
		{"datasets:\n  - name: x\n    start: 1\n", "line 3"},
	} {
		_, err := ephemeris.ParseDatasets([]byte(tc.spec))
		if err == nil || !strings.Contains(err.Error(), tc.msg) {
			t.Errorf("%q: unexpected or missing error: %v", tc.spec, err)
		}
	}
}

func jdForYear(year int) float64 {
	return julian.TimeToJD(time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestDeltaT(t *testing.T) {
	for _, tc := range []struct {
		model     ephemeris.DeltaTModel
		year      int
		want, tol float64
	}{
		{ephemeris.Observed, 2000, 63.83, 0.01},
		{ephemeris.Observed, 2024, 69.18, 0.01},
		{ephemeris.Table10A, 1900, -2.7, 1},
		{ephemeris.Table10A, 1950, 29.1, 1},
		{ephemeris.PolyBefore948, -500, 17190, 500},
		{ephemeris.Poly948to1600, 1000, 1574, 200},
		{ephemeris.Extrapolated, 2200, 442.08, 1},
	} {
		got := ephemeris.DeltaT(tc.model, jdForYear(tc.year))
		if !scalar.EqualWithinAbs(got, tc.want, tc.tol) {
			t.Errorf("%v %v: got %v, want %v", tc.model, tc.year, got, tc.want)
		}
	}
}

func TestDeltaTContinuity(t *testing.T) {
	// Step across the ends of the observed table one day at a time.
	for _, year := range []int{1998, 2025} {
		prev := math.NaN()
		for day := -60; day < 60; day++ {
			jd := jdForYear(year) + float64(day)
			v := ephemeris.DeltaT(ephemeris.Observed, jd)
			if !math.IsNaN(prev) && math.Abs(v-prev) > 0.01 {
				t.Errorf("%v %+d: jump from %v to %v", year, day, prev, v)
			}
			prev = v
		}
	}
	// The extrapolation starts from the last observed value.
	last := ephemeris.DeltaT(ephemeris.Observed, jdForYear(2025))
	next := ephemeris.DeltaT(ephemeris.Extrapolated, jdForYear(2025)+1)
	if !scalar.EqualWithinAbs(last, next, 0.1) {
		t.Errorf("got %v, want %v", next, last)
	}
}
