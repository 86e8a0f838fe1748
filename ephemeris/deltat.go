// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package ephemeris

import (
	"fmt"

	"github.com/mooncaker816/learnmeeus/v3/deltat"
)

// DeltaTModel names the model used to obtain ΔT = TT − UT for a range
// of years.
type DeltaTModel string

const (
	// Observed uses annual values published by the IERS. Instants past the
	// end of the table are extrapolated.
	Observed DeltaTModel = "observed"
	// Table10A interpolates Table 10.A of Meeus, which covers 1620 to 1997.
	Table10A DeltaTModel = "table10a"
	// Poly948to1600 is the polynomial of Meeus (10.2).
	Poly948to1600 DeltaTModel = "poly948to1600"
	// PolyBefore948 is the polynomial of Meeus (10.1).
	PolyBefore948 DeltaTModel = "polybefore948"
	// Extrapolated blends the last observed value into the long term
	// parabola of Morrison and Stephenson over a century.
	Extrapolated DeltaTModel = "extrapolated"
)

func (m DeltaTModel) validate() error {
	switch m {
	case Observed, Table10A, Poly948to1600, PolyBefore948, Extrapolated:
		return nil
	}
	return fmt.Errorf("unrecognised delta-t model: %q", string(m))
}

const (
	table10AFirst = 1620.0
	table10ALast  = 1997.0
	observedFirst = 1998
)

// ΔT in seconds at the start of each year from 1998.
var observedDeltaT = []float64{
	62.97, 63.47, 63.83, 64.09, 64.30, 64.47, 64.57, 64.69, 64.85, 65.15,
	65.46, 65.78, 66.07, 66.32, 66.60, 66.91, 67.28, 67.64, 68.10, 68.59,
	68.97, 69.22, 69.36, 69.36, 69.29, 69.20, 69.18, 69.10,
}

func observedLast() float64 {
	return float64(observedFirst + len(observedDeltaT) - 1)
}

// longTerm is the parabola of Morrison and Stephenson (2004).
func longTerm(year float64) float64 {
	u := (year - 1820) / 100
	return -20 + 32*u*u
}

func observed(year float64) float64 {
	if year < observedFirst {
		return observedDeltaT[0]
	}
	if year >= observedLast() {
		return extrapolated(year)
	}
	i := int(year) - observedFirst
	f := year - float64(int(year))
	return observedDeltaT[i] + f*(observedDeltaT[i+1]-observedDeltaT[i])
}

func extrapolated(year float64) float64 {
	last := observedLast()
	if year <= last {
		return observed(year)
	}
	w := (year - last) / 100
	if w >= 1 {
		return longTerm(year)
	}
	return (1-w)*observedDeltaT[len(observedDeltaT)-1] + w*longTerm(year)
}

func table10A(jd, year float64) float64 {
	switch {
	case year < table10AFirst:
		return float64(deltat.Poly948to1600(year))
	case year > table10ALast:
		return observed(year)
	}
	return float64(deltat.Interp10A(jd))
}

// DeltaT returns ΔT, in seconds, for the Julian day jd using model. Each
// model accepts any jd; models with a tabulated range fall back to their
// neighbours outside of it.
func DeltaT(model DeltaTModel, jd float64) float64 {
	year := decimalYear(jd)
	switch model {
	case Table10A:
		return table10A(jd, year)
	case Poly948to1600:
		return float64(deltat.Poly948to1600(year))
	case PolyBefore948:
		return float64(deltat.PolyBefore948(year))
	case Extrapolated:
		return extrapolated(year)
	}
	return observed(year)
}

func decimalYear(jd float64) float64 {
	return 2000 + (jd-j2000)/365.25
}
