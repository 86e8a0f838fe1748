// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package ephemeris provides a contacts.PositionSource that computes the
// topocentric apparent positions of the Sun and Moon using the algorithms
// of Meeus, Astronomical Algorithms.
package ephemeris

import (
	"context"
	"math"
	"time"

	"cloudeng.io/eclipse/contacts"
	"github.com/mooncaker816/learnmeeus/v3/angle"
	"github.com/mooncaker816/learnmeeus/v3/coord"
	"github.com/mooncaker816/learnmeeus/v3/globe"
	"github.com/mooncaker816/learnmeeus/v3/julian"
	"github.com/mooncaker816/learnmeeus/v3/moonposition"
	"github.com/mooncaker816/learnmeeus/v3/nutation"
	"github.com/mooncaker816/learnmeeus/v3/parallax"
	"github.com/mooncaker816/learnmeeus/v3/sidereal"
	"github.com/soniakeys/unit"
)

const (
	j2000 = 2451545.0
	// AUKm is the astronomical unit in km.
	AUKm = 149597870.7
)

type options struct {
	datasets Datasets
}

// Option represents an option to New.
type Option func(o *options)

// WithDatasets sets the datasets used to select the ΔT model and to
// reject instants outside of the supported range of years.
func WithDatasets(ds Datasets) Option {
	return func(o *options) {
		o.datasets = ds
	}
}

// Meeus implements contacts.PositionSource. The Moon is computed using
// the truncated ELP2000-82 theory of Meeus chapter 47 and the Sun using
// a truncated VSOP87 series for the Earth. It is safe for concurrent use.
type Meeus struct {
	opts options
}

var _ contacts.PositionSource = (*Meeus)(nil)

// New returns a new Meeus ephemeris.
func New(opts ...Option) *Meeus {
	m := &Meeus{opts: options{datasets: DefaultDatasets}}
	for _, fn := range opts {
		fn(&m.opts)
	}
	return m
}

// Sun returns the apparent geocentric ecliptic longitude and latitude of
// the Sun, referred to the true equinox of date, and its distance in AU.
func Sun(jde float64) (λ, β unit.Angle, r float64) {
	Δψ, _ := nutation.Nutation(jde)
	return sun(jde, Δψ)
}

func sun(jde float64, Δψ unit.Angle) (λ, β unit.Angle, r float64) {
	l, b, r := earthPosition(jde)
	θ := unit.Angle(l + math.Pi)
	β = unit.Angle(-b)
	// Conversion to the FK5 system, Meeus (32.3).
	T := (jde - j2000) / 36525
	λp := θ - unit.AngleFromDeg(1.397*T+0.00031*T*T)
	θ -= unit.AngleFromSec(0.09033)
	β += unit.AngleFromSec(0.03916 * (λp.Cos() - λp.Sin()))
	λ = θ + Δψ - unit.AngleFromSec(20.4898/r)
	return λ.Mod1(), β, r
}

// Moon returns the apparent geocentric ecliptic longitude and latitude of
// the Moon, referred to the true equinox of date, and its distance in km.
func Moon(jde float64) (λ, β unit.Angle, Δ float64) {
	Δψ, _ := nutation.Nutation(jde)
	λ, β, Δ = moonposition.Position(jde)
	return (λ + Δψ).Mod1(), β, Δ
}

type body struct {
	α        unit.RA
	δ        unit.Angle
	distance float64
}

type site struct {
	φ, west  unit.Angle
	ρsφ, ρcφ float64
	st       unit.Time
	jd       float64
}

// topocentric converts the geocentric equatorial position of a body at
// distance km to the position seen from s.
func (s site) topocentric(α unit.RA, δ unit.Angle, distance float64) body {
	αt, δt := parallax.Topocentric(α, δ, distance/AUKm, s.ρsφ, s.ρcφ, s.west, s.jd)
	H := unit.Angle(s.st.Rad()) - s.west - unit.Angle(α)
	d := distance / globe.Earth76.Er
	sδ, cδ := δ.Sincos()
	sH, cH := H.Sincos()
	x := d*cδ*cH - s.ρcφ
	y := d * cδ * sH
	z := d*sδ - s.ρsφ
	return body{α: αt, δ: δt, distance: math.Sqrt(x*x+y*y+z*z) * globe.Earth76.Er}
}

func (s site) horizontal(b body) (azimuth, altitude float64) {
	A, h := coord.EqToHz(b.α, b.δ, s.φ, s.west, s.st)
	// Meeus measures azimuth westward from the south.
	return math.Mod(A.Deg()+180, 360), h.Deg()
}

// JDE returns the Julian ephemeris day for when along with the Julian day
// of when itself.
func (m *Meeus) JDE(when time.Time) (jde, jd float64, err error) {
	when = when.UTC()
	ds, err := m.opts.datasets.Select(when.Year())
	if err != nil {
		return 0, 0, err
	}
	jd = julian.TimeToJD(when)
	return jd + DeltaT(ds.DeltaT, jd)/86400, jd, nil
}

// ApparentPosition implements contacts.PositionSource.
func (m *Meeus) ApparentPosition(_ context.Context, when time.Time, obs contacts.Observer) (contacts.Position, error) {
	jde, jd, err := m.JDE(when)
	if err != nil {
		return contacts.Position{}, err
	}
	Δψ, Δε := nutation.Nutation(jde)
	ε := nutation.MeanObliquity(jde) + Δε
	sε, cε := ε.Sincos()

	φ := unit.AngleFromDeg(obs.Latitude)
	s := site{
		φ:    φ,
		west: unit.AngleFromDeg(-obs.Longitude),
		st:   sidereal.Apparent(jd),
		jd:   jd,
	}
	s.ρsφ, s.ρcφ = globe.Earth76.ParallaxConstants(φ, obs.Elevation)

	sλ, sβ, sr := sun(jde, Δψ)
	α, δ := coord.EclToEq(sλ, sβ, sε, cε)
	sunPos := s.topocentric(α, δ, sr*AUKm)

	mλ, mβ, mΔ := moonposition.Position(jde)
	α, δ = coord.EclToEq(mλ+Δψ, mβ, sε, cε)
	moonPos := s.topocentric(α, δ, mΔ)

	sep := angle.Sep(unit.Angle(sunPos.α), sunPos.δ, unit.Angle(moonPos.α), moonPos.δ)
	sunAz, sunAlt := s.horizontal(sunPos)
	_, moonAlt := s.horizontal(moonPos)
	return contacts.Position{
		Separation:   sep.Deg(),
		MoonDistance: moonPos.distance,
		SunDistance:  sunPos.distance,
		SunAltitude:  sunAlt,
		SunAzimuth:   sunAz,
		MoonAltitude: moonAlt,
	}, nil
}
