// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package contacts locates the local circumstances of a solar eclipse:
// the four contact points and the instant of maximum eclipse as seen by
// a single observer. Positions of the Sun and Moon are obtained from a
// PositionSource; the package itself is concerned only with sampling
// the obscuration of the Sun over time and extracting the contacts from
// those samples.
//
// A search proceeds in two passes. The coarse pass samples three days
// centered on midnight UTC of the requested date at one minute intervals
// and is guaranteed not to miss an eclipse visible on that date. If one
// is found, the fine pass resamples the interval between the first and
// last contacts found by the coarse pass at one second intervals.
package contacts

import (
	"context"
	"time"

	"cloudeng.io/eclipse/geometry"
)

// DefaultElevation is used for observers whose elevation is unknown.
const DefaultElevation = 100.0

// Observer represents a location on the Earth's surface.
type Observer struct {
	Latitude  float64 // degrees, positive north
	Longitude float64 // degrees, positive east
	Elevation float64 // meters
}

// Position represents the apparent, topocentric, positions of the Moon
// and Sun at a given instant.
type Position struct {
	Separation   float64 // angular separation of the centers, degrees
	MoonDistance float64 // km
	SunDistance  float64 // km

	// Horizontal coordinates, degrees. They are informational only and
	// may be left as zero by a PositionSource that does not compute them.
	SunAltitude  float64
	SunAzimuth   float64
	MoonAltitude float64
}

// PositionSource provides apparent positions of the Moon and Sun. It must
// be deterministic and safe for concurrent use since the samples for a
// single pass are evaluated in parallel.
type PositionSource interface {
	ApparentPosition(ctx context.Context, when time.Time, obs Observer) (Position, error)
}

// Sample represents the eclipse geometry at a single instant.
type Sample struct {
	When         time.Time
	Separation   float64 // degrees
	MoonRadius   float64 // apparent radius, degrees
	SunRadius    float64 // apparent radius, degrees
	Ratio        float64 // MoonRadius / SunRadius
	Obscuration  float64 // fraction of the Sun's disk covered by the Moon
	MoonDistance float64 // km
	SunDistance  float64 // km
	SunAltitude  float64 // degrees
	SunAzimuth   float64 // degrees
	MoonAltitude float64 // degrees
}

// Magnitude returns the fraction of the Sun's diameter covered by the Moon.
func (s Sample) Magnitude() float64 {
	return geometry.Magnitude(s.Separation, s.MoonRadius, s.SunRadius)
}

// Eclipsed returns true if any part of the Sun is covered.
func (s Sample) Eclipsed() bool {
	return s.Obscuration > 0
}

// Central returns true if the Moon's disk lies entirely within the Sun's,
// or the Sun's entirely within the Moon's.
func (s Sample) Central() bool {
	return s.Obscuration >= 1
}

// Visible returns true if the Sun is above the horizon.
func (s Sample) Visible() bool {
	return s.SunAltitude > 0
}

// Series is a time ordered, evenly spaced, sequence of Samples.
type Series []Sample

// ContactSet represents the local circumstances of an eclipse. Absent
// contacts are nil; a zero ContactSet means that no eclipse was found.
type ContactSet struct {
	C1  *Sample // start of the partial eclipse
	C2  *Sample // start of the total or annular eclipse
	Mid *Sample // maximum eclipse
	C3  *Sample // end of the total or annular eclipse
	C4  *Sample // end of the partial eclipse
}

// Eclipsed returns true if an eclipse was found.
func (cs ContactSet) Eclipsed() bool {
	return cs.C1 != nil
}

// Central returns true if the eclipse is total or annular at the
// observer's location.
func (cs ContactSet) Central() bool {
	return cs.C2 != nil && cs.C3 != nil
}

// Duration returns the duration of the total or annular phase, or zero
// for a partial eclipse.
func (cs ContactSet) Duration() time.Duration {
	if !cs.Central() {
		return 0
	}
	return cs.C3.When.Sub(cs.C2.When)
}

// PartialDuration returns the time between first and last contact.
func (cs ContactSet) PartialDuration() time.Duration {
	if cs.C1 == nil || cs.C4 == nil {
		return 0
	}
	return cs.C4.When.Sub(cs.C1.When)
}

// Contact is a named member of a ContactSet.
type Contact struct {
	Name string
	*Sample
}

// Contacts returns the contacts that are present in time order.
func (cs ContactSet) Contacts() []Contact {
	var out []Contact
	for _, c := range []Contact{
		{"C1", cs.C1},
		{"C2", cs.C2},
		{"MAX", cs.Mid},
		{"C3", cs.C3},
		{"C4", cs.C4},
	} {
		if c.Sample != nil {
			out = append(out, c)
		}
	}
	return out
}

// Kind classifies an eclipse as seen from a particular location.
type Kind int

const (
	None Kind = iota
	Partial
	NearPath
	Annular
	Total
)

func (k Kind) String() string {
	switch k {
	case Partial:
		return "partial"
	case NearPath:
		return "near-path"
	case Annular:
		return "annular"
	case Total:
		return "total"
	}
	return "none"
}

// Classify returns the Kind of eclipse represented by cs. A partial
// eclipse whose maximum obscuration reaches nearPath is classified as
// NearPath.
func Classify(cs ContactSet, nearPath float64) Kind {
	switch {
	case !cs.Eclipsed():
		return None
	case cs.Central():
		if cs.Mid != nil && cs.Mid.Ratio < 1 {
			return Annular
		}
		return Total
	case cs.Mid != nil && cs.Mid.Obscuration >= nearPath:
		return NearPath
	}
	return Partial
}
