// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package geometry provides the disk geometry used to determine how much
// of one circular disk (the Sun) is covered by another (the Moon) as seen
// by an observer. All angles are in degrees.
package geometry

import (
	"fmt"
	"math"

	"cloudeng.io/errors"
)

const (
	// MoonRadiusKm is the mean equatorial radius of the Moon.
	MoonRadiusKm = 1737.4
	// SunRadiusKm is the nominal radius of the Sun.
	SunRadiusKm = 695700.0
)

// ErrInvalidGeometry is returned for negative or NaN inputs. It indicates
// a bug in whatever supplied the positions.
var ErrInvalidGeometry = errors.New("invalid geometry")

func invalid(name string, v float64) error {
	return fmt.Errorf("%w: %v: %v", ErrInvalidGeometry, name, v)
}

func validate(separation, foreground, background float64) error {
	switch {
	case math.IsNaN(separation) || separation < 0:
		return invalid("separation", separation)
	case math.IsNaN(foreground) || foreground < 0:
		return invalid("foreground radius", foreground)
	case math.IsNaN(background) || background < 0:
		return invalid("background radius", background)
	}
	return nil
}

// Obscuration returns the fraction of the background disk's area that is
// covered by the foreground disk when their centers are separation apart.
// It returns 0 if the disks do not touch and exactly 1 if either disk lies
// entirely within the other; the latter includes annular geometry, where
// the Moon is inside the Sun's disk, since callers use the value 1 to
// detect the central (total or annular) phase. The radius ratio carries
// the remaining information.
func Obscuration(separation, foreground, background float64) (float64, error) {
	if err := validate(separation, foreground, background); err != nil {
		return 0, err
	}
	s, fg, bg := separation, foreground, background
	if s >= fg+bg {
		return 0, nil
	}
	// 16x the squared area of the triangle with sides s, fg and bg.
	a := (bg + fg + s) * (fg + s - bg) * (s + bg - fg) * (bg + fg - s)
	if a <= 0 {
		return 1, nil
	}
	halfChord := 0.25 * math.Sqrt(a)
	lune := 2*halfChord +
		bg*bg*math.Acos(clamp((fg*fg-bg*bg-s*s)/(2*bg*s))) -
		fg*fg*math.Acos(clamp((fg*fg+s*s-bg*bg)/(2*fg*s)))
	fraction := 1 - lune/(math.Pi*bg*bg)
	return math.Max(0, math.Min(1, fraction)), nil
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// Magnitude returns the fraction of the background disk's diameter that is
// covered by the foreground disk. Unlike Obscuration it exceeds 1 for
// total eclipses, by the amount that the Moon's disk overhangs the Sun's.
func Magnitude(separation, foreground, background float64) float64 {
	if background <= 0 {
		return 0
	}
	m := (foreground + background - separation) / (2 * background)
	if m <= 0 {
		return 0
	}
	return m
}

// ApparentRadius returns the angular radius, in degrees, subtended by a
// body of the specified physical radius at the specified distance. Both
// are in the same units, typically kilometers.
func ApparentRadius(radius, distance float64) (float64, error) {
	if math.IsNaN(radius) || radius < 0 {
		return 0, invalid("radius", radius)
	}
	if math.IsNaN(distance) || distance <= 0 || radius > distance {
		return 0, invalid("distance", distance)
	}
	return 180.0 / math.Pi * math.Asin(radius/distance), nil
}
