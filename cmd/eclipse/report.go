// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"cloudeng.io/eclipse/astronomy"
	"cloudeng.io/eclipse/contacts"
	"cloudeng.io/eclipse/locations"
	"gopkg.in/yaml.v3"
)

type report struct {
	loc      locations.Location
	cs       contacts.ContactSet
	nearPath float64
}

func newReport(loc locations.Location, cs contacts.ContactSet, nearPath float64) report {
	return report{loc: loc, cs: cs, nearPath: nearPath}
}

const timeFormat = "2006-01-02 15:04:05"

func (r report) write(w io.Writer) error {
	out := &strings.Builder{}
	place, err := r.loc.Place()
	if err != nil {
		return err
	}
	kind := contacts.Classify(r.cs, r.nearPath)
	fmt.Fprintf(out, "%v: %v\n", r.loc, kind)
	if !r.cs.Eclipsed() {
		_, err := io.WriteString(w, out.String())
		return err
	}
	date := astronomy.CalendarDate(r.cs.Mid.When.In(place.TimeLocation))
	rise, set := astronomy.SunRiseAndSet(date, place)
	if !rise.IsZero() {
		fmt.Fprintf(out, "  sunrise %v, solar noon %v, sunset %v\n",
			rise.Format(time.TimeOnly),
			astronomy.ApparentSolarNoon(date, place).Format(time.TimeOnly),
			set.Format(time.TimeOnly))
	}
	for _, c := range r.cs.Contacts() {
		s := c.Sample
		fmt.Fprintf(out, "  %-3v  %v UTC  %v  %v LMT  alt %6.2f  obscuration %.4f",
			c.Name,
			s.When.Format(timeFormat),
			s.When.In(place.TimeLocation).Format(timeFormat+" MST"),
			astronomy.LocalMeanTime(s.When, r.loc.Longitude).Format(time.TimeOnly),
			s.SunAltitude,
			s.Obscuration)
		if !s.Visible() {
			out.WriteString("  (sun below horizon)")
		}
		out.WriteRune('\n')
	}
	fmt.Fprintf(out, "  magnitude %.4f, ratio %.4f, partial phase %v", r.cs.Mid.Magnitude(), r.cs.Mid.Ratio, r.cs.PartialDuration())
	if r.cs.Central() {
		fmt.Fprintf(out, ", central phase %v", r.cs.Duration())
	}
	out.WriteRune('\n')
	_, err = io.WriteString(w, out.String())
	return err
}

type contactYAML struct {
	Name        string  `yaml:"name"`
	UTC         string  `yaml:"utc"`
	Local       string  `yaml:"local"`
	SunAltitude float64 `yaml:"sun_altitude"`
	SunAzimuth  float64 `yaml:"sun_azimuth"`
	Obscuration float64 `yaml:"obscuration"`
	Visible     bool    `yaml:"visible"`
}

type reportYAML struct {
	Location  string        `yaml:"location"`
	Latitude  float64       `yaml:"latitude"`
	Longitude float64       `yaml:"longitude"`
	Kind      string        `yaml:"kind"`
	Magnitude float64       `yaml:"magnitude,omitempty"`
	Central   string        `yaml:"central_duration,omitempty"`
	Contacts  []contactYAML `yaml:"contacts,omitempty"`
}

func (r report) yaml() (reportYAML, error) {
	place, err := r.loc.Place()
	if err != nil {
		return reportYAML{}, err
	}
	ry := reportYAML{
		Location:  r.loc.Name,
		Latitude:  r.loc.Latitude,
		Longitude: r.loc.Longitude,
		Kind:      contacts.Classify(r.cs, r.nearPath).String(),
	}
	if !r.cs.Eclipsed() {
		return ry, nil
	}
	ry.Magnitude = r.cs.Mid.Magnitude()
	if r.cs.Central() {
		ry.Central = r.cs.Duration().String()
	}
	for _, c := range r.cs.Contacts() {
		ry.Contacts = append(ry.Contacts, contactYAML{
			Name:        c.Name,
			UTC:         c.When.Format(time.RFC3339),
			Local:       c.When.In(place.TimeLocation).Format(time.RFC3339),
			SunAltitude: c.SunAltitude,
			SunAzimuth:  c.SunAzimuth,
			Obscuration: c.Obscuration,
			Visible:     c.Visible(),
		})
	}
	return ry, nil
}

// writeReports writes the reports in the requested format, text or yaml.
func writeReports(w io.Writer, format string, reports ...report) error {
	switch format {
	case "text", "":
		for _, r := range reports {
			if err := r.write(w); err != nil {
				return err
			}
		}
		return nil
	case "yaml":
		out := make([]reportYAML, 0, len(reports))
		for _, r := range reports {
			ry, err := r.yaml()
			if err != nil {
				return err
			}
			out = append(out, ry)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}
