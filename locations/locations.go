// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package locations provides named observing locations read from YAML
// configuration files, optionally resolved via postal codes.
package locations

import (
	"context"
	"fmt"
	"time"

	"cloudeng.io/cmdutil/cmdyaml"
	"cloudeng.io/datetime"
	"cloudeng.io/eclipse/contacts"
	"cloudeng.io/errors"
)

// Location represents a named observing location. Postal and Admin may be
// used in place of Latitude and Longitude, in which case the coordinates
// are obtained from a PostalDB.
type Location struct {
	Name      string   `yaml:"name"`
	Latitude  float64  `yaml:"latitude"`
	Longitude float64  `yaml:"longitude"`
	Elevation *float64 `yaml:"elevation,omitempty"` // metres, contacts.DefaultElevation if not set
	TimeZone  string   `yaml:"timezone,omitempty"`
	Admin     string   `yaml:"admin,omitempty"`  // eg. NC, ENG
	Postal    string   `yaml:"postal,omitempty"` // eg. 27601, "BN91 9AA"
}

func (l Location) String() string {
	return fmt.Sprintf("%v (%.5f, %.5f)", l.Name, l.Latitude, l.Longitude)
}

// Observer returns the contacts.Observer for l.
func (l Location) Observer() contacts.Observer {
	obs := contacts.Observer{
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Elevation: contacts.DefaultElevation,
	}
	if l.Elevation != nil {
		obs.Elevation = *l.Elevation
	}
	return obs
}

// Place returns the datetime.Place for l. UTC is used if no time zone
// is configured.
func (l Location) Place() (datetime.Place, error) {
	loc := time.UTC
	if len(l.TimeZone) > 0 {
		var err error
		if loc, err = time.LoadLocation(l.TimeZone); err != nil {
			return datetime.Place{}, fmt.Errorf("%v: %w", l.Name, err)
		}
	}
	return datetime.Place{
		TimeLocation: loc,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
	}, nil
}

func (l Location) needsLookup() bool {
	return len(l.Postal) > 0 && l.Latitude == 0 && l.Longitude == 0
}

func (l Location) validate() error {
	errs := &errors.M{}
	if len(l.Name) == 0 {
		errs.Append(errors.New("missing name"))
	}
	if l.Latitude < -90 || l.Latitude > 90 {
		errs.Append(fmt.Errorf("%v: latitude out of range: %v", l.Name, l.Latitude))
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		errs.Append(fmt.Errorf("%v: longitude out of range: %v", l.Name, l.Longitude))
	}
	if l.needsLookup() && len(l.Admin) == 0 {
		errs.Append(fmt.Errorf("%v: postal code %v requires an admin code", l.Name, l.Postal))
	}
	return errs.Err()
}

// Locations is a list of Location.
type Locations []Location

type config struct {
	Locations Locations `yaml:"locations"`
}

// Parse parses a YAML specification of the form:
//
//	locations:
//	  - name: Forest, OH
//	    latitude: 40.81738
//	    longitude: -83.50347
//	    elevation: 276
//	    timezone: America/New_York
//	  - name: Raleigh, NC
//	    admin: NC
//	    postal: 27601
//
// Unknown fields are rejected and errors refer to the offending lines.
func Parse(spec []byte) (Locations, error) {
	var cfg config
	if err := cmdyaml.ParseConfigStrict(spec, &cfg); err != nil {
		return nil, err
	}
	return cfg.Locations, cfg.Locations.Validate()
}

// ParseFile is like Parse but reads the specification from filename.
func ParseFile(ctx context.Context, filename string) (Locations, error) {
	var cfg config
	if err := cmdyaml.ParseConfigFileStrict(ctx, filename, &cfg); err != nil {
		return nil, err
	}
	return cfg.Locations, cfg.Locations.Validate()
}

// Validate returns all of the problems found with the locations.
func (ls Locations) Validate() error {
	errs := &errors.M{}
	seen := map[string]bool{}
	for _, l := range ls {
		errs.Append(l.validate())
		if seen[l.Name] {
			errs.Append(fmt.Errorf("duplicate location: %v", l.Name))
		}
		seen[l.Name] = true
	}
	return errs.Err()
}

// NeedsLookup returns true if any location is specified only by postal code.
func (ls Locations) NeedsLookup() bool {
	for _, l := range ls {
		if l.needsLookup() {
			return true
		}
	}
	return false
}

// Resolve fills in the coordinates of any location specified only by
// postal code using db.
func (ls Locations) Resolve(db *PostalDB) error {
	errs := &errors.M{}
	for i, l := range ls {
		if !l.needsLookup() {
			continue
		}
		c, ok := db.Coordinates(l.Admin, l.Postal)
		if !ok {
			errs.Append(fmt.Errorf("%v: unknown postal code: %v %v", l.Name, l.Admin, l.Postal))
			continue
		}
		ls[i].Latitude, ls[i].Longitude = c.Latitude, c.Longitude
	}
	return errs.Err()
}
