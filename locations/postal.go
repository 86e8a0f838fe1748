// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package locations

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"cloudeng.io/logging/ctxlog"
)

// Coordinates represents a position on the WGS84 ellipsoid.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// PostalDB provides the coordinates of postal codes using the tab
// separated dumps published by www.geonames.org.
type PostalDB struct {
	lookup map[string]Coordinates
}

// NewPostalDB returns an empty PostalDB.
func NewPostalDB() *PostalDB {
	return &PostalDB{lookup: make(map[string]Coordinates)}
}

type postalOptions struct {
	countries map[string]bool
}

// PostalOption represents an option to PostalDB.Load.
type PostalOption func(o *postalOptions)

// WithCountries restricts the entries loaded to those for the specified
// ISO country codes, eg. US, GB.
func WithCountries(codes ...string) PostalOption {
	return func(o *postalOptions) {
		if o.countries == nil {
			o.countries = map[string]bool{}
		}
		for _, c := range codes {
			o.countries[strings.ToUpper(c)] = true
		}
	}
}

// Len returns the number of postal codes in the database.
func (db *PostalDB) Len() int {
	return len(db.lookup)
}

// Coordinates returns the coordinates for the specified admin code and
// postal code (eg. NC 27601). GB and CA postal codes come in two formats,
// either the short form or long form:
//
//	GB: ENG BN91, or ENG "BN91 9AA".
//	CA: AB T0A, or AB "T0A 0A0".
func (db *PostalDB) Coordinates(admin, postal string) (Coordinates, bool) {
	c, ok := db.lookup[admin+" "+postal]
	return c, ok
}

// Load parses geonames data and adds it to the database.
func (db *PostalDB) Load(data []byte, opts ...PostalOption) error {
	var o postalOptions
	for _, fn := range opts {
		fn(&o)
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if len(text) == 0 {
			continue
		}
		parts := strings.Split(text, "\t")
		if len(parts) != 12 {
			return fmt.Errorf("line %v: wrong number of fields: (%v != 12) %v", line, len(parts), text)
		}
		if o.countries != nil && !o.countries[parts[0]] {
			continue
		}
		latStr, longStr := parts[9], parts[10]
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return fmt.Errorf("line %v: invalid latitude: %v: %w", line, latStr, err)
		}
		long, err := strconv.ParseFloat(longStr, 64)
		if err != nil {
			return fmt.Errorf("line %v: invalid longitude: %v: %w", line, longStr, err)
		}
		db.lookup[parts[4]+" "+parts[1]] = Coordinates{Latitude: lat, Longitude: long}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}
	return nil
}

// LoadFile is like Load but reads the data from filename.
func (db *PostalDB) LoadFile(ctx context.Context, filename string, opts ...PostalOption) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	before := db.Len()
	if err := db.Load(data, opts...); err != nil {
		return fmt.Errorf("%v: %w", filename, err)
	}
	ctxlog.Logger(ctx).Debug("loaded postal codes", "file", filename, "entries", db.Len()-before)
	return nil
}
