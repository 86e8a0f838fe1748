// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package ephemeris

import (
	"context"
	"fmt"

	"cloudeng.io/cmdutil/cmdyaml"
	"cloudeng.io/errors"
)

// ErrOutOfRange is returned for instants that are not covered by any
// configured Dataset.
var ErrOutOfRange = errors.New("outside of the supported range of years")

// Dataset is a named, inclusive, range of years together with the ΔT
// model used for instants within it.
type Dataset struct {
	Name   string      `yaml:"name"`
	From   int         `yaml:"from"`
	To     int         `yaml:"to"`
	DeltaT DeltaTModel `yaml:"delta_t"`
}

func (d Dataset) String() string {
	return fmt.Sprintf("%v: %v..%v (%v)", d.Name, d.From, d.To, d.DeltaT)
}

// Contains returns true if year is within the range of the dataset.
func (d Dataset) Contains(year int) bool {
	return year >= d.From && year <= d.To
}

// Datasets is an ordered list of Dataset. Earlier entries take precedence
// over later ones when their ranges overlap.
type Datasets []Dataset

// DefaultDatasets are the ranges supported by default. Years use
// astronomical numbering, so -1999 is 2000 BCE.
var DefaultDatasets = Datasets{
	{Name: "observed", From: observedFirst, To: int(observedLast()), DeltaT: Observed},
	{Name: "telescopic", From: int(table10AFirst), To: int(table10ALast), DeltaT: Table10A},
	{Name: "medieval", From: 948, To: int(table10AFirst) - 1, DeltaT: Poly948to1600},
	{Name: "ancient", From: -1999, To: 947, DeltaT: PolyBefore948},
	{Name: "predicted", From: int(observedLast()) + 1, To: 3000, DeltaT: Extrapolated},
}

// SelectDataset returns the first dataset in DefaultDatasets that contains
// year.
func SelectDataset(year int) (Dataset, error) {
	return DefaultDatasets.Select(year)
}

// Select returns the first dataset that contains year.
func (ds Datasets) Select(year int) (Dataset, error) {
	for _, d := range ds {
		if d.Contains(year) {
			return d, nil
		}
	}
	return Dataset{}, fmt.Errorf("year %v: %w", year, ErrOutOfRange)
}

// Validate checks that every dataset has a name, a non-empty range
// and a known ΔT model.
func (ds Datasets) Validate() error {
	errs := &errors.M{}
	for i, d := range ds {
		if len(d.Name) == 0 {
			errs.Append(fmt.Errorf("dataset %v: missing name", i))
		}
		if d.To < d.From {
			errs.Append(fmt.Errorf("dataset %v: %v is after %v", d.Name, d.From, d.To))
		}
		if err := d.DeltaT.validate(); err != nil {
			errs.Append(fmt.Errorf("dataset %v: %w", d.Name, err))
		}
	}
	return errs.Err()
}

type datasetsConfig struct {
	Datasets Datasets `yaml:"datasets"`
}

// ParseDatasets parses a YAML specification of the form:
//
//	datasets:
//	  - name: observed
//	    from: 1998
//	    to: 2025
//	    delta_t: observed
//
// Unknown fields are rejected.
func ParseDatasets(spec []byte) (Datasets, error) {
	var cfg datasetsConfig
	if err := cmdyaml.ParseConfigStrict(spec, &cfg); err != nil {
		return nil, err
	}
	return cfg.Datasets, cfg.Datasets.Validate()
}

// ParseDatasetsFile is like ParseDatasets but reads the specification
// from filename.
func ParseDatasetsFile(ctx context.Context, filename string) (Datasets, error) {
	var cfg datasetsConfig
	if err := cmdyaml.ParseConfigFileStrict(ctx, filename, &cfg); err != nil {
		return nil, err
	}
	return cfg.Datasets, cfg.Datasets.Validate()
}
