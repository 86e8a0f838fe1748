// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"cloudeng.io/eclipse/contacts"
	"cloudeng.io/eclipse/locations"
	"cloudeng.io/errors"
	"cloudeng.io/logging/ctxlog"
	"cloudeng.io/sync/errgroup"
)

type batchFlags struct {
	CommonFlags
	Date      string `subcmd:"date,,'date of the eclipse as YYYY-MM-DD'"`
	Postal    string `subcmd:"postal,,'geonames postal code file used to resolve locations specified by postal code'"`
	Countries string `subcmd:"countries,,'comma separated list of country codes to load from the postal code file'"`
	Workers   int    `subcmd:"workers,0,'number of locations computed concurrently, 0 for one per CPU'"`
}

func batchCmd(ctx context.Context, values any, args []string) error {
	fl := values.(*batchFlags)
	ctx, closer, err := fl.setup(ctx)
	if err != nil {
		return err
	}
	defer closer()
	if len(fl.Date) == 0 {
		return errors.New("--date must be specified")
	}
	nominal, err := parseDate(fl.Date)
	if err != nil {
		return err
	}
	locs, err := locations.ParseFile(ctx, args[0])
	if err != nil {
		return err
	}
	if locs.NeedsLookup() {
		if err := resolve(ctx, locs, fl.Postal, fl.Countries); err != nil {
			return err
		}
	}
	engine, err := fl.engine(ctx)
	if err != nil {
		return err
	}
	workers := fl.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	reports, err := batch(ctx, engine, locs, nominal, workers, fl.NearPath)
	if werr := writeReports(os.Stdout, fl.Format, reports...); werr != nil {
		return werr
	}
	return err
}

func resolve(ctx context.Context, locs locations.Locations, filename, countries string) error {
	if len(filename) == 0 {
		return errors.New("--postal must be specified for locations given by postal code")
	}
	db := locations.NewPostalDB()
	var opts []locations.PostalOption
	if len(countries) > 0 {
		opts = append(opts, locations.WithCountries(splitList(countries)...))
	}
	if err := db.LoadFile(ctx, filename, opts...); err != nil {
		return err
	}
	return locs.Resolve(db)
}

// batch computes the circumstances for every location, at most workers at
// a time, and returns reports in the order of the locations. Failures for
// individual locations are returned together and do not prevent the other
// locations from being reported.
func batch(ctx context.Context, engine *contacts.Engine, locs locations.Locations, nominal time.Time, workers int, nearPath float64) ([]report, error) {
	results := make([]contacts.ContactSet, len(locs))
	failed := make([]bool, len(locs))
	g := errgroup.WithConcurrency(&errgroup.T{}, workers)
	for i, loc := range locs {
		g.Go(func() error {
			lctx := ctxlog.ContextWith(ctx, "location", loc.Name)
			cs, err := engine.Circumstances(lctx, loc.Observer(), nominal)
			if err != nil {
				failed[i] = true
				return fmt.Errorf("%v: %w", loc.Name, err)
			}
			results[i] = cs
			return nil
		})
	}
	err := g.Wait()
	reports := make([]report, 0, len(locs))
	for i, loc := range locs {
		if !failed[i] {
			reports = append(reports, newReport(loc, results[i], nearPath))
		}
	}
	return reports, err
}
