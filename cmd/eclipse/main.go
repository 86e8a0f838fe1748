// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Command eclipse computes the local circumstances of solar eclipses.
package main

import (
	"context"

	"cloudeng.io/cmdutil"
	"cloudeng.io/cmdutil/subcmd"
	"cloudeng.io/eclipse/contacts"
	"cloudeng.io/eclipse/ephemeris"
	"cloudeng.io/logging/ctxlog"
)

const commands = `name: eclipse
summary: compute the local circumstances of solar eclipses
commands:
  - name: contacts
    summary: compute the contacts of an eclipse for a single location
  - name: batch
    summary: compute the contacts of an eclipse for every configured location
    arguments:
      - <locations.yaml>
  - name: fraction
    summary: compute the obscuration of the Sun for the given apparent geometry, in degrees
    arguments:
      - <separation>
      - <moon-radius>
      - <sun-radius>
  - name: ranges
    summary: list the ranges of years supported by the ephemeris
`

var cmdSet = subcmd.MustFromYAML(commands)

// CommonFlags are shared by all commands that compute circumstances.
type CommonFlags struct {
	cmdutil.LoggingFlags
	Datasets    string  `subcmd:"datasets,,'YAML file specifying the ranges of years supported by the ephemeris'"`
	Midpoint    string  `subcmd:"midpoint,index,'strategy used to choose the instant of maximum eclipse: index or separation'"`
	Concurrency int     `subcmd:"concurrency,0,'number of goroutines used to compute each pass, 0 for one per CPU'"`
	NearPath    float64 `subcmd:"near-path,0.9,'obscuration at or above which a partial eclipse is reported as near the path'"`
	Format      string  `subcmd:"format,text,'output format: text or yaml'"`
}

func init() {
	cmdSet.Set("contacts").MustRunnerAndFlags(contactsCmd,
		subcmd.MustRegisteredFlagSet(&contactsFlags{}))
	cmdSet.Set("batch").MustRunnerAndFlags(batchCmd,
		subcmd.MustRegisteredFlagSet(&batchFlags{}))
	cmdSet.Set("fraction").MustRunnerAndFlags(fractionCmd,
		subcmd.MustRegisteredFlagSet(&fractionFlags{}))
	cmdSet.Set("ranges").MustRunnerAndFlags(rangesCmd,
		subcmd.MustRegisteredFlagSet(&rangesFlags{}))
}

func main() {
	subcmd.Dispatch(context.Background(), cmdSet)
}

// setup configures logging and returns a context carrying the logger
// along with a function to close any log file.
func (cf CommonFlags) setup(ctx context.Context) (context.Context, func(), error) {
	logger, err := cf.LoggingConfig().NewLogger()
	if err != nil {
		return ctx, nil, err
	}
	return ctxlog.Context(ctx, logger.Logger), func() { _ = logger.Close() }, nil
}

func loadDatasets(ctx context.Context, filename string) (ephemeris.Datasets, error) {
	if len(filename) == 0 {
		return ephemeris.DefaultDatasets, nil
	}
	return ephemeris.ParseDatasetsFile(ctx, filename)
}

// engine returns a contacts.Engine configured from the common flags.
func (cf CommonFlags) engine(ctx context.Context) (*contacts.Engine, error) {
	ds, err := loadDatasets(ctx, cf.Datasets)
	if err != nil {
		return nil, err
	}
	mid, err := contacts.ParseMidpointStrategy(cf.Midpoint)
	if err != nil {
		return nil, err
	}
	opts := []contacts.Option{contacts.WithMidpoint(mid)}
	if cf.Concurrency > 0 {
		opts = append(opts, contacts.WithConcurrency(cf.Concurrency))
	}
	return contacts.NewEngine(ephemeris.New(ephemeris.WithDatasets(ds)), opts...), nil
}
