// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package contacts

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"cloudeng.io/eclipse/geometry"
	"cloudeng.io/errors"
	"cloudeng.io/logging/ctxlog"
	"cloudeng.io/sync/errgroup"
)

const (
	// CoarseHalfSpan is half of the width of the window searched by the
	// coarse pass, which is centered on midnight UTC of the requested date.
	CoarseHalfSpan = 2160 * time.Minute
	// CoarseStep is the sampling interval of the coarse pass.
	CoarseStep = time.Minute
	// FineBuffer is added to either end of the bracket resampled by the
	// fine pass so that contacts found exactly at the ends of the coarse
	// bracket are not clipped.
	FineBuffer = 2 * time.Minute
	// FineStep is the sampling interval of the fine pass.
	FineStep = time.Second
)

type options struct {
	concurrency    int
	midpoint       MidpointStrategy
	moonRadius     float64
	sunRadius      float64
	coarseHalfSpan time.Duration
	coarseStep     time.Duration
	fineBuffer     time.Duration
	fineStep       time.Duration
}

// Option represents an option to NewEngine.
type Option func(o *options)

// WithConcurrency sets the number of goroutines used to evaluate the
// samples for a single pass. The default is runtime.GOMAXPROCS(0).
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithMidpoint sets the strategy used to choose the instant of maximum
// eclipse. The default is MidpointIndex.
func WithMidpoint(m MidpointStrategy) Option {
	return func(o *options) {
		o.midpoint = m
	}
}

// WithRadii sets the physical radii, in km, of the Moon and Sun used to
// determine their apparent radii.
func WithRadii(moon, sun float64) Option {
	return func(o *options) {
		o.moonRadius, o.sunRadius = moon, sun
	}
}

// WithCoarseWindow overrides CoarseHalfSpan and CoarseStep.
func WithCoarseWindow(halfSpan, step time.Duration) Option {
	return func(o *options) {
		o.coarseHalfSpan, o.coarseStep = halfSpan, step
	}
}

// WithFineWindow overrides FineBuffer and FineStep.
func WithFineWindow(buffer, step time.Duration) Option {
	return func(o *options) {
		o.fineBuffer, o.fineStep = buffer, step
	}
}

// Engine computes local circumstances using a PositionSource. It is safe
// for concurrent use.
type Engine struct {
	src  PositionSource
	opts options
}

// NewEngine returns a new Engine that obtains positions from src.
func NewEngine(src PositionSource, opts ...Option) *Engine {
	e := &Engine{
		src: src,
		opts: options{
			concurrency:    runtime.GOMAXPROCS(0),
			midpoint:       MidpointIndex,
			moonRadius:     geometry.MoonRadiusKm,
			sunRadius:      geometry.SunRadiusKm,
			coarseHalfSpan: CoarseHalfSpan,
			coarseStep:     CoarseStep,
			fineBuffer:     FineBuffer,
			fineStep:       FineStep,
		},
	}
	for _, fn := range opts {
		fn(&e.opts)
	}
	if e.opts.concurrency < 1 {
		e.opts.concurrency = 1
	}
	return e
}

// FindCircumstances computes the local circumstances of an eclipse. If end
// is nil it is equivalent to Circumstances, otherwise to Refine over
// nominal to *end.
func (e *Engine) FindCircumstances(ctx context.Context, obs Observer, nominal time.Time, end *time.Time) (ContactSet, error) {
	if end == nil {
		return e.Circumstances(ctx, obs, nominal)
	}
	return e.Refine(ctx, obs, nominal, *end)
}

// Circumstances searches for an eclipse visible from obs on or about
// the date of nominal. It runs the coarse pass and, if an eclipse is found,
// refines its contacts with the fine pass. A zero ContactSet and a nil
// error are returned if there is no eclipse.
func (e *Engine) Circumstances(ctx context.Context, obs Observer, nominal time.Time) (ContactSet, error) {
	coarse, err := e.Coarse(ctx, obs, nominal)
	if err != nil {
		return ContactSet{}, err
	}
	if !coarse.Eclipsed() {
		ctxlog.Logger(ctx).Info("no eclipse", "date", nominal.UTC().Format(time.DateOnly),
			"lat", obs.Latitude, "lon", obs.Longitude)
		return ContactSet{}, nil
	}
	return e.Refine(ctx, obs, coarse.C1.When, coarse.C4.When)
}

// Coarse runs the coarse pass over the window centered on midnight UTC of
// the date of nominal.
func (e *Engine) Coarse(ctx context.Context, obs Observer, nominal time.Time) (ContactSet, error) {
	y, m, d := nominal.UTC().Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	start := midnight.Add(-e.opts.coarseHalfSpan)
	n := int(2 * e.opts.coarseHalfSpan / e.opts.coarseStep)
	series, err := e.Sample(ctx, obs, start, e.opts.coarseStep, n)
	if err != nil {
		return ContactSet{}, fmt.Errorf("coarse pass: %w", err)
	}
	cs := Extract(series, e.opts.midpoint)
	logPass(ctx, "coarse pass", series, cs)
	return cs, nil
}

// Refine runs the fine pass over start to end, widened by the fine
// buffer at both ends. It never recurses.
func (e *Engine) Refine(ctx context.Context, obs Observer, start, end time.Time) (ContactSet, error) {
	if end.Before(start) {
		return ContactSet{}, fmt.Errorf("fine pass: end %v is before start %v", end, start)
	}
	from := start.Add(-e.opts.fineBuffer)
	to := end.Add(e.opts.fineBuffer)
	n := int(to.Sub(from)/e.opts.fineStep) + 1
	series, err := e.Sample(ctx, obs, from, e.opts.fineStep, n)
	if err != nil {
		return ContactSet{}, fmt.Errorf("fine pass: %w", err)
	}
	cs := Extract(series, e.opts.midpoint)
	logPass(ctx, "fine pass", series, cs)
	return cs, nil
}

func logPass(ctx context.Context, msg string, series Series, cs ContactSet) {
	logger := ctxlog.Logger(ctx)
	if len(series) == 0 {
		return
	}
	first, last := series[0].When, series[len(series)-1].When
	logger.Debug(msg, "from", first, "to", last, "samples", len(series), "eclipsed", cs.Eclipsed(), "central", cs.Central())
	if !cs.Eclipsed() {
		return
	}
	if cs.C1.When.Equal(first) || cs.C4.When.Equal(last) {
		logger.Warn("eclipse extends beyond the search window", "from", first, "to", last, "c1", cs.C1.When, "c4", cs.C4.When)
	}
}

// Sample evaluates n samples starting at start and separated by step. The
// positions are obtained in parallel and any error returned by the
// PositionSource is returned, wrapped, without retrying.
func (e *Engine) Sample(ctx context.Context, obs Observer, start time.Time, step time.Duration, n int) (Series, error) {
	if n <= 0 || step <= 0 {
		return nil, fmt.Errorf("invalid sampling: %v samples every %v", n, step)
	}
	series := make(Series, n)
	g, gctx := errgroup.WithContext(ctx)
	g = errgroup.WithConcurrency(g, e.opts.concurrency)
	chunk := (n + e.opts.concurrency - 1) / e.opts.concurrency
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			return e.sampleRange(gctx, obs, start, step, series[lo:hi], lo)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Squash(err, context.Canceled)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return series, nil
}

func (e *Engine) sampleRange(ctx context.Context, obs Observer, start time.Time, step time.Duration, out Series, offset int) error {
	for i := range out {
		if err := ctx.Err(); err != nil {
			return err
		}
		when := start.Add(time.Duration(offset+i) * step)
		pos, err := e.src.ApparentPosition(ctx, when, obs)
		if err != nil {
			return fmt.Errorf("position at %v: %w", when.Format(time.RFC3339Nano), err)
		}
		s, err := e.newSample(when, pos)
		if err != nil {
			return fmt.Errorf("sample at %v: %w", when.Format(time.RFC3339Nano), err)
		}
		out[i] = s
	}
	return nil
}

func (e *Engine) newSample(when time.Time, pos Position) (Sample, error) {
	moonR, err := geometry.ApparentRadius(e.opts.moonRadius, pos.MoonDistance)
	if err != nil {
		return Sample{}, err
	}
	sunR, err := geometry.ApparentRadius(e.opts.sunRadius, pos.SunDistance)
	if err != nil {
		return Sample{}, err
	}
	fraction, err := geometry.Obscuration(pos.Separation, moonR, sunR)
	if err != nil {
		return Sample{}, err
	}
	return Sample{
		When:         when.UTC(),
		Separation:   pos.Separation,
		MoonRadius:   moonR,
		SunRadius:    sunR,
		Ratio:        moonR / sunR,
		Obscuration:  fraction,
		MoonDistance: pos.MoonDistance,
		SunDistance:  pos.SunDistance,
		SunAltitude:  pos.SunAltitude,
		SunAzimuth:   pos.SunAzimuth,
		MoonAltitude: pos.MoonAltitude,
	}, nil
}
