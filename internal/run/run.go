// Package run drives a sandpile from its seeded state towards stability,
// handing periodic snapshots to sinks.
package run

import (
	"context"
	"fmt"
	"time"

	"sandpile/internal/ctxlog"
	"sandpile/internal/sandpile"
)

// Frame is a read-only view of one generation handed to a sink.
type Frame struct {
	Generation uint64
	Final      bool
	Grid       *sandpile.Grid
}

// Sink consumes snapshots. Sinks must not modify the grid.
type Sink interface {
	Snapshot(ctx context.Context, f Frame) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, f Frame) error

// Snapshot calls fn.
func (fn SinkFunc) Snapshot(ctx context.Context, f Frame) error { return fn(ctx, f) }

// Multi fans a snapshot out to several sinks in order, stopping at the first
// failure.
type Multi []Sink

// Snapshot implements Sink.
func (m Multi) Snapshot(ctx context.Context, f Frame) error {
	for _, s := range m {
		if err := s.Snapshot(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

// Sample summarises one generation.
type Sample struct {
	Generation uint64
	Mass       uint64
	Cells      int
	Unstable   int
	Bounds     sandpile.Bounds
}

// Observer receives a Sample for the seeded grid and for every generation
// after it.
type Observer interface {
	Observe(s Sample)
}

// Config controls the driving loop.
type Config struct {
	// MaxIter caps the number of generations.
	MaxIter uint64
	// Freq requests a snapshot every Freq generations. Zero disables
	// periodic snapshots; the final snapshot is always taken.
	Freq uint64
	// Workers is passed to the sandpile engine.
	Workers int

	Observer Observer
}

// Result describes how a run ended.
type Result struct {
	Grid        *sandpile.Grid
	Generations uint64
	Stable      bool
	Elapsed     time.Duration
}

// Run advances g until it is stable or cfg.MaxIter generations have been
// computed, then takes a final snapshot. The context is checked between
// generations only.
func Run(ctx context.Context, cfg Config, g *sandpile.Grid, sink Sink) (Result, error) {
	logger := ctxlog.FromContext(ctx)
	engine := sandpile.Engine{Workers: cfg.Workers}
	if sink == nil {
		sink = Multi(nil)
	}

	logger.Info("Starting sandpile run.",
		"cells", g.Len(),
		"max_iter", cfg.MaxIter,
		"freq", cfg.Freq,
		"workers", cfg.Workers,
	)
	start := time.Now()

	observe(cfg.Observer, 0, g)

	var iter uint64
	stable := false
	for iter < cfg.MaxIter && !stable {
		if err := ctx.Err(); err != nil {
			return Result{Grid: g, Generations: iter, Elapsed: time.Since(start)},
				fmt.Errorf("run interrupted at generation %d: %w", iter, err)
		}
		if cfg.Freq > 0 && iter%cfg.Freq == 0 {
			logger.Debug("Taking snapshot.", "generation", iter)
			if err := sink.Snapshot(ctx, Frame{Generation: iter, Grid: g}); err != nil {
				return Result{Grid: g, Generations: iter, Elapsed: time.Since(start)},
					fmt.Errorf("snapshot at generation %d: %w", iter, err)
			}
		}

		g = engine.Step(g)
		stable = sandpile.IsStable(g)
		iter++
		observe(cfg.Observer, iter, g)
	}

	if iter == 0 {
		stable = sandpile.IsStable(g)
	}
	res := Result{Grid: g, Generations: iter, Stable: stable}
	if err := sink.Snapshot(ctx, Frame{Generation: iter, Final: true, Grid: g}); err != nil {
		res.Elapsed = time.Since(start)
		return res, fmt.Errorf("final snapshot: %w", err)
	}
	res.Elapsed = time.Since(start)

	b := g.Bounds()
	logger.Info("Sandpile run finished.",
		"generations", res.Generations,
		"stable", res.Stable,
		"mass", g.Mass(),
		"cells", g.Len(),
		"bounds", fmt.Sprintf("[%d,%d]x[%d,%d]", b.MinX, b.MaxX, b.MinY, b.MaxY),
		"elapsed", res.Elapsed.Round(time.Millisecond),
	)
	return res, nil
}

func observe(o Observer, gen uint64, g *sandpile.Grid) {
	if o == nil {
		return
	}
	o.Observe(Sample{
		Generation: gen,
		Mass:       g.Mass(),
		Cells:      g.Len(),
		Unstable:   sandpile.Unstable(g),
		Bounds:     g.Bounds(),
	})
}
