package run

import (
	"context"

	"sandpile/internal/config"
	"sandpile/internal/ctxlog"
	"sandpile/internal/sandpile"
	"sandpile/internal/seed"
)

// Seed builds the initial grid from the configured input file followed by
// any declared piles.
func Seed(ctx context.Context, cfg config.Run) (*sandpile.Grid, error) {
	logger := ctxlog.FromContext(ctx)
	g := sandpile.NewGrid()
	if cfg.Input != "" {
		n, err := seed.LoadFile(cfg.Input, g)
		if err != nil {
			return nil, err
		}
		logger.Debug("Loaded seed file.", "path", cfg.Input, "records", n)
	}
	for _, p := range cfg.Piles {
		g.AddGrain(p.X, p.Y, p.Grains)
	}
	logger.Info("Seeded grid.", "cells", g.Len(), "mass", g.Mass())
	return g, nil
}
