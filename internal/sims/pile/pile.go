// Package pile adapts a sandpile grid to the core.Sim contract used by the
// interactive viewers.
package pile

import (
	"fmt"
	"image/color"
	"strconv"

	"sandpile/internal/core"
	"sandpile/internal/render"
	"sandpile/internal/sandpile"
	pcore "sandpile/pkg/core"
)

// Seeder builds the initial grid for a reset with the given seed.
type Seeder func(seed int64) *sandpile.Grid

// Pile shows a fixed window of an unbounded sandpile centred on the origin.
type Pile struct {
	name   string
	cfg    Config
	seeder Seeder
	engine sandpile.Engine

	grid   *sandpile.Grid
	gen    uint64
	stable bool

	window sandpile.Bounds
	view   *core.ByteGrid
	dirty  bool
}

// New creates a pile that seeds itself through seeder on every Reset.
func New(name string, cfg Config, seeder Seeder) *Pile {
	view := core.NewByteGrid(cfg.Width, cfg.Height)
	minX := -view.W / 2
	minY := -view.H / 2
	p := &Pile{
		name:   name,
		cfg:    cfg,
		seeder: seeder,
		engine: sandpile.Engine{Workers: cfg.Workers},
		view:   view,
		window: sandpile.Bounds{
			MinX: minX, MaxX: minX + view.W - 1,
			MinY: minY, MaxY: minY + view.H - 1,
		},
	}
	p.Reset(cfg.Seed)
	return p
}

// FromGrid returns a pile whose Reset always restores a copy of g.
func FromGrid(name string, cfg Config, g *sandpile.Grid) *Pile {
	initial := g.Clone()
	return New(name, cfg, func(int64) *sandpile.Grid { return initial.Clone() })
}

// CentrePile seeds a single pile of grains at the origin.
func CentrePile(grains uint64) Seeder {
	return func(int64) *sandpile.Grid {
		g := sandpile.NewGrid()
		g.AddGrain(0, 0, grains)
		return g
	}
}

// RandomDrops seeds drops random piles within radius of the origin.
func RandomDrops(drops, radius int, maxGrains uint64) Seeder {
	return func(seed int64) *sandpile.Grid {
		g := sandpile.NewGrid()
		pcore.Scatter(pcore.NewRNG(seed), drops, radius, maxGrains, g.AddGrain)
		return g
	}
}

// Name returns the simulation identifier.
func (p *Pile) Name() string { return p.name }

// Size returns the viewport dimensions.
func (p *Pile) Size() core.Size { return core.Size{W: p.view.W, H: p.view.H} }

// Reset rebuilds the initial grid.
func (p *Pile) Reset(seed int64) {
	p.grid = p.seeder(seed)
	p.gen = 0
	p.stable = sandpile.IsStable(p.grid)
	p.dirty = true
}

// Step advances one generation. A stable pile no longer changes.
func (p *Pile) Step() {
	if p.stable {
		return
	}
	p.grid = p.engine.Step(p.grid)
	p.gen++
	p.stable = sandpile.IsStable(p.grid)
	p.dirty = true
}

// Cells returns the clamped grain level of every viewport cell, row 0 at
// the top of the window.
func (p *Pile) Cells() []uint8 {
	if p.dirty {
		render.Levels(p.grid, p.window, p.view.Cells())
		p.dirty = false
	}
	return p.view.Cells()
}

// Palette exposes the colours used for each level in Cells.
func (p *Pile) Palette() []color.RGBA { return render.Palette }

// Grid returns the current generation. Callers must not modify it.
func (p *Pile) Grid() *sandpile.Grid { return p.grid }

// Generation returns the number of generations computed since Reset.
func (p *Pile) Generation() uint64 { return p.gen }

// Stable reports whether the current generation is stable.
func (p *Pile) Stable() bool { return p.stable }

// Window returns the lattice area shown by Cells.
func (p *Pile) Window() sandpile.Bounds { return p.window }

// Parameters reports run statistics for the overlay.
func (p *Pile) Parameters() core.ParameterSnapshot {
	b := p.grid.Bounds()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Run",
			Params: []core.Parameter{
				{Key: "generation", Label: "Generation", Type: core.ParamTypeInt, Value: strconv.FormatUint(p.gen, 10)},
				{Key: "stable", Label: "Stable", Type: core.ParamTypeBool, Value: strconv.FormatBool(p.stable)},
			},
		},
		{
			Name: "Grid",
			Params: []core.Parameter{
				{Key: "mass", Label: "Grains", Type: core.ParamTypeInt, Value: strconv.FormatUint(p.grid.Mass(), 10)},
				{Key: "cells", Label: "Cells", Type: core.ParamTypeInt, Value: strconv.Itoa(p.grid.Len())},
				{Key: "extent", Label: "Extent", Type: core.ParamTypeText, Value: fmt.Sprintf("%dx%d", b.Width(), b.Height())},
			},
		},
	}}
}

func init() {
	core.Register("sandpile", func(cfg map[string]string) core.Sim {
		c := FromMap(cfg)
		return New("sandpile", c, CentrePile(c.Grains))
	})
	core.Register("random", func(cfg map[string]string) core.Sim {
		c := FromMap(cfg)
		return New("random", c, RandomDrops(c.Drops, c.Radius, c.MaxGrains))
	})
}
