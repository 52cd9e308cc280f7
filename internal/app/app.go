//go:build ebiten

package app

import (
	"image/color"
	"time"

	"sandpile/internal/core"
	"sandpile/internal/render"
	"sandpile/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const hudWidth = 200

type paletteProvider interface {
	Palette() []color.RGBA
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD

	scale         int
	stepsPerFrame int
	paused        bool
	tickOnce      bool
	seed          int64
}

// New constructs a Game for the provided simulation. stepsPerFrame
// generations are computed per tick while running.
func New(sim core.Sim, scale int, seed int64, stepsPerFrame int) *Game {
	var palette []color.RGBA
	if p, ok := sim.(paletteProvider); ok {
		palette = p.Palette()
	}
	if stepsPerFrame <= 0 {
		stepsPerFrame = 1
	}
	return &Game{
		sim:           sim,
		painter:       render.NewGridPainter(sim.Size().W, sim.Size().H, palette),
		overlay:       ui.NewOverlay(sim, scale),
		hud:           ui.NewHUD(sim, hudWidth),
		scale:         scale,
		stepsPerFrame: stepsPerFrame,
		seed:          seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}

	g.overlay.Update()

	switch {
	case g.tickOnce:
		g.sim.Step()
		g.tickOnce = false
	case !g.paused:
		for i := 0; i < g.stepsPerFrame; i++ {
			g.sim.Step()
		}
	}
	g.hud.Update()
	return nil
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.sim.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hud.Width(), s.H * g.scale
}
