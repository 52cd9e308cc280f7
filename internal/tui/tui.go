// Package tui shows a sandpile viewport in a terminal using tcell.
package tui

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"sandpile/internal/core"
	"sandpile/internal/render"
)

type stabilityReporter interface {
	Stable() bool
	Generation() uint64
}

// Viewer draws one terminal cell per lattice cell, coloured with the
// sandpile palette, plus a status line at the bottom.
type Viewer struct {
	screen tcell.Screen
	sim    core.Sim
	pacer  *core.FixedStep
	styles []tcell.Style

	stepsPerTick int
	paused       bool
	seed         int64
}

// New creates a viewer for sim on an initialised screen.
func New(screen tcell.Screen, sim core.Sim, tps, stepsPerTick int, seed int64) *Viewer {
	if stepsPerTick <= 0 {
		stepsPerTick = 1
	}
	styles := make([]tcell.Style, len(render.Palette))
	for i, c := range render.Palette {
		styles[i] = tcell.StyleDefault.Background(toTcell(c)).Foreground(toTcell(c))
	}
	return &Viewer{
		screen:       screen,
		sim:          sim,
		pacer:        core.NewFixedStep(tps),
		styles:       styles,
		stepsPerTick: stepsPerTick,
		seed:         seed,
	}
}

func toTcell(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Run processes input and advances the simulation until the user quits or
// ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(v.pacer.Interval())
	defer ticker.Stop()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if v.HandleEvent(ev) {
				return nil
			}
			v.Draw()
		case <-ticker.C:
			if v.pacer.ShouldStep() && !v.paused {
				v.advance()
				v.Draw()
			}
		}
	}
}

func (v *Viewer) advance() {
	for i := 0; i < v.stepsPerTick; i++ {
		v.sim.Step()
	}
}

// HandleEvent applies an input event and reports whether the viewer should
// exit.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return false
}

func (v *Viewer) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
	default:
		return false
	}
	switch r {
	case 'q':
		return true
	case ' ':
		v.paused = !v.paused
	case 'n':
		v.sim.Step()
	case 'r':
		v.sim.Reset(v.seed)
	case 's':
		v.seed = time.Now().UnixNano()
		v.sim.Reset(v.seed)
	}
	return false
}

// Draw paints the viewport and the status line.
func (v *Viewer) Draw() {
	v.screen.Clear()
	sw, sh := v.screen.Size()
	size := v.sim.Size()
	cells := v.sim.Cells()

	rows := min(size.H, sh-1)
	cols := min(size.W, sw)
	last := len(v.styles) - 1
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			level := min(int(cells[y*size.W+x]), last)
			v.screen.SetContent(x, y, ' ', nil, v.styles[level])
		}
	}
	if sh > 0 {
		drawText(v.screen, 0, sh-1, v.status(), tcell.StyleDefault)
	}
	v.screen.Show()
}

func (v *Viewer) status() string {
	var b strings.Builder
	b.WriteString(v.sim.Name())
	if r, ok := v.sim.(stabilityReporter); ok {
		fmt.Fprintf(&b, "  gen %d", r.Generation())
		if r.Stable() {
			b.WriteString("  stable")
		}
	}
	if v.paused {
		b.WriteString("  paused")
	}
	b.WriteString("  [space] pause [n] step [r] reset [q] quit")
	return b.String()
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}
