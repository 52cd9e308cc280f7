//go:build ebiten

package ui

import (
	"image/color"

	"sandpile/internal/core"
	"sandpile/internal/sandpile"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type windowProvider interface {
	Window() sandpile.Bounds
}

// Overlay draws optional markers on top of the sandpile view.
type Overlay struct {
	sim        core.Sim
	scale      int
	showOrigin bool
	pixel      *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: scale}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles overlay layers.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showOrigin = !o.showOrigin
	}
}

// Draw paints the enabled layers.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.showOrigin {
		return
	}
	provider, ok := o.sim.(windowProvider)
	if !ok {
		return
	}
	w := provider.Window()
	if !w.Contains(0, 0) {
		return
	}
	scale := float64(max(o.scale, 1))
	cx := (float64(-w.MinX) + 0.5) * scale
	cy := (float64(w.MaxY) + 0.5) * scale
	width := float64(w.Width()) * scale
	height := float64(w.Height()) * scale
	tint := color.RGBA{R: 255, G: 40, B: 40, A: 160}
	o.drawRect(screen, 0, cy-0.5, width, 1, tint)
	o.drawRect(screen, cx-0.5, 0, 1, height, tint)
}

func (o *Overlay) drawRect(screen *ebiten.Image, x, y, w, h float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
