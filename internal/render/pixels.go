package render

import (
	"image/color"

	"sandpile/internal/sandpile"
)

// Palette maps clamped grain levels to colours: 0 white, 1 green, 2 purple,
// 3 yellow and 4 (any unstable count) black.
var Palette = []color.RGBA{
	{R: 255, G: 255, B: 255, A: 255},
	{R: 0, G: 255, B: 0, A: 255},
	{R: 128, G: 0, B: 128, A: 255},
	{R: 255, G: 255, B: 0, A: 255},
	{R: 0, G: 0, B: 0, A: 255},
}

// Level clamps a grain count to a palette index.
func Level(grains uint64) uint8 {
	if grains >= sandpile.Threshold {
		return sandpile.Threshold
	}
	return uint8(grains)
}

// ColorFor returns the palette colour for a grain count.
func ColorFor(grains uint64) color.RGBA {
	return Palette[Level(grains)]
}

// Levels fills dst with the clamped grain level of every cell inside the
// window b, row-major with row 0 at b.MaxY and column 0 at b.MinX. dst must
// hold b.Width()*b.Height() entries.
func Levels(g *sandpile.Grid, b sandpile.Bounds, dst []uint8) {
	clear(dst)
	w := b.Width()
	if b.Width()*b.Height() > g.Len() {
		for c, n := range g.All() {
			if !b.Contains(c.X, c.Y) {
				continue
			}
			dst[(b.MaxY-c.Y)*w+(c.X-b.MinX)] = Level(n)
		}
		return
	}
	for row := 0; row < b.Height(); row++ {
		y := b.MaxY - row
		for col := 0; col < w; col++ {
			dst[row*w+col] = Level(g.Grains(b.MinX+col, y))
		}
	}
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:len(cells)*4])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
