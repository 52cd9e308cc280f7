package render

import (
	"image"

	"sandpile/internal/sandpile"
)

// Raster paints the grid's bounding box, one pixel per cell. The top image
// row is the grid's MaxY and the left column its MinX.
func Raster(g *sandpile.Grid) *image.RGBA {
	return RasterWindow(g, g.Bounds())
}

// RasterWindow paints an arbitrary window of the lattice.
func RasterWindow(g *sandpile.Grid, b sandpile.Bounds) *image.RGBA {
	w, h := b.Width(), b.Height()
	levels := make([]uint8, w*h)
	Levels(g, b, levels)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillPaletteRGBA(img.Pix, levels, Palette)
	return img
}
