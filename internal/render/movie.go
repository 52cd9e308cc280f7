package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"github.com/icza/mjpeg"
	"golang.org/x/image/draw"

	"sandpile/internal/run"
)

// Movie appends every snapshot as a frame of an MJPEG AVI file. Grids are
// scaled with nearest-neighbour sampling to fit the frame and centred on a
// white background.
type Movie struct {
	aw      mjpeg.AviWriter
	frame   *image.RGBA
	buf     bytes.Buffer
	quality int
	frames  int
}

// NewMovie opens an AVI writer of the given frame size.
func NewMovie(path string, width, height, fps int) (*Movie, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid movie size %dx%d", width, height)
	}
	if fps <= 0 {
		fps = 10
	}
	aw, err := mjpeg.New(path, int32(width), int32(height), int32(fps))
	if err != nil {
		return nil, fmt.Errorf("create movie %s: %w", path, err)
	}
	return &Movie{
		aw:      aw,
		frame:   image.NewRGBA(image.Rect(0, 0, width, height)),
		quality: 90,
	}, nil
}

// Snapshot implements run.Sink.
func (m *Movie) Snapshot(_ context.Context, f run.Frame) error {
	src := Raster(f.Grid)
	draw.Draw(m.frame, m.frame.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.NearestNeighbor.Scale(m.frame, fit(src.Bounds(), m.frame.Bounds()), src, src.Bounds(), draw.Src, nil)

	m.buf.Reset()
	if err := jpeg.Encode(&m.buf, m.frame, &jpeg.Options{Quality: m.quality}); err != nil {
		return fmt.Errorf("encode movie frame: %w", err)
	}
	if err := m.aw.AddFrame(m.buf.Bytes()); err != nil {
		return fmt.Errorf("add movie frame: %w", err)
	}
	m.frames++
	return nil
}

// Frames returns the number of frames written so far.
func (m *Movie) Frames() int { return m.frames }

// Close finalises the AVI index.
func (m *Movie) Close() error { return m.aw.Close() }

// fit returns the largest rectangle with src's aspect ratio centred in dst.
func fit(src, dst image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	dw, dh := dst.Dx(), dst.Dy()
	w, h := dw, dh
	if sw*dh > sh*dw {
		h = sh * dw / sw
	} else {
		w = sw * dh / sh
	}
	w, h = max(w, 1), max(h, 1)
	x0 := dst.Min.X + (dw-w)/2
	y0 := dst.Min.Y + (dh-h)/2
	return image.Rect(x0, y0, x0+w, y0+h)
}
