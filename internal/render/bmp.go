package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"

	"sandpile/internal/ctxlog"
	"sandpile/internal/run"
	"sandpile/internal/sandpile"
)

// EncodeBMP writes the grid's raster as a 24-bit bitmap.
func EncodeBMP(w io.Writer, g *sandpile.Grid) error {
	return bmp.Encode(w, Raster(g))
}

// BMPWriter stores snapshots as iter<N>.bmp files and the final generation
// as final.bmp inside Dir.
type BMPWriter struct {
	Dir string
}

// NewBMPWriter creates dir if needed.
func NewBMPWriter(dir string) (*BMPWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &BMPWriter{Dir: dir}, nil
}

// FileName returns the file name used for a frame.
func FileName(f run.Frame) string {
	if f.Final {
		return "final.bmp"
	}
	return fmt.Sprintf("iter%d.bmp", f.Generation)
}

// Snapshot implements run.Sink.
func (w *BMPWriter) Snapshot(ctx context.Context, f run.Frame) error {
	path := filepath.Join(w.Dir, FileName(f))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create bitmap: %w", err)
	}
	if err := EncodeBMP(file, f.Grid); err != nil {
		file.Close()
		return fmt.Errorf("encode bitmap %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close bitmap %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("Wrote bitmap.", "path", path, "width", f.Grid.Width(), "height", f.Grid.Height())
	return nil
}
