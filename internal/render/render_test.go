package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"sandpile/internal/run"
	"sandpile/internal/sandpile"
)

func toppledOnce() *sandpile.Grid {
	g := sandpile.NewGrid()
	g.AddGrain(0, 0, 4)
	return sandpile.Topple(g)
}

func TestColorContract(t *testing.T) {
	cases := []struct {
		grains uint64
		want   color.RGBA
	}{
		{0, color.RGBA{255, 255, 255, 255}},
		{1, color.RGBA{0, 255, 0, 255}},
		{2, color.RGBA{128, 0, 128, 255}},
		{3, color.RGBA{255, 255, 0, 255}},
		{4, color.RGBA{0, 0, 0, 255}},
		{1 << 40, color.RGBA{0, 0, 0, 255}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ColorFor(tc.grains), "grains %d", tc.grains)
	}
}

func TestRasterOrientation(t *testing.T) {
	g := sandpile.NewGrid()
	g.AddGrain(-1, 1, 1) // top left
	g.AddGrain(1, 1, 2)  // top right
	g.AddGrain(-1, -1, 3)
	g.AddGrain(1, -1, 9)

	img := Raster(g)
	require.Equal(t, image.Rect(0, 0, 3, 3), img.Bounds())

	assert.Equal(t, Palette[1], img.RGBAAt(0, 0))
	assert.Equal(t, Palette[2], img.RGBAAt(2, 0))
	assert.Equal(t, Palette[3], img.RGBAAt(0, 2))
	assert.Equal(t, Palette[4], img.RGBAAt(2, 2))
	assert.Equal(t, Palette[0], img.RGBAAt(1, 1))
}

func TestLevelsWindowClipsAndScansBothWays(t *testing.T) {
	g := toppledOnce()

	// window larger than the recorded cell count
	wide := sandpile.Bounds{MinX: -2, MaxX: 2, MinY: -2, MaxY: 2}
	dst := make([]uint8, 25)
	Levels(g, wide, dst)
	assert.Equal(t, uint8(1), dst[1*5+2]) // (0,1)
	assert.Equal(t, uint8(0), dst[2*5+2]) // (0,0)
	assert.Equal(t, uint8(1), dst[2*5+3]) // (1,0)

	// window smaller than the recorded cell count
	narrow := sandpile.Bounds{MinX: 0, MaxX: 1, MinY: 0, MaxY: 0}
	dst = []uint8{9, 9}
	Levels(g, narrow, dst)
	assert.Equal(t, []uint8{0, 1}, dst)
}

func TestEncodeBMPDecodes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeBMP(&buf, toppledOnce()))

	img, err := bmp.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, 3, img.Bounds().Dx())
	require.Equal(t, 3, img.Bounds().Dy())

	at := func(x, y int) color.RGBA {
		r, g, b, a := img.At(x, y).RGBA()
		return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
	}
	assert.Equal(t, Palette[0], at(0, 0))
	assert.Equal(t, Palette[1], at(1, 0))
	assert.Equal(t, Palette[0], at(1, 1))
}

func TestBMPWriterNames(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w, err := NewBMPWriter(dir)
	require.NoError(t, err)

	g := toppledOnce()
	ctx := context.Background()
	require.NoError(t, w.Snapshot(ctx, run.Frame{Generation: 12, Grid: g}))
	require.NoError(t, w.Snapshot(ctx, run.Frame{Generation: 13, Final: true, Grid: g}))

	assert.FileExists(t, filepath.Join(dir, "iter12.bmp"))
	assert.FileExists(t, filepath.Join(dir, "final.bmp"))
}

func TestRunWritesExpectedFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewBMPWriter(dir)
	require.NoError(t, err)

	g := sandpile.NewGrid()
	g.AddGrain(0, 0, 1<<8)
	_, err = run.Run(context.Background(), run.Config{MaxIter: 5, Freq: 2}, g, w)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"iter0.bmp", "iter2.bmp", "iter4.bmp", "final.bmp"}, names)
}

func TestFit(t *testing.T) {
	dst := image.Rect(0, 0, 100, 50)
	assert.Equal(t, image.Rect(25, 0, 75, 50), fit(image.Rect(0, 0, 3, 3), dst))
	assert.Equal(t, image.Rect(0, 15, 100, 35), fit(image.Rect(0, 0, 10, 2), dst))
	assert.Equal(t, image.Rect(49, 0, 50, 50), fit(image.Rect(0, 0, 1, 1000), dst))
}

func TestMovieWritesFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pile.avi")
	m, err := NewMovie(path, 64, 48, 5)
	require.NoError(t, err)

	g := sandpile.NewGrid()
	g.AddGrain(0, 0, 64)
	ctx := context.Background()
	for i := uint64(0); i < 3; i++ {
		require.NoError(t, m.Snapshot(ctx, run.Frame{Generation: i, Grid: g}))
		g = sandpile.Topple(g)
	}
	require.NoError(t, m.Close())

	assert.Equal(t, 3, m.Frames())
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = NewMovie(path, 0, 10, 5)
	assert.Error(t, err)
}

func TestChartDecimatesAndRenders(t *testing.T) {
	c := NewChart(filepath.Join(t.TempDir(), "chart.png"))
	for gen := uint64(0); gen <= 3*maxChartSamples; gen++ {
		c.Observe(run.Sample{Generation: gen, Cells: int(gen % 50), Unstable: int(gen % 7)})
	}
	require.LessOrEqual(t, len(c.Samples()), maxChartSamples)
	for _, s := range c.Samples() {
		require.Zero(t, s.Generation%c.stride)
	}

	g := toppledOnce()
	require.NoError(t, c.Snapshot(context.Background(), run.Frame{Generation: 3*maxChartSamples + 1, Final: true, Grid: g}))

	last := c.Samples()[len(c.Samples())-1]
	assert.Equal(t, uint64(3*maxChartSamples+1), last.Generation)
	assert.Equal(t, 5, last.Cells)

	f, err := os.Open(c.Path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Width)
	assert.Equal(t, 400, cfg.Height)
}

func TestChartIgnoresPeriodicFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.png")
	c := NewChart(path)
	require.NoError(t, c.Snapshot(context.Background(), run.Frame{Generation: 0, Grid: toppledOnce()}))
	assert.NoFileExists(t, path)
}
