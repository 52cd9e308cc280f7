package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"sandpile/internal/run"
	"sandpile/internal/sandpile"
)

// maxChartSamples bounds memory on long runs; past it the sampling stride
// doubles and every other sample is dropped.
const maxChartSamples = 4096

// Chart records per-generation statistics and renders them as a PNG line
// chart when the final snapshot arrives.
type Chart struct {
	Path   string
	Width  int
	Height int

	stride  uint64
	samples []run.Sample
}

// NewChart returns a chart that will be written to path.
func NewChart(path string) *Chart {
	return &Chart{Path: path, Width: 1024, Height: 400, stride: 1}
}

// Observe implements run.Observer.
func (c *Chart) Observe(s run.Sample) {
	if c.stride == 0 {
		c.stride = 1
	}
	if s.Generation%c.stride != 0 {
		return
	}
	c.samples = append(c.samples, s)
	if len(c.samples) > maxChartSamples {
		kept := c.samples[:0]
		for i, x := range c.samples {
			if i%2 == 0 {
				kept = append(kept, x)
			}
		}
		c.samples = kept
		c.stride *= 2
	}
}

// Samples returns the retained samples.
func (c *Chart) Samples() []run.Sample { return c.samples }

// Snapshot implements run.Sink. Only the final frame triggers output.
func (c *Chart) Snapshot(_ context.Context, f run.Frame) error {
	if !f.Final {
		return nil
	}
	if n := len(c.samples); n == 0 || c.samples[n-1].Generation != f.Generation {
		c.samples = append(c.samples, run.Sample{
			Generation: f.Generation,
			Mass:       f.Grid.Mass(),
			Cells:      f.Grid.Len(),
			Unstable:   sandpile.Unstable(f.Grid),
			Bounds:     f.Grid.Bounds(),
		})
	}
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(c.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

// Render draws the recorded series as PNG.
func (c *Chart) Render(w io.Writer) error {
	n := len(c.samples)
	xs := make([]float64, n)
	cells := make([]float64, n)
	unstable := make([]float64, n)
	yMax := 1.0
	for i, s := range c.samples {
		xs[i] = float64(s.Generation)
		cells[i] = float64(s.Cells)
		unstable[i] = float64(s.Unstable)
		yMax = max(yMax, cells[i], unstable[i])
	}
	xMax := 1.0
	if n > 0 {
		xMax = max(xMax, xs[n-1])
	}

	graph := chart.Chart{
		Width:  c.Width,
		Height: c.Height,
		XAxis: chart.XAxis{
			Name:  "generation",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "cells",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Recorded cells",
				XValues: xs,
				YValues: cells,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2.0,
				},
			},
			chart.ContinuousSeries{
				Name:    "Unstable cells",
				XValues: xs,
				YValues: unstable,
				Style: chart.Style{
					StrokeColor: drawing.Color{R: 128, G: 0, B: 128, A: 255},
					StrokeWidth: 2.0,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
