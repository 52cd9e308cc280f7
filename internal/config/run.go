package config

import (
	"errors"
	"fmt"
)

// Pile is a grain batch declared in a run file.
type Pile struct {
	X, Y   int
	Grains uint64
}

// Run is the fully resolved configuration of one simulation run.
type Run struct {
	Input  string
	Output string

	MaxIter uint64
	Freq    uint64
	Workers int

	// Length (columns) and Width (rows) size the viewport used by the
	// interactive viewers.
	Length int
	Width  int

	Movie string
	Chart string

	Piles []Pile

	LogFormat string
	LogLevel  string
}

// Default returns the settings used when neither flags nor a run file say
// otherwise.
func Default() Run {
	return Run{
		MaxIter:   100000,
		Workers:   1,
		Length:    200,
		Width:     200,
		LogFormat: "text",
		LogLevel:  "info",
	}
}

// Apply overlays every value present in f onto r. Piles are appended.
func (r *Run) Apply(f *File) {
	if f == nil {
		return
	}
	if f.Input != nil {
		r.Input = *f.Input
	}
	if f.Output != nil {
		r.Output = *f.Output
	}
	if f.MaxIter != nil {
		r.MaxIter = *f.MaxIter
	}
	if f.Freq != nil {
		r.Freq = *f.Freq
	}
	if f.Workers != nil {
		r.Workers = *f.Workers
	}
	if f.Movie != nil {
		r.Movie = *f.Movie
	}
	if f.Chart != nil {
		r.Chart = *f.Chart
	}
	if v := f.Viewport; v != nil {
		if v.Length != nil {
			r.Length = *v.Length
		}
		if v.Width != nil {
			r.Width = *v.Width
		}
	}
	for _, p := range f.Piles {
		r.Piles = append(r.Piles, Pile{X: p.X, Y: p.Y, Grains: p.Grains})
	}
}

// Validate reports settings that make the run impossible.
func (r Run) Validate() error {
	var errs []error
	if r.Input == "" && len(r.Piles) == 0 {
		errs = append(errs, errors.New("no initial configuration: set an input file or declare pile blocks"))
	}
	if r.Output == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if r.Length <= 0 || r.Width <= 0 {
		errs = append(errs, fmt.Errorf("viewport must be positive, got %dx%d", r.Length, r.Width))
	}
	if r.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", r.Workers))
	}
	switch r.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", r.LogFormat))
	}
	switch r.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", r.LogLevel))
	}
	return errors.Join(errs...)
}
