package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"sandpile/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// Parse processes command-line arguments. It returns the resolved run
// configuration, a boolean indicating the program should exit cleanly, or an
// ExitError. Precedence is defaults, then the run file, then flags that were
// set explicitly.
func Parse(args []string, output io.Writer) (*config.Run, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("sandpile", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
sandpile - abelian sandpile simulator.

Usage:
  sandpile -i SEED_FILE -o OUTPUT_DIR [options]
  sandpile -config RUN_FILE [options]

Seed files hold one "x y grains" record per line.

Options:
`)
		flagSet.PrintDefaults()
	}

	var f config.Run
	def := config.Default()
	var runFile string
	var vars kvList

	flagSet.IntVar(&f.Length, "l", def.Length, "viewport length in cells (shorthand)")
	flagSet.IntVar(&f.Length, "length", def.Length, "viewport length in cells")
	flagSet.IntVar(&f.Width, "w", def.Width, "viewport width in cells (shorthand)")
	flagSet.IntVar(&f.Width, "width", def.Width, "viewport width in cells")
	flagSet.StringVar(&f.Input, "i", "", "seed file (shorthand)")
	flagSet.StringVar(&f.Input, "input", "", "seed file of 'x y grains' lines")
	flagSet.StringVar(&f.Output, "o", "", "output directory (shorthand)")
	flagSet.StringVar(&f.Output, "output", "", "output directory for bitmaps")
	flagSet.Uint64Var(&f.MaxIter, "m", def.MaxIter, "maximum generations (shorthand)")
	flagSet.Uint64Var(&f.MaxIter, "max-iter", def.MaxIter, "maximum generations")
	flagSet.Uint64Var(&f.Freq, "f", 0, "snapshot frequency (shorthand)")
	flagSet.Uint64Var(&f.Freq, "freq", 0, "write a bitmap every N generations, 0 disables")
	flagSet.IntVar(&f.Workers, "workers", def.Workers, "goroutines per generation")
	flagSet.StringVar(&f.Movie, "movie", "", "write snapshots to this MJPEG AVI file")
	flagSet.StringVar(&f.Chart, "chart", "", "write a PNG chart of per-generation statistics")
	flagSet.StringVar(&f.LogFormat, "log-format", def.LogFormat, "Log output format. Options: 'text' or 'json'.")
	flagSet.StringVar(&f.LogLevel, "log-level", def.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flagSet.StringVar(&runFile, "config", "", "HCL run file")
	flagSet.Var(&vars, "var", "run file variable in key=value form (repeatable)")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if len(args) == 0 {
		slog.Debug("No arguments provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %v", flagSet.Args())}
	}

	cfg := config.Default()
	if runFile != "" {
		values, err := config.ParseVars(vars)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		file, err := config.LoadFile(runFile, values)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		cfg.Apply(file)
		slog.Debug("Run file loaded.", "path", runFile, "piles", len(file.Piles))
	} else if len(vars) > 0 {
		return nil, false, &ExitError{Code: 2, Message: "-var requires -config"}
	}

	overrides := map[string]func(){
		"l":          func() { cfg.Length = f.Length },
		"length":     func() { cfg.Length = f.Length },
		"w":          func() { cfg.Width = f.Width },
		"width":      func() { cfg.Width = f.Width },
		"i":          func() { cfg.Input = f.Input },
		"input":      func() { cfg.Input = f.Input },
		"o":          func() { cfg.Output = f.Output },
		"output":     func() { cfg.Output = f.Output },
		"m":          func() { cfg.MaxIter = f.MaxIter },
		"max-iter":   func() { cfg.MaxIter = f.MaxIter },
		"f":          func() { cfg.Freq = f.Freq },
		"freq":       func() { cfg.Freq = f.Freq },
		"workers":    func() { cfg.Workers = f.Workers },
		"movie":      func() { cfg.Movie = f.Movie },
		"chart":      func() { cfg.Chart = f.Chart },
		"log-format": func() { cfg.LogFormat = strings.ToLower(f.LogFormat) },
		"log-level":  func() { cfg.LogLevel = strings.ToLower(f.LogLevel) },
	}
	flagSet.Visit(func(fl *flag.Flag) {
		if apply, ok := overrides[fl.Name]; ok {
			apply()
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return &cfg, false, nil
}
