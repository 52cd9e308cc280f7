// Command sandpile runs an abelian sandpile from a seed file or run file
// until it stabilises or the generation budget is spent, writing bitmap
// snapshots along the way.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"sandpile/internal/cli"
	"sandpile/internal/ctxlog"
	"sandpile/internal/render"
	"sandpile/internal/run"
)

const (
	movieWidth  = 640
	movieHeight = 480
	movieFPS    = 10
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, "Error:", exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// execute is the testable body of main.
func execute(ctx context.Context, args []string, out, logOut io.Writer) (err error) {
	cfg, exit, err := cli.Parse(args, out)
	if err != nil || exit {
		return err
	}

	logger := ctxlog.New(logOut, cfg.LogFormat, cfg.LogLevel)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Configuration resolved.", "input", cfg.Input, "output", cfg.Output, "max_iter", cfg.MaxIter, "freq", cfg.Freq, "workers", cfg.Workers)

	grid, err := run.Seed(ctx, *cfg)
	if err != nil {
		return err
	}

	bmp, err := render.NewBMPWriter(cfg.Output)
	if err != nil {
		return err
	}
	sinks := run.Multi{bmp}

	if cfg.Movie != "" {
		movie, merr := render.NewMovie(cfg.Movie, movieWidth, movieHeight, movieFPS)
		if merr != nil {
			return merr
		}
		defer func() {
			if cerr := movie.Close(); cerr != nil {
				err = errors.Join(err, fmt.Errorf("closing movie: %w", cerr))
			}
			logger.Debug("Movie closed.", "path", cfg.Movie, "frames", movie.Frames())
		}()
		sinks = append(sinks, movie)
	}

	var observer run.Observer
	if cfg.Chart != "" {
		chart := render.NewChart(cfg.Chart)
		observer = chart
		sinks = append(sinks, chart)
	}

	res, err := run.Run(ctx, run.Config{
		MaxIter:  cfg.MaxIter,
		Freq:     cfg.Freq,
		Workers:  cfg.Workers,
		Observer: observer,
	}, grid, sinks)
	if err != nil {
		return err
	}

	state := "budget exhausted"
	if res.Stable {
		state = "stable"
	}
	fmt.Fprintf(out, "%s after %d generations: %d grains on %dx%d cells\n",
		state, res.Generations, res.Grid.Mass(), res.Grid.Width(), res.Grid.Height())
	return nil
}
