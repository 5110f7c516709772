// Package main provides the lgen command-line tool. lgen writes a synthetic
// log file for lscan and lfilter to chew on: one line per process ID, every
// n-th line an ERROR line, all others INFO.
//
// Key features:
// - Exact error ratio (1,000,000 lines at 1/10 yield 100,000 errors)
// - Compressed output by file extension (.gz, .zst, .lz4)
// - Optional progress bar
// - CPU and memory profiling support
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/docker/go-units"
	"github.com/google/uuid"

	"github.com/logsift/logsift/internal/cli"
	"github.com/logsift/logsift/internal/color"
	"github.com/logsift/logsift/internal/config"
	"github.com/logsift/logsift/internal/generator"
	"github.com/logsift/logsift/internal/io/dlog"
	"github.com/logsift/logsift/internal/metrics"
)

func main() {
	cli.Execute(cli.NewCommand(config.CommandGenerator,
		"Generate a synthetic log file",
		"lgen writes --lines log lines to --output, every --error-every-th line being an ERROR line.",
		run))
}

func run(ctx context.Context, rt *cli.Runtime) error {
	cfg := config.Generator
	gcfg := generator.Config{
		Lines:            cfg.Lines,
		ErrorEvery:       cfg.ErrorEvery,
		CompressionLevel: cfg.CompressionLevel,
	}
	if cfg.Progress {
		gcfg.Progress = os.Stderr
	}
	g, err := generator.New(gcfg)
	if err != nil {
		return err
	}

	log := dlog.Common.With("run", uuid.NewString())
	log.Info("Generating", cfg.Lines, "lines into", cfg.Output)

	type outcome struct {
		stats generator.Stats
		err   error
	}
	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		stats, err := g.GenerateFile(ctx, cfg.Output)
		done <- outcome{stats, err}
	}()

	var o outcome
	for waiting := true; waiting; {
		select {
		case hint := <-rt.Interrupts:
			fmt.Fprintf(rt.Out, "%s %d of %d lines written. %s\n",
				color.Paint(rt.Painted, color.Accent, "Progress:"),
				g.Written(), cfg.Lines, color.Paint(rt.Painted, color.Muted, hint))
		case o = <-done:
			waiting = false
		}
	}
	stats, err := o.stats, o.err
	rt.Metrics.Observe(metrics.Generator, metrics.Sample{
		Lines:        stats.Lines,
		Matches:      stats.Errors,
		BytesWritten: stats.Bytes,
		Duration:     time.Since(start),
	}, err)
	if err != nil {
		log.Error("Generation failed", err)
		return err
	}

	log.Info("Done generating file", cfg.Output)
	fmt.Fprintf(rt.Out, "%s %d lines (%d errors, %s) to %s\n",
		color.Paint(rt.Painted, color.Success, "Generated"),
		stats.Lines, stats.Errors, units.HumanSize(float64(stats.Bytes)), cfg.Output)
	return nil
}
