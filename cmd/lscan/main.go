// Package main provides the lscan command-line tool. lscan reads a log file
// one line at a time and writes an issue record for every line containing
// the marker:
//
//	2024-01-01T00:00:01Z - Found Issue: 2024-01-01T00:00:01Z [ERROR] b
//
// With --plain the matching lines are written unchanged. lscan is the
// baseline the chunked lfilter is measured and verified against.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/logsift/logsift/internal/cli"
	"github.com/logsift/logsift/internal/color"
	"github.com/logsift/logsift/internal/config"
	"github.com/logsift/logsift/internal/io/dlog"
	"github.com/logsift/logsift/internal/io/fs"
	"github.com/logsift/logsift/internal/marker"
	"github.com/logsift/logsift/internal/metrics"
)

func main() {
	cli.Execute(cli.NewCommand(config.CommandScanner,
		"Report log lines containing a marker",
		"lscan writes a record for every line of --input containing --marker to --output.",
		run))
}

func run(ctx context.Context, rt *cli.Runtime) error {
	cfg := config.Scanner
	m, err := marker.New(cfg.Marker)
	if err != nil {
		return err
	}

	log := dlog.Common.With("run", uuid.NewString())
	log.Info("Scanning", cfg.Input, "for", m.Literal(), "format", cfg.Format())

	type outcome struct {
		stats fs.Stats
		err   error
	}
	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		stats, err := fs.NewLineScanner(m, cfg.Format()).ScanFile(ctx, cfg.Input, cfg.Output)
		done <- outcome{stats, err}
	}()

	var result outcome
	for waiting := true; waiting; {
		select {
		case hint := <-rt.Interrupts:
			fmt.Fprintln(rt.Out, color.Paint(rt.Painted, color.Muted, hint))
		case result = <-done:
			waiting = false
		}
	}
	duration := time.Since(start)

	rt.Metrics.Observe(metrics.Scanner, metrics.Sample{
		BytesRead: result.stats.BytesRead,
		Lines:     result.stats.Lines,
		Matches:   result.stats.Matches,
		Duration:  duration,
	}, result.err)
	if result.err != nil {
		log.Error("Scan failed after", result.stats.Lines, "lines", result.err)
		return result.err
	}

	log.Info("Finished! Found", result.stats.Matches, "errors in", duration)
	fmt.Fprintf(rt.Out, "%s Found %s errors in %d lines (%s)\n",
		color.Paint(rt.Painted, color.Success, "Finished!"),
		color.Paint(rt.Painted, color.Accent, fmt.Sprint(result.stats.Matches)),
		result.stats.Lines, duration.Round(time.Millisecond))
	return nil
}
