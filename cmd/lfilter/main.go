// Package main provides the lfilter command-line tool. lfilter streams a log
// file through a chunked filter and a compressor:
//
//	massive-log.txt -> [ERROR] lines only -> gzip -> errors-only.log.gz
//
// Memory use stays at about one chunk plus the longest line, however large
// the input is.
//
// Key features:
// - gzip, zstd and lz4 output (picked from the output extension by default)
// - Transparent decompression of compressed inputs
// - Sequential or staged (one goroutine per stage) execution
// - BLAKE2b-256 digest of the output (--digest)
// - Prometheus textfile metrics (--metrics-file)
// - CPU and memory profiling support
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-units"

	"github.com/logsift/logsift/internal/cli"
	"github.com/logsift/logsift/internal/color"
	"github.com/logsift/logsift/internal/config"
	"github.com/logsift/logsift/internal/io/dlog"
	"github.com/logsift/logsift/internal/pipeline"
)

func main() {
	cli.Execute(cli.NewCommand(config.CommandFilter,
		"Filter a log file into a compressed file of matching lines",
		"lfilter keeps the lines of --input containing --marker and writes them compressed to --output.",
		run))
}

func run(ctx context.Context, rt *cli.Runtime) error {
	cfg := config.Filter
	pcfg, err := cfg.PipelineConfig()
	if err != nil {
		return err
	}
	p, err := pipeline.New(pcfg, pipeline.WithMetrics(rt.Metrics))
	if err != nil {
		return err
	}

	dlog.Common.Info("Filtering", cfg.Input, "into", cfg.Output, "mode", pcfg.Mode,
		"chunk", units.BytesSize(float64(pcfg.ChunkSize)), "compression", pcfg.Compression)

	type outcome struct {
		result pipeline.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := p.RunFile(ctx, cfg.Input, cfg.Output)
		done <- outcome{result, err}
	}()

	var o outcome
	for waiting := true; waiting; {
		select {
		case hint := <-rt.Interrupts:
			progress := p.Progress()
			fmt.Fprintf(rt.Out, "%s read %s, %d matches so far. %s\n",
				color.Paint(rt.Painted, color.Accent, "Progress:"),
				units.HumanSize(float64(progress.BytesRead())), progress.Matches(),
				color.Paint(rt.Painted, color.Muted, hint))
		case o = <-done:
			waiting = false
		}
	}
	if o.err != nil {
		return o.err
	}

	fmt.Fprintf(rt.Out, "%s %s\n", color.Paint(rt.Painted, color.Success, "Pipeline Succeeded!"), o.result)
	if cfg.Digest {
		fmt.Fprintf(rt.Out, "blake2b-256 %s  %s\n", o.result.DigestHex(), cfg.Output)
	}
	dlog.Common.Debug("Run", o.result.RunID, "took", o.result.Duration.Round(time.Millisecond))
	return nil
}
