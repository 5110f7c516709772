// Package generator writes synthetic log files to feed the scanner and the
// filter pipeline. Output is deterministic apart from the timestamps, and
// those come from an injectable clock.
package generator

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/logsift/logsift/internal/compress"
	"github.com/logsift/logsift/internal/constants"
	"github.com/logsift/logsift/internal/errors"
	"github.com/logsift/logsift/internal/io/dlog"
	"github.com/logsift/logsift/internal/io/fs"
)

// TimestampFormat is ISO-8601 in UTC with millisecond precision.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// progressStep is how many lines are written between context checks and
// progress bar updates.
const progressStep = 4096

// Config describes what to generate.
type Config struct {
	// Lines is the number of lines to write.
	Lines int
	// ErrorEvery makes line i an ERROR line when i%ErrorEvery == 0, so
	// 1/ErrorEvery of all lines are errors.
	ErrorEvery int
	// Clock stamps each line. Defaults to time.Now.
	Clock func() time.Time
	// Progress receives a progress bar when not nil.
	Progress io.Writer
	// CompressionLevel is used by GenerateFile for compressed outputs. Zero
	// picks the codec's default.
	CompressionLevel int
}

// Stats summarizes a generation run.
type Stats struct {
	Lines  uint64
	Errors uint64
	// Bytes is the uncompressed size of the generated lines.
	Bytes uint64
}

// Generator writes log lines of the form
//
//	2024-01-15T10:00:00.000Z [ERROR] System process ID 0
type Generator struct {
	cfg     Config
	written atomic.Uint64
}

// New returns a generator. Lines must not be negative and ErrorEvery must be
// positive.
func New(cfg Config) (*Generator, error) {
	if cfg.Lines < 0 {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "line count %d", cfg.Lines)
	}
	if cfg.ErrorEvery < 1 {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "error ratio 1/%d", cfg.ErrorEvery)
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Generator{cfg: cfg}, nil
}

// Generate writes all lines to w through a write buffer, which is flushed
// at the end.
func (g *Generator) Generate(ctx context.Context, w io.Writer) (Stats, error) {
	var stats Stats
	bw := bufio.NewWriterSize(w, constants.WriteBufferSize)
	bar := g.progressBar()

	var reported uint64
	report := func() {
		g.written.Add(stats.Lines - reported)
		reported = stats.Lines
	}

	line := make([]byte, 0, 128)
	for i := 0; i < g.cfg.Lines; i++ {
		if i%progressStep == 0 {
			if err := ctx.Err(); err != nil {
				return stats, errors.Mark(errors.ErrCanceled, err)
			}
			report()
			if bar != nil && i > 0 {
				bar.Add(progressStep)
			}
		}

		isError := i%g.cfg.ErrorEvery == 0
		line = g.appendLine(line[:0], i, isError)
		if _, err := bw.Write(line); err != nil {
			return stats, errors.Mark(errors.ErrSinkWrite, err)
		}
		stats.Lines++
		stats.Bytes += uint64(len(line))
		if isError {
			stats.Errors++
		}
	}

	if err := bw.Flush(); err != nil {
		return stats, errors.Mark(errors.ErrSinkWrite, err)
	}
	report()
	if bar != nil {
		bar.Finish()
	}
	return stats, nil
}

// Written returns the number of lines generated so far over all runs, in
// steps of a few thousand lines. It is safe to call while Generate runs.
func (g *Generator) Written() uint64 {
	return g.written.Load()
}

func (g *Generator) appendLine(b []byte, i int, isError bool) []byte {
	b = g.cfg.Clock().UTC().AppendFormat(b, TimestampFormat)
	if isError {
		b = append(b, " [ERROR] System process ID "...)
	} else {
		b = append(b, " [INFO] System process ID "...)
	}
	b = strconv.AppendInt(b, int64(i), 10)
	return append(b, constants.LineTerminator)
}

func (g *Generator) progressBar() *progressbar.ProgressBar {
	if g.cfg.Progress == nil {
		return nil
	}
	return progressbar.NewOptions64(int64(g.cfg.Lines),
		progressbar.OptionSetWriter(g.cfg.Progress),
		progressbar.OptionSetDescription("generating"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(constants.ProgressThrottle),
		progressbar.OptionClearOnFinish(),
	)
}

// GenerateFile writes the lines to path, creating missing directories. An
// existing file is truncated. Paths ending in .gz, .zst or .lz4 are written
// compressed.
func (g *Generator) GenerateFile(ctx context.Context, path string) (Stats, error) {
	sink, err := fs.CreateSink(path)
	if err != nil {
		return Stats{}, err
	}

	level := g.cfg.CompressionLevel
	if level == 0 {
		level = compress.DefaultLevel
	}
	kind := compress.KindFromPath(path)
	cw, err := compress.NewWriter(kind, sink, level)
	if err != nil {
		sink.Close()
		return Stats{}, err
	}

	dlog.Common.Debug("Generating", g.cfg.Lines, "lines into", path, "compression", kind)
	stats, err := g.Generate(ctx, cw)

	errs := errors.NewMultiError()
	errs.Add(err)
	if cerr := cw.Close(); cerr != nil && err == nil {
		if !errors.Is(cerr, errors.ErrSinkWrite) {
			cerr = errors.Mark(errors.ErrCompression, cerr)
		}
		errs.Add(cerr)
	}
	errs.Add(sink.Close())
	return stats, errs.ErrorOrNil()
}
