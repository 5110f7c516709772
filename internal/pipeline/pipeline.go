// Package pipeline filters a byte stream of log lines down to the lines
// containing a marker and writes them, compressed, to a sink:
//
//	Source -> Filter -> Compressor -> Sink
//
// Memory use is bounded by the chunk size plus the longest partial line,
// independent of the source size. Output order is source order.
package pipeline

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/logsift/logsift/internal/compress"
	"github.com/logsift/logsift/internal/errors"
	"github.com/logsift/logsift/internal/io/bufferedpipe"
	"github.com/logsift/logsift/internal/io/dlog"
	"github.com/logsift/logsift/internal/io/fs"
	"github.com/logsift/logsift/internal/io/pool"
	"github.com/logsift/logsift/internal/marker"
	"github.com/logsift/logsift/internal/metrics"
)

// Pipeline runs filter jobs with a fixed configuration. A Pipeline may be
// used for several runs, also concurrently; every run gets its own reader,
// carry buffer and stages.
type Pipeline struct {
	cfg      Config
	marker   marker.Marker
	metrics  *metrics.Collector
	log      *dlog.DLog
	progress Progress
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithMetrics records every run in c.
func WithMetrics(c *metrics.Collector) Option {
	return func(p *Pipeline) { p.metrics = c }
}

// WithLogger logs through l instead of dlog.Common.
func WithLogger(l *dlog.DLog) Option {
	return func(p *Pipeline) { p.log = l }
}

// New validates cfg and returns a pipeline.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m, err := marker.New(cfg.Marker)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{cfg: cfg, marker: m}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = dlog.Common
	}
	return p, nil
}

// Config returns the configuration the pipeline was created with.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Progress returns live counters over all runs of this pipeline.
func (p *Pipeline) Progress() *Progress {
	return &p.progress
}

// RunFile filters inPath into outPath. The source is opened first: a missing
// input fails with ErrFileNotFound before the output is created. On failure
// the partially written output is left in place.
func (p *Pipeline) RunFile(ctx context.Context, inPath, outPath string) (Result, error) {
	src, err := fs.OpenSource(inPath)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	sink, err := fs.CreateSink(outPath)
	if err != nil {
		return Result{}, err
	}

	p.log.Debug("Filtering", src.Path(), "compression", src.Compression(),
		"size", src.Size(), "into", outPath)
	result, err := p.Run(ctx, src, sink)
	if cerr := sink.Close(); err == nil && cerr != nil {
		err = cerr
		p.log.Error(result.RunID, "Unable to close output", outPath, err)
	}
	return result, err
}

// Run reads src to the end and writes the compressed matching lines to dst.
// The compressor is closed, and so the container trailer written, exactly
// once after the source was exhausted. dst itself is not closed. Any error
// aborts the run; the Result then describes how far it got.
func (p *Pipeline) Run(ctx context.Context, src io.Reader, dst io.Writer) (Result, error) {
	result := Result{RunID: uuid.NewString()}
	log := p.log.With("run", result.RunID)
	start := time.Now()

	sink := newSinkWriter(dst)
	cw, err := compress.NewWriter(p.cfg.Compression, sink, p.cfg.CompressionLevel)
	if err != nil {
		return result, err
	}
	emit := &emitWriter{w: cw, progress: &p.progress}
	in := progressReader{r: src, progress: &p.progress}

	log.Debug("Starting", p.cfg.Mode, "run", "chunkSize", p.cfg.ChunkSize,
		"marker", p.marker.Literal(), "compression", p.cfg.Compression)

	var stats fs.Stats
	switch p.cfg.Mode {
	case ModeStaged:
		stats, err = p.runStaged(ctx, in, emit)
	default:
		stats, err = p.runSequential(ctx, in, emit)
	}

	if err != nil {
		sink.abort()
		cw.Close()
	} else if cerr := cw.Close(); cerr != nil {
		err = cerr
		if !errors.Is(err, errors.ErrSinkWrite) {
			err = errors.Mark(errors.ErrCompression, err)
		}
	}

	result.Stats = stats
	result.BytesEmitted = emit.emitted
	result.BytesWritten = sink.written
	result.Digest = sink.digest()
	result.Duration = time.Since(start)
	p.metrics.Observe(metrics.Filter, result.Sample(), err)

	if err != nil {
		log.Error("Run failed after", result.BytesRead, "bytes", err)
		return result, err
	}
	log.Info("Run finished", result.String())
	return result, nil
}

func (p *Pipeline) runSequential(ctx context.Context, src io.Reader, w io.Writer) (fs.Stats, error) {
	cr := fs.NewChunkedReader(src, p.cfg.ChunkSize, p.marker)
	err := cr.ProcessLines(ctx, w)
	return cr.Stats(), err
}

// runStaged runs the source, the filter and the writer in their own
// goroutines. Chunk buffers flow from the source to the filter and back into
// the chunk pool; output units flow from the filter to the writer. Each
// queue holds at most QueueDepth items, so at most QueueDepth+1 buffers are
// in flight per edge. The first failing stage cancels the others.
func (p *Pipeline) runStaged(ctx context.Context, src io.Reader, w io.Writer) (fs.Stats, error) {
	reader := fs.NewChunkReader(src, p.cfg.ChunkSize)
	filter := fs.NewLineFilter(p.marker)
	chunks := bufferedpipe.New[*[]byte](p.cfg.QueueDepth)
	units := bufferedpipe.New[*bytes.Buffer](p.cfg.QueueDepth)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			if err := gctx.Err(); err != nil {
				return errors.Mark(errors.ErrCanceled, err)
			}
			buf, err := reader.ReadChunk()
			if err == io.EOF {
				chunks.CloseSend()
				return nil
			}
			if err != nil {
				return err
			}
			if err := chunks.Send(gctx, buf); err != nil {
				reader.Recycle(buf)
				return err
			}
		}
	})

	g.Go(func() error {
		for {
			buf, err := chunks.Receive(gctx)
			unit := pool.BytesBuffer.Get().(*bytes.Buffer)
			switch {
			case err == io.EOF:
				unit.Write(filter.Flush(unit.AvailableBuffer()))
			case err != nil:
				pool.RecycleBytesBuffer(unit)
				return err
			default:
				unit.Write(filter.Filter(*buf, unit.AvailableBuffer()))
				reader.Recycle(buf)
			}

			if unit.Len() == 0 {
				pool.RecycleBytesBuffer(unit)
			} else if serr := units.Send(gctx, unit); serr != nil {
				pool.RecycleBytesBuffer(unit)
				return serr
			}
			if err == io.EOF {
				units.CloseSend()
				return nil
			}
		}
	})

	g.Go(func() error {
		defer units.Close()
		for {
			unit, err := units.Receive(gctx)
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			_, err = w.Write(unit.Bytes())
			pool.RecycleBytesBuffer(unit)
			if err != nil {
				return errors.Mark(errors.ErrSinkWrite, err)
			}
		}
	})

	err := g.Wait()
	// Only an aborted run leaves buffers behind.
	chunks.Drain(reader.Recycle)
	units.Drain(pool.RecycleBytesBuffer)

	stats := reader.Stats()
	stats.Add(filter.Stats())
	return stats, err
}
