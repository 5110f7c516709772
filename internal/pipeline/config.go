package pipeline

import (
	"io"
	"strings"

	"github.com/logsift/logsift/internal/compress"
	"github.com/logsift/logsift/internal/constants"
	"github.com/logsift/logsift/internal/errors"
	"github.com/logsift/logsift/internal/marker"
)

// Mode selects how the stages of a run are scheduled.
type Mode int

const (
	// ModeSequential runs read, filter and write in a single pull loop. A
	// slow sink stalls the loop, which is all the backpressure needed.
	ModeSequential Mode = iota
	// ModeStaged runs source, filter and writer in their own goroutines,
	// connected by bounded queues.
	ModeStaged
)

func (m Mode) String() string {
	switch m {
	case ModeStaged:
		return "staged"
	default:
		return "sequential"
	}
}

// ParseMode parses "sequential" or "staged". The empty string is sequential.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sequential", "seq":
		return ModeSequential, nil
	case "staged":
		return ModeStaged, nil
	}
	return ModeSequential, errors.Wrapf(errors.ErrInvalidConfig, "unknown mode %q", s)
}

// Config holds the parameters of a filter run. Everything the algorithm
// depends on is explicit here; nothing is read from globals.
type Config struct {
	// ChunkSize is the maximum number of source bytes read per cycle.
	ChunkSize int
	// Marker is the literal, case-sensitive substring a kept line contains.
	Marker string
	// Compression is the codec of the output container.
	Compression compress.Kind
	// CompressionLevel is codec specific; compress.DefaultLevel picks the
	// codec's default.
	CompressionLevel int
	Mode             Mode
	// QueueDepth is the capacity of each queue between stages in
	// ModeStaged. Ignored in ModeSequential.
	QueueDepth int
}

// DefaultConfig returns 64KiB chunks, the [ERROR] marker and gzip output.
func DefaultConfig() Config {
	return Config{
		ChunkSize:        constants.DefaultChunkSize,
		Marker:           constants.DefaultMarker,
		Compression:      compress.Gzip,
		CompressionLevel: compress.DefaultLevel,
		Mode:             ModeSequential,
		QueueDepth:       constants.DefaultQueueDepth,
	}
}

// Validate checks the configuration. All failures are ErrInvalidConfig.
func (c Config) Validate() error {
	errs := errors.NewMultiError()

	if c.ChunkSize < constants.MinChunkSize || c.ChunkSize > constants.MaxChunkSize {
		errs.Add(errors.Wrapf(errors.ErrInvalidConfig, "chunk size %d out of range [%d, %d]",
			c.ChunkSize, constants.MinChunkSize, constants.MaxChunkSize))
	}
	if _, err := marker.New(c.Marker); err != nil {
		errs.Add(err)
	}
	if c.Mode != ModeSequential && c.Mode != ModeStaged {
		errs.Add(errors.Wrapf(errors.ErrInvalidConfig, "unknown mode %d", c.Mode))
	}
	if c.Mode == ModeStaged && (c.QueueDepth < 1 || c.QueueDepth > constants.MaxQueueDepth) {
		errs.Add(errors.Wrapf(errors.ErrInvalidConfig, "queue depth %d out of range [1, %d]",
			c.QueueDepth, constants.MaxQueueDepth))
	}
	switch c.Compression {
	case compress.None, compress.Gzip, compress.Zstd, compress.LZ4:
		// Levels are codec specific, let the codec decide.
		w, err := compress.NewWriter(c.Compression, io.Discard, c.CompressionLevel)
		if err != nil {
			errs.Add(err)
			break
		}
		w.Close()
	default:
		errs.Add(errors.Wrapf(errors.ErrInvalidConfig, "unknown compression %d", c.Compression))
	}

	return errs.ErrorOrNil()
}
