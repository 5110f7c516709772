// Package compress adapts the block compressors LogSift can write and read.
// Writers accept writes of any size and only produce a complete container on
// Close, which writes the trailer exactly once.
package compress

import (
	"io"
	"strings"

	"github.com/DataDog/zstd"
	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"

	"github.com/logsift/logsift/internal/errors"
)

// Kind is a compression codec.
type Kind int

const (
	// None passes bytes through unchanged.
	None Kind = iota
	// Gzip writes a single gzip member.
	Gzip
	// Zstd writes a single zstd frame.
	Zstd
	// LZ4 writes an lz4 frame.
	LZ4
)

// DefaultLevel lets the codec choose its own compression level.
const DefaultLevel = -1

var kinds = []struct {
	kind      Kind
	name      string
	extension string
}{
	{None, "none", ""},
	{Gzip, "gzip", ".gz"},
	{Zstd, "zstd", ".zst"},
	{LZ4, "lz4", ".lz4"},
}

func (k Kind) String() string {
	for _, e := range kinds {
		if e.kind == k {
			return e.name
		}
	}
	return "unknown"
}

// Extension returns the file name suffix conventionally used for the codec.
func (k Kind) Extension() string {
	for _, e := range kinds {
		if e.kind == k {
			return e.extension
		}
	}
	return ""
}

// ParseKind parses a codec name. "gz", "zst" and "off" are accepted aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off", "":
		return None, nil
	case "gzip", "gz":
		return Gzip, nil
	case "zstd", "zst":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	}
	return None, errors.Wrapf(errors.ErrInvalidConfig, "unknown compression %q", s)
}

// KindFromPath guesses the codec from a file name suffix.
func KindFromPath(path string) Kind {
	for _, e := range kinds {
		if e.extension != "" && strings.HasSuffix(path, e.extension) {
			return e.kind
		}
	}
	return None
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewWriter wraps w with a compressor. Closing the returned writer finishes
// the container but does not close w.
func NewWriter(kind Kind, w io.Writer, level int) (io.WriteCloser, error) {
	switch kind {
	case None:
		return nopWriteCloser{w}, nil
	case Gzip:
		if level == DefaultLevel {
			level = gzip.DefaultCompression
		}
		gz, err := gzip.NewWriterLevel(w, level)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "gzip level %d: %v", level, err)
		}
		return gz, nil
	case Zstd:
		if level == DefaultLevel {
			level = zstd.DefaultCompression
		}
		if level < zstd.BestSpeed || level > zstd.BestCompression {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "zstd level %d", level)
		}
		return zstd.NewWriterLevel(w, level), nil
	case LZ4:
		lw := lz4.NewWriter(w)
		if level != DefaultLevel {
			lvl, err := lz4Level(level)
			if err != nil {
				return nil, err
			}
			if err := lw.Apply(lz4.CompressionLevelOption(lvl)); err != nil {
				return nil, errors.Wrapf(errors.ErrInvalidConfig, "lz4 level %d: %v", level, err)
			}
		}
		return lw, nil
	}
	return nil, errors.Wrapf(errors.ErrInvalidArgument, "compression kind %d", kind)
}

var lz4Levels = []lz4.CompressionLevel{lz4.Fast, lz4.Level1, lz4.Level2, lz4.Level3,
	lz4.Level4, lz4.Level5, lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9}

func lz4Level(level int) (lz4.CompressionLevel, error) {
	if level < 0 || level >= len(lz4Levels) {
		return lz4.Fast, errors.Wrapf(errors.ErrInvalidConfig, "lz4 level %d", level)
	}
	return lz4Levels[level], nil
}

// NewReader wraps r with a decompressor. Closing the returned reader does not
// close r.
func NewReader(kind Kind, r io.Reader) (io.ReadCloser, error) {
	switch kind {
	case None:
		return io.NopCloser(r), nil
	case Gzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Mark(errors.ErrSourceRead, err)
		}
		return gz, nil
	case Zstd:
		return zstd.NewReader(r), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	}
	return nil, errors.Wrapf(errors.ErrInvalidArgument, "compression kind %d", kind)
}
