// Package fs provides the file level building blocks of LogSift: opening
// sources and sinks, reading sources chunk by chunk while reconstructing
// lines across chunk boundaries, and the line-aware scanner used as the
// baseline for the chunked filter.
//
// Key components:
// - OpenSource and CreateSink for path based runs (compressed sources are
//   decompressed transparently)
// - ChunkReader, LineFilter and ChunkedReader for bounded memory filtering
// - LineScanner for line-at-a-time scanning and issue reports
// - Stats for counting chunks, bytes, lines and matches
//
// Nothing here is atomic: a failed run leaves whatever was already written
// to the sink in place. Callers wanting atomic output must write to a
// temporary path and rename it on success.
package fs

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/logsift/logsift/internal/compress"
	"github.com/logsift/logsift/internal/constants"
	"github.com/logsift/logsift/internal/errors"
)

// Source is an opened input. Closing it closes the decompressor (if any)
// and the file.
type Source struct {
	io.Reader
	path    string
	kind    compress.Kind
	size    int64
	closers []io.Closer
}

// Path returns the path the source was opened from.
func (s *Source) Path() string { return s.path }

// Compression returns the codec the source is decompressed with.
func (s *Source) Compression() compress.Kind { return s.kind }

// Size returns the on-disk size of the source in bytes.
func (s *Source) Size() int64 { return s.size }

// Close closes the decompressor and the file.
func (s *Source) Close() error {
	errs := errors.NewMultiError()
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs.Add(s.closers[i].Close())
	}
	return errs.ErrorOrNil()
}

// OpenSource opens path for sequential reading from offset 0. A missing file
// is reported as ErrFileNotFound (and ErrSourceRead) before anything else
// happens. Files ending in .gz, .zst or .lz4 are decompressed on the fly.
func OpenSource(path string) (*Source, error) {
	fd, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Mark(errors.ErrFileNotFound, err)
		}
		return nil, errors.Mark(errors.ErrSourceRead, err)
	}

	info, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, errors.Mark(errors.ErrSourceRead, err)
	}
	if info.IsDir() {
		fd.Close()
		return nil, errors.Wrapf(errors.ErrSourceRead, "%s is a directory", path)
	}

	kind := compress.KindFromPath(path)
	dec, err := compress.NewReader(kind, fd)
	if err != nil {
		fd.Close()
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	return &Source{
		Reader:  dec,
		path:    path,
		kind:    kind,
		size:    info.Size(),
		closers: []io.Closer{fd, dec},
	}, nil
}

// Sink is an output file behind a write buffer. Write errors are tagged
// ErrSinkWrite.
type Sink struct {
	path   string
	fd     *os.File
	buf    *bufio.Writer
	closed bool
}

// CreateSink creates (or truncates) path, creating missing parent directories.
func CreateSink(path string) (*Sink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Mark(errors.ErrSinkWrite, err)
		}
	}
	fd, err := os.Create(path)
	if err != nil {
		return nil, errors.Mark(errors.ErrSinkWrite, err)
	}
	return &Sink{
		path: path,
		fd:   fd,
		buf:  bufio.NewWriterSize(fd, constants.WriteBufferSize),
	}, nil
}

// Path returns the sink's file path.
func (s *Sink) Path() string { return s.path }

func (s *Sink) Write(p []byte) (int, error) {
	n, err := s.buf.Write(p)
	return n, errors.Mark(errors.ErrSinkWrite, err)
}

// Close flushes the buffer and closes the file. It is safe to call twice.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	errs := errors.NewMultiError()
	errs.Add(s.buf.Flush())
	errs.Add(s.fd.Close())
	return errors.Mark(errors.ErrSinkWrite, errs.ErrorOrNil())
}
