package pipeline

import (
	"bytes"
	"hash"
	"io"
	"sync/atomic"

	"golang.org/x/crypto/blake2b"

	"github.com/logsift/logsift/internal/constants"
	"github.com/logsift/logsift/internal/errors"
)

// sinkWriter sits between the compressor and the sink. It counts and hashes
// what reaches the sink. Once aborted it swallows all further writes, so
// closing the compressor after a failure releases the codec without
// appending a trailer to a truncated container.
type sinkWriter struct {
	w       io.Writer
	hash    hash.Hash
	written uint64
	aborted bool
}

func newSinkWriter(w io.Writer) *sinkWriter {
	h, err := blake2b.New256(nil)
	if err != nil {
		// Only fails for keys longer than 64 bytes.
		panic(err)
	}
	return &sinkWriter{w: w, hash: h}
}

func (s *sinkWriter) Write(p []byte) (int, error) {
	if s.aborted {
		return len(p), nil
	}
	n, err := s.w.Write(p)
	s.hash.Write(p[:n])
	s.written += uint64(n)
	if err != nil {
		return n, errors.Mark(errors.ErrSinkWrite, err)
	}
	return n, nil
}

func (s *sinkWriter) abort() {
	s.aborted = true
}

func (s *sinkWriter) digest() []byte {
	return s.hash.Sum(nil)
}

// emitWriter sits in front of the compressor. It counts the uncompressed
// bytes and lines emitted, and tags compressor failures.
type emitWriter struct {
	w        io.Writer
	progress *Progress
	emitted  uint64
}

func (e *emitWriter) Write(p []byte) (int, error) {
	n, err := e.w.Write(p)
	e.emitted += uint64(n)
	e.progress.addEmitted(p[:n])
	if err != nil && !errors.Is(err, errors.ErrSinkWrite) {
		err = errors.Mark(errors.ErrCompression, err)
	}
	return n, err
}

var newline = []byte{constants.LineTerminator}

// Progress is a live view of all runs of a pipeline. It is safe to read
// while runs are in progress, e.g. from a signal handler.
type Progress struct {
	bytesRead atomic.Uint64
	matches   atomic.Uint64
}

// BytesRead returns the number of source bytes consumed so far.
func (p *Progress) BytesRead() uint64 { return p.bytesRead.Load() }

// Matches returns the number of matching lines emitted so far.
func (p *Progress) Matches() uint64 { return p.matches.Load() }

func (p *Progress) addEmitted(unit []byte) {
	p.matches.Add(uint64(bytes.Count(unit, newline)))
}

// progressReader counts source bytes into a Progress.
type progressReader struct {
	r        io.Reader
	progress *Progress
}

func (p progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.progress.bytesRead.Add(uint64(n))
	return n, err
}
