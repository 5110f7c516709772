package fs

import (
	"bytes"
	"context"
	"io"

	"github.com/logsift/logsift/internal/constants"
	"github.com/logsift/logsift/internal/errors"
	"github.com/logsift/logsift/internal/io/pool"
	"github.com/logsift/logsift/internal/marker"
)

// ChunkReader reads a source in fixed-size chunks. Chunks are not aligned
// to line boundaries.
type ChunkReader struct {
	reader  io.Reader
	chunks  *pool.Chunks
	pending error
	stats   Stats
}

// NewChunkReader creates a chunk reader handing out buffers of chunkSize bytes.
func NewChunkReader(reader io.Reader, chunkSize int) *ChunkReader {
	if chunkSize <= 0 {
		chunkSize = constants.DefaultChunkSize
	}
	return &ChunkReader{
		reader: reader,
		chunks: pool.NewChunks(chunkSize),
	}
}

// ReadChunk returns the next chunk of up to chunkSize bytes. The caller owns
// the buffer until it hands it back with Recycle. At the end of the source
// ReadChunk returns io.EOF; any other error is tagged ErrSourceRead.
func (cr *ChunkReader) ReadChunk() (*[]byte, error) {
	if cr.pending != nil {
		return nil, cr.pending
	}

	buf := cr.chunks.Get()
	for empty := 0; ; empty++ {
		n, err := cr.reader.Read(*buf)
		if err != nil && err != io.EOF {
			err = errors.Mark(errors.ErrSourceRead, err)
		}
		if n > 0 {
			*buf = (*buf)[:n]
			cr.stats.Chunks++
			cr.stats.BytesRead += uint64(n)
			// Some readers return the last bytes together with io.EOF.
			cr.pending = err
			return buf, nil
		}
		if err != nil {
			cr.pending = err
			cr.chunks.Put(buf)
			return nil, err
		}
		if empty >= constants.MaxConsecutiveEmptyReads {
			cr.chunks.Put(buf)
			cr.pending = errors.Mark(errors.ErrSourceRead, io.ErrNoProgress)
			return nil, cr.pending
		}
	}
}

// Recycle hands a chunk buffer back for reuse.
func (cr *ChunkReader) Recycle(buf *[]byte) {
	cr.chunks.Put(buf)
}

// Stats returns the chunk and byte counters.
func (cr *ChunkReader) Stats() Stats {
	return cr.stats
}

// LineFilter reconstructs logical lines from a sequence of chunks and keeps
// the ones containing the marker. It holds at most one partial line (the
// carry) between calls. The carry grows across as many chunks as a single
// line spans, so a line, and a marker inside it, is never split.
type LineFilter struct {
	marker marker.Marker
	carry  []byte
	stats  Stats
}

// NewLineFilter creates a filter for lines containing m.
func NewLineFilter(m marker.Marker) *LineFilter {
	return &LineFilter{marker: m}
}

// Filter prepends the carry to chunk, splits the result on the line
// terminator and appends every complete matching line, newline terminated
// and in source order, to dst. The trailing unterminated segment (possibly
// empty) becomes the new carry. chunk is not retained.
func (lf *LineFilter) Filter(chunk, dst []byte) []byte {
	data := chunk
	if len(lf.carry) > 0 {
		lf.carry = append(lf.carry, chunk...)
		data = lf.carry
	}

	start := 0
	for {
		i := bytes.IndexByte(data[start:], constants.LineTerminator)
		if i < 0 {
			break
		}
		end := start + i + 1
		dst = lf.evaluate(data[start:end], dst)
		start = end
	}

	// data may alias carry; append copies forward so the overlap is safe.
	lf.carry = append(lf.carry[:0], data[start:]...)
	return dst
}

// Flush treats a non-empty carry as the final line of the source: it is
// evaluated and, when matching, appended to dst with a terminator added.
func (lf *LineFilter) Flush(dst []byte) []byte {
	if len(lf.carry) == 0 {
		return dst
	}
	dst = lf.evaluate(lf.carry, dst)
	if len(dst) > 0 && dst[len(dst)-1] != constants.LineTerminator {
		dst = append(dst, constants.LineTerminator)
	}
	lf.carry = lf.carry[:0]
	return dst
}

// evaluate matches one line. line may or may not end with the terminator.
func (lf *LineFilter) evaluate(line, dst []byte) []byte {
	lf.stats.Lines++
	if !lf.marker.Match(line) {
		return dst
	}
	lf.stats.Matches++
	return append(dst, line...)
}

// Carry returns the number of bytes of the buffered partial line.
func (lf *LineFilter) Carry() int {
	return len(lf.carry)
}

// Stats returns the line and match counters.
func (lf *LineFilter) Stats() Stats {
	return lf.stats
}

// ChunkedReader reads data in chunks and filters it line by line in a
// single flow of control: each call to Next reads one chunk, filters it and
// returns the matching lines.
type ChunkedReader struct {
	reader *ChunkReader
	filter *LineFilter
	unit   []byte
	done   bool
}

// NewChunkedReader creates a new chunked reader with the specified chunk size
func NewChunkedReader(reader io.Reader, chunkSize int, m marker.Marker) *ChunkedReader {
	return &ChunkedReader{
		reader: NewChunkReader(reader, chunkSize),
		filter: NewLineFilter(m),
	}
}

// Next returns the matching lines of the next chunk as one output unit. The
// unit may be empty when a chunk held no matching line; it is only valid
// until the next call. After the source is exhausted and the final partial
// line was flushed, Next returns io.EOF.
func (cr *ChunkedReader) Next(ctx context.Context) ([]byte, error) {
	if cr.done {
		return nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Mark(errors.ErrCanceled, err)
	}

	cr.unit = cr.unit[:0]
	buf, err := cr.reader.ReadChunk()
	if err == io.EOF {
		cr.done = true
		cr.unit = cr.filter.Flush(cr.unit)
		if len(cr.unit) == 0 {
			return nil, io.EOF
		}
		return cr.unit, nil
	}
	if err != nil {
		return nil, err
	}

	cr.unit = cr.filter.Filter(*buf, cr.unit)
	cr.reader.Recycle(buf)
	return cr.unit, nil
}

// ProcessLines drains the source and writes every output unit to w. Empty
// units are not written.
func (cr *ChunkedReader) ProcessLines(ctx context.Context, w io.Writer) error {
	for {
		unit, err := cr.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if len(unit) == 0 {
			continue
		}
		if _, err := w.Write(unit); err != nil {
			return errors.Mark(errors.ErrSinkWrite, err)
		}
	}
}

// Stats returns the combined reader and filter counters.
func (cr *ChunkedReader) Stats() Stats {
	s := cr.reader.Stats()
	s.Add(cr.filter.Stats())
	return s
}
