package fs

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/logsift/logsift/internal/constants"
	"github.com/logsift/logsift/internal/errors"
	"github.com/logsift/logsift/internal/io/line"
	"github.com/logsift/logsift/internal/io/pool"
	"github.com/logsift/logsift/internal/marker"
)

// cancelCheckInterval is how many lines are scanned between context checks.
const cancelCheckInterval = 1024

// LineScanner reads a source one logical line at a time and hands matching
// lines to a line.Processor. Unlike the chunked filter it relies on a
// line-aware reader, so it never has to deal with partial lines itself.
type LineScanner struct {
	marker marker.Marker
	format line.Format
}

// NewLineScanner creates a scanner for lines containing m.
func NewLineScanner(m marker.Marker, format line.Format) *LineScanner {
	return &LineScanner{marker: m, format: format}
}

// Scan reads r to the end and writes a record for every matching line to w.
// Lines of any length are supported. Only "\n" and "\r\n" end a line; the
// terminator is stripped before matching and a lone "\r" stays in the line.
// Any read or write error aborts the scan.
func (ls *LineScanner) Scan(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	writer := line.NewWriter(w, ls.format)
	stats, err := ls.scan(ctx, r, writer)
	if err != nil {
		return stats, err
	}
	if err := writer.Flush(); err != nil {
		return stats, errors.Mark(errors.ErrSinkWrite, err)
	}
	return stats, nil
}

func (ls *LineScanner) scan(ctx context.Context, r io.Reader, processor line.Processor) (Stats, error) {
	var stats Stats
	reader := bufio.NewReaderSize(r, constants.ReadBufferSize)

	// Only lines longer than the read buffer are assembled here.
	long := pool.BytesBuffer.Get().(*bytes.Buffer)
	defer pool.RecycleBytesBuffer(long)

	var l line.Line
	for {
		if stats.Lines%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return stats, errors.Mark(errors.ErrCanceled, err)
			}
		}

		content, err := ls.readLine(reader, long)
		stats.BytesRead += uint64(len(content))
		if err != nil && err != io.EOF {
			return stats, errors.Mark(errors.ErrSourceRead, err)
		}
		if len(content) == 0 && err == io.EOF {
			return stats, nil
		}

		stats.Lines++
		l.Num = stats.Lines
		l.Content = trimTerminator(content)
		l.Matched = ls.marker.Match(l.Content)
		if l.Matched {
			stats.Matches++
			if perr := processor.ProcessLine(&l); perr != nil {
				return stats, errors.Mark(errors.ErrSinkWrite, perr)
			}
		}

		if err == io.EOF {
			return stats, nil
		}
	}
}

// readLine returns the next line including its terminator, if any. The
// returned slice is only valid until the next call.
func (ls *LineScanner) readLine(reader *bufio.Reader, long *bytes.Buffer) ([]byte, error) {
	content, err := reader.ReadSlice(constants.LineTerminator)
	if err != bufio.ErrBufferFull {
		return content, err
	}

	long.Reset()
	for err == bufio.ErrBufferFull {
		long.Write(content)
		content, err = reader.ReadSlice(constants.LineTerminator)
	}
	long.Write(content)
	return long.Bytes(), err
}

func trimTerminator(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == constants.LineTerminator {
		b = b[:n-1]
		if n := len(b); n > 0 && b[n-1] == '\r' {
			b = b[:n-1]
		}
	}
	return b
}

// ScanFile scans inPath and writes the records to outPath. The source is
// opened first, so a missing input never creates or truncates the output.
func (ls *LineScanner) ScanFile(ctx context.Context, inPath, outPath string) (Stats, error) {
	src, err := OpenSource(inPath)
	if err != nil {
		return Stats{}, err
	}
	defer src.Close()

	sink, err := CreateSink(outPath)
	if err != nil {
		return Stats{}, err
	}

	stats, err := ls.Scan(ctx, src, sink)
	if cerr := sink.Close(); err == nil {
		err = cerr
	}
	return stats, err
}
