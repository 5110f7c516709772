package line

import (
	"bufio"
	"io"

	"github.com/logsift/logsift/internal/constants"
)

// Processor defines an interface for handling matched lines.
type Processor interface {
	// ProcessLine handles a single line. The line content must not be
	// retained after the call returns. Returns error if processing should stop.
	ProcessLine(l *Line) error

	// Flush ensures any buffered data is written out.
	Flush() error
}

// Format selects how the line scanner renders a matched line.
type Format int

const (
	// FormatIssue renders "<timestamp> - Found Issue: <line>".
	FormatIssue Format = iota
	// FormatPlain renders the line unchanged.
	FormatPlain
)

func (f Format) String() string {
	switch f {
	case FormatPlain:
		return "plain"
	default:
		return "issue"
	}
}

// ParseFormat parses "issue" or "plain".
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "", "issue":
		return FormatIssue, true
	case "plain":
		return FormatPlain, true
	default:
		return FormatIssue, false
	}
}

var issueSeparator = []byte(" - Found Issue: ")

// Writer renders matched lines to an io.Writer through a buffer.
type Writer struct {
	format Format
	w      *bufio.Writer
}

// NewWriter returns a Processor writing lines in the given format.
func NewWriter(w io.Writer, format Format) *Writer {
	return &Writer{
		format: format,
		w:      bufio.NewWriterSize(w, constants.WriteBufferSize),
	}
}

// ProcessLine writes one newline terminated record.
func (w *Writer) ProcessLine(l *Line) error {
	if w.format == FormatIssue {
		if _, err := w.w.Write(l.Timestamp()); err != nil {
			return err
		}
		if _, err := w.w.Write(issueSeparator); err != nil {
			return err
		}
	}
	if _, err := w.w.Write(l.Content); err != nil {
		return err
	}
	return w.w.WriteByte(constants.LineTerminator)
}

// Flush writes buffered records to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
