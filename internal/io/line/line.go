// Package line holds the transient representation of a logical log line and
// the processors matched lines are handed to.
package line

import "bytes"

// Line is a logical record extracted from raw bytes. Content never includes
// the line terminator. Content is only valid until the next line is read.
type Line struct {
	Content []byte
	// Num is the 1-based position of the line in its source.
	Num     uint64
	Matched bool
}

// Timestamp returns the first space separated token of the line, which is the
// timestamp for generated logs. A line starting with a space yields "".
func (l *Line) Timestamp() []byte {
	if i := bytes.IndexByte(l.Content, ' '); i >= 0 {
		return l.Content[:i]
	}
	return l.Content
}
