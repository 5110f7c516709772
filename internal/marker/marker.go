// Package marker implements the fixed, case-sensitive substring test that
// decides whether a log line is kept.
package marker

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/logsift/logsift/internal/constants"
	"github.com/logsift/logsift/internal/errors"
)

// Marker matches lines containing a literal substring.
type Marker struct {
	str   string
	bytes []byte
}

func (m Marker) String() string {
	return fmt.Sprintf("Marker(%q)", m.str)
}

// New returns a marker for str. The marker must be non-empty and must not
// contain the line terminator, as it could then never match a single line.
func New(str string) (Marker, error) {
	if str == "" {
		return Marker{}, errors.Wrap(errors.ErrInvalidConfig, "marker must not be empty")
	}
	if strings.IndexByte(str, constants.LineTerminator) >= 0 {
		return Marker{}, errors.Wrapf(errors.ErrInvalidConfig,
			"marker %q must not contain the line terminator", str)
	}
	return Marker{str: str, bytes: []byte(str)}, nil
}

// Match a byte string.
func (m Marker) Match(b []byte) bool {
	return bytes.Contains(b, m.bytes)
}

// MatchString matches a string.
func (m Marker) MatchString(s string) bool {
	return strings.Contains(s, m.str)
}

// Len returns the marker length in bytes.
func (m Marker) Len() int {
	return len(m.bytes)
}

// Literal returns the substring the marker matches.
func (m Marker) Literal() string {
	return m.str
}
