package line

import (
	"bytes"
	"testing"

	"github.com/logsift/logsift/internal/testutil"
)

func TestTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"generated line", "2024-01-01T00:00:01.000Z [ERROR] System process ID 0", "2024-01-01T00:00:01.000Z"},
		{"no spaces", "[ERROR]", "[ERROR]"},
		{"leading space", " [ERROR] x", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Line{Content: []byte(tt.content)}
			testutil.AssertEqual(t, tt.want, string(l.Timestamp()))
		})
	}
}

func TestWriterIssueFormat(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, FormatIssue)

	l := Line{Content: []byte("2024-01-01T00:00:01Z [ERROR] b"), Num: 2, Matched: true}
	testutil.AssertNoError(t, w.ProcessLine(&l))
	testutil.AssertEqual(t, 0, buf.Len())
	testutil.AssertNoError(t, w.Flush())

	testutil.AssertEqual(t,
		"2024-01-01T00:00:01Z - Found Issue: 2024-01-01T00:00:01Z [ERROR] b\n", buf.String())
}

func TestWriterPlainFormat(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, FormatPlain)

	for _, s := range []string{"a [ERROR] 1", "b [ERROR] 2"} {
		l := Line{Content: []byte(s)}
		testutil.AssertNoError(t, w.ProcessLine(&l))
	}
	testutil.AssertNoError(t, w.Flush())
	testutil.AssertEqual(t, "a [ERROR] 1\nb [ERROR] 2\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat("plain")
	testutil.AssertEqual(t, true, ok)
	testutil.AssertEqual(t, FormatPlain, f)

	f, ok = ParseFormat("")
	testutil.AssertEqual(t, true, ok)
	testutil.AssertEqual(t, FormatIssue, f)

	_, ok = ParseFormat("json")
	testutil.AssertEqual(t, false, ok)
	testutil.AssertEqual(t, "issue", FormatIssue.String())
}
