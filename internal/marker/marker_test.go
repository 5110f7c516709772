package marker

import (
	"testing"

	"github.com/logsift/logsift/internal/errors"
	"github.com/logsift/logsift/internal/testutil"
)

func TestMarkerMatch(t *testing.T) {
	m, err := New("[ERROR]")
	testutil.AssertNoError(t, err)

	tests := []struct {
		name  string
		line  string
		match bool
	}{
		{"error line", "2024-01-01T00:00:01Z [ERROR] b", true},
		{"info line", "2024-01-01T00:00:00Z [INFO] a", false},
		{"empty line", "", false},
		{"exact", "[ERROR]", true},
		{"case sensitive", "2024 [error] lower", false},
		{"without brackets", "ERROR without brackets", false},
		{"at end", "something [ERROR]", true},
		{"partial", "[ERROR", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, tt.match, m.Match([]byte(tt.line)))
			testutil.AssertEqual(t, tt.match, m.MatchString(tt.line))
		})
	}
}

func TestMarkerInvalid(t *testing.T) {
	if _, err := New(""); !errors.Is(err, errors.ErrInvalidConfig) {
		t.Errorf("expected invalid config for empty marker, got %v", err)
	}
	if _, err := New("two\nlines"); !errors.Is(err, errors.ErrInvalidConfig) {
		t.Errorf("expected invalid config for marker with newline, got %v", err)
	}
}

func TestMarkerRegexMetaCharsAreLiteral(t *testing.T) {
	m, err := New("a.*b")
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, false, m.MatchString("axxb"))
	testutil.AssertEqual(t, true, m.MatchString("xx a.*b xx"))
	testutil.AssertEqual(t, 4, m.Len())
}
