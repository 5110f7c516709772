package color

import (
	"os"
	"testing"

	"github.com/logsift/logsift/internal/testutil"
)

func TestPaintDisabled(t *testing.T) {
	testutil.AssertEqual(t, "12 matches", Paint(false, Success, "12 matches"))
}

func TestPaintEnabled(t *testing.T) {
	painted := Paint(true, Accent, "12 matches")
	testutil.AssertContains(t, painted, "12 matches")
}

func TestEnabled(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "color")
	testutil.AssertNoError(t, err)
	defer f.Close()

	if Enabled(f, false) {
		t.Error("a regular file is not a terminal")
	}
	if Enabled(os.Stdout, true) {
		t.Error("no-color must win")
	}
}
