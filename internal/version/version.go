// Package version provides version information and display utilities for
// the LogSift commands.
package version

import (
	"fmt"
	"os"

	"github.com/logsift/logsift/internal/color"
)

const (
	// Name of LogSift.
	Name string = "LogSift"
	// Version of LogSift.
	Version string = "1.2.0"
	// Additional information for LogSift
	Additional string = "Keep only what matters"
)

// String returns a plain text representation of the version information.
func String() string {
	return fmt.Sprintf("%s %v %s", Name, Version, Additional)
}

// PaintedString returns the version information painted for a terminal, or
// String() when painting is disabled.
func PaintedString(enabled bool) string {
	if !enabled {
		return String()
	}
	return color.Name.Render(Name) + color.Version.Render(Version) + color.Info.Render(Additional)
}

// Print the version to stdout.
func Print(noColor bool) {
	fmt.Println(PaintedString(color.Enabled(os.Stdout, noColor)))
}
