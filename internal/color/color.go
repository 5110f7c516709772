// Package color paints command output on a terminal. Output that is
// redirected to a file or a pipe stays plain.
package color

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	accent  = lipgloss.Color("#7D56F4")
	success = lipgloss.Color("#04B575")
	failure = lipgloss.Color("#FF4672")
	muted   = lipgloss.Color("#777777")
	yellow  = lipgloss.Color("#F5D90A")
	blue    = lipgloss.Color("#1F6FEB")
)

// Styles used across the commands.
var (
	Name    = lipgloss.NewStyle().Bold(true).Foreground(yellow).Background(blue).Padding(0, 1)
	Version = lipgloss.NewStyle().Bold(true).Foreground(blue).Background(yellow).Padding(0, 1)
	Info    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(accent).Padding(0, 1)
	Accent  = lipgloss.NewStyle().Foreground(accent).Bold(true)
	Success = lipgloss.NewStyle().Foreground(success).Bold(true)
	Failure = lipgloss.NewStyle().Foreground(failure).Bold(true)
	Muted   = lipgloss.NewStyle().Foreground(muted)
)

// Enabled reports whether f is a terminal and colors were not turned off.
func Enabled(f *os.File, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Paint renders s with style when enabled, and returns s unchanged otherwise.
func Paint(enabled bool, style lipgloss.Style, s string) string {
	if !enabled {
		return s
	}
	return style.Render(s)
}
