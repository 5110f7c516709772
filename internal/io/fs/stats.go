package fs

import "github.com/logsift/logsift/internal/constants"

// Stats counts what a reader, filter or scanner has seen. A Stats value is
// owned by exactly one goroutine while a run is in progress.
type Stats struct {
	// Chunks is the number of non-empty reads from the source.
	Chunks uint64
	// BytesRead is the number of (decompressed) source bytes consumed.
	BytesRead uint64
	// Lines is the number of logical lines evaluated against the marker.
	Lines uint64
	// Matches is the number of lines that contained the marker.
	Matches uint64
}

// Add merges o into s.
func (s *Stats) Add(o Stats) {
	s.Chunks += o.Chunks
	s.BytesRead += o.BytesRead
	s.Lines += o.Lines
	s.Matches += o.Matches
}

// MatchedPerc returns the share of matching lines in percent. No lines
// means nothing was dropped, which is reported as 100%.
func (s Stats) MatchedPerc() int {
	if s.Lines == 0 {
		return 100
	}
	return int(float64(s.Matches) / float64(s.Lines) * constants.PercentageMultiplier)
}
