package pipeline

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/docker/go-units"

	"github.com/logsift/logsift/internal/io/fs"
	"github.com/logsift/logsift/internal/metrics"
)

// Result describes a finished (or aborted) run.
type Result struct {
	// RunID identifies the run in log lines and metrics.
	RunID string
	fs.Stats
	// BytesEmitted is the number of uncompressed bytes handed to the
	// compressor, i.e. the size of the matching lines.
	BytesEmitted uint64
	// BytesWritten is the number of bytes that reached the sink.
	BytesWritten uint64
	// Digest is the BLAKE2b-256 sum of the bytes written to the sink.
	Digest   []byte
	Duration time.Duration
}

// DigestHex returns the digest as a hex string.
func (r Result) DigestHex() string {
	return hex.EncodeToString(r.Digest)
}

// String returns a one line summary.
func (r Result) String() string {
	return fmt.Sprintf("read %s in %d chunks, %d lines, %d matched (%d%%), wrote %s (%s uncompressed) in %s",
		units.HumanSize(float64(r.BytesRead)), r.Chunks, r.Lines, r.Matches, r.MatchedPerc(),
		units.HumanSize(float64(r.BytesWritten)), units.HumanSize(float64(r.BytesEmitted)),
		r.Duration.Round(time.Millisecond))
}

// Sample converts the result for the metrics collector.
func (r Result) Sample() metrics.Sample {
	return metrics.Sample{
		BytesRead:    r.BytesRead,
		Lines:        r.Lines,
		Matches:      r.Matches,
		BytesWritten: r.BytesWritten,
		Duration:     r.Duration,
	}
}
