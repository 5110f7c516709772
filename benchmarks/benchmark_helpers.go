package benchmarks

import (
	"os"
	"testing"
	"time"
)

// BenchmarkResult captures the totals of all iterations of one benchmark.
type BenchmarkResult struct {
	BytesRead uint64
	Lines     uint64
	Matches   uint64
	Duration  time.Duration
}

// Add accumulates the counters of one iteration.
func (r *BenchmarkResult) Add(bytesRead, lines, matches uint64) {
	r.BytesRead += bytesRead
	r.Lines += lines
	r.Matches += matches
}

// CalculateThroughput computes MB/sec from a byte count and duration
func CalculateThroughput(bytes uint64, duration time.Duration) float64 {
	if duration == 0 {
		return 0
	}
	megabytes := float64(bytes) / (1024 * 1024)
	return megabytes / duration.Seconds()
}

// CalculateLinesPerSecond computes lines/sec from line count and duration
func CalculateLinesPerSecond(lines uint64, duration time.Duration) float64 {
	if duration == 0 {
		return 0
	}
	return float64(lines) / duration.Seconds()
}

// ReportBenchmarkMetrics adds custom metrics to benchmark results
func ReportBenchmarkMetrics(b *testing.B, result *BenchmarkResult) {
	b.Helper()

	if throughput := CalculateThroughput(result.BytesRead, result.Duration); throughput > 0 {
		b.ReportMetric(throughput, "MB/sec")
	}
	if linesPerSec := CalculateLinesPerSecond(result.Lines, result.Duration); linesPerSec > 0 {
		b.ReportMetric(linesPerSec, "lines/sec")
	}
	if result.Lines > 0 {
		b.ReportMetric(float64(result.Matches)/float64(result.Lines)*100, "matched%")
	}
}

// IsQuickMode checks if we should run quick benchmarks only
func IsQuickMode() bool {
	return os.Getenv("LOGSIFT_BENCH_QUICK") == "true"
}
