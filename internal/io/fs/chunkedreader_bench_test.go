package fs

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/logsift/logsift/internal/io/line"
	"github.com/logsift/logsift/internal/marker"
)

func benchmarkData(lines int) string {
	var sb strings.Builder
	for i := 0; i < lines; i++ {
		if i%10 == 0 {
			sb.WriteString("2024-01-15T10:00:00.000Z [ERROR] System process ID 1234567 failed to respond\n")
			continue
		}
		sb.WriteString("2024-01-15T10:00:00.000Z [INFO] System process ID 1234567 is healthy and responding\n")
	}
	return sb.String()
}

func benchmarkChunkedReader(b *testing.B, lines, chunkSize int) {
	data := benchmarkData(lines)
	m, err := newBenchMarker()
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		cr := NewChunkedReader(strings.NewReader(data), chunkSize, m)
		if err := cr.ProcessLines(context.Background(), io.Discard); err != nil {
			b.Fatalf("ProcessLines error: %v", err)
		}
		if got := cr.Stats().Matches; got != uint64(lines/10) {
			b.Fatalf("expected %d matches, got %d", lines/10, got)
		}
	}
}

// BenchmarkChunkedReader filters 10000 lines with the default chunk size.
func BenchmarkChunkedReader(b *testing.B) {
	benchmarkChunkedReader(b, 10000, 64*1024)
}

// BenchmarkChunkedReaderSmall uses 4KB chunks.
func BenchmarkChunkedReaderSmall(b *testing.B) {
	benchmarkChunkedReader(b, 10000, 4*1024)
}

// BenchmarkChunkedReaderTiny uses chunks much shorter than a line, so nearly
// every line is assembled in the carry.
func BenchmarkChunkedReaderTiny(b *testing.B) {
	benchmarkChunkedReader(b, 1000, 16)
}

func BenchmarkLineScanner(b *testing.B) {
	data := benchmarkData(10000)
	m, err := newBenchMarker()
	if err != nil {
		b.Fatal(err)
	}
	ls := NewLineScanner(m, line.FormatIssue)

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := ls.Scan(context.Background(), strings.NewReader(data), io.Discard); err != nil {
			b.Fatalf("Scan error: %v", err)
		}
	}
}

func newBenchMarker() (marker.Marker, error) {
	return marker.New("[ERROR]")
}
