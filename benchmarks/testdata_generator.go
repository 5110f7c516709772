package benchmarks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/logsift/logsift/internal/compress"
	"github.com/logsift/logsift/internal/constants"
	"github.com/logsift/logsift/internal/generator"
)

// FileSize is the number of generated lines. A generated line is roughly 55
// bytes long.
type FileSize int

const (
	Small  FileSize = 20000   // ~1MB
	Medium FileSize = 200000  // ~10MB
	Large  FileSize = 2000000 // ~100MB
)

func (fs FileSize) String() string {
	switch fs {
	case Small:
		return "1MB"
	case Medium:
		return "10MB"
	case Large:
		return "100MB"
	default:
		return fmt.Sprintf("%dlines", int(fs))
	}
}

// TestDataConfig configures test data generation
type TestDataConfig struct {
	Size        FileSize
	Compression compress.Kind
	// ErrorEvery makes every Nth line an ERROR line. Zero uses the
	// generator's default.
	ErrorEvery int
}

// benchEpoch stamps every generated line so files are byte-identical
// across runs.
var benchEpoch = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

// GenerateTestFile writes a log file into the test's temp dir and returns
// its path. The file is compressed when config.Compression says so.
func GenerateTestFile(tb testing.TB, config TestDataConfig) string {
	tb.Helper()

	errorEvery := config.ErrorEvery
	if errorEvery == 0 {
		errorEvery = constants.DefaultErrorEvery
	}
	gen, err := generator.New(generator.Config{
		Lines:      int(config.Size),
		ErrorEvery: errorEvery,
		Clock:      func() time.Time { return benchEpoch },
	})
	if err != nil {
		tb.Fatalf("Failed to create generator: %v", err)
	}

	name := fmt.Sprintf("logsift_bench_%s.log%s", config.Size, config.Compression.Extension())
	path := filepath.Join(tb.TempDir(), name)
	if _, err := gen.GenerateFile(context.Background(), path); err != nil {
		tb.Fatalf("Failed to generate %s: %v", path, err)
	}
	return path
}

// GetBenchmarkSizes returns the file sizes to test. LOGSIFT_BENCH_SIZES takes
// a comma separated list of small, medium and large.
func GetBenchmarkSizes() []FileSize {
	sizesEnv := os.Getenv("LOGSIFT_BENCH_SIZES")
	if sizesEnv == "" {
		return []FileSize{Small, Medium}
	}

	var sizes []FileSize
	for _, sizeStr := range strings.Split(sizesEnv, ",") {
		switch strings.ToLower(strings.TrimSpace(sizeStr)) {
		case "small", "1mb":
			sizes = append(sizes, Small)
		case "medium", "10mb":
			sizes = append(sizes, Medium)
		case "large", "100mb":
			sizes = append(sizes, Large)
		}
	}
	if len(sizes) == 0 {
		return []FileSize{Small}
	}
	return sizes
}
