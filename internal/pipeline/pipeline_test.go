package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/blake2b"

	"github.com/logsift/logsift/internal/compress"
	lerrors "github.com/logsift/logsift/internal/errors"
	"github.com/logsift/logsift/internal/generator"
	"github.com/logsift/logsift/internal/io/dlog"
	"github.com/logsift/logsift/internal/io/fs"
	"github.com/logsift/logsift/internal/io/line"
	"github.com/logsift/logsift/internal/marker"
	"github.com/logsift/logsift/internal/metrics"
	"github.com/logsift/logsift/internal/testutil"
)

var modes = []Mode{ModeSequential, ModeStaged}

func newPipeline(t *testing.T, mutate func(*Config)) *Pipeline {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func decompress(t *testing.T, kind compress.Kind, data []byte) string {
	t.Helper()
	r, err := compress.NewReader(kind, bytes.NewReader(data))
	testutil.AssertNoError(t, err)
	defer r.Close()
	out, err := io.ReadAll(r)
	testutil.AssertNoError(t, err)
	return string(out)
}

func TestRunScenario(t *testing.T) {
	input := "2024-01-01T00:00:00Z [INFO] a\n2024-01-01T00:00:01Z [ERROR] b\n"

	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			p := newPipeline(t, func(c *Config) {
				c.ChunkSize = 10
				c.Mode = mode
			})

			var out bytes.Buffer
			result, err := p.Run(context.Background(), strings.NewReader(input), &out)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, "2024-01-01T00:00:01Z [ERROR] b\n", decompress(t, compress.Gzip, out.Bytes()))
			testutil.AssertEqual(t, uint64(1), result.Matches)
			testutil.AssertEqual(t, uint64(2), result.Lines)
			testutil.AssertEqual(t, uint64(len(input)), result.BytesRead)
			testutil.AssertEqual(t, uint64(31), result.BytesEmitted)
			testutil.AssertEqual(t, uint64(out.Len()), result.BytesWritten)
			if result.RunID == "" {
				t.Error("expected a run id")
			}
		})
	}
}

// The pipeline must produce exactly what a line-at-a-time scan produces,
// whatever the chunk size.
func TestRunMatchesLineScanner(t *testing.T) {
	lines := testutil.GenerateLogLines(300, 4)
	lines = append(lines, strings.Repeat("w", 700)+"[ERROR]", "", "tail [ERROR] without newline")
	input := strings.TrimSuffix(testutil.JoinLines(lines), "\n")

	m, err := marker.New("[ERROR]")
	testutil.AssertNoError(t, err)
	var scanned bytes.Buffer
	stats, err := fs.NewLineScanner(m, line.FormatPlain).Scan(context.Background(), strings.NewReader(input), &scanned)
	testutil.AssertNoError(t, err)

	for _, mode := range modes {
		for chunkSize := 1; chunkSize <= len(input)+1; chunkSize += chunkStep(chunkSize) {
			p := newPipeline(t, func(c *Config) {
				c.ChunkSize = chunkSize
				c.Compression = compress.None
				c.Mode = mode
				c.QueueDepth = 1 + chunkSize%3
			})

			var out bytes.Buffer
			result, err := p.Run(context.Background(), strings.NewReader(input), &out)
			testutil.AssertNoError(t, err)
			if out.String() != scanned.String() {
				t.Fatalf("%s, chunk size %d: output differs from line scanner", mode, chunkSize)
			}
			testutil.AssertEqual(t, stats.Matches, result.Matches)
		}
	}
}

// chunkStep tests every small chunk size and samples the larger ones.
func chunkStep(chunkSize int) int {
	if chunkSize < 200 {
		return 1
	}
	return 97
}

func TestRunBoundaryInsideMatchingLine(t *testing.T) {
	first := "2024-01-01T00:00:00Z [INFO] a\n"
	matching := "2024-01-01T00:00:01Z [ERROR] b\n"
	input := first + matching

	for _, mode := range modes {
		for offset := 1; offset < len(matching); offset++ {
			p := newPipeline(t, func(c *Config) {
				c.ChunkSize = len(first) + offset
				c.Compression = compress.None
				c.Mode = mode
			})

			var out bytes.Buffer
			result, err := p.Run(context.Background(), strings.NewReader(input), &out)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, matching, out.String())
			testutil.AssertEqual(t, uint64(1), result.Matches)
		}
	}
}

func TestRunEmptyInput(t *testing.T) {
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			p := newPipeline(t, func(c *Config) { c.Mode = mode })

			var out bytes.Buffer
			result, err := p.Run(context.Background(), strings.NewReader(""), &out)
			testutil.AssertNoError(t, err)
			if out.Len() == 0 {
				t.Fatal("expected a valid, empty gzip container")
			}
			testutil.AssertEqual(t, "", decompress(t, compress.Gzip, out.Bytes()))
			testutil.AssertEqual(t, uint64(0), result.Matches)
			testutil.AssertEqual(t, uint64(0), result.BytesEmitted)
		})
	}
}

func TestRunFinalLineWithoutTerminator(t *testing.T) {
	p := newPipeline(t, func(c *Config) {
		c.ChunkSize = 3
		c.Compression = compress.None
	})

	var out bytes.Buffer
	_, err := p.Run(context.Background(), strings.NewReader("a [INFO] 1\nb [ERROR] 2"), &out)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, "b [ERROR] 2\n", out.String())
}

func TestRunDeterministic(t *testing.T) {
	input := testutil.JoinLines(testutil.GenerateLogLines(5000, 10))

	for _, kind := range []compress.Kind{compress.Gzip, compress.Zstd, compress.LZ4} {
		t.Run(kind.String(), func(t *testing.T) {
			var digests [][]byte
			for _, mode := range modes {
				for i := 0; i < 2; i++ {
					p := newPipeline(t, func(c *Config) {
						c.Compression = kind
						c.ChunkSize = 1000
						c.Mode = mode
					})
					var out bytes.Buffer
					result, err := p.Run(context.Background(), strings.NewReader(input), &out)
					testutil.AssertNoError(t, err)

					sum := blake2b.Sum256(out.Bytes())
					if !bytes.Equal(sum[:], result.Digest) {
						t.Fatal("digest does not match the sink bytes")
					}
					testutil.AssertEqual(t, 64, len(result.DigestHex()))
					digests = append(digests, result.Digest)
				}
			}
			for _, d := range digests[1:] {
				if !bytes.Equal(digests[0], d) {
					t.Fatal("runs on the same input produced different output")
				}
			}
		})
	}
}

func TestRunSinkFailure(t *testing.T) {
	input := strings.Repeat("x [ERROR] y\n", 100000)

	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			p := newPipeline(t, func(c *Config) {
				c.Compression = compress.None
				c.ChunkSize = 1024
				c.Mode = mode
			})

			result, err := p.Run(context.Background(), strings.NewReader(input), &failAfter{n: 4096})
			if !lerrors.Is(err, lerrors.ErrSinkWrite) {
				t.Fatalf("expected sink write error, got %v", err)
			}
			if result.BytesRead >= uint64(len(input)) {
				t.Errorf("source was drained after the sink failed: %d bytes read", result.BytesRead)
			}
		})
	}
}

type failAfter struct {
	n       int
	written int
}

func (f *failAfter) Write(p []byte) (int, error) {
	if f.written+len(p) > f.n {
		return 0, errors.New("disk full")
	}
	f.written += len(p)
	return len(p), nil
}

func TestRunSourceFailure(t *testing.T) {
	boom := errors.New("input/output error")
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			p := newPipeline(t, func(c *Config) { c.Mode = mode })
			src := io.MultiReader(strings.NewReader("a [ERROR] 1\n"), errReader{boom})

			_, err := p.Run(context.Background(), src, io.Discard)
			if !lerrors.Is(err, lerrors.ErrSourceRead) || !lerrors.Is(err, boom) {
				t.Fatalf("expected source read error, got %v", err)
			}
		})
	}
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }

func TestRunCanceled(t *testing.T) {
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			p := newPipeline(t, func(c *Config) { c.Mode = mode })
			_, err := p.Run(ctx, strings.NewReader("a [ERROR] 1\n"), io.Discard)
			if !lerrors.Is(err, lerrors.ErrCanceled) {
				t.Fatalf("expected cancellation, got %v", err)
			}
		})
	}
}

func TestRunMillionLines(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 1,000,000 line run in short mode")
	}

	g, err := generator.New(generator.Config{Lines: 1000000, ErrorEvery: 10})
	testutil.AssertNoError(t, err)
	var input bytes.Buffer
	_, err = g.Generate(context.Background(), &input)
	testutil.AssertNoError(t, err)

	m, err := marker.New("[ERROR]")
	testutil.AssertNoError(t, err)
	stats, err := fs.NewLineScanner(m, line.FormatIssue).Scan(context.Background(),
		bytes.NewReader(input.Bytes()), io.Discard)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, uint64(100000), stats.Matches)

	for _, mode := range modes {
		p := newPipeline(t, func(c *Config) { c.Mode = mode })
		result, err := p.Run(context.Background(), bytes.NewReader(input.Bytes()), io.Discard)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, uint64(100000), result.Matches)
		testutil.AssertEqual(t, uint64(1000000), result.Lines)
	}
}

func TestRunFile(t *testing.T) {
	dir := testutil.TempDir(t)
	in := filepath.Join(dir, "massive-log.txt.gz")
	g, err := generator.New(generator.Config{Lines: 1000, ErrorEvery: 10})
	testutil.AssertNoError(t, err)
	_, err = g.GenerateFile(context.Background(), in)
	testutil.AssertNoError(t, err)

	out := filepath.Join(dir, "out", "errors-only.log.zst")
	p := newPipeline(t, func(c *Config) { c.Compression = compress.Zstd })
	result, err := p.RunFile(context.Background(), in, out)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, uint64(100), result.Matches)

	data, err := os.ReadFile(out)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, result.BytesWritten, uint64(len(data)))
	testutil.AssertEqual(t, 100, strings.Count(decompress(t, compress.Zstd, data), "[ERROR]"))
}

func TestRunFileMissingInput(t *testing.T) {
	dir := testutil.TempDir(t)
	out := filepath.Join(dir, "errors-only.log.gz")

	p := newPipeline(t, nil)
	_, err := p.RunFile(context.Background(), filepath.Join(dir, "massive-log.txt"), out)
	if !lerrors.Is(err, lerrors.ErrFileNotFound) {
		t.Fatalf("expected file not found, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("output must not be created, stat returned %v", err)
	}
}

func TestRunObserved(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	collector := metrics.New()

	p, err := New(DefaultConfig(), WithLogger(dlog.New(zap.New(core))), WithMetrics(collector))
	testutil.AssertNoError(t, err)

	result, err := p.Run(context.Background(), strings.NewReader("a [ERROR] 1\nb [INFO] 2\n"), io.Discard)
	testutil.AssertNoError(t, err)

	finished := logs.FilterMessageSnippet("Run finished").All()
	testutil.AssertEqual(t, 1, len(finished))
	testutil.AssertEqual(t, result.RunID, finished[0].ContextMap()["run"])

	testutil.AssertEqual(t, uint64(1), p.Progress().Matches())
	testutil.AssertEqual(t, uint64(23), p.Progress().BytesRead())
}
