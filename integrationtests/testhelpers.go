package integrationtests

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/logsift/logsift/internal/config"
)

// Paths of the compiled binaries, relative to this directory.
const (
	lgenCmd    = "../lgen"
	lscanCmd   = "../lscan"
	lfilterCmd = "../lfilter"
)

// TestLogger tracks test execution details for logging
type TestLogger struct {
	mu              sync.Mutex
	commandHistory  []string
	fileComparisons []string
	testName        string
}

// NewTestLogger creates a new test logger
func NewTestLogger(testName string) *TestLogger {
	return &TestLogger{testName: testName}
}

// LogCommand logs a command execution
func (tl *TestLogger) LogCommand(cmd string, args []string) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.commandHistory = append(tl.commandHistory, fmt.Sprintf("%s %s", cmd, strings.Join(args, " ")))
}

// LogFileComparison logs a file comparison
func (tl *TestLogger) LogFileComparison(fileA, fileB, method string) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.fileComparisons = append(tl.fileComparisons,
		fmt.Sprintf("Compared %s with %s using %s", fileA, fileB, method))
}

// WriteLogFile writes the test log to <testName>.log
func (tl *TestLogger) WriteLogFile() error {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	f, err := os.Create(fmt.Sprintf("%s.log", tl.testName))
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "Test: %s\n", tl.testName)
	fmt.Fprintf(f, "Timestamp: %s\n\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(f, "=== EXTERNAL COMMANDS EXECUTED (in order) ===\n")
	for i, cmd := range tl.commandHistory {
		fmt.Fprintf(f, "%d. %s\n", i+1, cmd)
	}
	fmt.Fprintf(f, "\n=== FILE COMPARISONS ===\n")
	for _, comparison := range tl.fileComparisons {
		fmt.Fprintf(f, "%s\n", comparison)
	}
	return nil
}

type testLoggerKey struct{}

// WithTestLogger adds a test logger to the context
func WithTestLogger(ctx context.Context, logger *TestLogger) context.Context {
	return context.WithValue(ctx, testLoggerKey{}, logger)
}

// GetTestLogger retrieves the test logger from the context
func GetTestLogger(ctx context.Context) *TestLogger {
	if logger, ok := ctx.Value(testLoggerKey{}).(*TestLogger); ok {
		return logger
	}
	return nil
}

// skipIfNotIntegrationTest skips the test if integration tests are not enabled
func skipIfNotIntegrationTest(t *testing.T) {
	t.Helper()
	if !config.Env("LOGSIFT_INTEGRATION_TEST_RUN_MODE") {
		t.Skip("Skipping integration test")
	}
}

// createTestContext returns a context with a 2-minute timeout carrying a
// TestLogger. The log file is only written for failed tests.
func createTestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	logger := NewTestLogger(strings.ReplaceAll(t.Name(), "/", "_"))
	t.Cleanup(func() {
		cancel()
		if !t.Failed() {
			return
		}
		if err := logger.WriteLogFile(); err != nil {
			t.Log(err)
		}
	})
	return WithTestLogger(ctx, logger)
}

// commonArgs keeps the binaries away from any config file and colors.
func commonArgs(extra ...string) []string {
	return append([]string{"--logger", "stderr", "--logLevel", "error", "--no-color"}, extra...)
}

// generateLog runs lgen and returns the path of the generated file inside
// the test's temp dir.
func generateLog(ctx context.Context, t *testing.T, name string, lines, errorEvery int) string {
	t.Helper()
	dir := t.TempDir()
	out := filepath.Join(dir, name)
	exitCode, err := runCommand(ctx, t, filepath.Join(dir, "lgen.stdout"), lgenCmd,
		commonArgs("--lines", strconv.Itoa(lines), "--error-every", strconv.Itoa(errorEvery),
			"--output", out)...)
	if exitCode != 0 || err != nil {
		t.Fatalf("lgen failed with exit code %d: %v", exitCode, err)
	}
	if err := verifyFileExists(t, out); err != nil {
		t.Fatal(err)
	}
	return out
}

// verifyFileExists checks if a file exists and is not empty
func verifyFileExists(t *testing.T, filename string) error {
	t.Helper()

	info, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("file %s not created: %w", filename, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("file %s is empty", filename)
	}
	return nil
}
