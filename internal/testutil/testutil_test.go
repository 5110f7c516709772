package testutil

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestTempFile(t *testing.T) {
	content := "test content\nline 2"
	path := TempFile(t, content)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("temp file does not exist: %s", path)
	}

	actual, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read temp file: %v", err)
	}

	if string(actual) != content {
		t.Errorf("content mismatch: expected %q, got %q", content, string(actual))
	}
}

func TestTempDir(t *testing.T) {
	dir := TempDir(t)

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		t.Fatalf("temp dir does not exist: %s", dir)
	}

	if !info.IsDir() {
		t.Errorf("path is not a directory: %s", dir)
	}
}

func TestAssertions(t *testing.T) {
	t.Run("AssertError", func(t *testing.T) {
		err := fmt.Errorf("file not exist")
		AssertError(t, err, "not exist")
	})

	t.Run("AssertNoError", func(t *testing.T) {
		AssertNoError(t, nil)
	})

	t.Run("AssertEqual", func(t *testing.T) {
		AssertEqual(t, 42, 42)
		AssertEqual(t, "[ERROR]", "[ERROR]")
	})

	t.Run("AssertContains", func(t *testing.T) {
		AssertContains(t, "2024 [ERROR] boom", "[ERROR]")
		AssertNotContains(t, "2024 [INFO] fine", "[ERROR]")
	})

	t.Run("AssertLines", func(t *testing.T) {
		AssertLines(t, "a\nb\n", "a\nb\n")
	})
}

func TestCaptureOutput(t *testing.T) {
	out := CaptureOutput(t, func() {
		fmt.Println("captured")
	})
	AssertEqual(t, "captured\n", out)
}

func TestGenerateLogLines(t *testing.T) {
	lines := GenerateLogLines(100, 10)
	if len(lines) != 100 {
		t.Fatalf("expected 100 lines, got %d", len(lines))
	}

	errors := 0
	for _, line := range lines {
		if strings.Contains(line, "[ERROR]") {
			errors++
		}
	}
	AssertEqual(t, 10, errors)
	AssertContains(t, lines[0], "[ERROR]")
	AssertContains(t, lines[1], "[INFO]")
}

func TestJoinAndFilterLines(t *testing.T) {
	lines := []string{"a [ERROR] 1", "b [INFO] 2", "c [ERROR] 3"}

	AssertEqual(t, "a [ERROR] 1\nb [INFO] 2\nc [ERROR] 3\n", JoinLines(lines))
	AssertEqual(t, "", JoinLines(nil))
	AssertEqual(t, "a [ERROR] 1\nc [ERROR] 3\n", FilterLines(lines, "[ERROR]"))
}
