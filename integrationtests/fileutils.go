package integrationtests

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"

	"golang.org/x/crypto/blake2b"

	"github.com/logsift/logsift/internal/io/fs"
)

// readFile returns the contents of file, decompressed when its extension
// names a codec.
func readFile(t *testing.T, file string) []byte {
	t.Helper()
	src, err := fs.OpenSource(file)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		t.Fatalf("reading %s: %v", file, err)
	}
	return data
}

// compareFiles checks whether the (decompressed) contents of both files are
// identical, including line order.
func compareFiles(t *testing.T, fileA, fileB string) error {
	t.Log("Comparing files", fileA, fileB)
	shaFileA := shaOf(t, fileA, readFile(t, fileA))
	shaFileB := shaOf(t, fileB, readFile(t, fileB))

	if shaFileA != shaFileB {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Expected SHA %s but got %s:\n", shaFileA, shaFileB))
		if out, err := exec.Command("diff", "-u", fileA, fileB).Output(); err != nil {
			sb.Write(out)
		}
		return fmt.Errorf("%s", sb.String())
	}

	return nil
}

func compareFilesWithContext(ctx context.Context, t *testing.T, fileA, fileB string) error {
	if logger := GetTestLogger(ctx); logger != nil {
		logger.LogFileComparison(fileA, fileB, "exact (SHA256)")
	}
	return compareFiles(t, fileA, fileB)
}

func fileContainsStr(t *testing.T, file, str string) error {
	t.Log("Checking if file contains string", file, str)
	data := readFile(t, file)
	for _, line := range strings.Split(string(data), "\n") {
		if strings.Contains(line, str) {
			t.Log(line)
			return nil
		}
	}
	return fmt.Errorf("File %s does not contain string %s", file, str)
}

// countLines counts the terminated lines of file and how many of them
// contain substr.
func countLines(t *testing.T, file, substr string) (lines, matches int) {
	data := readFile(t, file)
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			t.Fatalf("%s ends with an unterminated line", file)
		}
		lines++
		if bytes.Contains(data[:i], []byte(substr)) {
			matches++
		}
		data = data[i+1:]
	}
	return
}

func shaOf(t *testing.T, file string, data []byte) string {
	hasher := sha256.New()
	hasher.Write(data)
	sha := base64.URLEncoding.EncodeToString(hasher.Sum(nil))
	t.Log("SHA", file, sha)
	return sha
}

// blake2bOfFile returns the hex BLAKE2b-256 sum of the raw (compressed)
// bytes of file.
func blake2bOfFile(t *testing.T, file string) string {
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	sum := blake2b.Sum256(data)
	return fmt.Sprintf("%x", sum)
}
