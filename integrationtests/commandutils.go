package integrationtests

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// runCommand runs cmdStr and writes its combined stdout and stderr to
// stdoutFile. It returns the exit code; err is only set when the command
// could not be run at all or exited non-zero.
func runCommand(ctx context.Context, t *testing.T, stdoutFile, cmdStr string,
	args ...string) (int, error) {

	if _, err := os.Stat(cmdStr); err != nil {
		return 0, fmt.Errorf("no such executable '%s', please compile first: %v", cmdStr, err)
	}
	if logger := GetTestLogger(ctx); logger != nil {
		logger.LogCommand(cmdStr, args)
	}

	t.Log("Creating stdout file", stdoutFile)
	fd, err := os.Create(stdoutFile)
	if err != nil {
		return 0, err
	}
	defer fd.Close()

	t.Log("Running command", cmdStr, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, cmdStr, args...)
	out, err := cmd.CombinedOutput()
	t.Log("Done running command!", err)
	if _, werr := fd.Write(out); werr != nil {
		return 0, werr
	}

	exitCode, ok := exitCodeFromError(err)
	if !ok {
		return 0, err
	}
	return exitCode, err
}

// exitCodeFromError returns false when err does not carry an exit status.
func exitCodeFromError(err error) (int, bool) {
	if err == nil {
		return 0, true
	}
	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		return exitError.ExitCode(), true
	}
	return 0, false
}
