// Package exec runs the agent's helper commands.
package exec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
)

// Runner abstracts command execution for testability.
type Runner interface {
	// Run starts the command with the given stdio and waits for it.
	// A command that ran and exited non-zero returns its exit code and a nil error.
	// A command that could not be started returns -1 and the error.
	Run(ctx context.Context, name string, args ...string) (exitCode int, err error)

	// Output runs the command and captures stdout and stderr.
	Output(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// RealRunner implements Runner using os/exec.
// Nil streams fall back to the process's own stdin, stdout and stderr.
type RealRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes the command with inherited stdio.
func (r *RealRunner) Run(ctx context.Context, name string, args ...string) (int, error) {
	// #nosec G204 -- commands come from the troubleshooter's own configuration.
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = orReader(r.Stdin, os.Stdin)
	cmd.Stdout = orWriter(r.Stdout, os.Stdout)
	cmd.Stderr = orWriter(r.Stderr, os.Stderr)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// Output executes the command and returns what it printed.
func (r *RealRunner) Output(ctx context.Context, name string, args ...string) (string, string, error) {
	// #nosec G204 -- commands come from the troubleshooter's own configuration.
	cmd := exec.CommandContext(ctx, name, args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err := cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

func orReader(r, fallback io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return fallback
}

func orWriter(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
