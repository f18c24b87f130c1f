package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Exists checks if a command exists in PATH.
func Exists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// LookPath resolves name in PATH, returning "" when it is not found.
func LookPath(name string) string {
	p, err := exec.LookPath(name)
	if err != nil {
		return ""
	}
	return p
}

// SpawnOptions controls the stdio of a spawned process. Nil writers discard
// output; a nil Stdin reads from the null device.
type SpawnOptions struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Env    []string // appended to the inherited environment
}

// Inherit returns options that pass the caller's stdio through.
func Inherit() SpawnOptions {
	return SpawnOptions{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// RunSpawnContext runs a command and waits for it. A non-nil error means the
// process could not be started or was not waited on; a process that ran
// and exited nonzero returns its exit code with a nil error.
func RunSpawnContext(ctx context.Context, opts SpawnOptions, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = opts.Stdin
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("running %s: %w", name, err)
	}
	return 0, nil
}
