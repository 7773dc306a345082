// Package exec provides an interface for command execution.
package exec

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when the executable cannot be located.
	ErrNotFound = errors.New("executable not found")
	// ErrTimeout is returned when a command exceeds its timeout.
	ErrTimeout = errors.New("command timed out")
)

// ExitError is returned when a command runs to completion with a non-zero status.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return fmt.Sprintf("exit status %d: %s", e.Code, e.Stderr)
}

// Command describes one process invocation.
type Command struct {
	// Name is the executable, looked up on PATH when it has no separator.
	Name string
	// Args are passed verbatim; no shell is involved.
	Args []string
	// Dir is the working directory. Empty means the caller's.
	Dir string
	// Timeout bounds the whole run. Zero means no timeout beyond ctx.
	Timeout time.Duration
}

// Result holds what a command produced, including on failure.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// CommandRunner defines the interface for running external commands.
// This abstraction allows mocking command execution in tests.
type CommandRunner interface {
	// Run executes a command and captures stdout and stderr separately.
	// On timeout the whole process group is killed and ErrTimeout is returned.
	Run(ctx context.Context, cmd Command) (Result, error)

	// LookPath reports where an executable would be found.
	LookPath(name string) (string, error)
}
