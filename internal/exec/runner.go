package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"time"
)

// waitDelay bounds how long Wait keeps reading pipes after the process
// group has been killed. Grandchildren holding stdout open would otherwise
// block the caller past its timeout.
const waitDelay = 2 * time.Second

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

// NewRunner creates a new ExecRunner.
func NewRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes a command and returns its captured output.
func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	// With SysProcAttr set, a missing Dir fails inside fork/exec with the
	// same ENOENT as a missing binary, so it is checked up front.
	if c.Dir != "" {
		if _, err := os.Stat(c.Dir); err != nil {
			return Result{ExitCode: -1}, fmt.Errorf("%s: working directory: %w", c.Name, err)
		}
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	configureCommandProcess(cmd)
	cmd.Cancel = func() error {
		terminateCommandProcess(cmd)
		return nil
	}
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()

	res := Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: -1,
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err == nil {
		return res, nil
	}

	if isNotFound(cmd, err) {
		return res, fmt.Errorf("%s: %w", c.Name, ErrNotFound)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return res, fmt.Errorf("%s after %s: %w", c.Name, c.Timeout, ErrTimeout)
		}
		return res, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return res, &ExitError{Code: exitErr.ExitCode(), Stderr: string(res.Stderr)}
	}

	return res, fmt.Errorf("run %s: %w", c.Name, err)
}

// isNotFound reports whether err means the executable itself is missing.
func isNotFound(cmd *exec.Cmd, err error) bool {
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	if cmd.Process != nil {
		return false
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Op != "chdir" && errors.Is(pathErr.Err, fs.ErrNotExist)
	}
	return false
}

// LookPath reports where an executable would be found on PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return path, nil
}

// Verify ExecRunner implements CommandRunner at compile time.
var _ CommandRunner = (*ExecRunner)(nil)
