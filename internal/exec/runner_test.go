//go:build !windows

package exec

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_Run(t *testing.T) {
	tests := []struct {
		name       string
		cmd        Command
		wantStdout string
		wantErr    error
		wantExit   int
	}{
		{
			name:       "captures stdout",
			cmd:        Command{Name: "sh", Args: []string{"-c", "echo hello"}},
			wantStdout: "hello\n",
			wantExit:   0,
		},
		{
			name:     "missing executable",
			cmd:      Command{Name: "definitely-not-a-real-binary-4242"},
			wantErr:  ErrNotFound,
			wantExit: -1,
		},
		{
			name:     "missing executable by path",
			cmd:      Command{Name: "/nonexistent/bin/agent"},
			wantErr:  ErrNotFound,
			wantExit: -1,
		},
	}

	r := NewRunner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Run(context.Background(), tt.cmd)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantStdout, string(res.Stdout))
			assert.Equal(t, tt.wantExit, res.ExitCode)
		})
	}
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	r := NewRunner()
	res, err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo partial; echo boom >&2; exit 3"},
	})
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected *ExitError, got %T", err)
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, "boom\n", exitErr.Stderr)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "partial\n", string(res.Stdout))
	assert.Contains(t, exitErr.Error(), "exit status 3")
}

func TestExecRunner_Timeout(t *testing.T) {
	r := NewRunner()
	start := time.Now()
	// The background sleep keeps the group alive; the whole group must die.
	_, err := r.Run(context.Background(), Command{
		Name:    "sh",
		Args:    []string{"-c", "sleep 30 & sleep 30"},
		Timeout: 100 * time.Millisecond,
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
	assert.Less(t, elapsed, 5*time.Second, "timeout should not block for the child's lifetime")
}

func TestExecRunner_ParentCancel(t *testing.T) {
	r := NewRunner()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := r.Run(ctx, Command{Name: "sh", Args: []string{"-c", "sleep 30"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestExecRunner_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner()

	res, err := r.Run(context.Background(), Command{Name: "pwd", Dir: dir})
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(strings.TrimSpace(string(res.Stdout)))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExecRunner_MissingWorkingDirectoryIsNotNotFound(t *testing.T) {
	r := NewRunner()
	_, err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "true"},
		Dir:  filepath.Join(os.TempDir(), "council-missing-dir-for-test"),
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound), "chdir failures must not look like a missing binary")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorContains(t, err, "working directory")
}

func TestExecRunner_LookPath(t *testing.T) {
	r := NewRunner()

	path, err := r.LookPath("sh")
	require.NoError(t, err)
	assert.NotEmpty(t, path)

	_, err = r.LookPath("definitely-not-a-real-binary-4242")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestExitError_Error(t *testing.T) {
	assert.Equal(t, "exit status 2", (&ExitError{Code: 2}).Error())
	assert.Equal(t, "exit status 1: nope", (&ExitError{Code: 1, Stderr: "nope"}).Error())
}
