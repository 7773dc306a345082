package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShayCichocki/council/internal/exec"
)

func TestCursorAgent_Status(t *testing.T) {
	tests := []struct {
		name      string
		stdout    string
		err       error
		wantErr   error
		wantEnv   bool
		wantAnyOK bool
	}{
		{
			name:      "logged in",
			stdout:    "Logged in as dev@example.com\n",
			wantAnyOK: true,
		},
		{
			name:    "not logged in",
			stdout:  "You are Not Logged In.",
			wantErr: ErrNotAuthenticated,
			wantEnv: true,
		},
		{
			name:    "not authenticated with non-zero exit",
			stdout:  "error: NOT AUTHENTICATED",
			err:     &exec.ExitError{Code: 1},
			wantErr: ErrNotAuthenticated,
			wantEnv: true,
		},
		{
			name:    "binary missing",
			err:     exec.ErrNotFound,
			wantErr: ErrAgentNotFound,
			wantEnv: true,
		},
		{
			name:      "non-zero exit without marker is inconclusive but fine",
			stdout:    "status unavailable",
			err:       &exec.ExitError{Code: 2},
			wantAnyOK: true,
		},
		{
			name:    "timeout cannot verify",
			err:     exec.ErrTimeout,
			wantErr: exec.ErrTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{run: func(cmd exec.Command) (exec.Result, error) {
				return exec.Result{Stdout: []byte(tt.stdout)}, tt.err
			}}
			a := New(runner, Options{Binary: "cursor-agent"})

			_, err := a.Status(context.Background())

			require.Len(t, runner.calls, 1)
			assert.Equal(t, []string{"status"}, runner.calls[0].Args)
			assert.Equal(t, a.statusTimeout, runner.calls[0].Timeout)

			if tt.wantAnyOK {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
			assert.Equal(t, tt.wantEnv, IsEnvironmentError(err))
		})
	}
}

func TestCursorAgent_CheckInstalled(t *testing.T) {
	runner := &fakeRunner{}
	a := New(runner, Options{Binary: "cursor-agent"})

	path, err := a.CheckInstalled()
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/cursor-agent", path)

	runner.lookPath = func(name string) (string, error) {
		return "", exec.ErrNotFound
	}
	_, err = a.CheckInstalled()
	assert.True(t, errors.Is(err, ErrAgentNotFound))
	assert.True(t, IsEnvironmentError(err))
}
