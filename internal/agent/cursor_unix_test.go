//go:build !windows

package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShayCichocki/council/internal/exec"
)

// fakeAgentScript mimics the agent CLI's command-line contract.
const fakeAgentScript = `#!/bin/sh
if [ "$1" = "status" ]; then
  echo "Logged in"
  exit 0
fi
case "$5" in
  slow) sleep 30 ;;
  broken) echo "quota exceeded" >&2; exit 2 ;;
  silent) exit 0 ;;
esac
if [ -n "$(ls -A "$7")" ]; then
  echo "workspace not empty" >&2
  exit 9
fi
printf '  %s says: %s  \n' "$5" "$8"
`

func writeFakeAgent(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-agent")
	require.NoError(t, os.WriteFile(path, []byte(fakeAgentScript), 0755))
	return path
}

func TestCursorAgent_RealProcess(t *testing.T) {
	bin := writeFakeAgent(t)
	scratch := t.TempDir()
	a := New(exec.NewRunner(), Options{Binary: bin, ScratchRoot: scratch})
	ctx := context.Background()

	ans := a.Query(ctx, "alpha", "hi there", 5*time.Second)
	require.True(t, ans.OK(), "unexpected failure: %v", ans.Err)
	assert.Equal(t, "alpha says: hi there", ans.Text)
	assert.Greater(t, ans.Elapsed, time.Duration(0))

	ans = a.Query(ctx, "broken", "hi", 5*time.Second)
	var exitErr *exec.ExitError
	require.True(t, errors.As(ans.Err, &exitErr), "got %v", ans.Err)
	assert.Equal(t, 2, exitErr.Code)
	assert.Equal(t, "quota exceeded", exitErr.Stderr)

	ans = a.Query(ctx, "silent", "hi", 5*time.Second)
	assert.True(t, errors.Is(ans.Err, ErrEmptyAnswer))

	start := time.Now()
	ans = a.Query(ctx, "slow", "hi", 200*time.Millisecond)
	assert.True(t, errors.Is(ans.Err, ErrTimeout), "got %v", ans.Err)
	assert.Less(t, time.Since(start), 5*time.Second)

	out, err := a.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Logged in", out)

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries, "every scratch dir should be removed")
}
