package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ShayCichocki/council/internal/exec"
)

// notAuthenticatedMarkers are matched case-insensitively against status output.
var notAuthenticatedMarkers = []string{"not logged in", "not authenticated"}

// CheckInstalled verifies that the agent CLI is available in PATH.
func (a *CursorAgent) CheckInstalled() (string, error) {
	path, err := a.runner.LookPath(a.binary)
	if err != nil {
		return "", fmt.Errorf("%s: %w", a.binary, ErrAgentNotFound)
	}
	return path, nil
}

// Status runs the agent CLI's status subcommand and returns its output.
//
// ErrAgentNotFound and ErrNotAuthenticated are environment errors that
// should stop a run before it starts. Any other error means the status
// could not be verified; callers may proceed anyway.
func (a *CursorAgent) Status(ctx context.Context) (string, error) {
	res, err := a.runner.Run(ctx, exec.Command{
		Name:    a.binary,
		Args:    []string{"status"},
		Timeout: a.statusTimeout,
	})
	if errors.Is(err, exec.ErrNotFound) {
		return "", fmt.Errorf("%s: %w", a.binary, ErrAgentNotFound)
	}

	out := strings.TrimSpace(string(res.Stdout))
	lower := strings.ToLower(out)
	for _, marker := range notAuthenticatedMarkers {
		if strings.Contains(lower, marker) {
			return out, fmt.Errorf("%s: %w", a.binary, ErrNotAuthenticated)
		}
	}

	// A non-zero exit without an authentication marker is not conclusive.
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		a.logger.Warn("could not verify agent status", zap.Error(err))
		return out, fmt.Errorf("verify %s status: %w", a.binary, err)
	}

	return out, nil
}

// IsEnvironmentError reports whether err means the agent CLI cannot be used
// at all, as opposed to a single call failing.
func IsEnvironmentError(err error) bool {
	return errors.Is(err, ErrAgentNotFound) || errors.Is(err, ErrNotAuthenticated)
}
