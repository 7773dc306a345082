// Package agent runs the external agent CLI that answers council prompts.
package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ShayCichocki/council/internal/exec"
	"github.com/ShayCichocki/council/pkg/models"
)

// DefaultBinary is the agent CLI invoked when none is configured.
const DefaultBinary = "cursor-agent"

// stderrExcerpt is how much of a failing call's stderr is kept.
const stderrExcerpt = 200

var (
	// ErrAgentNotFound means the agent CLI is not installed or not on PATH.
	ErrAgentNotFound = errors.New("agent CLI not found")
	// ErrNotAuthenticated means the agent CLI reports no logged-in user.
	ErrNotAuthenticated = errors.New("agent CLI not authenticated")
	// ErrEmptyAnswer means the call succeeded but printed nothing.
	ErrEmptyAnswer = errors.New("empty answer")
	// ErrTimeout means the call exceeded its timeout and was killed.
	ErrTimeout = exec.ErrTimeout
)

// Options configures a CursorAgent.
type Options struct {
	// Binary is the agent CLI name or path. Defaults to DefaultBinary.
	Binary string
	// ScratchRoot is the parent of per-call scratch directories.
	// Empty means the OS temp directory.
	ScratchRoot string
	// Tag is folded into scratch directory names, typically the run ID.
	Tag string
	// StatusTimeout bounds the status check. Defaults to 10s.
	StatusTimeout time.Duration
	// Logger receives diagnostics. Nil means no logging.
	Logger *zap.Logger
}

// CursorAgent answers prompts by running the agent CLI once per call,
// each time inside a fresh empty directory so no workspace context leaks in.
type CursorAgent struct {
	runner        exec.CommandRunner
	binary        string
	scratchRoot   string
	tag           string
	statusTimeout time.Duration
	logger        *zap.Logger

	missingOnce sync.Once
}

// New creates a CursorAgent that runs commands through runner.
func New(runner exec.CommandRunner, opts Options) *CursorAgent {
	if opts.Binary == "" {
		opts.Binary = DefaultBinary
	}
	if opts.StatusTimeout <= 0 {
		opts.StatusTimeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &CursorAgent{
		runner:        runner,
		binary:        opts.Binary,
		scratchRoot:   opts.ScratchRoot,
		tag:           opts.Tag,
		statusTimeout: opts.StatusTimeout,
		logger:        opts.Logger.Named("agent"),
	}
}

// Binary returns the agent CLI this agent invokes.
func (a *CursorAgent) Binary() string {
	return a.binary
}

// Args builds the agent CLI argument list for one query.
// The prompt is always the last argument.
func Args(model, workspace, prompt string) []string {
	return []string{
		"--print",
		"--output-format", "text",
		"--model", model,
		"--workspace", workspace,
		prompt,
	}
}

// Query sends prompt to model and waits at most timeout for the answer.
// It never panics and never returns a Go error; see models.Answer.
func (a *CursorAgent) Query(ctx context.Context, model, prompt string, timeout time.Duration) (ans models.Answer) {
	ans.Model = model
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			ans.Text = ""
			ans.Err = fmt.Errorf("agent call panicked: %v", r)
			a.logger.Error("agent call panicked", zap.String("model", model), zap.Any("panic", r))
		}
		ans.Elapsed = time.Since(start)
	}()

	text, err := a.query(ctx, model, prompt, timeout)
	if err != nil {
		ans.Err = err
		a.logFailure(model, timeout, err)
		return ans
	}

	ans.Text = text
	a.logger.Debug("agent answered",
		zap.String("model", model),
		zap.Int("chars", len(text)),
		zap.Duration("elapsed", time.Since(start)))
	return ans
}

func (a *CursorAgent) query(ctx context.Context, model, prompt string, timeout time.Duration) (string, error) {
	dir, err := os.MkdirTemp(a.scratchRoot, a.scratchPattern(model))
	if err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			a.logger.Warn("remove scratch dir", zap.String("dir", dir), zap.Error(err))
		}
	}()

	a.logger.Debug("invoking agent",
		zap.String("model", model),
		zap.String("workspace", dir),
		zap.Duration("timeout", timeout),
		zap.Int("prompt_chars", len(prompt)))

	res, err := a.runner.Run(ctx, exec.Command{
		Name:    a.binary,
		Args:    Args(model, dir, prompt),
		Dir:     dir,
		Timeout: timeout,
	})
	if err != nil {
		return "", a.classify(err, timeout)
	}

	text := strings.TrimSpace(string(res.Stdout))
	if text == "" {
		return "", ErrEmptyAnswer
	}
	return text, nil
}

// classify maps runner errors onto the agent's failure vocabulary.
func (a *CursorAgent) classify(err error, timeout time.Duration) error {
	var exitErr *exec.ExitError
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return fmt.Errorf("%s: %w", a.binary, ErrAgentNotFound)
	case errors.Is(err, exec.ErrTimeout):
		return fmt.Errorf("timed out after %s: %w", timeout, ErrTimeout)
	case errors.As(err, &exitErr):
		return &exec.ExitError{Code: exitErr.Code, Stderr: excerpt(exitErr.Stderr, stderrExcerpt)}
	default:
		return fmt.Errorf("invoke %s: %w", a.binary, err)
	}
}

// logFailure logs a failed call. A missing binary is logged once per agent
// since every other call will fail the same way.
func (a *CursorAgent) logFailure(model string, timeout time.Duration, err error) {
	if errors.Is(err, ErrAgentNotFound) {
		a.missingOnce.Do(func() {
			a.logger.Error("agent CLI not found; make sure it is installed and in PATH",
				zap.String("binary", a.binary))
		})
		return
	}
	if errors.Is(err, ErrTimeout) {
		a.logger.Warn("agent call timed out", zap.String("model", model), zap.Duration("timeout", timeout))
		return
	}
	a.logger.Warn("agent call failed", zap.String("model", model), zap.Error(err))
}

func (a *CursorAgent) scratchPattern(model string) string {
	var b strings.Builder
	b.WriteString("council-")
	if a.tag != "" {
		b.WriteString(sanitize(a.tag))
		b.WriteByte('-')
	}
	b.WriteString(sanitize(model))
	b.WriteString("-*")
	return b.String()
}

// sanitize keeps model identifiers safe for use in a directory name.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}

// excerpt returns at most n runes of the trimmed string.
func excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
