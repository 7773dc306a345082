package agent

import (
	"context"
	"time"

	"github.com/ShayCichocki/council/pkg/models"
)

// Querier asks one model one prompt and reports the outcome.
// Implementations never return a Go error: failures travel in Answer.Err.
type Querier interface {
	Query(ctx context.Context, model, prompt string, timeout time.Duration) models.Answer
}

// QuerierFunc allows functions to implement Querier.
// Useful for testing and simple inline implementations.
type QuerierFunc func(ctx context.Context, model, prompt string, timeout time.Duration) models.Answer

// Query calls f.
func (f QuerierFunc) Query(ctx context.Context, model, prompt string, timeout time.Duration) models.Answer {
	return f(ctx, model, prompt, timeout)
}

// Verify CursorAgent implements Querier at compile time.
var _ Querier = (*CursorAgent)(nil)
