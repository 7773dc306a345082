package council

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ShayCichocki/council/pkg/models"
)

// ChairmanFailureMessage replaces the final answer when the chairman
// produces nothing usable.
const ChairmanFailureMessage = "Error: Chairman failed to synthesize response."

// Synthesize is Stage 3. It makes exactly one call, to the chairman, with
// every response and every ranking text. The boolean is false when the
// returned text is ChairmanFailureMessage.
func (c *Council) Synthesize(ctx context.Context, query string, responses []models.Response, rankings []models.Ranking) (string, bool) {
	c.emit(Event{
		Type:     EventStageStarted,
		Stage:    models.StageSynthesize,
		Models:   []string{c.cfg.Chairman},
		Chairman: c.cfg.Chairman,
	})

	prompt, err := BuildChairmanPrompt(query, responses, rankings)
	if err != nil {
		c.logger.Error("build chairman prompt", zap.Error(err))
		return ChairmanFailureMessage, false
	}

	ans := c.askChairman(ctx, prompt)
	c.emit(Event{
		Type:      EventModelFinished,
		Stage:     models.StageSynthesize,
		Answer:    ans,
		Completed: 1,
		Total:     1,
		Elapsed:   ans.Elapsed,
	})

	if !ans.OK() {
		c.logger.Warn("chairman failed",
			zap.String("model", c.cfg.Chairman),
			zap.String("reason", ans.Failure()))
		return ChairmanFailureMessage, false
	}
	c.logger.Info("stage 3 complete", zap.Duration("elapsed", ans.Elapsed))
	return strings.TrimSpace(ans.Text), true
}

func (c *Council) askChairman(ctx context.Context, prompt string) (ans models.Answer) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			ans = models.Answer{Err: fmt.Errorf("chairman query panicked: %v", r)}
		}
		ans.Model = c.cfg.Chairman
		if ans.Elapsed == 0 {
			ans.Elapsed = time.Since(start)
		}
	}()
	return c.querier.Query(ctx, c.cfg.Chairman, prompt, c.cfg.ChairmanTimeout)
}
