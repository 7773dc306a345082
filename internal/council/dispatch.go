package council

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ShayCichocki/council/internal/fanout"
	"github.com/ShayCichocki/council/pkg/models"
)

// dispatch sends one prompt to every council model at once and returns
// exactly one answer per model, in completion order.
func (c *Council) dispatch(ctx context.Context, stage models.Stage, prompt string) models.Answers {
	total := len(c.cfg.Models)
	c.emit(Event{
		Type:   EventDispatchStarted,
		Stage:  stage,
		Models: c.cfg.Models,
		Total:  total,
	})
	c.logger.Debug("dispatch started", zap.String("stage", string(stage)), zap.Int("models", total))
	start := time.Now()

	results := fanout.Map(ctx, c.cfg.Models,
		func(ctx context.Context, model string) (models.Answer, error) {
			return c.querier.Query(ctx, model, prompt, c.cfg.Timeout), nil
		},
		func(res fanout.Result[string, models.Answer], completed int) {
			c.emit(Event{
				Type:      EventModelFinished,
				Stage:     stage,
				Answer:    answerOf(res),
				Completed: completed,
				Total:     total,
			})
		},
	)

	answers := make(models.Answers, 0, len(results))
	for _, res := range results {
		answers = append(answers, answerOf(res))
	}

	elapsed := time.Since(start)
	c.emit(Event{Type: EventDispatchFinished, Stage: stage, Elapsed: elapsed, Total: total})
	c.logger.Debug("dispatch finished",
		zap.String("stage", string(stage)),
		zap.Int("present", len(answers.Present())),
		zap.Duration("elapsed", elapsed))
	return answers
}

// answerOf turns a work result into an answer keyed by the dispatched model,
// so a misbehaving querier can neither drop nor rename a model.
func answerOf(res fanout.Result[string, models.Answer]) models.Answer {
	ans := res.Value
	if res.Err != nil {
		ans = models.Answer{Err: res.Err}
	}
	ans.Model = res.Item
	return ans
}
