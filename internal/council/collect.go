package council

import (
	"context"

	"go.uber.org/zap"

	"github.com/ShayCichocki/council/pkg/models"
)

// CollectResponses is Stage 1. The question goes to every council model
// verbatim and the present answers come back as responses, in completion
// order. The second return value holds every answer, present or not.
func (c *Council) CollectResponses(ctx context.Context, query string) ([]models.Response, models.Answers) {
	c.emit(Event{Type: EventStageStarted, Stage: models.StageCollect, Models: c.cfg.Models})

	answers := c.dispatch(ctx, models.StageCollect, query)

	present := answers.Present()
	responses := make([]models.Response, 0, len(present))
	for _, a := range present {
		responses = append(responses, models.Response{Model: a.Model, Text: a.Text})
	}

	c.emit(Event{
		Type:      EventResponsesCollected,
		Stage:     models.StageCollect,
		Responses: responses,
		Failed:    answers.Failed(),
	})
	c.logger.Info("stage 1 complete",
		zap.Int("responses", len(responses)),
		zap.Int("failed", len(answers)-len(responses)))
	return responses, answers
}
