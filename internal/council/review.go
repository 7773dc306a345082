package council

import (
	"context"

	"go.uber.org/zap"

	"github.com/ShayCichocki/council/pkg/models"
)

// minReviewResponses is the fewest Stage 1 responses worth a peer review.
const minReviewResponses = 2

// Review is the outcome of Stage 2.
type Review struct {
	// Skipped is set when there were too few responses to review.
	// Nothing else is populated in that case.
	Skipped bool
	// Rankings are the present reviews, in completion order.
	Rankings []models.Ranking
	// Labels maps each anonymization label to its response.
	Labels []models.LabeledResponse
	// Aggregate is the average rank per model across parseable reviews.
	Aggregate []models.AggregateRank
	// Answers holds every review answer, present or not.
	Answers models.Answers
}

// CollectRankings is Stage 2. With fewer than two responses it issues no
// calls and returns a skipped Review. Otherwise each response gets a label
// in the order given, every council model reviews the anonymized set,
// and the label mapping is revealed afterwards for display.
func (c *Council) CollectRankings(ctx context.Context, query string, responses []models.Response) Review {
	if len(responses) < minReviewResponses {
		c.emit(Event{Type: EventReviewSkipped, Stage: models.StageReview, Responses: responses})
		c.logger.Info("stage 2 skipped", zap.Int("responses", len(responses)))
		return Review{Skipped: true}
	}

	c.emit(Event{Type: EventStageStarted, Stage: models.StageReview, Models: c.cfg.Models})

	labeled := AssignLabels(responses)
	prompt, err := BuildReviewPrompt(query, labeled)
	if err != nil {
		// Templates are fixed at compile time, so this is a programming error.
		c.logger.Error("build review prompt", zap.Error(err))
		return Review{Labels: labeled}
	}

	answers := c.dispatch(ctx, models.StageReview, prompt)

	present := answers.Present()
	rankings := make([]models.Ranking, 0, len(present))
	for _, a := range present {
		rankings = append(rankings, models.Ranking{
			Model: a.Model,
			Text:  a.Text,
			Order: ParseRanking(a.Text, labeled),
		})
	}
	aggregate := AggregateRankings(rankings, labeled)

	c.emit(Event{
		Type:     EventRankingsCollected,
		Stage:    models.StageReview,
		Rankings: rankings,
		Failed:   answers.Failed(),
	})
	c.emit(Event{
		Type:      EventLabelsRevealed,
		Stage:     models.StageReview,
		Labels:    labeled,
		Aggregate: aggregate,
	})
	c.logger.Info("stage 2 complete",
		zap.Int("rankings", len(rankings)),
		zap.Int("failed", len(answers)-len(rankings)))

	return Review{
		Rankings:  rankings,
		Labels:    labeled,
		Aggregate: aggregate,
		Answers:   answers,
	}
}
