// Package council runs the three-stage LLM council: parallel answers,
// anonymized peer review, and chairman synthesis.
package council

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShayCichocki/council/internal/agent"
	"github.com/ShayCichocki/council/pkg/models"
)

// ErrNoResponses is returned by Run when no model answered in Stage 1.
// The returned report is still complete up to that point.
var ErrNoResponses = errors.New("no models responded")

// Council runs queries through a fixed set of models and a chairman.
type Council struct {
	cfg      Config
	querier  agent.Querier
	reporter Reporter
	logger   *zap.Logger
	runID    string
}

// New creates a Council. The querier is shared by every stage.
func New(cfg Config, querier agent.Querier, opts ...Option) (*Council, error) {
	if querier == nil {
		return nil, fmt.Errorf("%w: querier is required", ErrInvalidConfig)
	}
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	o := councilOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.reporter == nil {
		o.reporter = NopReporter{}
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.runID == "" {
		o.runID = uuid.New().String()[:8]
	}

	return &Council{
		cfg:      cfg,
		querier:  querier,
		reporter: o.reporter,
		logger:   o.logger.Named("council").With(zap.String("run_id", o.runID)),
		runID:    o.runID,
	}, nil
}

// Config returns the normalized configuration.
func (c *Council) Config() Config {
	return c.cfg
}

// RunID returns the identifier attached to every event and log line.
func (c *Council) RunID() string {
	return c.runID
}

// Run takes a question through all three stages. It always returns a
// report. The error is ErrNoResponses when Stage 1 produced nothing,
// in which case Stages 2 and 3 never ran.
func (c *Council) Run(ctx context.Context, query string) (*models.Report, error) {
	start := time.Now()
	rep := &models.Report{
		RunID:    c.runID,
		Query:    query,
		Council:  c.cfg.Models,
		Chairman: c.cfg.Chairman,
		Started:  start,
	}
	rep.Advance(models.RunStarted)
	c.emit(Event{
		Type:     EventRunStarted,
		Query:    query,
		Models:   c.cfg.Models,
		Chairman: c.cfg.Chairman,
	})
	c.logger.Info("run started",
		zap.Strings("models", c.cfg.Models),
		zap.String("chairman", c.cfg.Chairman))

	defer func() {
		rep.Elapsed = time.Since(start)
		rep.Advance(models.RunReported)
		c.logger.Info("run finished",
			zap.String("state", string(rep.States[len(rep.States)-2])),
			zap.Duration("elapsed", rep.Elapsed))
	}()

	responses, answers := c.CollectResponses(ctx, query)
	rep.Responses = responses
	rep.RecordFailures(models.StageCollect, answers.Failed())
	rep.Advance(models.RunCollected)

	if len(responses) == 0 {
		c.emit(Event{Type: EventNoResponses, Stage: models.StageCollect, Failed: answers.Failed()})
		return rep, ErrNoResponses
	}

	review := c.CollectRankings(ctx, query, responses)
	if review.Skipped {
		rep.ReviewSkipped = true
		rep.Advance(models.RunReviewSkipped)
	} else {
		rep.Rankings = review.Rankings
		rep.Labels = review.Labels
		rep.Aggregate = review.Aggregate
		rep.RecordFailures(models.StageReview, review.Answers.Failed())
		rep.Advance(models.RunReviewed)
	}

	final, ok := c.Synthesize(ctx, query, responses, rep.Rankings)
	rep.Final = final
	rep.ChairmanFailed = !ok
	if !ok {
		rep.Failures = withFailure(rep.Failures, models.StageSynthesize, c.cfg.Chairman)
	}
	rep.Advance(models.RunSynthesized)

	c.emit(Event{
		Type:           EventFinalAnswer,
		Stage:          models.StageSynthesize,
		Chairman:       c.cfg.Chairman,
		Final:          final,
		ChairmanFailed: !ok,
		Elapsed:        time.Since(start),
	})
	return rep, nil
}

func (c *Council) emit(e Event) {
	e.RunID = c.runID
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	c.reporter.Report(e)
}

func withFailure(failures map[models.Stage][]string, stage models.Stage, model string) map[models.Stage][]string {
	if failures == nil {
		failures = make(map[models.Stage][]string)
	}
	failures[stage] = append(failures[stage], model)
	return failures
}
