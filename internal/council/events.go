package council

import (
	"time"

	"github.com/ShayCichocki/council/pkg/models"
)

// EventType represents the type of council event.
type EventType string

const (
	// EventRunStarted indicates a run has begun.
	EventRunStarted EventType = "run_started"
	// EventStageStarted indicates a stage has begun.
	EventStageStarted EventType = "stage_started"
	// EventDispatchStarted indicates a prompt is being sent to the whole council.
	EventDispatchStarted EventType = "dispatch_started"
	// EventModelFinished indicates one model call returned, successfully or not.
	EventModelFinished EventType = "model_finished"
	// EventDispatchFinished indicates every model in a dispatch has returned.
	EventDispatchFinished EventType = "dispatch_finished"
	// EventResponsesCollected carries the Stage 1 survivors.
	EventResponsesCollected EventType = "responses_collected"
	// EventReviewSkipped indicates Stage 2 was skipped for lack of responses.
	EventReviewSkipped EventType = "review_skipped"
	// EventRankingsCollected carries the Stage 2 survivors.
	EventRankingsCollected EventType = "rankings_collected"
	// EventLabelsRevealed carries the label to model mapping after review.
	EventLabelsRevealed EventType = "labels_revealed"
	// EventFinalAnswer carries the chairman's answer or the failure message.
	EventFinalAnswer EventType = "final_answer"
	// EventNoResponses indicates Stage 1 produced nothing and the run stops.
	EventNoResponses EventType = "no_responses"
)

// Event represents something the council did. Events exist for display
// only; nothing in the pipeline depends on how they are rendered.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// RunID identifies the run.
	RunID string
	// Stage is the stage the event belongs to, if any.
	Stage models.Stage
	// Query is the user's question (run_started).
	Query string
	// Models is the set of models addressed (run_started, stage_started, dispatch_started).
	Models []string
	// Chairman is the synthesis model (run_started, stage_started for synthesize).
	Chairman string
	// Answer is the outcome of one call (model_finished).
	Answer models.Answer
	// Completed and Total count calls within a dispatch (model_finished).
	Completed int
	Total     int
	// Responses are the Stage 1 survivors (responses_collected, review_skipped).
	Responses []models.Response
	// Failed are the absent answers of a stage.
	Failed models.Answers
	// Rankings are the Stage 2 survivors (rankings_collected).
	Rankings []models.Ranking
	// Labels is the anonymization mapping (labels_revealed).
	Labels []models.LabeledResponse
	// Aggregate is the average position per model (labels_revealed).
	Aggregate []models.AggregateRank
	// Final is the answer text (final_answer).
	Final string
	// ChairmanFailed marks Final as the failure message.
	ChairmanFailed bool
	// Elapsed is the duration of a dispatch or of the whole run.
	Elapsed time.Duration
	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Reporter receives council events. Report is always called from the
// goroutine running the council, never concurrently.
type Reporter interface {
	Report(Event)
}

// ReporterFunc allows functions to implement Reporter.
type ReporterFunc func(Event)

// Report calls f.
func (f ReporterFunc) Report(e Event) {
	f(e)
}

// NopReporter discards every event.
type NopReporter struct{}

// Report does nothing.
func (NopReporter) Report(Event) {}
