package models

import "time"

// Stage identifies one phase of the council pipeline.
type Stage string

const (
	// StageCollect gathers individual answers from every council member.
	StageCollect Stage = "collect"
	// StageReview has every council member review the anonymized answers.
	StageReview Stage = "review"
	// StageSynthesize asks the chairman for the final answer.
	StageSynthesize Stage = "synthesize"
)

// Valid returns true if the stage is a known value.
func (s Stage) Valid() bool {
	switch s {
	case StageCollect, StageReview, StageSynthesize:
		return true
	default:
		return false
	}
}

// Number returns the 1-based position of the stage in the pipeline.
func (s Stage) Number() int {
	switch s {
	case StageCollect:
		return 1
	case StageReview:
		return 2
	case StageSynthesize:
		return 3
	default:
		return 0
	}
}

// RunState is a state of the council pipeline. A run moves strictly
// forward through these states and always ends in RunReported.
type RunState string

const (
	RunStarted       RunState = "start"
	RunCollected     RunState = "stage1_done"
	RunReviewed      RunState = "stage2_done"
	RunReviewSkipped RunState = "stage2_skipped"
	RunSynthesized   RunState = "stage3_done"
	RunReported      RunState = "reported"
)

// Response is a surviving Stage 1 answer.
type Response struct {
	Model string `json:"model"`
	Text  string `json:"response"`
}

// Ranking is a surviving Stage 2 peer review.
type Ranking struct {
	Model string `json:"model"`
	Text  string `json:"ranking"`
	// Order lists the labels in the review's final ranking, best first.
	// Empty when no ranking section could be parsed.
	Order []string `json:"parsed_ranking,omitempty"`
}

// LabeledResponse pairs an anonymization label with the response it hides.
type LabeledResponse struct {
	Label    string   `json:"label"`
	Response Response `json:"response"`
}

// AggregateRank is the average position a model received across all reviews.
type AggregateRank struct {
	Model         string  `json:"model"`
	AverageRank   float64 `json:"average_rank"`
	RankingsCount int     `json:"rankings_count"`
}

// Report is everything produced by one end-to-end council run.
type Report struct {
	RunID    string    `json:"run_id"`
	Query    string    `json:"query"`
	Council  []string  `json:"council"`
	Chairman string    `json:"chairman"`
	Started  time.Time `json:"started_at"`

	Responses []Response        `json:"responses"`
	Rankings  []Ranking         `json:"rankings"`
	Labels    []LabeledResponse `json:"labels,omitempty"`
	Aggregate []AggregateRank   `json:"aggregate_rankings,omitempty"`

	// ReviewSkipped is set when fewer than two responses survived Stage 1.
	ReviewSkipped bool `json:"review_skipped"`
	// Final is the chairman's answer or the chairman failure message.
	Final string `json:"final,omitempty"`
	// ChairmanFailed is set when Final holds the failure message.
	ChairmanFailed bool `json:"chairman_failed,omitempty"`
	// Failures maps stage to the models that produced no answer in it.
	Failures map[Stage][]string `json:"failures,omitempty"`

	// States is the sequence of pipeline states the run passed through.
	States []RunState `json:"states"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

// Advance appends a state to the run's trail.
func (r *Report) Advance(state RunState) {
	r.States = append(r.States, state)
}

// State returns the most recent state, or "" before the run started.
func (r *Report) State() RunState {
	if len(r.States) == 0 {
		return ""
	}
	return r.States[len(r.States)-1]
}

// RecordFailures stores the models whose answers were absent in a stage.
func (r *Report) RecordFailures(stage Stage, failed Answers) {
	if len(failed) == 0 {
		return
	}
	if r.Failures == nil {
		r.Failures = make(map[Stage][]string)
	}
	for _, a := range failed {
		r.Failures[stage] = append(r.Failures[stage], a.Model)
	}
}
