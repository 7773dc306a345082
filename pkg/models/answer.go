package models

import "time"

// Answer is the outcome of asking one model one prompt.
// An answer is present only when Err is nil and Text is non-empty.
type Answer struct {
	// Model is the identifier the prompt was sent to.
	Model string `json:"model"`
	// Text is the trimmed standard output of the agent process.
	Text string `json:"text,omitempty"`
	// Err explains why the answer is absent.
	Err error `json:"-"`
	// Elapsed is the wall-clock time spent on the call.
	Elapsed time.Duration `json:"elapsed_ns"`
}

// OK reports whether the answer is present.
func (a Answer) OK() bool {
	return a.Err == nil && a.Text != ""
}

// Failure returns a short description of why the answer is absent,
// or an empty string when it is present.
func (a Answer) Failure() string {
	if a.OK() {
		return ""
	}
	if a.Err != nil {
		return a.Err.Error()
	}
	return "empty answer"
}

// Answers is the result of one dispatch, in completion order.
// It holds exactly one entry per dispatched model.
type Answers []Answer

// ByModel returns the answers keyed by model identifier.
func (as Answers) ByModel() map[string]Answer {
	m := make(map[string]Answer, len(as))
	for _, a := range as {
		m[a.Model] = a
	}
	return m
}

// Present returns only the answers that succeeded, preserving order.
func (as Answers) Present() Answers {
	out := make(Answers, 0, len(as))
	for _, a := range as {
		if a.OK() {
			out = append(out, a)
		}
	}
	return out
}

// Failed returns the answers that are absent, preserving order.
func (as Answers) Failed() Answers {
	var out Answers
	for _, a := range as {
		if !a.OK() {
			out = append(out, a)
		}
	}
	return out
}
