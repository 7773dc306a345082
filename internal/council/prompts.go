package council

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/ShayCichocki/council/pkg/models"
)

// Entries in both prompts are separated by a horizontal rule with blank
// lines on either side.
const reviewPromptTemplate = `You are evaluating different AI responses to this question:

QUESTION: {{.Query}}

Here are the anonymized responses:

{{range $i, $r := .Responses}}{{if $i}}

---

{{end}}**Response {{$r.Label}}:**
{{$r.Response.Text}}{{end}}

---

Please:
1. Briefly evaluate each response's strengths and weaknesses
2. End with a FINAL RANKING from best to worst:

FINAL RANKING:
1. Response X
2. Response Y
(etc.)`

const chairmanPromptTemplate = `You are the Chairman of an LLM Council. Your job is to synthesize multiple AI responses into ONE comprehensive, accurate final answer.

ORIGINAL QUESTION: {{.Query}}

---

STAGE 1 - Individual Model Responses:

{{range $i, $r := .Responses}}{{if $i}}

---

{{end}}### {{$r.Model}}:
{{$r.Text}}{{end}}

---

STAGE 2 - Peer Evaluations & Rankings:

{{range $i, $r := .Rankings}}{{if $i}}

---

{{end}}### {{$r.Model}}'s evaluation:
{{$r.Text}}{{end}}

---

YOUR TASK:
Synthesize all of this into a single, high-quality answer that:
- Incorporates the best insights from all responses
- Addresses any disagreements or gaps
- Provides clear, accurate information

Provide the final synthesized answer:`

var (
	reviewTmpl   = template.Must(template.New("review").Parse(reviewPromptTemplate))
	chairmanTmpl = template.Must(template.New("chairman").Parse(chairmanPromptTemplate))
)

// BuildReviewPrompt renders the Stage 2 prompt. Responses appear under
// their labels only; model names never reach the reviewers.
func BuildReviewPrompt(query string, labeled []models.LabeledResponse) (string, error) {
	var buf bytes.Buffer
	err := reviewTmpl.Execute(&buf, struct {
		Query     string
		Responses []models.LabeledResponse
	}{query, labeled})
	if err != nil {
		return "", fmt.Errorf("render review prompt: %w", err)
	}
	return buf.String(), nil
}

// BuildChairmanPrompt renders the Stage 3 prompt from every response and
// every ranking text. rankings may be empty when review was skipped.
func BuildChairmanPrompt(query string, responses []models.Response, rankings []models.Ranking) (string, error) {
	var buf bytes.Buffer
	err := chairmanTmpl.Execute(&buf, struct {
		Query     string
		Responses []models.Response
		Rankings  []models.Ranking
	}{query, responses, rankings})
	if err != nil {
		return "", fmt.Errorf("render chairman prompt: %w", err)
	}
	return buf.String(), nil
}
