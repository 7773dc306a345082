package council

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ShayCichocki/council/pkg/models"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
		{-1, ""},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.index), func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.index))
		})
	}
}

func TestAssignLabels_Bijection(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 80).Draw(t, "n")
		responses := make([]models.Response, n)
		for i := range responses {
			responses[i] = models.Response{Model: fmt.Sprintf("m%d", i), Text: "text"}
		}

		labeled := AssignLabels(responses)
		if len(labeled) != n {
			t.Fatalf("got %d labels for %d responses", len(labeled), n)
		}
		seen := make(map[string]string, n)
		for i, l := range labeled {
			if l.Label == "" {
				t.Fatalf("response %d has an empty label", i)
			}
			if prev, dup := seen[l.Label]; dup {
				t.Fatalf("label %s assigned to both %s and %s", l.Label, prev, l.Response.Model)
			}
			seen[l.Label] = l.Response.Model
			if l.Response != responses[i] {
				t.Fatalf("label %s points at %v, want %v", l.Label, l.Response, responses[i])
			}
		}
	})
}

func TestBuildReviewPrompt(t *testing.T) {
	labeled := AssignLabels([]models.Response{
		{Model: "m1", Text: "one"},
		{Model: "m2", Text: "two"},
	})

	got, err := BuildReviewPrompt("Q?", labeled)
	require.NoError(t, err)

	want := "You are evaluating different AI responses to this question:\n\n" +
		"QUESTION: Q?\n\n" +
		"Here are the anonymized responses:\n\n" +
		"**Response A:**\none\n\n---\n\n**Response B:**\ntwo\n\n---\n\n" +
		"Please:\n" +
		"1. Briefly evaluate each response's strengths and weaknesses\n" +
		"2. End with a FINAL RANKING from best to worst:\n\n" +
		"FINAL RANKING:\n1. Response X\n2. Response Y\n(etc.)"
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "m1")
	assert.NotContains(t, got, "m2")
}

func TestBuildReviewPrompt_NoEscaping(t *testing.T) {
	labeled := AssignLabels([]models.Response{
		{Model: "m1", Text: "<b>bold</b> & \"quoted\""},
		{Model: "m2", Text: "{{.Query}}"},
	})

	got, err := BuildReviewPrompt("a < b?", labeled)
	require.NoError(t, err)
	assert.Contains(t, got, "QUESTION: a < b?")
	assert.Contains(t, got, "<b>bold</b> & \"quoted\"")
	assert.Contains(t, got, "**Response B:**\n{{.Query}}")
}

func TestBuildChairmanPrompt(t *testing.T) {
	responses := []models.Response{
		{Model: "m1", Text: "one"},
		{Model: "m2", Text: "two"},
	}
	rankings := []models.Ranking{
		{Model: "m2", Text: "B is better"},
		{Model: "m1", Text: "A is better"},
	}

	got, err := BuildChairmanPrompt("Q?", responses, rankings)
	require.NoError(t, err)

	want := "You are the Chairman of an LLM Council. Your job is to synthesize multiple AI responses into ONE comprehensive, accurate final answer.\n\n" +
		"ORIGINAL QUESTION: Q?\n\n---\n\n" +
		"STAGE 1 - Individual Model Responses:\n\n" +
		"### m1:\none\n\n---\n\n### m2:\ntwo\n\n---\n\n" +
		"STAGE 2 - Peer Evaluations & Rankings:\n\n" +
		"### m2's evaluation:\nB is better\n\n---\n\n### m1's evaluation:\nA is better\n\n---\n\n" +
		"YOUR TASK:\n" +
		"Synthesize all of this into a single, high-quality answer that:\n" +
		"- Incorporates the best insights from all responses\n" +
		"- Addresses any disagreements or gaps\n" +
		"- Provides clear, accurate information\n\n" +
		"Provide the final synthesized answer:"
	assert.Equal(t, want, got)
}

func TestBuildChairmanPrompt_NoRankings(t *testing.T) {
	got, err := BuildChairmanPrompt("Q?", []models.Response{{Model: "solo", Text: "only"}}, nil)
	require.NoError(t, err)
	assert.Contains(t, got, "### solo:\nonly\n\n---\n\nSTAGE 2 - Peer Evaluations & Rankings:\n\n\n\n---\n\nYOUR TASK:")
}
