package council

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShayCichocki/council/pkg/models"
)

var threeLabeled = AssignLabels([]models.Response{
	{Model: "alpha", Text: "a"},
	{Model: "beta", Text: "b"},
	{Model: "gamma", Text: "c"},
})

func TestParseRanking(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "plain list",
			text: "Thoughts.\n\nFINAL RANKING:\n1. Response C\n2. Response A\n3. Response B",
			want: []string{"C", "A", "B"},
		},
		{
			name: "markdown and lower case",
			text: "**Final Ranking:**\n1. **Response b** is clearest\n2. response a\n3. Response C",
			want: []string{"B", "A", "C"},
		},
		{
			name: "evaluation mentions are ignored",
			text: "Response A is verbose. Response C is wrong.\n\nFINAL RANKING:\n1. Response B\n2. Response A",
			want: []string{"B", "A"},
		},
		{
			name: "last section wins",
			text: "FINAL RANKING:\n1. Response X\n\nRevised.\nFINAL RANKING:\n1. Response A\n2. Response C",
			want: []string{"A", "C"},
		},
		{
			name: "unknown and repeated labels dropped",
			text: "FINAL RANKING:\n1. Response D\n2. Response A\n3. Response A\n4. Response B",
			want: []string{"A", "B"},
		},
		{
			name: "words starting with a label are not labels",
			text: "FINAL RANKING:\n1. Response Above all, B\n2. Response C",
			want: []string{"C"},
		},
		{
			name: "no section",
			text: "Response A is best, then Response B.",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRanking(tt.text, threeLabeled))
		})
	}
}

func TestAggregateRankings(t *testing.T) {
	rankings := []models.Ranking{
		{Model: "alpha", Order: []string{"B", "A", "C"}},
		{Model: "beta", Order: []string{"A", "B", "C"}},
		{Model: "gamma", Order: []string{"B", "C"}},
		{Model: "delta", Order: nil},
	}

	got := AggregateRankings(rankings, threeLabeled)
	require.Len(t, got, 3)

	// beta: 1, 2, 1 -> 1.33; alpha: 2, 1 -> 1.5; gamma: 3, 3, 2 -> 2.67
	assert.Equal(t, "beta", got[0].Model)
	assert.InDelta(t, 4.0/3.0, got[0].AverageRank, 1e-9)
	assert.Equal(t, 3, got[0].RankingsCount)

	assert.Equal(t, "alpha", got[1].Model)
	assert.InDelta(t, 1.5, got[1].AverageRank, 1e-9)
	assert.Equal(t, 2, got[1].RankingsCount)

	assert.Equal(t, "gamma", got[2].Model)
	assert.InDelta(t, 8.0/3.0, got[2].AverageRank, 1e-9)
}

func TestAggregateRankings_TiesByName(t *testing.T) {
	rankings := []models.Ranking{
		{Order: []string{"B", "A"}},
		{Order: []string{"A", "B"}},
	}
	got := AggregateRankings(rankings, threeLabeled)
	require.Len(t, got, 2)
	assert.Equal(t, "alpha", got[0].Model)
	assert.Equal(t, "beta", got[1].Model)
}

func TestAggregateRankings_Empty(t *testing.T) {
	assert.Empty(t, AggregateRankings(nil, threeLabeled))
}
