package council

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ShayCichocki/council/pkg/models"
)

var rankingMarker = regexp.MustCompile(`(?i)final\s+ranking\s*:`)

// rankingEntry matches "Response B" and the like. Labels stop at three
// letters, which covers far more responses than any council produces.
var rankingEntry = regexp.MustCompile(`(?i)\bresponse\s+([a-z]{1,3})\b`)

// ParseRanking extracts the ordered labels from the last FINAL RANKING
// section of a review. Unknown and repeated labels are ignored. It
// returns nil when the review has no ranking section.
func ParseRanking(text string, labeled []models.LabeledResponse) []string {
	marks := rankingMarker.FindAllStringIndex(text, -1)
	if len(marks) == 0 {
		return nil
	}
	section := text[marks[len(marks)-1][1]:]

	known := make(map[string]bool, len(labeled))
	for _, l := range labeled {
		known[l.Label] = true
	}

	var order []string
	seen := make(map[string]bool)
	for _, m := range rankingEntry.FindAllStringSubmatch(section, -1) {
		label := strings.ToUpper(m[1])
		if !known[label] || seen[label] {
			continue
		}
		seen[label] = true
		order = append(order, label)
	}
	return order
}

// AggregateRankings averages each model's 1-based position over every
// review that ranked it. Lower is better. Models nobody ranked are left
// out. Ties are broken by model name.
func AggregateRankings(rankings []models.Ranking, labeled []models.LabeledResponse) []models.AggregateRank {
	modelOf := make(map[string]string, len(labeled))
	for _, l := range labeled {
		modelOf[l.Label] = l.Response.Model
	}

	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, r := range rankings {
		for pos, label := range r.Order {
			model, ok := modelOf[label]
			if !ok {
				continue
			}
			sums[model] += pos + 1
			counts[model]++
		}
	}

	out := make([]models.AggregateRank, 0, len(counts))
	for model, n := range counts {
		out = append(out, models.AggregateRank{
			Model:         model,
			AverageRank:   float64(sums[model]) / float64(n),
			RankingsCount: n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AverageRank != out[j].AverageRank {
			return out[i].AverageRank < out[j].AverageRank
		}
		return out[i].Model < out[j].Model
	})
	return out
}
