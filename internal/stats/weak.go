package stats

import (
	"sort"

	"github.com/verte-zerg/conjuga/internal/model"
)

// WeakestTenses returns up to n tenses with the lowest accuracy.
// Tenses without a single miss are never weak.
func WeakestTenses(aggs []model.TenseAggregate, n int) []string {
	if n <= 0 {
		return nil
	}
	var out []string
	for _, agg := range sortByAccuracy(aggs) {
		if agg.Incorrect == 0 {
			continue
		}
		out = append(out, agg.Tense)
		if len(out) == n {
			break
		}
	}
	return out
}

func sortByAccuracy(aggs []model.TenseAggregate) []model.TenseAggregate {
	sorted := make([]model.TenseAggregate, len(aggs))
	copy(sorted, aggs)
	sort.SliceStable(sorted, func(i, j int) bool {
		ai := Accuracy(sorted[i].Correct, sorted[i].Incorrect)
		aj := Accuracy(sorted[j].Correct, sorted[j].Incorrect)
		if ai == aj {
			return sorted[i].Tense < sorted[j].Tense
		}
		return ai < aj
	})
	return sorted
}
