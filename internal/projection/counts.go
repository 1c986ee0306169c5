package projection

import (
	"sort"

	"weather-dashboard-go/internal/types"
)

// CategoryCounts counts records per category in a single pass. Records
// without a category are skipped rather than counted under a placeholder.
func CategoryCounts(ds types.Dataset) map[string]int {
	cats := map[string]int{}
	for _, r := range ds {
		if r.HasCategory() {
			cats[r.Category]++
		}
	}
	return cats
}

// CategoryCount is one entry of a sorted category distribution.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// SortedCategories orders counts by count descending, then name ascending.
func SortedCategories(counts map[string]int) []CategoryCount {
	out := make([]CategoryCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, CategoryCount{Category: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Total sums all counted occurrences.
func Total(counts map[string]int) int {
	n := 0
	for _, v := range counts {
		n += v
	}
	return n
}
