package highlights

import (
	"fmt"
	"strings"

	"weather-dashboard-go/internal/projection"
)

// Card is a one-line takeaway shown above the charts.
type Card struct {
	Insight string `json:"insight"`
	Detail  string `json:"detail"`
}

// Generate derives summary cards from projected series. It never fails; an
// empty series produces a single "no data" card.
func Generate(s projection.Series) []Card {
	if len(s.Labels) == 0 {
		return []Card{{
			Insight: "No daily records in the current window",
			Detail:  "The feed returned an empty list",
		}}
	}

	var cards []Card

	widest := 0
	for i, v := range s.Spread {
		if v > s.Spread[widest] {
			widest = i
		}
	}
	cards = append(cards, Card{
		Insight: fmt.Sprintf("Widest daily range on %s (%.1f°)", s.Labels[widest], s.Spread[widest]),
		Detail:  fmt.Sprintf("High %.1f°, low %.1f°", s.High[widest], s.Low[widest]),
	})

	var inverted []string
	for i, v := range s.Spread {
		if v < 0 {
			inverted = append(inverted, s.Labels[i])
		}
	}
	if len(inverted) > 0 {
		cards = append(cards, Card{
			Insight: fmt.Sprintf("%d day(s) report a low above the high", len(inverted)),
			Detail:  "Check source data for " + strings.Join(inverted, ", "),
		})
	}

	sorted := projection.SortedCategories(s.CategoryCounts)
	if len(sorted) > 0 {
		top := sorted[0]
		cards = append(cards, Card{
			Insight: fmt.Sprintf("Most common condition: %s", top.Category),
			Detail:  fmt.Sprintf("%d of %d categorized days", top.Count, projection.Total(s.CategoryCounts)),
		})
	}
	return cards
}
