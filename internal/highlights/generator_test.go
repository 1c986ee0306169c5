package highlights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-dashboard-go/internal/projection"
	"weather-dashboard-go/internal/types"
)

func TestGenerateEmpty(t *testing.T) {
	cards := Generate(projection.Project(nil))
	require.Len(t, cards, 1)
	assert.Contains(t, cards[0].Insight, "No daily records")
}

func TestGenerate(t *testing.T) {
	ds := types.Dataset{
		{Date: "2025-03-01", High: 10, Low: 2, Category: "Rain"},
		{Date: "2025-03-02", High: 15, Low: 3, Category: "Sunny"},
		{Date: "2025-03-03", High: 8, Low: 9, Category: "Rain"},
	}
	cards := Generate(projection.Project(ds))
	require.Len(t, cards, 3)

	assert.Equal(t, "Widest daily range on 2025-03-02 (12.0°)", cards[0].Insight)
	assert.Equal(t, "1 day(s) report a low above the high", cards[1].Insight)
	assert.Contains(t, cards[1].Detail, "2025-03-03")
	assert.Equal(t, "Most common condition: Rain", cards[2].Insight)
	assert.Equal(t, "2 of 3 categorized days", cards[2].Detail)
}

func TestGenerateWithoutCategories(t *testing.T) {
	cards := Generate(projection.Project(types.Dataset{{Date: "d", High: 1, Low: 0}}))
	require.Len(t, cards, 1)
	assert.Contains(t, cards[0].Insight, "Widest daily range on d")
}
