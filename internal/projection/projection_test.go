package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-dashboard-go/internal/types"
)

// newestFirst mirrors what the feed returns.
var newestFirst = types.Dataset{
	{Date: "2025-03-04", High: 22, Low: 14, Category: "Sunny"},
	{Date: "2025-03-03", High: 19, Low: 20, Category: "Rain"},
	{Date: "2025-03-02", High: 18.5, Low: 10, Category: "Sunny"},
	{Date: "2025-03-01", High: 17, Low: 9},
}

func TestLabelsOfReversedPayload(t *testing.T) {
	ds := newestFirst.Reversed()
	labels := Labels(ds)

	require.Len(t, labels, len(newestFirst))
	for i := range labels {
		assert.Equal(t, newestFirst[len(newestFirst)-1-i].Date, labels[i])
	}
	assert.Equal(t, "2025-03-04", newestFirst[0].Date, "reversal must not touch the source")
}

func TestSeriesAligned(t *testing.T) {
	ds := newestFirst.Reversed()
	assert.Equal(t, []float64{17, 18.5, 19, 22}, HighSeries(ds))
	assert.Equal(t, []float64{9, 10, 20, 14}, LowSeries(ds))
}

func TestSpreadKeepsNegatives(t *testing.T) {
	ds := newestFirst.Reversed()
	high, low, spread := HighSeries(ds), LowSeries(ds), Spread(ds)

	require.Len(t, spread, len(ds))
	for i := range spread {
		assert.Equal(t, high[i]-low[i], spread[i])
	}
	assert.Equal(t, []float64{8, 8.5, -1, 8}, spread)
}

func TestCategoryCounts(t *testing.T) {
	tests := []struct {
		name string
		cats []string
		want map[string]int
	}{
		{"repeats", []string{"A", "B", "A"}, map[string]int{"A": 2, "B": 1}},
		{"absent skipped", []string{"A", "", "A"}, map[string]int{"A": 2}},
		{"all absent", []string{"", ""}, map[string]int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := make(types.Dataset, len(tt.cats))
			absent := 0
			for i, c := range tt.cats {
				ds[i] = types.DailyRecord{Date: "d", Category: c}
				if c == "" {
					absent++
				}
			}
			got := CategoryCounts(ds)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "")
			assert.NotContains(t, got, "undefined")
			assert.Equal(t, len(ds)-absent, Total(got))
		})
	}
}

func TestEmptyDataset(t *testing.T) {
	for _, ds := range []types.Dataset{nil, {}} {
		s := Project(ds)
		assert.NotNil(t, s.Labels)
		assert.Empty(t, s.Labels)
		assert.NotNil(t, s.High)
		assert.Empty(t, s.High)
		assert.Empty(t, s.Low)
		assert.NotNil(t, s.Spread)
		assert.Empty(t, s.Spread)
		assert.NotNil(t, s.CategoryCounts)
		assert.Empty(t, s.CategoryCounts)
	}
}

func TestSingleRecord(t *testing.T) {
	ds := types.Dataset{{Date: "2025-03-01", High: 5, Low: 7, Category: "Fog"}}
	s := Project(ds)

	assert.Equal(t, []string{"2025-03-01"}, s.Labels)
	assert.Equal(t, []float64{-2}, s.Spread)
	assert.Equal(t, map[string]int{"Fog": 1}, s.CategoryCounts)
}

func TestProjectIsPure(t *testing.T) {
	ds := newestFirst.Reversed()
	before := append(types.Dataset(nil), ds...)

	first := Project(ds)
	second := Project(ds)

	assert.Equal(t, first, second)
	assert.Equal(t, before, ds)

	first.High[0] = 1000
	assert.NotEqual(t, first.High[0], Project(ds).High[0], "outputs must not share memory with later calls")
}

func TestSortedCategories(t *testing.T) {
	got := SortedCategories(map[string]int{"Rain": 2, "Sunny": 3, "Fog": 2})
	assert.Equal(t, []CategoryCount{
		{"Sunny", 3},
		{"Fog", 2},
		{"Rain", 2},
	}, got)
	assert.Empty(t, SortedCategories(nil))
}
