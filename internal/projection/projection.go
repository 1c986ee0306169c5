// Package projection derives chart-ready series from a ready dataset.
//
// Every function is pure: it reads the dataset, never modifies it, and
// returns freshly allocated output. Empty input yields empty, non-nil output.
package projection

import "weather-dashboard-go/internal/types"

// Series bundles every projection the renderers need.
type Series struct {
	Labels         []string       `json:"labels"`
	High           []float64      `json:"high"`
	Low            []float64      `json:"low"`
	Spread         []float64      `json:"spread"`
	CategoryCounts map[string]int `json:"category_counts"`
}

// Project runs all projections over ds.
func Project(ds types.Dataset) Series {
	return Series{
		Labels:         Labels(ds),
		High:           HighSeries(ds),
		Low:            LowSeries(ds),
		Spread:         Spread(ds),
		CategoryCounts: CategoryCounts(ds),
	}
}

// Labels returns the record dates in dataset order.
func Labels(ds types.Dataset) []string {
	out := make([]string, len(ds))
	for i, r := range ds {
		out[i] = r.Date
	}
	return out
}

// HighSeries returns the high values aligned with Labels.
func HighSeries(ds types.Dataset) []float64 {
	out := make([]float64, len(ds))
	for i, r := range ds {
		out[i] = r.High
	}
	return out
}

// LowSeries returns the low values aligned with Labels.
func LowSeries(ds types.Dataset) []float64 {
	out := make([]float64, len(ds))
	for i, r := range ds {
		out[i] = r.Low
	}
	return out
}

// Spread returns high minus low per record. Negative values are kept as is;
// they point at bad source data, not at a computation error.
func Spread(ds types.Dataset) []float64 {
	high, low := HighSeries(ds), LowSeries(ds)
	out := make([]float64, len(high))
	for i := range high {
		out[i] = high[i] - low[i]
	}
	return out
}
