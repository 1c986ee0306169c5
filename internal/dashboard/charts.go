package dashboard

import (
	"errors"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"weather-dashboard-go/internal/projection"
)

var (
	ErrUnknownChart = errors.New("unknown chart")
	ErrNoData       = errors.New("no data to chart")
)

// Chart names served under /charts/{name}.svg.
const (
	ChartTrend      = "trend"
	ChartComparison = "comparison"
	ChartSpread     = "spread"
	ChartCategories = "categories"
)

// ChartNames lists the charts in page order.
var ChartNames = []string{ChartTrend, ChartComparison, ChartSpread, ChartCategories}

var chartTitles = map[string]string{
	ChartTrend:      "Temperature Trend",
	ChartComparison: "Daily High vs Low",
	ChartSpread:     "Daily Temperature Range",
	ChartCategories: "Weather Conditions",
}

var (
	colorHigh   = drawing.ColorFromHex("dc3545")
	colorLow    = drawing.ColorFromHex("0d6efd")
	colorSpread = drawing.ColorFromHex("6f42c1")
)

const chartHeight = 300

// RenderChart draws the named chart as SVG.
func RenderChart(name string, s projection.Series, w io.Writer) error {
	switch name {
	case ChartTrend:
		return renderTrend(s, w)
	case ChartComparison:
		return renderComparison(s, w)
	case ChartSpread:
		return renderSpread(s, w)
	case ChartCategories:
		return renderCategories(s, w)
	default:
		return ErrUnknownChart
	}
}

func renderTrend(s projection.Series, w io.Writer) error {
	if len(s.Labels) == 0 {
		return ErrNoData
	}
	xs := make([]float64, len(s.Labels))
	ticks := make([]chart.Tick, len(s.Labels))
	for i, l := range s.Labels {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: l}
	}
	lo, hi := bounds(s.High, s.Low)

	graph := chart.Chart{
		Title:  chartTitles[ChartTrend],
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(xs)) - 0.5},
		},
		YAxis: chart.YAxis{
			Name:  "°C",
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Max Temperature",
				XValues: xs,
				YValues: s.High,
				Style:   chart.Style{StrokeColor: colorHigh, StrokeWidth: 2, DotColor: colorHigh, DotWidth: 3},
			},
			chart.ContinuousSeries{
				Name:    "Min Temperature",
				XValues: xs,
				YValues: s.Low,
				Style:   chart.Style{StrokeColor: colorLow, StrokeWidth: 2, DotColor: colorLow, DotWidth: 3},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.SVG, w)
}

func renderComparison(s projection.Series, w io.Writer) error {
	if len(s.Labels) == 0 {
		return ErrNoData
	}
	bars := make([]chart.Value, 0, 2*len(s.Labels))
	for i, l := range s.Labels {
		bars = append(bars,
			chart.Value{Label: l + " max", Value: s.High[i], Style: chart.Style{FillColor: colorHigh, StrokeColor: colorHigh}},
			chart.Value{Label: l + " min", Value: s.Low[i], Style: chart.Style{FillColor: colorLow, StrokeColor: colorLow}},
		)
	}
	lo, hi := bounds(s.High, s.Low)
	return barChart(chartTitles[ChartComparison], bars, lo, hi, w)
}

func renderSpread(s projection.Series, w io.Writer) error {
	if len(s.Labels) == 0 {
		return ErrNoData
	}
	bars := make([]chart.Value, len(s.Labels))
	for i, l := range s.Labels {
		bars[i] = chart.Value{Label: l, Value: s.Spread[i], Style: chart.Style{FillColor: colorSpread, StrokeColor: colorSpread}}
	}
	lo, hi := bounds(s.Spread)
	return barChart(chartTitles[ChartSpread], bars, lo, hi, w)
}

func renderCategories(s projection.Series, w io.Writer) error {
	sorted := projection.SortedCategories(s.CategoryCounts)
	if len(sorted) == 0 {
		return ErrNoData
	}
	values := make([]chart.Value, len(sorted))
	for i, c := range sorted {
		values[i] = chart.Value{Label: c.Category, Value: float64(c.Count)}
	}
	pie := chart.PieChart{
		Title:  chartTitles[ChartCategories],
		Width:  chartHeight,
		Height: chartHeight,
		Values: values,
	}
	return pie.Render(chart.SVG, w)
}

func barChart(title string, bars []chart.Value, lo, hi float64, w io.Writer) error {
	const barWidth, spacing = 30, 12
	width := 120 + len(bars)*(barWidth+spacing)
	if width < 600 {
		width = 600
	}
	bc := chart.BarChart{
		Title:        title,
		Height:       chartHeight,
		Width:        width,
		BarWidth:     barWidth,
		BarSpacing:   spacing,
		UseBaseValue: true,
		BaseValue:    0,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}
	return bc.Render(chart.SVG, w)
}

// bounds returns a padded value range that always includes zero and never
// collapses to a single point.
func bounds(series ...[]float64) (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, s := range series {
		for _, v := range s {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}
