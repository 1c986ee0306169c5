package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"weather-dashboard-go/internal/types"
)

// RawReport is the provider payload dropped into the raw directory.
type RawReport struct {
	Forecasts          []RawForecast `json:"forecasts"`
	CurrentObservation struct {
		Wind *RawWind `json:"wind"`
	} `json:"current_observation"`
}

// RawForecast is one provider forecast day. Temperatures are Fahrenheit and
// date is a unix timestamp in seconds. Nil fields were missing or null.
type RawForecast struct {
	Date *flexFloat `json:"date"`
	High *flexFloat `json:"high"`
	Low  *flexFloat `json:"low"`
	Text string     `json:"text"`
}

type RawWind struct {
	Speed     *flexFloat `json:"speed"`
	Direction *flexFloat `json:"direction"`
	Chill     *flexFloat `json:"chill"`
}

// flexFloat accepts a JSON number or a numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", string(b))
	}
	*f = flexFloat(v)
	return nil
}

// FahrenheitToCelsius converts a temperature.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5.0 / 9.0
}

// TransformJSON parses a raw provider report into forecast rows. Forecasts
// without a positive date or without both temperatures are dropped. The bool
// reports whether the report carried wind data.
func TransformJSON(data []byte) ([]types.Forecast, bool, error) {
	var report RawReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, false, fmt.Errorf("decoding report: %w", err)
	}

	wind := report.CurrentObservation.Wind
	hasWind := wind != nil && (wind.Speed != nil || wind.Direction != nil || wind.Chill != nil)

	out := make([]types.Forecast, 0, len(report.Forecasts))
	for _, rf := range report.Forecasts {
		if rf.Date == nil || *rf.Date <= 0 || rf.High == nil || rf.Low == nil {
			continue
		}
		f := types.Forecast{
			Date:             time.Unix(int64(*rf.Date), 0).UTC().Format("2006-01-02"),
			MaxTemp:          FahrenheitToCelsius(float64(*rf.High)),
			MinTemp:          FahrenheitToCelsius(float64(*rf.Low)),
			WeatherCondition: rf.Text,
		}
		if hasWind {
			f.WindSpeed = wind.Speed.ptr()
			f.WindDirection = wind.Direction.ptr()
			f.WindChill = wind.Chill.ptr()
		}
		out = append(out, f)
	}
	return out, hasWind, nil
}

func (f *flexFloat) ptr() *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}
