package types

// DailyRecord is one day of the dashboard dataset.
type DailyRecord struct {
	Date     string  `json:"date"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Category string  `json:"category,omitempty"`
}

// HasCategory reports whether the record carries a category label.
func (r DailyRecord) HasCategory() bool {
	return r.Category != ""
}

// Dataset is the ordered sequence of daily records held after a successful
// fetch. Once stored by the controller it is never modified.
type Dataset []DailyRecord

// Reversed returns a new dataset in the opposite order. The receiver is left
// untouched.
func (d Dataset) Reversed() Dataset {
	out := make(Dataset, len(d))
	for i, r := range d {
		out[len(d)-1-i] = r
	}
	return out
}

// Forecast is a stored daily forecast row as produced by ingest and served by
// the feed.
type Forecast struct {
	ID               int      `json:"-"`
	Date             string   `json:"date"`
	MaxTemp          float64  `json:"max_temp"`
	MinTemp          float64  `json:"min_temp"`
	WeatherCondition string   `json:"weather_condition,omitempty"`
	WindSpeed        *float64 `json:"wind_speed,omitempty"`
	WindDirection    *float64 `json:"wind_direction,omitempty"`
	WindChill        *float64 `json:"wind_chill,omitempty"`
	CreatedAt        string   `json:"-"`
}
