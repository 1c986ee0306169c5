package ingest

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"weather-dashboard-go/internal/types"
)

// 2025-03-01T00:00:00Z and 2025-03-02T00:00:00Z
const rawReport = `{
  "forecasts": [
    {"date": 1740787200, "high": 50, "low": 32, "text": "Sunny"},
    {"date": "1740873600", "high": "41", "low": "23", "text": "Snow"}
  ],
  "current_observation": {"wind": {"speed": 9.3, "direction": 270, "chill": 28}}
}`

type memStore struct {
	rows  map[string]types.Forecast
	order []string
}

func newMemStore() *memStore { return &memStore{rows: map[string]types.Forecast{}} }

func (m *memStore) InsertForecast(f *types.Forecast) (bool, error) {
	if _, ok := m.rows[f.Date]; ok {
		return false, nil
	}
	m.rows[f.Date] = *f
	m.order = append(m.order, f.Date)
	return true, nil
}

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestFahrenheitToCelsius(t *testing.T) {
	assert.Equal(t, 0.0, FahrenheitToCelsius(32))
	assert.Equal(t, 100.0, FahrenheitToCelsius(212))
	assert.InDelta(t, -40.0, FahrenheitToCelsius(-40), 1e-9)
}

func TestTransformJSON(t *testing.T) {
	rows, hasWind, err := TransformJSON([]byte(rawReport))
	require.NoError(t, err)
	assert.True(t, hasWind)
	require.Len(t, rows, 2)

	assert.Equal(t, "2025-03-01", rows[0].Date)
	assert.InDelta(t, 10.0, rows[0].MaxTemp, 1e-9)
	assert.InDelta(t, 0.0, rows[0].MinTemp, 1e-9)
	assert.Equal(t, "Sunny", rows[0].WeatherCondition)
	require.NotNil(t, rows[0].WindDirection)
	assert.Equal(t, 270.0, *rows[0].WindDirection)

	assert.Equal(t, "2025-03-02", rows[1].Date)
	assert.InDelta(t, 5.0, rows[1].MaxTemp, 1e-9)
	assert.InDelta(t, -5.0, rows[1].MinTemp, 1e-9)
}

func TestTransformJSONWithoutWind(t *testing.T) {
	rows, hasWind, err := TransformJSON([]byte(`{"forecasts":[{"date":1740787200,"high":50,"low":32,"text":"Fog"}]}`))
	require.NoError(t, err)
	assert.False(t, hasWind)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].WindSpeed)
}

func TestTransformJSONDropsUndatedForecasts(t *testing.T) {
	rows, _, err := TransformJSON([]byte(`{"forecasts":[
		{"high":50,"low":32,"text":"Missing"},
		{"date":null,"high":50,"low":32,"text":"Null"},
		{"date":"","high":50,"low":32,"text":"Empty"},
		{"date":1740787200,"low":32,"text":"No high"},
		{"date":1740873600,"high":41,"low":23,"text":"Snow"}
	]}`))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-03-02", rows[0].Date)
	assert.Equal(t, "Snow", rows[0].WeatherCondition)
}

func TestTransformJSONBad(t *testing.T) {
	_, _, err := TransformJSON([]byte(`{"forecasts":[{"date":"yesterday"}]}`))
	assert.Error(t, err)
}

func writeWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadWorkbook(t *testing.T) {
	data := writeWorkbook(t, [][]interface{}{
		{"Date", "Max Temp", "Min Temp", "Weather Condition"},
		{"2025-03-01", 10.5, 2, "Rain"},
		{"", 1, 1, "ignored"},
		{"2025-03-02", "n/a", 2, "bad"},
		{"2025-03-03", 12, 4},
	})

	rows, err := ReadWorkbook(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []types.Forecast{
		{Date: "2025-03-01", MaxTemp: 10.5, MinTemp: 2, WeatherCondition: "Rain"},
		{Date: "2025-03-03", MaxTemp: 12, MinTemp: 4},
	}, rows)
}

func TestReadWorkbookMissingColumns(t *testing.T) {
	data := writeWorkbook(t, [][]interface{}{{"Day of week", "Mood"}, {"Mon", "ok"}})
	_, err := ReadWorkbook(bytes.NewReader(data))
	assert.ErrorContains(t, err, "header must name")
}

func TestProcessorRun(t *testing.T) {
	raw := t.TempDir()
	processed := filepath.Join(t.TempDir(), "processed")

	require.NoError(t, os.WriteFile(filepath.Join(raw, "a.json"), []byte(rawReport), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(raw, "b.json"), []byte(rawReport), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(raw, "broken.json"), []byte(`[`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(raw, "notes.txt"), []byte("skip me"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(raw, "c.xlsx"), writeWorkbook(t, [][]interface{}{
		{"date", "high", "low"},
		{"2025-03-05", 9, 1},
	}), 0644))

	st := newMemStore()
	p := &Processor{RawDir: raw, ProcessedDir: processed, Store: st, Log: quietLog()}
	res, err := p.Run()
	require.NoError(t, err)

	assert.Equal(t, 3, res.Files)
	assert.Equal(t, 5, res.Rows)
	assert.Equal(t, 3, res.Added, "duplicate dates from b.json are ignored")
	assert.Equal(t, []string{"broken.json"}, res.Skipped)
	assert.Equal(t, []string{"2025-03-01", "2025-03-02", "2025-03-05"}, st.order)

	for _, name := range []string{"a.json", "b.json", "c.xlsx"} {
		assert.FileExists(t, filepath.Join(processed, name))
		assert.NoFileExists(t, filepath.Join(raw, name))
	}
	assert.FileExists(t, filepath.Join(raw, "broken.json"))
	assert.FileExists(t, filepath.Join(raw, "notes.txt"))
}

func TestProcessorMissingRawDir(t *testing.T) {
	p := &Processor{RawDir: filepath.Join(t.TempDir(), "missing"), ProcessedDir: t.TempDir(), Store: newMemStore(), Log: quietLog()}
	_, err := p.Run()
	assert.ErrorContains(t, err, "reading raw dir")
}
