package feed

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-dashboard-go/internal/dataset"
	"weather-dashboard-go/internal/lifecycle"
	"weather-dashboard-go/internal/logger"
	"weather-dashboard-go/internal/projection"
	"weather-dashboard-go/internal/source"
	"weather-dashboard-go/internal/types"
)

type stubStore struct {
	rows      []types.Forecast
	err       error
	lastLimit int
}

func (s *stubStore) Latest(limit int) ([]types.Forecast, error) {
	s.lastLimit = limit
	return s.rows, s.err
}

func TestForecastNewestFirstWithCORS(t *testing.T) {
	st := &stubStore{rows: []types.Forecast{
		{Date: "2025-03-02", MaxTemp: 11, MinTemp: 3, WeatherCondition: "Sunny"},
		{Date: "2025-03-01", MaxTemp: 10, MinTemp: 2},
	}}
	h := NewHandler(st, 7, logger.NewWithOutput(io.Discard)).Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forecast", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, st.lastLimit)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `[
		{"date":"2025-03-02","max_temp":11,"min_temp":3,"weather_condition":"Sunny"},
		{"date":"2025-03-01","max_temp":10,"min_temp":2}
	]`, rec.Body.String())
}

func TestForecastEmptyIsArray(t *testing.T) {
	h := NewHandler(&stubStore{rows: []types.Forecast{}}, 7, logger.NewWithOutput(io.Discard)).Routes()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forecast", nil))
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestForecastStoreError(t *testing.T) {
	h := NewHandler(&stubStore{err: errors.New("locked")}, 7, logger.NewWithOutput(io.Discard)).Routes()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forecast", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"query failed"}`, rec.Body.String())
}

func TestForecastPreflight(t *testing.T) {
	h := NewHandler(&stubStore{}, 7, logger.NewWithOutput(io.Discard)).Routes()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/forecast", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

// The dashboard controller consumes the feed end to end.
func TestFeedDrivesDashboardController(t *testing.T) {
	st := &stubStore{rows: []types.Forecast{
		{Date: "2025-03-02", MaxTemp: 11, MinTemp: 3, WeatherCondition: "Sunny"},
		{Date: "2025-03-01", MaxTemp: 10, MinTemp: 12},
	}}
	srv := httptest.NewServer(NewHandler(st, 7, logger.NewWithOutput(io.Discard)).Routes())
	defer srv.Close()

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	entry := logrus.NewEntry(quiet)

	ctrl := lifecycle.NewController(source.NewClient(srv.URL+"/forecast", 0, entry), dataset.DefaultFields, entry)
	select {
	case <-ctrl.Activate(context.Background()):
	case <-time.After(5 * time.Second):
		t.Fatal("activation did not settle")
	}

	ready, ok := ctrl.State().(lifecycle.Ready)
	require.True(t, ok, "got %#v", ctrl.State())
	s := projection.Project(ready.Dataset())
	assert.Equal(t, []string{"2025-03-01", "2025-03-02"}, s.Labels)
	assert.Equal(t, []float64{-2, 8}, s.Spread)
	assert.Equal(t, map[string]int{"Sunny": 1}, s.CategoryCounts)
}
