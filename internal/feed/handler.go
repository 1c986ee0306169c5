// Package feed serves the latest stored forecasts in the shape the dashboard
// consumes: a JSON array, newest date first.
package feed

import (
	"encoding/json"
	"net/http"

	"weather-dashboard-go/internal/logger"
	"weather-dashboard-go/internal/types"
)

// Lister is the store method the feed needs.
type Lister interface {
	Latest(limit int) ([]types.Forecast, error)
}

type Handler struct {
	store Lister
	limit int
	log   *logger.Logger
}

func NewHandler(store Lister, limit int, log *logger.Logger) *Handler {
	return &Handler{store: store, limit: limit, log: log}
}

// Routes registers GET and OPTIONS for /forecast plus /healthz.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /forecast", h.handleForecast)
	mux.HandleFunc("OPTIONS /forecast", func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func (h *Handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	reqLog := h.log.WithRequest(r).WithField("handler", "forecast")
	setCORS(w)
	w.Header().Set("Content-Type", "application/json")

	rows, err := h.store.Latest(h.limit)
	if err != nil {
		reqLog.WithError(err).Error("query latest forecasts failed")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "query failed"})
		return
	}
	reqLog.WithField("rows", len(rows)).Debug("serving forecasts")

	if err := json.NewEncoder(w).Encode(rows); err != nil {
		reqLog.WithError(err).Error("failed to write response")
	}
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}
