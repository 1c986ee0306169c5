package dashboard

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"weather-dashboard-go/internal/highlights"
	"weather-dashboard-go/internal/lifecycle"
	"weather-dashboard-go/internal/logger"
	"weather-dashboard-go/internal/projection"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// StateSource is what the dashboard reads; the lifecycle controller
// satisfies it.
type StateSource interface {
	State() lifecycle.State
}

// Server renders the dashboard from whatever state the controller is in.
type Server struct {
	states StateSource
	log    *logger.Logger
}

func NewServer(states StateSource, log *logger.Logger) *Server {
	return &Server{states: states, log: log}
}

// Routes registers every dashboard endpoint.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/series", s.handleSeries)
	mux.HandleFunc("GET /charts/{file}", s.handleChart)
	mux.HandleFunc("GET /export.xlsx", s.handleExport)
	return mux
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type seriesResponse struct {
	projection.Series
	Highlights []highlights.Card `json:"highlights"`
}

type chartView struct {
	Name  string
	Title string
}

type pageData struct {
	Status  string
	Message string
	Records int
	Cards   []highlights.Card
	Charts  []chartView
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{Status: lifecycle.StatusLoading}
	switch st := s.states.State().(type) {
	case lifecycle.Failed:
		data.Status = lifecycle.StatusError
		data.Message = st.Message
	case lifecycle.Ready:
		series := projection.Project(st.Dataset())
		data.Status = lifecycle.StatusReady
		data.Records = len(series.Labels)
		data.Cards = highlights.Generate(series)
		for _, name := range ChartNames {
			if name == ChartCategories && len(series.CategoryCounts) == 0 {
				continue
			}
			data.Charts = append(data.Charts, chartView{Name: name, Title: chartTitles[name]})
		}
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		s.log.WithRequest(r).WithError(err).Error("render index failed")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Status: lifecycle.StatusLoading}
	switch st := s.states.State().(type) {
	case lifecycle.Failed:
		resp = statusResponse{Status: lifecycle.StatusError, Message: st.Message}
	case lifecycle.Ready:
		resp.Status = lifecycle.StatusReady
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	series, ok := s.readySeries(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, r, http.StatusOK, seriesResponse{Series: series, Highlights: highlights.Generate(series)})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(r.PathValue("file"), ".svg")
	if !ok || chartTitles[name] == "" {
		http.NotFound(w, r)
		return
	}
	series, ready := s.readySeries(w, r)
	if !ready {
		return
	}

	var buf bytes.Buffer
	if err := RenderChart(name, series, &buf); err != nil {
		if errors.Is(err, ErrNoData) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.log.WithRequest(r).WithError(err).WithField("chart", name).Error("chart render failed")
		http.Error(w, "chart render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	buf.WriteTo(w)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	series, ok := s.readySeries(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := WriteWorkbook(series, &buf); err != nil {
		s.log.WithRequest(r).WithError(err).Error("export failed")
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="weather.xlsx"`)
	buf.WriteTo(w)
}

// readySeries projects the dataset when the controller is Ready. Otherwise it
// writes the status response and returns false; no partial data is served.
func (s *Server) readySeries(w http.ResponseWriter, r *http.Request) (projection.Series, bool) {
	switch st := s.states.State().(type) {
	case lifecycle.Ready:
		return projection.Project(st.Dataset()), true
	case lifecycle.Failed:
		s.writeJSON(w, r, http.StatusBadGateway, statusResponse{Status: lifecycle.StatusError, Message: st.Message})
	default:
		s.writeJSON(w, r, http.StatusServiceUnavailable, statusResponse{Status: lifecycle.StatusLoading})
	}
	return projection.Series{}, false
}

// writeJSON encodes v before any status is written; encoding errors are a 500.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, code int, v interface{}) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.log.WithRequest(r).WithError(err).Error("encode response failed")
		http.Error(w, "encode response failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	buf.WriteTo(w)
}
