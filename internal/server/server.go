package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gsmforecast/internal/api"
	"gsmforecast/internal/config"
	"gsmforecast/internal/database"
	"gsmforecast/internal/forecast"
	"gsmforecast/internal/present"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxHours is the longest horizon the GSM model publishes
const MaxHours = 172

const (
	formatJSON  = "json"
	formatText  = "text"
	formatCSV   = "csv"
	formatChart = "chart"
)

// FetchRequest is the body of POST /forecast; zero Hours selects the default
type FetchRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Hours     int     `json:"hours,omitempty"`
	Format    string  `json:"format,omitempty"`
}

// Archive is the read side of the forecast archive
type Archive interface {
	ListRuns(ctx context.Context, location string, limit int) ([]database.Run, error)
	GetRun(ctx context.Context, id int64) (database.Run, error)
	GetRunHours(ctx context.Context, runID int64) ([]forecast.Flat, error)
	GetLocationsWithData(ctx context.Context) ([]string, error)
}

// Server represents the HTTP server
type Server struct {
	forecaster api.Forecaster
	cfg        *config.Config
	archive    Archive
	mux        *http.ServeMux
}

// NewServer creates a new HTTP server. archive may be nil, which disables /history.
func NewServer(f api.Forecaster, cfg *config.Config, archive Archive) *Server {
	if cfg == nil {
		cfg = &config.Config{}
	}
	s := &Server{
		forecaster: f,
		cfg:        cfg,
		archive:    archive,
		mux:        http.NewServeMux(),
	}

	s.handle("/health", s.handleHealth)
	s.handle("/forecast", s.handleForecast)
	s.handle("/forecast/city", s.handleCityForecast)
	s.handle("/cities", s.handleCities)
	s.handle("/cities/search", s.handleCitySearch)
	if archive != nil {
		s.handle("/history", s.handleHistory)
		s.handle("/history/hours", s.handleRunHours)
		s.handle("/history/locations", s.handleHistoryLocations)
	}
	s.mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handle(route string, h http.HandlerFunc) {
	s.mux.Handle(route, withMiddleware(route, h))
}

func (s *Server) defaultHours() int {
	if s.cfg.Forecast.Hours > 0 {
		return s.cfg.Forecast.Hours
	}
	return api.DefaultHours
}

// handleHealth returns the server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().String(),
	})
}

// handleForecast serves a forecast for coordinates given as query or JSON body
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	var req FetchRequest
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		lat, err := parseCoordinate(q, "lat")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		lng, err := parseCoordinate(q, "lng")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		hours, err := s.parseHours(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		req = FetchRequest{Latitude: lat, Longitude: lng, Hours: hours, Format: q.Get("format")}
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
		if req.Hours == 0 {
			req.Hours = s.defaultHours()
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := validate(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.serveForecast(w, r, req, "")
}

// handleCityForecast serves a forecast for a configured location
func (s *Server) handleCityForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	name := strings.TrimSpace(q.Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	loc, ok := s.cfg.FindLocation(name)
	if !ok {
		suggestions := s.cfg.SearchLocations(name)
		if len(suggestions) == 0 {
			suggestions = s.cfg.LocationNames()
		}
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"error":       fmt.Sprintf("unknown city: %s", name),
			"suggestions": suggestions,
		})
		return
	}

	hours, err := s.parseHours(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := FetchRequest{Latitude: loc.Latitude, Longitude: loc.Longitude, Hours: hours, Format: q.Get("format")}
	if err := validate(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.serveForecast(w, r, req, loc.Name)
}

func (s *Server) serveForecast(w http.ResponseWriter, r *http.Request, req FetchRequest, city string) {
	f, err := s.forecaster.FetchForecast(r.Context(), req.Latitude, req.Longitude, req.Hours)
	if err != nil {
		log.Printf("Forecast for %.4f,%.4f failed: %v", req.Latitude, req.Longitude, err)
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error": err.Error(),
			"kind":  forecast.KindOf(err).String(),
		})
		return
	}

	switch req.Format {
	case formatText:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, present.FormatText(f, city))
	case formatCSV:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		if err := present.WriteCSV(w, f); err != nil {
			log.Printf("Failed to write CSV: %v", err)
		}
	case formatChart:
		writeJSON(w, http.StatusOK, present.Chart(f))
	default:
		writeJSON(w, http.StatusOK, present.NewReport(f, city))
	}
}

// handleCities lists configured locations
func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	locations := s.cfg.Locations
	if locations == nil {
		locations = []config.Location{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(locations),
		"cities": locations,
	})
}

// handleCitySearch returns location names matching q
func (s *Server) handleCitySearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	names := s.cfg.SearchLocations(query)
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":  query,
		"count":  len(names),
		"cities": names,
	})
}

// handleHistory returns archived runs, newest first
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	location := strings.TrimSpace(q.Get("location"))

	limit := 0
	if limitStr := q.Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = l
	}

	runs, err := s.archive.ListRuns(r.Context(), location, limit)
	if err != nil {
		log.Printf("Failed to list runs: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"location": location,
		"count":    len(runs),
		"runs":     runs,
	})
}

// handleRunHours returns the hours of one archived run
func (s *Server) handleRunHours(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	run, err := s.archive.GetRun(r.Context(), id)
	if errors.Is(err, database.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("run %d not found", id))
		return
	}
	if err != nil {
		log.Printf("Failed to load run %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load run")
		return
	}

	hours, err := s.archive.GetRunHours(r.Context(), id)
	if err != nil {
		log.Printf("Failed to load hours of run %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load run")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id": id,
		"run":    run,
		"count":  len(hours),
		"hours":  hours,
	})
}

// handleHistoryLocations lists the locations that have archived runs
func (s *Server) handleHistoryLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := s.archive.GetLocationsWithData(r.Context())
	if err != nil {
		log.Printf("Failed to list archived locations: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list locations")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(locations),
		"locations": locations,
	})
}

func parseCoordinate(q url.Values, key string) (float64, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return v, nil
}

// parseHours returns the default horizon when hours is absent
func (s *Server) parseHours(q url.Values) (int, error) {
	raw := q.Get("hours")
	if raw == "" {
		return s.defaultHours(), nil
	}
	h, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("hours must be an integer")
	}
	return h, nil
}

func validate(req *FetchRequest) error {
	if req.Latitude < -90 || req.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	if req.Hours < 1 || req.Hours > MaxHours {
		return fmt.Errorf("hours must be between 1 and %d", MaxHours)
	}

	switch req.Format {
	case "":
		req.Format = formatJSON
	case formatJSON, formatText, formatCSV, formatChart:
	default:
		return fmt.Errorf("format must be one of json, text, csv, chart")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
