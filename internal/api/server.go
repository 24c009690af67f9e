// Package api exposes the engine's diagnostics and configuration surface
// over HTTP: statistics snapshots, the latest obstacle grid, configuration
// hot-swaps, and persisted settings. The engine itself owns no network
// format; this surface exists for overlay renderers and debugging.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/waypath-data/waypath/internal/monitoring"
	"github.com/waypath-data/waypath/internal/settings"
	"github.com/waypath-data/waypath/internal/units"
	"github.com/waypath-data/waypath/internal/vision"
)

// ANSI escape codes for access log colouring.
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server serves the diagnostics API. The latest frame outcome is pushed in
// by the frame loop via RecordOutcome; handlers only ever read snapshots.
type Server struct {
	pipeline *vision.Pipeline
	store    *settings.Store
	units    string

	mu     sync.Mutex
	latest vision.FrameOutcome
	frames int64
}

// NewServer creates a diagnostics server around a pipeline and settings
// store. displayUnits selects the unit distances are converted to in
// responses (the engine always computes in meters).
func NewServer(pipeline *vision.Pipeline, store *settings.Store, displayUnits string) *Server {
	if !units.IsValid(displayUnits) {
		displayUnits = units.Meters
	}
	return &Server{
		pipeline: pipeline,
		store:    store,
		units:    displayUnits,
	}
}

// RecordOutcome publishes a frame outcome for the /api/grid endpoint.
// Called by the frame loop after each ProcessFrame.
func (s *Server) RecordOutcome(outcome vision.FrameOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = outcome
	s.frames++
}

// ServeMux returns the route table.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stats", s.showStats)
	mux.HandleFunc("/api/stats/clear", s.clearStats)
	mux.HandleFunc("/api/grid", s.showGrid)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/settings", s.handleSettings)
	mux.HandleFunc("/healthz", s.healthz)
	return mux
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		monitoring.Logf("failed to encode response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
