package api

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/waypath-data/waypath/internal/config"
	"github.com/waypath-data/waypath/internal/units"
	"github.com/waypath-data/waypath/internal/vision"
)

// statsResponse is the /api/stats payload. Depths are converted to the
// server's display units.
type statsResponse struct {
	TotalEstimations int64            `json:"total_estimations"`
	AverageDepth     float64          `json:"average_depth"`
	Units            string           `json:"units"`
	PerClassCounts   map[string]int64 `json:"per_class_counts"`
}

func (s *Server) showStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := s.pipeline.Stats().Snapshot()
	writeJSON(w, http.StatusOK, statsResponse{
		TotalEstimations: snap.TotalEstimations,
		AverageDepth:     units.ConvertDistance(snap.AverageDepth, s.units),
		Units:            s.units,
		PerClassCounts:   snap.PerClassCounts,
	})
}

func (s *Server) clearStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.pipeline.Stats().Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// gridResponse is the /api/grid payload: the latest frame's obstacle grid
// plus the actuation decision that accompanied it.
type gridResponse struct {
	Frames             int64    `json:"frames_processed"`
	Grid               [9]bool  `json:"grid"`
	CentralColumnClear bool     `json:"central_column_clear"`
	MinDepth           *float64 `json:"min_depth,omitempty"`
	Units              string   `json:"units"`
	Requested          string   `json:"requested"`
	Fired              string   `json:"fired"`
}

func (s *Server) showGrid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	latest := s.latest
	frames := s.frames
	s.mu.Unlock()

	resp := gridResponse{
		Frames:             frames,
		Grid:               latest.Grid,
		CentralColumnClear: latest.Grid.CentralColumnClear(),
		Units:              s.units,
		Requested:          latest.Requested.String(),
		Fired:              latest.Fired.String(),
	}
	if frames > 0 && !math.IsInf(latest.MinDepthMeters, 1) {
		converted := units.ConvertDistance(latest.MinDepthMeters, s.units)
		resp.MinDepth = &converted
	}
	writeJSON(w, http.StatusOK, resp)
}

// configResponse renders the live estimator configuration in the same shape
// the tuning file uses, so a GET response can be edited and POSTed back.
type configResponse struct {
	FOVDegrees     float64 `json:"fov_degrees"`
	FocalLengthX   float64 `json:"focal_length_x"`
	FocalLengthY   float64 `json:"focal_length_y"`
	ImageWidth     float64 `json:"image_width"`
	ImageHeight    float64 `json:"image_height"`
	Method         string  `json:"calculation_method"`
	MinDepthMeters float64 `json:"min_depth_meters"`
	MaxDepthMeters float64 `json:"max_depth_meters"`
	CatalogSize    int     `json:"catalog_size"`
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.showConfig(w, r)
	case http.MethodPost:
		s.updateConfig(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.pipeline.Config().Load()
	writeJSON(w, http.StatusOK, configResponse{
		FOVDegrees:     vision.FOVFromFocalLength(cfg.ImageWidth, cfg.FocalLengthX),
		FocalLengthX:   cfg.FocalLengthX,
		FocalLengthY:   cfg.FocalLengthY,
		ImageWidth:     cfg.ImageWidth,
		ImageHeight:    cfg.ImageHeight,
		Method:         cfg.Method.String(),
		MinDepthMeters: cfg.MinDepth,
		MaxDepthMeters: cfg.MaxDepth,
		CatalogSize:    cfg.Catalog.Len(),
	})
}

// updateConfig validates a tuning payload and publishes the rebuilt engine
// configuration as one atomic swap. The current catalog is carried over; a
// half-applied configuration is never observable.
func (s *Server) updateConfig(w http.ResponseWriter, r *http.Request) {
	var tuning config.TuningConfig
	if err := json.NewDecoder(r.Body).Decode(&tuning); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	catalog := s.pipeline.Config().Load().Catalog
	cfg, err := tuning.BuildEstimatorConfig(catalog)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.pipeline.Config().Store(cfg)
	s.showConfig(w, r)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "settings store not configured")
		return
	}

	switch r.Method {
	case http.MethodGet:
		all, err := s.store.All()
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, all)
	case http.MethodPost:
		var updates map[string]string
		if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
		for key, value := range updates {
			if err := s.store.SetString(key, value); err != nil {
				writeJSONError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
