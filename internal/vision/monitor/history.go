// Package monitor provides debugging surfaces for the depth engine: a
// bounded in-memory history of frame outcomes, quick echarts web views, and
// PNG time-series plots for offline runs. Nothing here feeds back into the
// engine; the core still retains no state beyond the latest frame.
package monitor

import (
	"math"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/waypath-data/waypath/internal/vision"
)

// DefaultHistorySize bounds the in-memory sample ring.
const DefaultHistorySize = 600 // ~20s at 30fps

// FrameSample is one recorded frame outcome.
type FrameSample struct {
	FrameIdx    int
	Timestamp   time.Time
	Estimations int
	MinDepth    float64 // meters; +Inf when no in-range obstacle
	MeanDepth   float64 // mean over the frame's results; 0 when empty
	Grid        vision.Grid
	Fired       vision.Intensity
}

// History accumulates frame samples in a bounded ring for the web views and
// plotters. It is safe for one writer (the frame loop) and many readers.
type History struct {
	mu       sync.Mutex
	samples  []FrameSample
	capacity int
	frameIdx int
}

// NewHistory creates a history ring with the given capacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{capacity: capacity}
}

// Record appends one frame outcome.
func (h *History) Record(outcome vision.FrameOutcome, at time.Time) {
	meanDepth := 0.0
	if len(outcome.Results) > 0 {
		sum := 0.0
		for _, r := range outcome.Results {
			sum += r.DepthMeters
		}
		meanDepth = sum / float64(len(outcome.Results))
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.samples = append(h.samples, FrameSample{
		FrameIdx:    h.frameIdx,
		Timestamp:   at,
		Estimations: len(outcome.Results),
		MinDepth:    outcome.MinDepthMeters,
		MeanDepth:   meanDepth,
		Grid:        outcome.Grid,
		Fired:       outcome.Fired,
	})
	h.frameIdx++
	if len(h.samples) > h.capacity {
		h.samples = h.samples[len(h.samples)-h.capacity:]
	}
}

// Samples returns a copy of the recorded samples, oldest first.
func (h *History) Samples() []FrameSample {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]FrameSample, len(h.samples))
	copy(out, h.samples)
	return out
}

// Len returns the number of retained samples.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.samples)
}

// CellOccupancy returns, per grid cell, the fraction of retained frames in
// which the cell was occupied.
func (h *History) CellOccupancy() [vision.GridCells]float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	var counts [vision.GridCells]float64
	if len(h.samples) == 0 {
		return counts
	}
	for _, s := range h.samples {
		for i, occupied := range s.Grid {
			if occupied {
				counts[i]++
			}
		}
	}
	n := float64(len(h.samples))
	for i := range counts {
		counts[i] /= n
	}
	return counts
}

// DepthSummary aggregates the retained min-depth samples.
type DepthSummary struct {
	Frames     int     `json:"frames"`
	WithTarget int     `json:"frames_with_obstacle"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	P50        float64 `json:"p50"`
	P95        float64 `json:"p95"`
}

// Summary computes distribution statistics over the retained frames' min
// depths, ignoring frames without an in-range obstacle.
func (h *History) Summary() DepthSummary {
	samples := h.Samples()

	depths := make([]float64, 0, len(samples))
	for _, s := range samples {
		if !math.IsInf(s.MinDepth, 1) {
			depths = append(depths, s.MinDepth)
		}
	}

	summary := DepthSummary{Frames: len(samples), WithTarget: len(depths)}
	if len(depths) == 0 {
		return summary
	}

	summary.Mean = stat.Mean(depths, nil)
	summary.StdDev = stat.StdDev(depths, nil)

	sort.Float64s(depths)
	summary.P50 = stat.Quantile(0.5, stat.Empirical, depths, nil)
	summary.P95 = stat.Quantile(0.95, stat.Empirical, depths, nil)
	return summary
}
