package vision

import (
	"math"
	"time"

	"github.com/waypath-data/waypath/internal/timeutil"
)

// Frame is one detector callback's worth of input: an ordered detection
// list with the capture timestamp. Frames arrive from the external
// detection collaborator, typically decoded from a replay log or a live
// feed at the process boundary.
type Frame struct {
	TimestampMillis int64       `json:"timestamp_ms"`
	ImageWidth      float64     `json:"image_width"`
	ImageHeight     float64     `json:"image_height"`
	Detections      []Detection `json:"detections"`
}

// FrameOutcome is everything one frame's computation produced, returned as
// an explicit value rather than pushed through observers. Results are
// ordered to align with the non-rejected input detections.
type FrameOutcome struct {
	Results            []Result  `json:"results"`
	Grid               Grid      `json:"grid"`
	CentralColumnClear bool      `json:"central_column_clear"`
	MinDepthMeters     float64   `json:"min_depth_meters"` // +Inf when no in-range obstacle
	Requested          Intensity `json:"requested"`
	Fired              Intensity `json:"fired"`
}

// HasObstacle reports whether any detection fell inside the safety range.
func (o FrameOutcome) HasObstacle() bool {
	return !math.IsInf(o.MinDepthMeters, 1)
}

// Pipeline runs the per-frame depth and obstacle flow: detections fan out
// through the estimator, results fold into the statistics tracker and the
// obstacle grid, and the feedback gate turns grid pressure into an
// actuation decision.
//
// The pipeline carries mutable state (tracker, gate) and is not designed
// for concurrent re-entrant invocation. Hosts that deliver frames from
// multiple goroutines must serialize calls into ProcessFrame; unsynchronized
// calls would corrupt the running mean and double-fire feedback.
type Pipeline struct {
	config *ConfigHolder
	stats  *Tracker
	gate   *Gate
}

// NewPipeline builds a pipeline around the given config holder and clock.
// The holder may be shared with a configuration surface that hot-swaps the
// config between frames.
func NewPipeline(config *ConfigHolder, clock timeutil.Clock) *Pipeline {
	return &Pipeline{
		config: config,
		stats:  NewTracker(),
		gate:   NewGate(clock),
	}
}

// Stats exposes the running statistics tracker for diagnostics surfaces.
func (p *Pipeline) Stats() *Tracker { return p.stats }

// Config exposes the config holder for configuration surfaces.
func (p *Pipeline) Config() *ConfigHolder { return p.config }

// ProcessFrame runs one frame through the engine. The configuration is read
// once at entry, so a hot-swap mid-call is never observed partially. An
// empty detection list is a valid frame meaning "no obstacles".
func (p *Pipeline) ProcessFrame(detections []Detection) FrameOutcome {
	cfg := p.config.Load()

	results := make([]Result, 0, len(detections))
	minDepth := math.Inf(1)
	for _, det := range detections {
		result, ok := EstimateDepth(cfg, det)
		if !ok {
			continue
		}
		p.stats.Record(result)
		results = append(results, result)
		if result.DepthMeters < SafetyThresholdMeters && result.DepthMeters < minDepth {
			minDepth = result.DepthMeters
		}
	}

	grid := MapGrid(results, SafetyThresholdMeters)
	requested := DecideIntensity(minDepth, !math.IsInf(minDepth, 1))
	fired := p.gate.Request(requested)

	return FrameOutcome{
		Results:            results,
		Grid:               grid,
		CentralColumnClear: grid.CentralColumnClear(),
		MinDepthMeters:     minDepth,
		Requested:          requested,
		Fired:              fired,
	}
}

// FrameInterval is a helper for replay drivers: the wall-clock gap between
// two frame timestamps, never negative.
func FrameInterval(prev, next Frame) time.Duration {
	deltaMillis := next.TimestampMillis - prev.TimestampMillis
	if deltaMillis < 0 {
		return 0
	}
	return time.Duration(deltaMillis) * time.Millisecond
}
