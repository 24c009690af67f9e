package vision

import "sync"

// StatsSnapshot is a point-in-time copy of the running aggregates, safe to
// hand to diagnostics consumers.
type StatsSnapshot struct {
	TotalEstimations int64            `json:"total_estimations"`
	AverageDepth     float64          `json:"average_depth"`
	PerClassCounts   map[string]int64 `json:"per_class_counts"`
}

// Tracker maintains running aggregates over every result the estimator
// returns, including unreliable and filtered ones. It is a raw
// observability aggregate, not a quality gate. State persists across frames
// until Clear is called.
type Tracker struct {
	mu       sync.Mutex
	total    int64
	average  float64
	perClass map[string]int64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{perClass: make(map[string]int64)}
}

// Record folds one result into the running aggregates. The running mean is
// updated incrementally so the full sample history is never stored.
func (t *Tracker) Record(r Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total++
	n := float64(t.total)
	t.average = (t.average*(n-1) + r.DepthMeters) / n
	t.perClass[normalizeLabel(r.Detection.Label)]++
}

// Clear resets all aggregates. There are no partial clears.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total = 0
	t.average = 0
	t.perClass = make(map[string]int64)
}

// Snapshot returns a copy of the current aggregates.
func (t *Tracker) Snapshot() StatsSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	counts := make(map[string]int64, len(t.perClass))
	for label, count := range t.perClass {
		counts[label] = count
	}
	return StatsSnapshot{
		TotalEstimations: t.total,
		AverageDepth:     t.average,
		PerClassCounts:   counts,
	}
}
