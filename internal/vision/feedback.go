package vision

import (
	"time"

	"github.com/waypath-data/waypath/internal/timeutil"
)

// Intensity is a discrete actuation strength request handed to the haptic
// collaborator.
type Intensity int

const (
	// IntensityNone requests no actuation.
	IntensityNone Intensity = iota
	// IntensityLight requests a light pulse for obstacles inside the safety
	// range.
	IntensityLight
	// IntensityStrong requests a strong pulse for obstacles inside the
	// warning range.
	IntensityStrong
)

// String returns a human-readable intensity name.
func (i Intensity) String() string {
	switch i {
	case IntensityNone:
		return "none"
	case IntensityLight:
		return "light"
	case IntensityStrong:
		return "strong"
	}
	return "unknown"
}

// Feedback thresholds and debounce interval.
const (
	// WarningThresholdMeters is the distance below which feedback escalates
	// to strong.
	WarningThresholdMeters = 0.5
	// FeedbackCooldown is the minimum wall-clock interval between
	// successive actuation events.
	FeedbackCooldown = 500 * time.Millisecond
)

// DecideIntensity maps the minimum depth among in-safety-range detections to
// a requested intensity. hasObstacle is false when no detection fell inside
// the safety range this frame.
func DecideIntensity(minDepth float64, hasObstacle bool) Intensity {
	if !hasObstacle {
		return IntensityNone
	}
	if minDepth < WarningThresholdMeters {
		return IntensityStrong
	}
	if minDepth < SafetyThresholdMeters {
		return IntensityLight
	}
	return IntensityNone
}

// Gate debounces actuation requests. It has two states per channel: idle
// (ready to fire) and cooldown (suppressing). Any fire moves the gate to
// cooldown; the gate returns to idle once the cooldown interval has elapsed.
// Requests arriving during cooldown are dropped, not deferred. A None
// request never fires and never touches gate state.
//
// Gate state is mutated by Request only and persists across frames. It is
// not safe for concurrent use; the per-frame pipeline is the single caller.
type Gate struct {
	clock    timeutil.Clock
	cooldown time.Duration
	lastFire time.Time
	fired    bool
}

// NewGate creates an idle gate with the standard cooldown.
func NewGate(clock timeutil.Clock) *Gate {
	return &Gate{clock: clock, cooldown: FeedbackCooldown}
}

// Request runs an intensity request through the debounce. It returns the
// intensity actually fired: the request itself when the gate was idle, or
// IntensityNone when the request was suppressed or was None to begin with.
func (g *Gate) Request(intensity Intensity) Intensity {
	if intensity == IntensityNone {
		return IntensityNone
	}
	if g.fired && g.clock.Since(g.lastFire) < g.cooldown {
		return IntensityNone
	}
	g.lastFire = g.clock.Now()
	g.fired = true
	return intensity
}

// Idle reports whether the gate would let a request through right now.
func (g *Gate) Idle() bool {
	return !g.fired || g.clock.Since(g.lastFire) >= g.cooldown
}
