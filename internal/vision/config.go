package vision

import (
	"fmt"
	"sync/atomic"
)

// Method selects which real-world dimension drives the pinhole inversion.
// The set is closed: every switch over Method in this package handles all
// five cases, so adding a method forces each call site to be revisited.
type Method int

const (
	// MethodWidth uses the catalog width against the pixel box width.
	MethodWidth Method = iota
	// MethodHeight uses the catalog height against the pixel box height.
	MethodHeight
	// MethodAverageDimension blends width and height into one scalar size,
	// computes a depth per axis with it, and averages the two depths.
	MethodAverageDimension
	// MethodMaxDimension takes the larger of the per-axis depths computed
	// from the unblended width and height.
	MethodMaxDimension
	// MethodMinDimension takes the smaller of the per-axis depths.
	MethodMinDimension
)

// String returns the method tag used in estimation results.
func (m Method) String() string {
	switch m {
	case MethodWidth:
		return "Width"
	case MethodHeight:
		return "Height"
	case MethodAverageDimension:
		return "Average dimension"
	case MethodMaxDimension:
		return "Max dimension"
	case MethodMinDimension:
		return "Min dimension"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod converts a config string into a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "width":
		return MethodWidth, nil
	case "height":
		return MethodHeight, nil
	case "average", "average_dimension":
		return MethodAverageDimension, nil
	case "max", "max_dimension":
		return MethodMaxDimension, nil
	case "min", "min_dimension":
		return MethodMinDimension, nil
	}
	return MethodWidth, fmt.Errorf("unknown calculation method %q (want width, height, average, max or min)", s)
}

// Default depth bounds in meters.
const (
	DefaultMinDepthMeters = 0.1
	DefaultMaxDepthMeters = 50.0
)

// EstimatorConfig holds the camera intrinsics and estimation parameters for
// one configuration generation. Values are immutable: to change anything,
// build a new config and publish it through a ConfigHolder so an in-flight
// frame observes either the old or the new configuration in its entirety.
type EstimatorConfig struct {
	FocalLengthX float64 // pixels
	FocalLengthY float64 // pixels
	ImageWidth   float64 // pixels
	ImageHeight  float64 // pixels
	Method       Method
	MinDepth     float64 // meters
	MaxDepth     float64 // meters
	Catalog      *Catalog
}

// NewEstimatorConfig builds a config with default depth bounds and the
// built-in catalog. Callers override fields on the returned value before
// publishing it.
func NewEstimatorConfig(focalX, focalY, imageWidth, imageHeight float64) EstimatorConfig {
	return EstimatorConfig{
		FocalLengthX: focalX,
		FocalLengthY: focalY,
		ImageWidth:   imageWidth,
		ImageHeight:  imageHeight,
		Method:       MethodWidth,
		MinDepth:     DefaultMinDepthMeters,
		MaxDepth:     DefaultMaxDepthMeters,
		Catalog:      DefaultCatalog(),
	}
}

// ConfigHolder publishes an EstimatorConfig with whole-value replace
// semantics. Load and Store are safe for concurrent use; a reader never
// observes a partially updated configuration.
type ConfigHolder struct {
	v atomic.Pointer[EstimatorConfig]
}

// NewConfigHolder creates a holder seeded with cfg.
func NewConfigHolder(cfg EstimatorConfig) *ConfigHolder {
	h := &ConfigHolder{}
	h.Store(cfg)
	return h
}

// Load returns the current configuration value.
func (h *ConfigHolder) Load() EstimatorConfig {
	return *h.v.Load()
}

// Store atomically replaces the configuration.
func (h *ConfigHolder) Store(cfg EstimatorConfig) {
	h.v.Store(&cfg)
}
