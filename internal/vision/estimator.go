package vision

import (
	"math"
)

// Confidence model constants. Confidence starts at a base value and factors
// are additive, then the sum is clamped to [0,1].
const (
	// ReliabilityThreshold is the confidence at or above which a result is
	// marked reliable.
	ReliabilityThreshold = 0.4
	// FilteredConfidence is forced onto results whose depth falls outside
	// the configured bounds. The result is kept, not discarded.
	FilteredConfidence = 0.1
	// FallbackConfidence is the fixed confidence of area-based fallback
	// results; below ReliabilityThreshold by construction.
	FallbackConfidence = 0.3

	baseConfidence          = 0.5
	detectorConfidenceGain  = 0.3
	areaBonusThreshold      = 0.01
	areaBonus               = 0.2
	largeAreaBonusThreshold = 0.05
	largeAreaBonus          = 0.1
	aspectRatioBonus        = 0.1
	depthRangeBonus         = 0.1
	trustedClassBonus       = 0.1
)

// FallbackMethodTag tags results produced by the area-based heuristic.
const FallbackMethodTag = "Area-based fallback"

// trustedClasses are labels with well-constrained real-world dimensions,
// granting a small confidence bonus.
var trustedClasses = map[string]bool{
	"person": true,
	"car":    true,
	"bus":    true,
	"chair":  true,
	"tv":     true,
	"laptop": true,
	"bottle": true,
	"door":   true,
}

// Result is the outcome of estimating depth for one detection. Results are
// created fresh per detection per frame, never mutated, and not retained by
// the engine beyond the frame that produced them.
type Result struct {
	Detection   Detection `json:"detection"`
	DepthMeters float64   `json:"depth_meters"` // may lie outside [MinDepth, MaxDepth]
	Confidence  float64   `json:"confidence"`   // in [0,1]
	Method      string    `json:"method"`
	Reliable    bool      `json:"reliable"`
}

// EstimateDepth converts one detection into a depth estimate using the
// pinhole relation depth = focalLength * realWorldSize / pixelSize.
//
// The second return value is false when the detection yields no result at
// all: a degenerate bounding box (non-positive width, height or area) is
// signalled by omission, not by an error. Every other edge case degrades to
// an in-band result: unknown classes route to the area-based fallback and
// out-of-range depths are kept with forced low confidence and a
// "(filtered)" method tag.
func EstimateDepth(cfg EstimatorConfig, det Detection) (Result, bool) {
	dims, ok := cfg.Catalog.Lookup(det.Label)
	if !ok {
		return estimateFallback(cfg, det)
	}

	pixelWidth := det.Pixel.Width()
	pixelHeight := det.Pixel.Height()
	if pixelWidth <= 0 || pixelHeight <= 0 {
		return Result{}, false
	}

	var depth float64
	switch cfg.Method {
	case MethodWidth:
		depth = cfg.FocalLengthX * dims.Width / pixelWidth
	case MethodHeight:
		depth = cfg.FocalLengthY * dims.Height / pixelHeight
	case MethodAverageDimension:
		// Both axes use the blended scalar size, then the two depths are
		// averaged.
		blended := DimensionFor(dims, MethodAverageDimension)
		depthX := cfg.FocalLengthX * blended / pixelWidth
		depthY := cfg.FocalLengthY * blended / pixelHeight
		depth = (depthX + depthY) / 2.0
	case MethodMaxDimension:
		depth = math.Max(
			cfg.FocalLengthX*dims.Width/pixelWidth,
			cfg.FocalLengthY*dims.Height/pixelHeight,
		)
	case MethodMinDimension:
		depth = math.Min(
			cfg.FocalLengthX*dims.Width/pixelWidth,
			cfg.FocalLengthY*dims.Height/pixelHeight,
		)
	}

	if depth < cfg.MinDepth || depth > cfg.MaxDepth {
		return Result{
			Detection:   det,
			DepthMeters: depth,
			Confidence:  FilteredConfidence,
			Method:      cfg.Method.String() + " (filtered)",
			Reliable:    false,
		}, true
	}

	confidence := estimateConfidence(cfg, det, depth, pixelWidth, pixelHeight)
	return Result{
		Detection:   det,
		DepthMeters: depth,
		Confidence:  confidence,
		Method:      cfg.Method.String(),
		Reliable:    confidence >= ReliabilityThreshold,
	}, true
}

// estimateFallback handles classes absent from the catalog with a purely
// area-based empirical heuristic: objects filling more of the frame are
// assumed closer. Always unreliable by construction.
func estimateFallback(cfg EstimatorConfig, det Detection) (Result, bool) {
	pixelArea := det.Pixel.Area()
	if pixelArea <= 0 {
		return Result{}, false
	}

	normalizedArea := pixelArea / (cfg.ImageWidth * cfg.ImageHeight)
	rawDepth := math.Max(0.5, -5.0*math.Log(normalizedArea*10.0))
	depth := clamp(rawDepth, cfg.MinDepth, cfg.MaxDepth)

	return Result{
		Detection:   det,
		DepthMeters: depth,
		Confidence:  FallbackConfidence,
		Method:      FallbackMethodTag,
		Reliable:    false,
	}, true
}

// estimateConfidence scores a catalog-hit estimate. Factors are additive on
// a base of 0.5 and the sum is clamped to [0,1].
func estimateConfidence(cfg EstimatorConfig, det Detection, depth, pixelWidth, pixelHeight float64) float64 {
	confidence := baseConfidence + det.Confidence*detectorConfidenceGain

	areaFraction := (pixelWidth * pixelHeight) / (cfg.ImageWidth * cfg.ImageHeight)
	if areaFraction > areaBonusThreshold {
		confidence += areaBonus
	}
	if areaFraction > largeAreaBonusThreshold {
		confidence += largeAreaBonus
	}

	aspectRatio := pixelWidth / pixelHeight
	if aspectRatio > 0.2 && aspectRatio < 5.0 {
		confidence += aspectRatioBonus
	}

	if depth > 0.5 && depth < 20.0 {
		confidence += depthRangeBonus
	}

	if trustedClasses[normalizeLabel(det.Label)] {
		confidence += trustedClassBonus
	}

	return clamp(confidence, 0.0, 1.0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
