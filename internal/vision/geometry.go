package vision

import (
	"fmt"
	"math"
)

// FocalLengthFromFOV derives the pixel focal length for a sensor of the given
// pixel width from its horizontal field of view:
//
//	f = (w/2) / tan(fov/2)
//
// Precondition: 0 < fovDegrees < 180. Callers validate with ValidateFOV at
// configuration-edit time; outside that range the tangent is zero or negative
// and the result is meaningless.
func FocalLengthFromFOV(imageWidthPx, fovDegrees float64) float64 {
	fovRadians := fovDegrees * math.Pi / 180.0
	return (imageWidthPx / 2.0) / math.Tan(fovRadians/2.0)
}

// FOVFromFocalLength is the inverse of FocalLengthFromFOV, used for display
// and config round-tripping.
func FOVFromFocalLength(imageWidthPx, focalLengthPx float64) float64 {
	return 2.0 * math.Atan((imageWidthPx/2.0)/focalLengthPx) * 180.0 / math.Pi
}

// ValidateFOV rejects field-of-view values outside the open interval
// (0, 180) degrees. This is the one precondition the engine does not recover
// from, so configuration layers must call it before deriving focal lengths.
func ValidateFOV(fovDegrees float64) error {
	if fovDegrees <= 0 || fovDegrees >= 180 {
		return fmt.Errorf("field of view must be in (0, 180) degrees, got %g", fovDegrees)
	}
	return nil
}
