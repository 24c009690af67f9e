package vision

import (
	"math"
	"testing"
)

func TestFocalLengthFromFOV(t *testing.T) {
	tests := []struct {
		name       string
		imageWidth float64
		fovDegrees float64
		want       float64
	}{
		// f = (w/2) / tan(fov/2); tan(45°) = 1
		{"90 degrees", 1000, 90, 500},
		{"60 degrees", 640, 60, 320 / math.Tan(30*math.Pi/180)},
		{"narrow fov gives long focal length", 1920, 10, 960 / math.Tan(5*math.Pi/180)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FocalLengthFromFOV(tt.imageWidth, tt.fovDegrees)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("FocalLengthFromFOV(%v, %v) = %v, want %v", tt.imageWidth, tt.fovDegrees, got, tt.want)
			}
		})
	}
}

func TestFOVRoundTrip(t *testing.T) {
	// focalLengthFromFov / fovFromFocalLength must round-trip across the
	// whole valid range.
	for fov := 1.0; fov < 180.0; fov += 7.3 {
		f := FocalLengthFromFOV(1280, fov)
		got := FOVFromFocalLength(1280, f)
		if math.Abs(got-fov) > 1e-9 {
			t.Errorf("round trip at fov=%v: got %v", fov, got)
		}
	}
}

func TestValidateFOV(t *testing.T) {
	for _, fov := range []float64{0, -10, 180, 359} {
		if err := ValidateFOV(fov); err == nil {
			t.Errorf("ValidateFOV(%v) = nil, want error", fov)
		}
	}
	for _, fov := range []float64{0.1, 60, 90, 179.9} {
		if err := ValidateFOV(fov); err != nil {
			t.Errorf("ValidateFOV(%v) = %v, want nil", fov, err)
		}
	}
}
