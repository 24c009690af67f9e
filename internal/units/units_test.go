package units

import (
	"math"
	"testing"
)

func TestIsValid(t *testing.T) {
	for _, unit := range ValidUnits {
		if !IsValid(unit) {
			t.Errorf("IsValid(%q) = false, want true", unit)
		}
	}
	for _, unit := range []string{"", "yards", "M", "feet"} {
		if IsValid(unit) {
			t.Errorf("IsValid(%q) = true, want false", unit)
		}
	}
}

func TestConvertDistance(t *testing.T) {
	tests := []struct {
		meters float64
		units  string
		want   float64
	}{
		{1.0, Meters, 1.0},
		{1.0, Feet, 3.28084},
		{2.5, Centimeters, 250.0},
		{1.0, "unknown", 1.0}, // unknown units fall back to meters
	}
	for _, tt := range tests {
		if got := ConvertDistance(tt.meters, tt.units); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ConvertDistance(%v, %q) = %v, want %v", tt.meters, tt.units, got, tt.want)
		}
	}
}
