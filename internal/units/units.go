// Package units provides shared constants and conversion for distance units
// used by display surfaces. The engine itself always works in meters.
package units

// Unit constants
const (
	Meters      = "m"
	Feet        = "ft"
	Centimeters = "cm"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Meters, Feet, Centimeters}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// ValidUnitsString returns a comma-separated string of valid units for error
// messages.
func ValidUnitsString() string {
	return "m, ft, cm"
}

// ConvertDistance converts a distance from meters to the target units.
// All persisted and computed distances are in meters.
func ConvertDistance(meters float64, targetUnits string) float64 {
	switch targetUnits {
	case Feet:
		return meters * 3.28084
	case Centimeters:
		return meters * 100.0
	case Meters:
		return meters
	default:
		return meters // default to meters if unknown unit
	}
}
