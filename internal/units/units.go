// Package units provides shared constants, validation, and display conversion
// for speed units. Plans carry speeds in m/s; other units exist only at
// display boundaries.
package units

import (
	"fmt"
	"strings"
)

// Unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// factors maps a unit identifier to its multiplier from m/s.
var factors = map[string]float64{
	MPS:  1,
	MPH:  2.23694,
	KMPH: 3.6,
	KPH:  3.6,
}

// ValidUnits lists the accepted unit identifiers in display order.
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

// IsValid reports whether unit is a supported speed unit.
func IsValid(unit string) bool {
	_, ok := factors[unit]
	return ok
}

// ValidUnitsString returns a comma-separated list of accepted units for error
// messages.
func ValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// ConvertSpeed converts a stored m/s speed to the target units. Unknown units
// fall back to m/s.
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	f, ok := factors[targetUnits]
	if !ok {
		return speedMPS
	}
	return speedMPS * f
}

// FormatSpeed renders a stored m/s speed in the target units with a unit
// suffix.
func FormatSpeed(speedMPS float64, targetUnits string) string {
	if !IsValid(targetUnits) {
		targetUnits = MPS
	}
	return fmt.Sprintf("%.1f %s", ConvertSpeed(speedMPS, targetUnits), targetUnits)
}
