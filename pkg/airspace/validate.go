package airspace

import "math"

// Operating limits enforced by the validator. The engine itself never checks
// these; callers that accept untrusted input are expected to validate before
// invoking any engine function.
const (
	// MaxRangeNM is the maximum distance from the facility center that a
	// position is considered plausible.
	MaxRangeNM = 100.0

	// RadarRangeNM is the radius of controlled airspace.
	RadarRangeNM = 50.0

	// MinAltitudeFt and MaxAltitudeFt bound plausible altitudes.
	MinAltitudeFt = 0.0
	MaxAltitudeFt = 60000.0

	// MinSpeedKt and MaxSpeedKt bound plausible ground speeds.
	MinSpeedKt = 100.0
	MaxSpeedKt = 600.0
)

// ValidateState reports whether every field of the state is finite and within
// normal operating limits.
func ValidateState(s State) bool {
	return ValidatePosition(s.X, s.Y) &&
		ValidateAltitude(s.Altitude) &&
		ValidateHeading(s.Heading) &&
		ValidateSpeed(s.Speed)
}

// ValidatePosition checks that a position is finite and within MaxRangeNM of
// the facility center.
func ValidatePosition(x, y float64) bool {
	return math.Hypot(x, y) <= MaxRangeNM && !math.IsInf(x, 0) && !math.IsNaN(x) &&
		!math.IsInf(y, 0) && !math.IsNaN(y)
}

// ValidateAltitude checks that an altitude is finite and within [0, 60000] ft.
func ValidateAltitude(altitude float64) bool {
	return altitude >= MinAltitudeFt && altitude <= MaxAltitudeFt && !math.IsNaN(altitude)
}

// ValidateHeading checks that a heading is finite and within [0, 360).
func ValidateHeading(heading float64) bool {
	return heading >= 0.0 && heading < 360.0
}

// ValidateSpeed checks that a ground speed is finite and within [100, 600] kt.
func ValidateSpeed(speed float64) bool {
	return speed >= MinSpeedKt && speed <= MaxSpeedKt && !math.IsNaN(speed)
}

// ValidateCommand checks a controller command value against the bounds for
// its command type. Unknown command types are rejected.
func ValidateCommand(commandType string, value float64) bool {
	switch commandType {
	case "heading":
		return ValidateHeading(value)
	case "altitude":
		return ValidateAltitude(value)
	case "speed":
		return ValidateSpeed(value)
	default:
		return false
	}
}

// ValidateMinima checks that separation minima are finite and within the
// ranges a facility can reasonably configure.
func ValidateMinima(horizontalNM, verticalFt float64) bool {
	return horizontalNM >= 0.0 && horizontalNM <= 10.0 &&
		verticalFt >= 0.0 && verticalFt <= 5000.0 &&
		!math.IsNaN(horizontalNM) && !math.IsNaN(verticalFt)
}

// SanitizeValue clamps a value to [min, max]. Non-finite input collapses to
// min so that NaN never propagates past the boundary.
func SanitizeValue(value, min, max float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return min
	}
	return math.Max(min, math.Min(max, value))
}

// AltitudeSafeAt reports whether an altitude is acceptable for a position.
// Aircraft further from the airport are required to be higher.
func AltitudeSafeAt(altitude, x, y float64) bool {
	distance := math.Hypot(x, y)
	switch {
	case distance > 20.0:
		return altitude >= 5000.0
	case distance > 10.0:
		return altitude >= 3000.0
	default:
		return altitude >= 0.0
	}
}

// HeadingChangeSafe reports whether a commanded heading change is within the
// 180° maximum a controller may issue in one instruction.
func HeadingChangeSafe(current, target float64) bool {
	diff := math.Abs(target - current)
	if diff > 180.0 {
		diff = 360.0 - diff
	}
	return diff <= 180.0
}

// SpeedChangeSafe reports whether a commanded speed change is within 150 kt.
func SpeedChangeSafe(current, target float64) bool {
	return math.Abs(target-current) <= 150.0
}

// AltitudeChangeSafe reports whether a commanded altitude change is within
// 20,000 ft.
func AltitudeChangeSafe(current, target float64) bool {
	return math.Abs(target-current) <= 20000.0
}

// InRadarRange reports whether the state is inside controlled airspace.
func InRadarRange(s State) bool {
	return math.Hypot(s.X, s.Y) <= RadarRangeNM
}

// ConfigurationSafe flags energy-state combinations that indicate an unsafe
// configuration: too slow down low, or too fast below 10,000 ft.
func ConfigurationSafe(s State) bool {
	if s.Altitude < 5000.0 && s.Speed < 140.0 {
		return false
	}
	if s.Altitude < 10000.0 && s.Speed > 300.0 {
		return false
	}
	return true
}
