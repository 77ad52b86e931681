package airspace

import "math"

// Constants for unit conversions used across the engine.
const (
	// DegreesToRadians converts degrees to radians
	DegreesToRadians = math.Pi / 180.0

	// RadiansToDegrees converts radians to degrees
	RadiansToDegrees = 180.0 / math.Pi

	// KnotsToNMPerSecond converts ground speed in knots to nautical miles per second
	KnotsToNMPerSecond = 1.0 / 3600.0
)

// State represents an aircraft snapshot on the local planar coordinate system.
// Positions are expressed in nautical miles on a flat Cartesian plane centered
// on the facility; this is deliberately not a geodetic model.
//
// States are plain values. Engine functions never mutate a State in place;
// every predicted position is a fresh value.
type State struct {
	// X is the east/west position in nautical miles (positive = east)
	X float64 `json:"x"`

	// Y is the north/south position in nautical miles (positive = north)
	Y float64 `json:"y"`

	// Altitude in feet MSL
	Altitude float64 `json:"altitude"`

	// Heading in degrees clockwise from north, [0, 360)
	Heading float64 `json:"heading"`

	// Speed is ground speed in knots
	Speed float64 `json:"speed"`
}

// NewState constructs a State from the five raw values of the wire interface.
// No validation is performed here; see Validate for the bounds checks that
// callers are expected to apply before handing states to the engine.
func NewState(x, y, altitude, heading, speed float64) State {
	return State{X: x, Y: y, Altitude: altitude, Heading: heading, Speed: speed}
}

// Velocity decomposes the state's heading and speed into planar velocity
// components in nautical miles per second. Heading 0° points due north (+y),
// 90° due east (+x).
func (s State) Velocity() (vx, vy float64) {
	rad := s.Heading * DegreesToRadians
	v := s.Speed * KnotsToNMPerSecond
	return math.Sin(rad) * v, math.Cos(rad) * v
}

// NormalizeHeading wraps a heading into the [0, 360) range.
func NormalizeHeading(heading float64) float64 {
	heading = math.Mod(heading, 360.0)
	if heading < 0 {
		heading += 360.0
	}
	return heading
}

// HeadingDifference returns the shortest signed angular difference from
// current to target in the [-180, 180] range. Positive means a right turn.
func HeadingDifference(current, target float64) float64 {
	diff := target - current
	for diff > 180.0 {
		diff -= 360.0
	}
	for diff < -180.0 {
		diff += 360.0
	}
	return diff
}

// Bearing returns the compass bearing from a to b in degrees [0, 360).
// 0° = due north, 90° = due east.
func Bearing(a, b State) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return NormalizeHeading(math.Atan2(dx, dy) * RadiansToDegrees)
}
