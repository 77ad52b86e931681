package conflict

import (
	"math"

	"github.com/sepwatch/conflict-probe/pkg/airspace"
)

// resolutionLookahead is the fixed window, in seconds, over which a proposed
// resolution is re-evaluated.
const resolutionLookahead = 300.0

// AvoidanceHeading suggests a heading for a that turns it 90° right of the
// bearing to b. The heuristic is fixed: it does not check whether the right
// side is actually clear, nor any aircraft-specific constraints. The result
// is normalized to [0, 360).
func AvoidanceHeading(a, b airspace.State) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y

	bearing := math.Atan2(dy, dx) * airspace.RadiansToDegrees

	return airspace.NormalizeHeading(bearing + 90.0)
}

// ResolutionEffective substitutes newHeading into a and re-runs the conflict
// detection over a fixed five-minute window. It returns true only when the
// modified geometry clears the pair entirely.
func ResolutionEffective(a, b airspace.State, newHeading, minHorizontal, minVertical float64) bool {
	modified := a
	modified.Heading = newHeading

	result := Detect(modified, b, minHorizontal, minVertical, resolutionLookahead)
	return result.Severity == SeverityNone
}
