// Package separation evaluates the distance between aircraft pairs against
// separation standards, both instantaneously and over a bounded future
// window. All functions are pure and symmetric in their two aircraft.
package separation

import (
	"math"

	"github.com/sepwatch/conflict-probe/pkg/airspace"
)

// Horizontal returns the Euclidean distance between two states on the local
// plane, in nautical miles.
func Horizontal(a, b airspace.State) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Vertical returns the absolute altitude difference in feet.
func Vertical(a, b airspace.State) float64 {
	return math.Abs(a.Altitude - b.Altitude)
}
