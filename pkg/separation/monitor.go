package separation

import (
	"github.com/sepwatch/conflict-probe/pkg/airspace"
	"github.com/sepwatch/conflict-probe/pkg/trajectory"
)

// relativeMotionFloor is the squared relative speed (nm/s)² below which two
// tracks are treated as having no meaningful relative motion.
const relativeMotionFloor = 1e-10

// Result reports an instantaneous separation check.
type Result struct {
	// Safe is true when either dimension alone provides adequate
	// separation. This is an OR test: 6 nm apart at the same altitude is
	// safe, and so is 0 nm apart with 2000 ft between.
	Safe bool `json:"isSafe"`

	// Horizontal distance in nautical miles.
	Horizontal float64 `json:"horizontalDistance"`

	// Vertical distance in feet.
	Vertical float64 `json:"verticalDistance"`
}

// Check evaluates the current snapshot of two aircraft against the given
// minima. Equality counts as safe: an aircraft exactly at the horizontal
// minimum is separated.
func Check(a, b airspace.State, minHorizontal, minVertical float64) Result {
	h := Horizontal(a, b)
	v := Vertical(a, b)
	return Result{
		Safe:       h >= minHorizontal || v >= minVertical,
		Horizontal: h,
		Vertical:   v,
	}
}

// Converging reports whether the horizontal distance between two aircraft is
// decreasing. It compares the current distance against the distance one
// second ahead rather than differentiating, which is accurate enough for the
// constant-velocity model.
func Converging(a, b airspace.State) bool {
	current := Horizontal(a, b)
	future := Horizontal(trajectory.Predict(a, 1.0), trajectory.Predict(b, 1.0))
	return future < current
}

// TimeToClosestApproach returns the closed-form time in seconds until the two
// aircraft reach their minimum horizontal distance, assuming both hold their
// current heading and speed. The second return value is false when the tracks
// have no meaningful relative motion (parallel or identical velocities) or
// when the closest point of approach is not in the future.
func TimeToClosestApproach(a, b airspace.State) (float64, bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y

	avx, avy := a.Velocity()
	bvx, bvy := b.Velocity()
	dvx := bvx - avx
	dvy := bvy - avy

	relSpeedSq := dvx*dvx + dvy*dvy
	if relSpeedSq < relativeMotionFloor {
		return 0, false
	}

	// Minimizing |Δp + Δv·t|² over t gives t* = -(Δp·Δv) / |Δv|².
	t := -(dx*dvx + dy*dvy) / relSpeedSq
	if t <= 0 {
		return 0, false
	}
	return t, true
}

// MinimumOverWindow samples both tracks forward at one-second steps up to and
// including duration and returns the smallest horizontal distance observed,
// starting from the current separation. Because of the discretization this is
// an upper bound on the true analytic minimum.
func MinimumOverWindow(a, b airspace.State, duration float64) float64 {
	min := Horizontal(a, b)

	pa, pb := a, b
	for t := 1.0; t <= duration; t++ {
		pa = trajectory.Predict(pa, 1.0)
		pb = trajectory.Predict(pb, 1.0)
		if d := Horizontal(pa, pb); d < min {
			min = d
		}
	}
	return min
}
