// Package trajectory extrapolates aircraft positions forward in time on the
// local planar coordinate system. The model is deliberately simple: constant
// heading and speed, no turn, climb, or acceleration dynamics. Everything here
// is a pure function of its arguments.
package trajectory

import (
	"math"

	"github.com/sepwatch/conflict-probe/pkg/airspace"
)

// Predict returns the state dt seconds ahead assuming straight-and-level
// flight. Altitude, heading, and speed carry over unchanged.
func Predict(s airspace.State, dt float64) airspace.State {
	vx, vy := s.Velocity()
	return airspace.State{
		X:        s.X + vx*dt,
		Y:        s.Y + vy*dt,
		Altitude: s.Altitude,
		Heading:  s.Heading,
		Speed:    s.Speed,
	}
}

// Point is a sampled position along a predicted path.
type Point struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Altitude float64 `json:"altitude"`
	Time     float64 `json:"time"`
}

// Sample walks the predicted path from t=0 up to and including duration,
// compounding each step onto the previous predicted state, and returns one
// point per step. A step of zero or less falls back to one second.
func Sample(s airspace.State, duration, step float64) []Point {
	if step <= 0 {
		step = 1.0
	}
	var points []Point
	current := s
	for t := 0.0; t <= duration; t += step {
		points = append(points, Point{
			X:        current.X,
			Y:        current.Y,
			Altitude: current.Altitude,
			Time:     t,
		})
		current = Predict(current, step)
	}
	return points
}

// Intercept solves for the point where two constant-velocity tracks meet.
// It returns false when the tracks are parallel (no meaningful relative
// motion), when the quadratic has no real solution, or when the only
// solutions lie in the past.
func Intercept(a, b airspace.State) (Point, bool) {
	avx, avy := a.Velocity()
	bvx, bvy := b.Velocity()

	dx := b.X - a.X
	dy := b.Y - a.Y
	dvx := bvx - avx
	dvy := bvy - avy

	qa := dvx*dvx + dvy*dvy
	qb := 2.0 * (dx*dvx + dy*dvy)
	qc := dx*dx + dy*dy

	if math.Abs(qa) < 1e-10 {
		return Point{}, false
	}

	// A true zero-distance crossing sits exactly on the discriminant=0
	// boundary, so rounding can push it marginally negative.
	discriminant := qb*qb - 4.0*qa*qc
	if discriminant < 0 {
		if discriminant < -1e-12 {
			return Point{}, false
		}
		discriminant = 0
	}

	sqrtD := math.Sqrt(discriminant)
	t1 := (-qb - sqrtD) / (2.0 * qa)
	t2 := (-qb + sqrtD) / (2.0 * qa)

	t := t1
	if t <= 0 {
		t = t2
	}
	if t <= 0 {
		return Point{}, false
	}

	return Point{
		X:        a.X + avx*t,
		Y:        a.Y + avy*t,
		Altitude: a.Altitude,
		Time:     t,
	}, true
}
