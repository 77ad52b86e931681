// Package sim runs the traffic simulation that feeds the conflict engine:
// scenario-driven aircraft generation, per-tick motion toward controller
// targets, landing handling, scoring, and pairwise separation surveillance.
package sim

import (
	"math"

	"github.com/sepwatch/conflict-probe/pkg/airspace"
)

// Target-capture rates applied each tick. These belong to the simulated
// aircraft, not to the prediction engine, which always extrapolates
// straight and level.
const (
	climbRateFtPerSec = 1500.0
	turnRateDegPerSec = 3.0
	accelKtPerSec     = 10.0
)

// Aircraft is one simulated flight under control.
type Aircraft struct {
	ID       string `json:"id"`
	Callsign string `json:"callsign"`
	Type     string `json:"type"`

	airspace.State

	TargetAltitude float64 `json:"targetAltitude"`
	TargetHeading  float64 `json:"targetHeading"`
	TargetSpeed    float64 `json:"targetSpeed"`

	InConflict bool `json:"inConflict"`
}

// advance moves the aircraft dt seconds forward: position by current heading
// and speed, then altitude, heading, and speed each captured toward their
// targets at the fixed rates above.
func (ac *Aircraft) advance(dt float64) {
	vx, vy := ac.Velocity()
	ac.X += vx * dt
	ac.Y += vy * dt

	if ac.TargetAltitude != ac.Altitude {
		diff := ac.TargetAltitude - ac.Altitude
		step := climbRateFtPerSec * dt
		if math.Abs(diff) < step {
			ac.Altitude = ac.TargetAltitude
		} else {
			ac.Altitude += math.Copysign(step, diff)
		}
	}

	if ac.TargetHeading != ac.Heading {
		diff := airspace.HeadingDifference(ac.Heading, ac.TargetHeading)
		step := turnRateDegPerSec * dt
		if math.Abs(diff) < step {
			ac.Heading = ac.TargetHeading
		} else {
			ac.Heading = airspace.NormalizeHeading(ac.Heading + math.Copysign(step, diff))
		}
	}

	if ac.TargetSpeed != ac.Speed {
		diff := ac.TargetSpeed - ac.Speed
		step := accelKtPerSec * dt
		if math.Abs(diff) < step {
			ac.Speed = ac.TargetSpeed
		} else {
			ac.Speed += math.Copysign(step, diff)
		}
	}
}

// landed reports whether the aircraft has reached the field: within 2 nm of
// the origin below 500 ft.
func (ac *Aircraft) landed() bool {
	return math.Hypot(ac.X, ac.Y) < 2.0 && ac.Altitude < 500.0
}
