// Package conflict predicts separation violations between aircraft pairs over
// a bounded look-ahead window and classifies how urgent they are. It builds on
// the trajectory and separation packages; like them, every function here is a
// pure, bounded-time computation with no retained state.
package conflict

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/sepwatch/conflict-probe/pkg/airspace"
	"github.com/sepwatch/conflict-probe/pkg/separation"
	"github.com/sepwatch/conflict-probe/pkg/trajectory"
)

// Severity classifies a predicted conflict. Values are ordered: a higher
// severity always indicates a more urgent situation, so severities can be
// compared directly with <.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityAdvisory
	SeverityWarning
	SeverityCritical
)

// Time thresholds of the severity ladder, in seconds to first breach.
const (
	criticalTime = 30.0
	warningTime  = 60.0
	advisoryTime = 120.0
)

func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
	case SeverityAdvisory:
		return "advisory"
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalJSON serializes the severity as its string tag.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses a severity from its string tag.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	switch tag {
	case "none":
		*s = SeverityNone
	case "advisory":
		*s = SeverityAdvisory
	case "warning":
		*s = SeverityWarning
	case "critical":
		*s = SeverityCritical
	default:
		return fmt.Errorf("unknown severity %q", tag)
	}
	return nil
}

// Conflict is the outcome of a look-ahead evaluation for one aircraft pair.
// It is recomputed on every call and never persisted.
type Conflict struct {
	Severity Severity `json:"severity"`

	// TimeToConflict is the number of seconds until the first simultaneous
	// horizontal and vertical breach, or -1 when no breach occurs within
	// the window.
	TimeToConflict float64 `json:"timeToConflict"`

	// MinimumDistance is the smallest horizontal distance observed across
	// the whole window, in nautical miles.
	MinimumDistance float64 `json:"minimumDistance"`
}

// NoBreach is the TimeToConflict sentinel meaning no simultaneous breach was
// found within the look-ahead window.
const NoBreach = -1.0

// Detect simulates both aircraft forward in one-second steps, each step
// compounding onto the previous predicted state, from t=1 up to and including
// lookahead seconds. It tracks the running minimum horizontal distance over
// the whole window and latches the time of the first step at which the pair
// is simultaneously inside both minima; later breaches never overwrite it.
//
// A violation in only one dimension never raises severity on its own: the
// minimum-distance refinements of the severity ladder apply only once an
// actual simultaneous breach has been found.
func Detect(a, b airspace.State, minHorizontal, minVertical, lookahead float64) Conflict {
	minDistance := separation.Horizontal(a, b)
	timeToConflict := NoBreach

	pa, pb := a, b
	for t := 1.0; t <= lookahead; t++ {
		pa = trajectory.Predict(pa, 1.0)
		pb = trajectory.Predict(pb, 1.0)

		h := separation.Horizontal(pa, pb)
		v := separation.Vertical(pa, pb)

		if h < minDistance {
			minDistance = h
		}
		if h < minHorizontal && v < minVertical && timeToConflict < 0 {
			timeToConflict = t
		}
	}

	return Conflict{
		Severity:        classify(timeToConflict, minDistance, minHorizontal),
		TimeToConflict:  timeToConflict,
		MinimumDistance: minDistance,
	}
}

// classify applies the severity ladder. The tie-breaks are strict and
// ordered: the first matching rule wins, and either the time or the distance
// signal can escalate a finding once a breach exists.
func classify(timeToConflict, minDistance, minHorizontal float64) Severity {
	if timeToConflict < 0 {
		return SeverityNone
	}
	switch {
	case timeToConflict < criticalTime || minDistance < 0.5*minHorizontal:
		return SeverityCritical
	case timeToConflict < warningTime || minDistance < 0.75*minHorizontal:
		return SeverityWarning
	case timeToConflict < advisoryTime || minDistance < minHorizontal:
		return SeverityAdvisory
	default:
		return SeverityNone
	}
}

// Breach is the instantaneous AND test: true only when the pair is inside
// both the horizontal and the vertical minimum at once. Note the asymmetry
// with separation.Check, which treats either dimension alone as sufficient.
func Breach(a, b airspace.State, minHorizontal, minVertical float64) bool {
	return separation.Horizontal(a, b) < minHorizontal &&
		separation.Vertical(a, b) < minVertical
}

// Pairs scans every pair in states and returns the index pairs currently in
// breach. The scan is pairwise only; it does not attempt joint resolution
// across three or more aircraft.
func Pairs(states []airspace.State, minHorizontal, minVertical float64) [][2]int {
	var breaches [][2]int
	for i := 0; i < len(states); i++ {
		for j := i + 1; j < len(states); j++ {
			if Breach(states[i], states[j], minHorizontal, minVertical) {
				breaches = append(breaches, [2]int{i, j})
			}
		}
	}
	return breaches
}

// Probability is a coarse [0,1] heuristic blending how close the pair is now
// with how fast they are closing. It is a display aid, not part of the
// severity ladder.
func Probability(a, b airspace.State) float64 {
	h := separation.Horizontal(a, b)

	avx, avy := a.Velocity()
	bvx, bvy := b.Velocity()
	closureRate := math.Hypot(bvx-avx, bvy-avy)

	distanceFactor := math.Max(0.0, 1.0-h/10.0)
	rateFactor := math.Min(1.0, closureRate*10.0)

	return distanceFactor * rateFactor * 0.5
}

// Nearest returns the index of the aircraft in others horizontally closest to
// s, or -1 when others is empty.
func Nearest(s airspace.State, others []airspace.State) int {
	nearest := -1
	minDistance := math.MaxFloat64
	for i := range others {
		if d := separation.Horizontal(s, others[i]); d < minDistance {
			minDistance = d
			nearest = i
		}
	}
	return nearest
}
