package airspace

// Change captures how an aircraft's state evolved between two snapshots.
// The heading delta is normalized to the [-180, 180] range so that a turn
// through north does not register as a 350° swing.
type Change struct {
	Heading  float64
	Speed    float64
	Altitude float64
}

// ChangeBetween computes the state deltas from previous to current.
func ChangeBetween(previous, current State) Change {
	return Change{
		Heading:  HeadingDifference(previous.Heading, current.Heading),
		Speed:    current.Speed - previous.Speed,
		Altitude: current.Altitude - previous.Altitude,
	}
}

// Significant reports whether the change is large enough to be worth
// propagating: more than 1° of heading, 5 kt of speed, or 100 ft of altitude.
func (c Change) Significant() bool {
	return abs(c.Heading) > 1.0 || abs(c.Speed) > 5.0 || abs(c.Altitude) > 100.0
}

// RateOfChange returns the per-second heading, speed, and altitude rates
// between two snapshots taken dt seconds apart.
func RateOfChange(previous, current State, dt float64) (headingRate, speedRate, altitudeRate float64) {
	return HeadingDifference(previous.Heading, current.Heading) / dt,
		(current.Speed - previous.Speed) / dt,
		(current.Altitude - previous.Altitude) / dt
}

// Rates an aircraft cannot plausibly exceed; anything beyond these points to
// corrupted input rather than real maneuvering.
const (
	maxTurnRateDegPerSec = 5.0
	maxAccelKtPerSec     = 20.0
	maxClimbRateFtPerMin = 3000.0
)

// UnusualChange reports whether the transition from previous to current over
// dt seconds exceeds realistic maneuvering rates.
func UnusualChange(previous, current State, dt float64) bool {
	headingRate, speedRate, altitudeRate := RateOfChange(previous, current, dt)
	return abs(headingRate) > maxTurnRateDegPerSec ||
		abs(speedRate) > maxAccelKtPerSec ||
		abs(altitudeRate) > maxClimbRateFtPerMin/60.0
}

// History is a bounded buffer of recent states for a single aircraft track.
// It is implemented as a fixed-capacity ring: pushing beyond capacity
// overwrites the oldest entry with index arithmetic, never by shifting.
//
// History is not safe for concurrent use; each track requires single-writer
// discipline, which is the caller's responsibility.
type History struct {
	states []State
	head   int // index of the next write
	count  int
}

// NewHistory creates a history that retains the last capacity states.
// A capacity below one is treated as one.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{states: make([]State, capacity)}
}

// Push records a state, evicting the oldest entry once the buffer is full.
func (h *History) Push(s State) {
	h.states[h.head] = s
	h.head = (h.head + 1) % len(h.states)
	if h.count < len(h.states) {
		h.count++
	}
}

// Len returns the number of states currently retained.
func (h *History) Len() int { return h.count }

// Latest returns the most recently pushed state.
func (h *History) Latest() (State, bool) {
	if h.count == 0 {
		return State{}, false
	}
	return h.at(h.count - 1), true
}

// Previous returns the state pushed before the latest one.
func (h *History) Previous() (State, bool) {
	if h.count < 2 {
		return State{}, false
	}
	return h.at(h.count - 2), true
}

// AverageSpeed returns the mean ground speed across the retained states.
func (h *History) AverageSpeed() (float64, bool) {
	if h.count == 0 {
		return 0, false
	}
	var sum float64
	for i := 0; i < h.count; i++ {
		sum += h.at(i).Speed
	}
	return sum / float64(h.count), true
}

// Stable reports whether the last transition stayed within threshold degrees
// of heading, threshold knots of speed, and 10×threshold feet of altitude.
// A track with fewer than two states is considered stable.
func (h *History) Stable(threshold float64) bool {
	latest, ok := h.Latest()
	if !ok {
		return true
	}
	previous, ok := h.Previous()
	if !ok {
		return true
	}
	change := ChangeBetween(previous, latest)
	return abs(change.Heading) < threshold &&
		abs(change.Speed) < threshold &&
		abs(change.Altitude) < threshold*10.0
}

// at maps a logical index (0 = oldest) to the backing ring slot.
func (h *History) at(i int) State {
	start := h.head - h.count
	if start < 0 {
		start += len(h.states)
	}
	return h.states[(start+i)%len(h.states)]
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
