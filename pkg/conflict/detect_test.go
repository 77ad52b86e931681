package conflict

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/sepwatch/conflict-probe/pkg/airspace"
)

// TestDetectHeadOn verifies that a converging head-on pair is flagged.
func TestDetectHeadOn(t *testing.T) {
	a := airspace.NewState(0, 0, 10000, 0, 250)
	b := airspace.NewState(0, 5, 10000, 180, 250)

	result := Detect(a, b, 3, 1000, 300)

	if result.Severity == SeverityNone {
		t.Fatal("Expected a head-on pair 5 nm apart to be flagged")
	}
	if result.TimeToConflict < 0 {
		t.Errorf("Expected a breach time, got sentinel %v", result.TimeToConflict)
	}
	// Combined closure 500 kt: inside 3 nm after 14.4s, so the first
	// sampled breach is t=15 and the pair is critical.
	if result.TimeToConflict != 15 {
		t.Errorf("Expected first breach at t=15, got %v", result.TimeToConflict)
	}
	if result.Severity != SeverityCritical {
		t.Errorf("Expected critical severity, got %v", result.Severity)
	}
	if result.MinimumDistance > 0.01 {
		t.Errorf("Expected near-zero minimum distance, got %v", result.MinimumDistance)
	}
}

// TestDetectDivergence verifies that laterally offset opposing tracks stay
// clear.
func TestDetectDivergence(t *testing.T) {
	a := airspace.NewState(0, 0, 10000, 0, 250)
	b := airspace.NewState(10, 10, 10000, 180, 250)

	result := Detect(a, b, 3, 1000, 300)

	if result.Severity != SeverityNone {
		t.Errorf("Expected no conflict, got %v", result.Severity)
	}
	if result.TimeToConflict != NoBreach {
		t.Errorf("Expected the -1 sentinel, got %v", result.TimeToConflict)
	}
	// The tracks hold a constant 10 nm of lateral offset.
	if math.Abs(result.MinimumDistance-10.0) > 1e-6 {
		t.Errorf("Expected minimum distance 10, got %v", result.MinimumDistance)
	}
}

// TestDetectSamePoint verifies two aircraft at the same point register a zero
// minimum distance and a non-None severity for any positive look-ahead.
func TestDetectSamePoint(t *testing.T) {
	for _, lookahead := range []float64{1, 10, 300} {
		a := airspace.NewState(2, 2, 10000, 45, 250)
		b := airspace.NewState(2, 2, 10000, 225, 250)

		result := Detect(a, b, 3, 1000, lookahead)

		if result.MinimumDistance != 0 {
			t.Errorf("lookahead=%v: expected minimum distance 0, got %v", lookahead, result.MinimumDistance)
		}
		if result.Severity == SeverityNone {
			t.Errorf("lookahead=%v: expected a flagged conflict for co-located aircraft", lookahead)
		}
	}
}

// TestDetectVerticalOnlyViolation verifies that a breach in just one
// dimension never raises severity on its own.
func TestDetectVerticalOnlyViolation(t *testing.T) {
	// Same altitude band violated but holding 8 nm laterally on parallel
	// northbound tracks.
	a := airspace.NewState(0, 0, 10000, 0, 250)
	b := airspace.NewState(8, 0, 10200, 0, 250)

	result := Detect(a, b, 3, 1000, 300)

	if result.TimeToConflict != NoBreach {
		t.Errorf("Expected no breach for a vertical-only violation, got %v", result.TimeToConflict)
	}
	if result.Severity != SeverityNone {
		t.Errorf("Expected severity none, got %v", result.Severity)
	}
}

// TestDetectFirstBreachLatched verifies that later breaches never overwrite
// the first breach time.
func TestDetectFirstBreachLatched(t *testing.T) {
	a := airspace.NewState(0, 0, 10000, 0, 250)
	b := airspace.NewState(0, 5, 10000, 180, 250)

	short := Detect(a, b, 3, 1000, 60)
	long := Detect(a, b, 3, 1000, 300)

	if short.TimeToConflict != long.TimeToConflict {
		t.Errorf("Expected the same first-breach time regardless of window, got %v and %v",
			short.TimeToConflict, long.TimeToConflict)
	}
}

// TestClassify exercises the severity ladder boundaries directly.
func TestClassify(t *testing.T) {
	cases := []struct {
		name           string
		timeToConflict float64
		minDistance    float64
		minHorizontal  float64
		want           Severity
	}{
		{"No breach", -1, 0.1, 3, SeverityNone},
		{"Imminent breach", 29, 2.9, 3, SeverityCritical},
		{"Close pass escalates", 200, 1.4, 3, SeverityCritical},
		{"30s boundary is warning", 30, 2.9, 3, SeverityWarning},
		{"Moderate pass escalates", 200, 2.0, 3, SeverityWarning},
		{"60s boundary is advisory", 60, 2.9, 3, SeverityAdvisory},
		{"Distant breach inside minimum", 200, 2.9, 3, SeverityAdvisory},
		{"120s boundary clean pass", 120, 3.5, 3, SeverityNone},
		{"119s is advisory", 119, 3.5, 3, SeverityAdvisory},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := classify(c.timeToConflict, c.minDistance, c.minHorizontal); got != c.want {
				t.Errorf("classify(%v, %v, %v) = %v, want %v",
					c.timeToConflict, c.minDistance, c.minHorizontal, got, c.want)
			}
		})
	}
}

// TestSeverityOrdering verifies severities compare by urgency.
func TestSeverityOrdering(t *testing.T) {
	if !(SeverityNone < SeverityAdvisory && SeverityAdvisory < SeverityWarning && SeverityWarning < SeverityCritical) {
		t.Error("Expected severities to be totally ordered by urgency")
	}
}

// TestSeverityJSON verifies the string-tag serialization round trips.
func TestSeverityJSON(t *testing.T) {
	for _, s := range []Severity{SeverityNone, SeverityAdvisory, SeverityWarning, SeverityCritical} {
		data, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("Marshal(%v) failed: %v", s, err)
		}

		var back Severity
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", data, err)
		}
		if back != s {
			t.Errorf("Round trip changed %v to %v", s, back)
		}
	}

	var s Severity
	if err := json.Unmarshal([]byte(`"extreme"`), &s); err == nil {
		t.Error("Expected an error for an unknown severity tag")
	}
}

// TestBreach verifies the instantaneous AND test.
func TestBreach(t *testing.T) {
	a := airspace.NewState(0, 0, 10000, 0, 250)

	if !Breach(a, airspace.NewState(2, 0, 10500, 0, 250), 3, 1000) {
		t.Error("Expected breach when both minima are violated")
	}
	if Breach(a, airspace.NewState(2, 0, 12000, 0, 250), 3, 1000) {
		t.Error("Expected no breach with vertical separation intact")
	}
	if Breach(a, airspace.NewState(5, 0, 10000, 0, 250), 3, 1000) {
		t.Error("Expected no breach with horizontal separation intact")
	}
}

// TestPairs verifies the pairwise scan indexes.
func TestPairs(t *testing.T) {
	states := []airspace.State{
		airspace.NewState(0, 0, 10000, 0, 250),
		airspace.NewState(1, 0, 10000, 180, 250),  // in breach with 0
		airspace.NewState(20, 20, 10000, 90, 250), // clear of both
	}

	pairs := Pairs(states, 3, 1000)
	if len(pairs) != 1 {
		t.Fatalf("Expected one breaching pair, got %d", len(pairs))
	}
	if pairs[0] != [2]int{0, 1} {
		t.Errorf("Expected pair {0,1}, got %v", pairs[0])
	}
}

// TestProbability verifies the heuristic's range and monotonic intuition.
func TestProbability(t *testing.T) {
	close := Probability(
		airspace.NewState(0, 0, 10000, 0, 250),
		airspace.NewState(0, 2, 10000, 180, 250),
	)
	far := Probability(
		airspace.NewState(0, 0, 10000, 0, 250),
		airspace.NewState(0, 9, 10000, 180, 250),
	)

	if close < 0 || close > 1 || far < 0 || far > 1 {
		t.Errorf("Expected probabilities in [0,1], got %v and %v", close, far)
	}
	if close <= far {
		t.Errorf("Expected a closer pair to score higher: close=%v far=%v", close, far)
	}
}

// TestNearest verifies the nearest-aircraft index.
func TestNearest(t *testing.T) {
	s := airspace.NewState(0, 0, 10000, 0, 250)
	others := []airspace.State{
		airspace.NewState(10, 0, 10000, 0, 250),
		airspace.NewState(2, 1, 10000, 0, 250),
		airspace.NewState(-5, 5, 10000, 0, 250),
	}

	if got := Nearest(s, others); got != 1 {
		t.Errorf("Expected index 1, got %d", got)
	}
	if got := Nearest(s, nil); got != -1 {
		t.Errorf("Expected -1 for no candidates, got %d", got)
	}
}
