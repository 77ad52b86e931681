package airspace

import (
	"math"
	"testing"
)

// TestChangeBetween verifies state delta calculation.
func TestChangeBetween(t *testing.T) {
	prev := NewState(0, 0, 10000, 180, 250)
	curr := NewState(1, 1, 10500, 185, 255)

	change := ChangeBetween(prev, curr)

	if change.Heading != 5.0 {
		t.Errorf("Expected heading change 5, got %v", change.Heading)
	}
	if change.Speed != 5.0 {
		t.Errorf("Expected speed change 5, got %v", change.Speed)
	}
	if change.Altitude != 500.0 {
		t.Errorf("Expected altitude change 500, got %v", change.Altitude)
	}
}

// TestChangeBetweenWrapsHeading verifies the ±180 normalization of heading
// deltas across north.
func TestChangeBetweenWrapsHeading(t *testing.T) {
	prev := NewState(0, 0, 10000, 350, 250)
	curr := NewState(0, 0, 10000, 10, 250)

	change := ChangeBetween(prev, curr)
	if math.Abs(change.Heading-20.0) > 1e-9 {
		t.Errorf("Expected heading change +20 through north, got %v", change.Heading)
	}
}

// TestChangeSignificant verifies the significance thresholds.
func TestChangeSignificant(t *testing.T) {
	if (Change{Heading: 0.5, Speed: 2, Altitude: 50}).Significant() {
		t.Error("Expected small change to be insignificant")
	}
	if !(Change{Heading: 2}).Significant() {
		t.Error("Expected 2 degree change to be significant")
	}
	if !(Change{Altitude: 150}).Significant() {
		t.Error("Expected 150 ft change to be significant")
	}
}

// TestHistoryRing verifies the ring buffer keeps only the last N states.
func TestHistoryRing(t *testing.T) {
	h := NewHistory(5)

	for i := 0; i < 10; i++ {
		h.Push(NewState(float64(i), float64(i), 10000, 0, 250))
	}

	if h.Len() != 5 {
		t.Fatalf("Expected 5 retained states, got %d", h.Len())
	}

	latest, ok := h.Latest()
	if !ok || latest.X != 9 {
		t.Errorf("Expected latest X=9, got %v (ok=%v)", latest.X, ok)
	}

	previous, ok := h.Previous()
	if !ok || previous.X != 8 {
		t.Errorf("Expected previous X=8, got %v (ok=%v)", previous.X, ok)
	}
}

// TestHistoryEmpty verifies accessors on an empty history.
func TestHistoryEmpty(t *testing.T) {
	h := NewHistory(3)

	if _, ok := h.Latest(); ok {
		t.Error("Expected no latest state on empty history")
	}
	if _, ok := h.Previous(); ok {
		t.Error("Expected no previous state on empty history")
	}
	if _, ok := h.AverageSpeed(); ok {
		t.Error("Expected no average speed on empty history")
	}
	if !h.Stable(1.0) {
		t.Error("Expected empty history to report stable")
	}
}

// TestHistoryAverageSpeed verifies the mean over retained states only.
func TestHistoryAverageSpeed(t *testing.T) {
	h := NewHistory(3)
	// These three should be evicted.
	for i := 0; i < 3; i++ {
		h.Push(NewState(0, 0, 10000, 0, 100))
	}
	for _, speed := range []float64{200, 250, 300} {
		h.Push(NewState(0, 0, 10000, 0, speed))
	}

	avg, ok := h.AverageSpeed()
	if !ok {
		t.Fatal("Expected an average speed")
	}
	if math.Abs(avg-250) > 1e-9 {
		t.Errorf("Expected average 250, got %v", avg)
	}
}

// TestHistoryStable verifies stability thresholds on the last transition.
func TestHistoryStable(t *testing.T) {
	h := NewHistory(5)
	h.Push(NewState(0, 0, 10000, 90, 250))
	h.Push(NewState(1, 0, 10000, 90.5, 251))

	if !h.Stable(2.0) {
		t.Error("Expected small transition to be stable at threshold 2")
	}

	h.Push(NewState(2, 0, 10000, 120, 251))
	if h.Stable(2.0) {
		t.Error("Expected 29.5 degree swing to be unstable at threshold 2")
	}
}

// TestUnusualChange verifies detection of physically implausible rates.
func TestUnusualChange(t *testing.T) {
	prev := NewState(0, 0, 10000, 90, 250)

	t.Run("Nominal transition", func(t *testing.T) {
		curr := NewState(0.1, 0, 10010, 91, 251)
		if UnusualChange(prev, curr, 1.0) {
			t.Error("Expected nominal transition to be plausible")
		}
	})

	t.Run("Impossible turn rate", func(t *testing.T) {
		curr := NewState(0.1, 0, 10000, 120, 250)
		if !UnusualChange(prev, curr, 1.0) {
			t.Error("Expected 30 deg/s turn to be flagged")
		}
	})

	t.Run("Impossible climb rate", func(t *testing.T) {
		curr := NewState(0.1, 0, 10100, 90, 250)
		if !UnusualChange(prev, curr, 1.0) {
			t.Error("Expected 6000 fpm climb to be flagged")
		}
	})
}
