package conflict

import (
	"math"
	"testing"

	"github.com/sepwatch/conflict-probe/pkg/airspace"
)

// TestAvoidanceHeading verifies the right-turn heuristic and its wrapping.
func TestAvoidanceHeading(t *testing.T) {
	t.Run("Intruder due east", func(t *testing.T) {
		a := airspace.NewState(0, 0, 10000, 0, 250)
		b := airspace.NewState(5, 0, 10000, 180, 250)

		// atan2 angle to an intruder due east is 0°, so the advised
		// heading is 90.
		got := AvoidanceHeading(a, b)
		if math.Abs(got-90.0) > 1e-9 {
			t.Errorf("Expected 90, got %v", got)
		}
	})

	t.Run("Wraps across the 0/360 boundary", func(t *testing.T) {
		// An intruder placed so the raw angle is 350° must advise 80,
		// not 440.
		angle := 350.0 * airspace.DegreesToRadians
		a := airspace.NewState(0, 0, 10000, 0, 250)
		b := airspace.NewState(5*math.Cos(angle), 5*math.Sin(angle), 10000, 0, 250)

		got := AvoidanceHeading(a, b)
		if math.Abs(got-80.0) > 1e-6 {
			t.Errorf("Expected 80, got %v", got)
		}
	})

	t.Run("Never negative", func(t *testing.T) {
		// Raw angle -170° would naively give -80.
		angle := -170.0 * airspace.DegreesToRadians
		a := airspace.NewState(0, 0, 10000, 0, 250)
		b := airspace.NewState(5*math.Cos(angle), 5*math.Sin(angle), 10000, 0, 250)

		got := AvoidanceHeading(a, b)
		if got < 0 || got >= 360 {
			t.Errorf("Expected a heading in [0,360), got %v", got)
		}
		if math.Abs(got-280.0) > 1e-6 {
			t.Errorf("Expected 280, got %v", got)
		}
	})
}

// TestResolutionEffective verifies the re-run of conflict detection with a
// substituted heading.
func TestResolutionEffective(t *testing.T) {
	a := airspace.NewState(0, 0, 10000, 0, 250)
	b := airspace.NewState(0, 5, 10000, 180, 250)

	t.Run("Unchanged heading stays in conflict", func(t *testing.T) {
		if ResolutionEffective(a, b, a.Heading, 3, 1000) {
			t.Error("Expected the original head-on geometry to remain a conflict")
		}
	})

	t.Run("Advised turn resolves head-on", func(t *testing.T) {
		// The intruder is due north, so the advisory turns a to 180 —
		// both fly south in formation and the gap holds at 5 nm.
		advised := AvoidanceHeading(a, b)
		if math.Abs(advised-180.0) > 1e-6 {
			t.Fatalf("Expected advised heading 180, got %v", advised)
		}
		if !ResolutionEffective(a, b, advised, 3, 1000) {
			t.Error("Expected the advised heading to clear the conflict")
		}
	})
}
