package airspace

import (
	"math"
	"testing"
)

// TestNormalizeHeading verifies wrapping into [0, 360).
func TestNormalizeHeading(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{370, 10},
		{-10, 350},
		{720, 0},
		{-350, 10},
	}
	for _, c := range cases {
		if got := NormalizeHeading(c.in); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("NormalizeHeading(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

// TestHeadingDifference verifies shortest signed differences.
func TestHeadingDifference(t *testing.T) {
	cases := []struct {
		current, target, want float64
	}{
		{0, 10, 10},
		{10, 0, -10},
		{350, 10, 20},
		{10, 350, -20},
		{0, 180, 180},
	}
	for _, c := range cases {
		if got := HeadingDifference(c.current, c.target); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("HeadingDifference(%v, %v) = %v, want %v", c.current, c.target, got, c.want)
		}
	}
}

// TestVelocity verifies heading/speed decomposition and the knots conversion.
func TestVelocity(t *testing.T) {
	t.Run("North at 360 knots", func(t *testing.T) {
		vx, vy := NewState(0, 0, 10000, 0, 360).Velocity()
		if math.Abs(vx) > 1e-9 {
			t.Errorf("Expected zero eastward component, got %v", vx)
		}
		// 360 kt = 0.1 nm/s
		if math.Abs(vy-0.1) > 1e-9 {
			t.Errorf("Expected 0.1 nm/s northward, got %v", vy)
		}
	})

	t.Run("East at 90 degrees", func(t *testing.T) {
		vx, vy := NewState(0, 0, 10000, 90, 360).Velocity()
		if math.Abs(vx-0.1) > 1e-9 {
			t.Errorf("Expected 0.1 nm/s eastward, got %v", vx)
		}
		if math.Abs(vy) > 1e-9 {
			t.Errorf("Expected zero northward component, got %v", vy)
		}
	})
}

// TestBearing verifies compass bearings between positions.
func TestBearing(t *testing.T) {
	origin := NewState(0, 0, 10000, 0, 250)

	cases := []struct {
		name string
		to   State
		want float64
	}{
		{"Due north", NewState(0, 5, 10000, 0, 250), 0},
		{"Due east", NewState(5, 0, 10000, 0, 250), 90},
		{"Due south", NewState(0, -5, 10000, 0, 250), 180},
		{"Due west", NewState(-5, 0, 10000, 0, 250), 270},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Bearing(origin, c.to); math.Abs(got-c.want) > 1e-9 {
				t.Errorf("Bearing = %v, want %v", got, c.want)
			}
		})
	}
}
