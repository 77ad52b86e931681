package sim

import "fmt"

// Score tracks controller performance over a scenario run.
type Score struct {
	Points     int `json:"points"`
	Landings   int `json:"landings"`
	Violations int `json:"violations"`
	Commands   int `json:"commands"`
}

// Scoring parameters. Landing awards scale with scenario difficulty,
// violations are flat penalties.
const (
	landingBase      = 100
	violationPenalty = -50
	speedBonusSlow   = 20
	speedBonusMedium = 10
	altitudeBonus    = 10
	efficiencyBonus  = 25
)

// RecordLanding awards points for a landed aircraft. Slower, lower arrivals
// score a bonus, and the total is scaled by the scenario multiplier.
func (s *Score) RecordLanding(ac *Aircraft, multiplier float64) int {
	points := landingBase
	switch {
	case ac.Speed < 150:
		points += speedBonusSlow
	case ac.Speed < 170:
		points += speedBonusMedium
	}
	if ac.Altitude < 1000 {
		points += altitudeBonus
	}
	awarded := int(float64(points) * multiplier)
	s.Points += awarded
	s.Landings++
	return awarded
}

// RecordViolation applies the separation violation penalty.
func (s *Score) RecordViolation() {
	s.Points += violationPenalty
	s.Violations++
}

// RecordCommand counts an issued controller command for the efficiency bonus.
func (s *Score) RecordCommand() {
	s.Commands++
}

// Finalize applies the end-of-scenario efficiency bonus: a clean run with few
// commands per landing earns extra points.
func (s *Score) Finalize() {
	if s.Violations == 0 && s.Landings > 0 && s.Commands <= s.Landings*4 {
		s.Points += efficiencyBonus * s.Landings
	}
}

// Grade maps the point total to a letter grade.
func (s *Score) Grade() string {
	perLanding := 0
	if s.Landings > 0 {
		perLanding = s.Points / s.Landings
	}
	switch {
	case s.Violations == 0 && perLanding >= 140:
		return "A+"
	case s.Violations == 0 && perLanding >= 110:
		return "A"
	case perLanding >= 90:
		return "B"
	case perLanding >= 60:
		return "C"
	case s.Points > 0:
		return "D"
	default:
		return "F"
	}
}

// Rating gives a one-line performance description for the debrief.
func (s *Score) Rating() string {
	switch s.Grade() {
	case "A+":
		return "Flawless control. Ready for the next level."
	case "A":
		return "Excellent work. Clean separation throughout."
	case "B":
		return "Solid performance with room to tighten spacing."
	case "C":
		return "Acceptable, but conflicts developed too often."
	case "D":
		return "Separation standards slipped. Review the replay."
	default:
		return "Scenario failed. Aircraft safety was compromised."
	}
}

// Breakdown summarizes the run for display.
func (s *Score) Breakdown() string {
	return fmt.Sprintf("%d points, %d landed, %d violations, %d commands (%s)",
		s.Points, s.Landings, s.Violations, s.Commands, s.Grade())
}
