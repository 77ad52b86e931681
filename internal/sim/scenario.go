package sim

import "fmt"

// Scenario describes one training exercise level.
type Scenario struct {
	Level       int      `json:"level"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Aircraft    int      `json:"aircraftCount"`
	Difficulty  float64  `json:"difficulty"`
	Objectives  []string `json:"objectives"`
}

var scenarios = []Scenario{
	{
		Level:       1,
		Name:        "First Contact",
		Description: "Two aircraft inbound from opposite sides. Sequence them to the field.",
		Aircraft:    2,
		Difficulty:  1.0,
		Objectives: []string{
			"Land both aircraft",
			"Maintain separation at all times",
		},
	},
	{
		Level:       2,
		Name:        "Building Traffic",
		Description: "Three arrivals with crossing tracks. Watch the merge point.",
		Aircraft:    3,
		Difficulty:  1.5,
		Objectives: []string{
			"Land all aircraft",
			"No critical conflicts",
		},
	},
	{
		Level:       3,
		Name:        "Rush Hour",
		Description: "Five aircraft converging on the airspace at mixed altitudes.",
		Aircraft:    5,
		Difficulty:  2.0,
		Objectives: []string{
			"Land all aircraft",
			"No separation violations",
			"Keep average delay low",
		},
	},
	{
		Level:       4,
		Name:        "Saturation",
		Description: "Seven arrivals with overlapping descent profiles.",
		Aircraft:    7,
		Difficulty:  2.5,
		Objectives: []string{
			"Land all aircraft",
			"No separation violations",
			"Resolve conflicts before they become critical",
		},
	},
	{
		Level:       5,
		Name:        "The Gauntlet",
		Description: "Ten aircraft, converging tracks, minimal spacing. Full workload.",
		Aircraft:    10,
		Difficulty:  3.0,
		Objectives: []string{
			"Land all aircraft",
			"No separation violations",
			"No critical conflicts",
		},
	},
}

// Scenarios returns the full scenario catalogue in level order.
func Scenarios() []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)
	return out
}

// ScenarioByLevel looks up a scenario by its level number.
func ScenarioByLevel(level int) (Scenario, error) {
	for _, sc := range scenarios {
		if sc.Level == level {
			return sc, nil
		}
	}
	return Scenario{}, fmt.Errorf("no scenario at level %d", level)
}

// ScoreMultiplier scales landing scores by scenario difficulty.
func (sc Scenario) ScoreMultiplier() float64 {
	return 1.0 + (sc.Difficulty-1.0)*0.5
}
