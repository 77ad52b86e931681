package sim

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sepwatch/conflict-probe/pkg/airspace"
	"github.com/sepwatch/conflict-probe/pkg/config"
	"github.com/sepwatch/conflict-probe/pkg/conflict"
	"github.com/sepwatch/conflict-probe/pkg/separation"
)

// Event is emitted by the simulator for broadcast to connected clients.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Alert describes a predicted conflict between two aircraft.
type Alert struct {
	First    string            `json:"first"`
	Second   string            `json:"second"`
	Conflict conflict.Conflict `json:"conflict"`
}

// Snapshot is the full simulation state sent on each update tick.
type Snapshot struct {
	Running  bool        `json:"running"`
	Paused   bool        `json:"paused"`
	SimTime  float64     `json:"simTime"`
	Scenario *Scenario   `json:"scenario,omitempty"`
	Aircraft []*Aircraft `json:"aircraft"`
	Alerts   []Alert     `json:"alerts"`
	Score    Score       `json:"score"`
}

// Simulator advances the traffic picture, applies controller commands, and
// evaluates separation between every aircraft pair each tick.
type Simulator struct {
	mu sync.Mutex

	cfg *config.Config
	log *slog.Logger

	running  bool
	paused   bool
	simTime  float64
	scenario *Scenario
	aircraft []*Aircraft
	history  map[string]*airspace.History
	violated map[string]bool
	alerts   []Alert
	score    Score
	gen      *Generator
	events   []Event
}

// New builds a simulator over the given configuration.
func New(cfg *config.Config, log *slog.Logger, seed int64) *Simulator {
	return &Simulator{
		cfg:      cfg,
		log:      log,
		history:  make(map[string]*airspace.History),
		violated: make(map[string]bool),
		gen:      NewGenerator(seed, cfg.Simulation.AircraftTypes),
	}
}

// StartScenario resets the simulation and spawns the aircraft for the given
// level.
func (s *Simulator) StartScenario(level int) (Scenario, error) {
	sc, err := ScenarioByLevel(level)
	if err != nil {
		return Scenario{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	s.scenario = &sc
	count := sc.Aircraft
	if max := s.cfg.Simulation.MaxAircraft; max > 0 && count > max {
		count = max
	}
	for i := 0; i < count; i++ {
		ac := s.gen.Spawn()
		s.aircraft = append(s.aircraft, ac)
		s.history[ac.ID] = airspace.NewHistory(s.cfg.Simulation.HistoryDepth)
	}
	s.running = true

	s.log.Info("scenario started", "level", sc.Level, "name", sc.Name, "aircraft", count)
	s.emit(Event{Type: "scenario_started", Data: sc})
	s.emit(Event{Type: "weather_update", Data: s.cfg.Weather})
	return sc, nil
}

// Update advances the simulation by dt seconds and returns the events
// produced during the tick.
func (s *Simulator) Update(dt float64) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.paused {
		return nil
	}
	s.simTime += dt

	for _, ac := range s.aircraft {
		ac.advance(dt)
		if h := s.history[ac.ID]; h != nil {
			if prev, ok := h.Latest(); ok {
				if airspace.UnusualChange(prev, ac.State, dt) {
					s.log.Warn("unusual state change", "callsign", ac.Callsign)
				}
			}
			h.Push(ac.State)
		}
	}

	s.handleLandings()
	s.surveil()

	if s.running && len(s.aircraft) == 0 {
		s.complete()
	}

	s.emit(Event{Type: "aircraft_update", Data: s.snapshotLocked()})
	return s.drain()
}

// handleLandings removes landed aircraft and scores them.
func (s *Simulator) handleLandings() {
	remaining := s.aircraft[:0]
	for _, ac := range s.aircraft {
		if ac.landed() {
			mult := 1.0
			if s.scenario != nil {
				mult = s.scenario.ScoreMultiplier()
			}
			awarded := s.score.RecordLanding(ac, mult)
			delete(s.history, ac.ID)
			s.log.Info("aircraft landed", "callsign", ac.Callsign, "points", awarded)
			s.emit(Event{Type: "aircraft_landed", Data: map[string]interface{}{
				"callsign": ac.Callsign,
				"points":   awarded,
			}})
			s.emit(Event{Type: "score_update", Data: s.score})
			continue
		}
		remaining = append(remaining, ac)
	}
	s.aircraft = remaining
}

// surveil evaluates every aircraft pair: current separation violations score
// a penalty once per pair, predicted conflicts raise alerts.
func (s *Simulator) surveil() {
	sep := s.cfg.Separation
	s.alerts = s.alerts[:0]
	for _, ac := range s.aircraft {
		ac.InConflict = false
	}

	for i := 0; i < len(s.aircraft); i++ {
		for j := i + 1; j < len(s.aircraft); j++ {
			a, b := s.aircraft[i], s.aircraft[j]
			key := pairKey(a.ID, b.ID)

			res := separation.Check(a.State, b.State, sep.HorizontalNM, sep.VerticalFt)
			if !res.Safe {
				a.InConflict = true
				b.InConflict = true
				if !s.violated[key] {
					s.violated[key] = true
					s.score.RecordViolation()
					s.log.Warn("separation violation",
						"first", a.Callsign, "second", b.Callsign,
						"horizontal", res.Horizontal, "vertical", res.Vertical)
					s.emit(Event{Type: "score_update", Data: s.score})
				}
			} else {
				delete(s.violated, key)
			}

			c := conflict.Detect(a.State, b.State, sep.HorizontalNM, sep.VerticalFt, sep.LookaheadSeconds)
			if c.Severity != conflict.SeverityNone {
				a.InConflict = true
				b.InConflict = true
				alert := Alert{First: a.Callsign, Second: b.Callsign, Conflict: c}
				s.alerts = append(s.alerts, alert)
				s.emit(Event{Type: "conflict_alert", Data: alert})
			}
		}
	}
}

// complete ends the scenario and emits the debrief.
func (s *Simulator) complete() {
	s.running = false
	s.score.Finalize()
	s.log.Info("scenario complete", "score", s.score.Points, "grade", s.score.Grade())
	s.emit(Event{Type: "system_message", Data: map[string]interface{}{
		"message": fmt.Sprintf("Scenario complete. %s %s", s.score.Breakdown(), s.score.Rating()),
	}})
	s.emit(Event{Type: "score_update", Data: s.score})
}

// ExecuteCommand applies a controller instruction to the named aircraft.
// Supported types are heading, altitude, speed, approach, and cleared.
func (s *Simulator) ExecuteCommand(callsign, cmdType string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ac := s.findByCallsign(callsign)
	if ac == nil {
		return fmt.Errorf("unknown aircraft %q", callsign)
	}

	cmdType = strings.ToLower(cmdType)
	switch cmdType {
	case "heading", "altitude", "speed":
		if !airspace.ValidateCommand(cmdType, value) {
			return fmt.Errorf("invalid %s value %g", cmdType, value)
		}
	case "approach", "cleared":
		// canned profiles, no value
	default:
		return fmt.Errorf("unknown command type %q", cmdType)
	}

	switch cmdType {
	case "heading":
		if !airspace.HeadingChangeSafe(ac.Heading, value) {
			return fmt.Errorf("heading change from %.0f to %.0f exceeds limits", ac.Heading, value)
		}
		ac.TargetHeading = airspace.NormalizeHeading(value)
	case "altitude":
		if !airspace.AltitudeChangeSafe(ac.Altitude, value) {
			return fmt.Errorf("altitude change from %.0f to %.0f exceeds limits", ac.Altitude, value)
		}
		ac.TargetAltitude = value
	case "speed":
		if !airspace.SpeedChangeSafe(ac.Speed, value) {
			return fmt.Errorf("speed change from %.0f to %.0f exceeds limits", ac.Speed, value)
		}
		ac.TargetSpeed = value
	case "approach":
		ac.TargetHeading = airspace.Bearing(ac.State, airspace.NewState(0, 0, 0, 0, 0))
		ac.TargetAltitude = 3000
		ac.TargetSpeed = 180
	case "cleared":
		ac.TargetHeading = airspace.Bearing(ac.State, airspace.NewState(0, 0, 0, 0, 0))
		ac.TargetAltitude = 0
		ac.TargetSpeed = 140
	}

	s.score.RecordCommand()
	s.log.Info("command executed", "callsign", callsign, "type", cmdType, "value", value)
	s.emit(Event{Type: "command_acknowledged", Data: map[string]interface{}{
		"callsign": callsign,
		"command":  cmdType,
		"value":    value,
	}})
	return nil
}

// TogglePause flips the paused state and returns the new value.
func (s *Simulator) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = !s.paused
	return s.paused
}

// Reset stops the simulation and clears all state.
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.emit(Event{Type: "system_message", Data: map[string]interface{}{
		"message": "Simulation reset",
	}})
}

func (s *Simulator) reset() {
	s.running = false
	s.paused = false
	s.simTime = 0
	s.scenario = nil
	s.aircraft = nil
	s.history = make(map[string]*airspace.History)
	s.violated = make(map[string]bool)
	s.alerts = nil
	s.score = Score{}
}

// Snapshot returns a copy of the current simulation state.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Simulator) snapshotLocked() Snapshot {
	aircraft := make([]*Aircraft, len(s.aircraft))
	for i, ac := range s.aircraft {
		cp := *ac
		aircraft[i] = &cp
	}
	alerts := make([]Alert, len(s.alerts))
	copy(alerts, s.alerts)
	return Snapshot{
		Running:  s.running,
		Paused:   s.paused,
		SimTime:  s.simTime,
		Scenario: s.scenario,
		Aircraft: aircraft,
		Alerts:   alerts,
		Score:    s.score,
	}
}

// SimTime returns elapsed simulated seconds.
func (s *Simulator) SimTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.simTime
}

// Drain returns and clears any pending events. Update already drains, so
// this only matters for events produced by commands between ticks.
func (s *Simulator) Drain() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drain()
}

func (s *Simulator) drain() []Event {
	ev := s.events
	s.events = nil
	return ev
}

func (s *Simulator) emit(ev Event) {
	s.events = append(s.events, ev)
}

func (s *Simulator) findByCallsign(callsign string) *Aircraft {
	for _, ac := range s.aircraft {
		if strings.EqualFold(ac.Callsign, callsign) {
			return ac
		}
	}
	return nil
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "/" + b
}
