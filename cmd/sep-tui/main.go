// Terminal radar scope for local practice sessions.
// Runs the traffic simulation in-process: pick a scenario, watch the
// conflict alerts develop, and issue control instructions from the
// command line at the bottom of the screen.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sepwatch/conflict-probe/internal/logging"
	"github.com/sepwatch/conflict-probe/internal/sim"
	"github.com/sepwatch/conflict-probe/pkg/config"
	"github.com/sepwatch/conflict-probe/pkg/conflict"
)

var (
	configPath = flag.String("config", "configs/config.json", "Path to configuration file")
	quiet      = flag.Bool("quiet", false, "Suppress log file output")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Background(lipgloss.Color("235"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	advisoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type model struct {
	sim      *sim.Simulator
	snap     sim.Snapshot
	messages []string
	inputOn  bool
	input    string
	err      error
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.inputOn {
			switch msg.String() {
			case "enter":
				m.err = m.runCommand(m.input)
				m.inputOn = false
				m.input = ""
			case "esc":
				m.inputOn = false
				m.input = ""
			case "backspace":
				if len(m.input) > 0 {
					m.input = m.input[:len(m.input)-1]
				}
			default:
				if len(msg.String()) == 1 {
					m.input += msg.String()
				}
			}
			return m, nil
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "1", "2", "3", "4", "5":
			level, _ := strconv.Atoi(msg.String())
			if _, err := m.sim.StartScenario(level); err != nil {
				m.err = err
			} else {
				m.err = nil
				m.messages = nil
			}
		case "p":
			m.sim.TogglePause()
		case "r":
			m.sim.Reset()
			m.messages = nil
		case "c":
			m.inputOn = true
			m.input = ""
			m.err = nil
		}

	case tickMsg:
		events := m.sim.Update(0.5)
		m.snap = m.sim.Snapshot()
		for _, ev := range events {
			if text, ok := eventText(ev); ok {
				m.messages = append(m.messages, text)
				if len(m.messages) > 6 {
					m.messages = m.messages[len(m.messages)-6:]
				}
			}
		}
		return m, tick()
	}

	return m, nil
}

// runCommand parses "CALLSIGN type value", e.g. "AAL100 heading 180" or
// "UAL200 approach".
func (m model) runCommand(line string) error {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return fmt.Errorf("usage: CALLSIGN heading|altitude|speed VALUE, or CALLSIGN approach|cleared")
	}
	var value float64
	if len(fields) >= 3 {
		v, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return fmt.Errorf("bad value %q", fields[2])
		}
		value = v
	}
	return m.sim.ExecuteCommand(fields[0], fields[1], value)
}

func eventText(ev sim.Event) (string, bool) {
	data, _ := ev.Data.(map[string]interface{})
	switch ev.Type {
	case "aircraft_landed":
		return fmt.Sprintf("%v landed (+%v)", data["callsign"], data["points"]), true
	case "system_message":
		return fmt.Sprintf("%v", data["message"]), true
	case "command_acknowledged":
		return fmt.Sprintf("%v roger, %v %v", data["callsign"], data["command"], data["value"]), true
	}
	return "", false
}

func severityStyle(sev conflict.Severity) lipgloss.Style {
	switch sev {
	case conflict.SeverityCritical:
		return criticalStyle
	case conflict.SeverityWarning:
		return warningStyle
	case conflict.SeverityAdvisory:
		return advisoryStyle
	default:
		return okStyle
	}
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(" SEPWATCH PRACTICE SCOPE "))
	if m.snap.Scenario != nil {
		status := "running"
		if m.snap.Paused {
			status = "paused"
		} else if !m.snap.Running {
			status = "complete"
		}
		b.WriteString(fmt.Sprintf("  level %d: %s  [%s]  t=%.0fs  score=%d",
			m.snap.Scenario.Level, m.snap.Scenario.Name, status, m.snap.SimTime, m.snap.Score.Points))
	}
	b.WriteString("\n\n")

	if len(m.snap.Aircraft) == 0 {
		b.WriteString(helpStyle.Render("  No traffic. Press 1-5 to start a scenario.") + "\n")
	} else {
		b.WriteString(headerStyle.Render(fmt.Sprintf("  %-8s %-5s %8s %8s %9s %7s %7s",
			"CALLSIGN", "TYPE", "X(NM)", "Y(NM)", "ALT(FT)", "HDG", "SPD")) + "\n")

		aircraft := make([]*sim.Aircraft, len(m.snap.Aircraft))
		copy(aircraft, m.snap.Aircraft)
		sort.Slice(aircraft, func(i, j int) bool { return aircraft[i].Callsign < aircraft[j].Callsign })

		for _, ac := range aircraft {
			line := fmt.Sprintf("  %-8s %-5s %8.1f %8.1f %9.0f %7.0f %7.0f",
				ac.Callsign, ac.Type, ac.X, ac.Y, ac.Altitude, ac.Heading, ac.Speed)
			if ac.InConflict {
				line = warningStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}

	if len(m.snap.Alerts) > 0 {
		b.WriteString("\n" + headerStyle.Render("  CONFLICTS") + "\n")
		for _, a := range m.snap.Alerts {
			style := severityStyle(a.Conflict.Severity)
			line := fmt.Sprintf("  %s %s / %s in %.0fs, min %.1f nm",
				strings.ToUpper(a.Conflict.Severity.String()), a.First, a.Second,
				a.Conflict.TimeToConflict, a.Conflict.MinimumDistance)
			b.WriteString(style.Render(line) + "\n")
		}
	}

	if len(m.messages) > 0 {
		b.WriteString("\n")
		for _, msg := range m.messages {
			b.WriteString(helpStyle.Render("  "+msg) + "\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n" + errStyle.Render("  "+m.err.Error()) + "\n")
	}

	b.WriteString("\n")
	if m.inputOn {
		b.WriteString(promptStyle.Render("  command> ") + m.input + "_\n")
		b.WriteString(helpStyle.Render("  enter to send, esc to cancel") + "\n")
	} else {
		b.WriteString(helpStyle.Render("  1-5 scenario | c command | p pause | r reset | q quit") + "\n")
	}

	return b.String()
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var logger *slog.Logger
	if *quiet {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	} else {
		logger = logging.NewFileOnly(cfg.Logging.Level, cfg.Logging.Dir, "sep-tui")
	}

	simulator := sim.New(cfg, logger, time.Now().UnixNano())

	p := tea.NewProgram(model{sim: simulator}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("TUI failed: %v", err)
	}
}
