package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sepwatch/conflict-probe/pkg/airspace"
)

// Config represents the complete application configuration.
type Config struct {
	Server     ServerConfig     `json:"server"`
	Simulation SimulationConfig `json:"simulation"`
	Separation SeparationConfig `json:"separation"`
	Scoring    ScoringConfig    `json:"scoring"`
	Weather    WeatherConfig    `json:"weather"`
	Logging    LoggingConfig    `json:"logging"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Port is the HTTP server port (default: 8080)
	Port string `json:"port"`

	// Host is the server bind address (default: "0.0.0.0")
	Host string `json:"host"`

	// AllowedOrigins are the CORS origins permitted to reach the API
	AllowedOrigins []string `json:"allowed_origins"`
}

// SimulationConfig contains the traffic simulation tunables.
type SimulationConfig struct {
	// UpdateRateSeconds is the simulation tick interval (default: 0.1)
	UpdateRateSeconds float64 `json:"update_rate_seconds"`

	// RadarRangeNM is the displayed airspace radius in nautical miles
	RadarRangeNM float64 `json:"radar_range_nm"`

	// MaxAircraft caps the number of simultaneous aircraft
	MaxAircraft int `json:"max_aircraft"`

	// HistoryDepth is how many past states are retained per track
	HistoryDepth int `json:"history_depth"`

	// AircraftTypes are the type designators the generator draws from
	AircraftTypes []string `json:"aircraft_types"`
}

// SeparationConfig contains the separation standards applied to every pair.
type SeparationConfig struct {
	// HorizontalNM is the minimum horizontal separation in nautical miles
	HorizontalNM float64 `json:"horizontal_nm"`

	// VerticalFt is the minimum vertical separation in feet
	VerticalFt float64 `json:"vertical_ft"`

	// LookaheadSeconds is the conflict prediction window
	LookaheadSeconds float64 `json:"lookahead_seconds"`
}

// ScoringConfig contains the point values used by the scoring system.
type ScoringConfig struct {
	// LandingPoints is the base award for a successful landing
	LandingPoints int `json:"landing_points"`

	// ViolationPenalty is applied per separation violation (negative)
	ViolationPenalty int `json:"violation_penalty"`

	// EfficiencyBonus is awarded for landings inside the optimal time
	EfficiencyBonus int `json:"efficiency_bonus"`
}

// WeatherConfig is the static weather report broadcast to clients.
type WeatherConfig struct {
	// WindDirection in degrees true
	WindDirection float64 `json:"windDirection"`

	// WindSpeed in knots
	WindSpeed float64 `json:"windSpeed"`

	// Visibility in statute miles
	Visibility float64 `json:"visibility"`

	// Ceiling as a METAR-style layer string
	Ceiling string `json:"ceiling"`

	// Altimeter in inches of mercury
	Altimeter float64 `json:"altimeter"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `json:"level"`

	// Dir is the log directory; empty means "logs" under the working
	// directory
	Dir string `json:"dir"`
}

// Load reads configuration from a JSON file.
// If the file doesn't exist, returns the default configuration.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to a JSON file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects configurations the engine cannot sensibly run with.
func (c *Config) Validate() error {
	if !airspace.ValidateMinima(c.Separation.HorizontalNM, c.Separation.VerticalFt) {
		return fmt.Errorf("invalid separation minima: %.2f nm / %.0f ft",
			c.Separation.HorizontalNM, c.Separation.VerticalFt)
	}
	if c.Separation.LookaheadSeconds <= 0 {
		return fmt.Errorf("lookahead must be positive, got %v", c.Separation.LookaheadSeconds)
	}
	if c.Simulation.UpdateRateSeconds <= 0 {
		return fmt.Errorf("update rate must be positive, got %v", c.Simulation.UpdateRateSeconds)
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Host:           "0.0.0.0",
			AllowedOrigins: []string{"*"},
		},
		Simulation: SimulationConfig{
			UpdateRateSeconds: 0.1,
			RadarRangeNM:      50,
			MaxAircraft:       10,
			HistoryDepth:      30,
			AircraftTypes:     []string{"B737", "A320", "B777", "A380", "CRJ", "E175"},
		},
		Separation: SeparationConfig{
			HorizontalNM:     3,
			VerticalFt:       1000,
			LookaheadSeconds: 300,
		},
		Scoring: ScoringConfig{
			LandingPoints:    100,
			ViolationPenalty: -50,
			EfficiencyBonus:  10,
		},
		Weather: WeatherConfig{
			WindDirection: 270,
			WindSpeed:     10,
			Visibility:    10,
			Ceiling:       "BKN 5000",
			Altimeter:     29.92,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides.
// This keeps deployment-specific values out of checked-in config files.
func (c *Config) applyEnvironmentOverrides() {
	if port := os.Getenv("SEPWATCH_PORT"); port != "" {
		c.Server.Port = port
	}
	if host := os.Getenv("SEPWATCH_HOST"); host != "" {
		c.Server.Host = host
	}
	if level := os.Getenv("SEPWATCH_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if h := os.Getenv("SEPWATCH_MIN_HORIZONTAL_NM"); h != "" {
		if v, err := strconv.ParseFloat(h, 64); err == nil {
			c.Separation.HorizontalNM = v
		}
	}
	if vft := os.Getenv("SEPWATCH_MIN_VERTICAL_FT"); vft != "" {
		if v, err := strconv.ParseFloat(vft, 64); err == nil {
			c.Separation.VerticalFt = v
		}
	}
}
