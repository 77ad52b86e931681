package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefault verifies that Default returns valid defaults.
func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Expected default host 0.0.0.0, got %s", cfg.Server.Host)
	}
	if cfg.Simulation.UpdateRateSeconds != 0.1 {
		t.Errorf("Expected update rate 0.1s, got %v", cfg.Simulation.UpdateRateSeconds)
	}
	if cfg.Simulation.RadarRangeNM != 50 {
		t.Errorf("Expected radar range 50 nm, got %v", cfg.Simulation.RadarRangeNM)
	}
	if cfg.Separation.HorizontalNM != 3 || cfg.Separation.VerticalFt != 1000 {
		t.Errorf("Expected 3 nm / 1000 ft minima, got %v / %v",
			cfg.Separation.HorizontalNM, cfg.Separation.VerticalFt)
	}
	if cfg.Separation.LookaheadSeconds != 300 {
		t.Errorf("Expected 300s lookahead, got %v", cfg.Separation.LookaheadSeconds)
	}
	if len(cfg.Simulation.AircraftTypes) == 0 {
		t.Error("Expected a non-empty aircraft type list")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

// TestLoadMissingFile verifies that a missing config file yields defaults.
func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.json"))
	if err != nil {
		t.Fatalf("Expected no error for missing file, got %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected default config, got port %s", cfg.Server.Port)
	}
}

// TestSaveAndLoad verifies the round trip through a file.
func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "config.json")

	cfg := Default()
	cfg.Server.Port = "9090"
	cfg.Separation.HorizontalNM = 5

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", loaded.Server.Port)
	}
	if loaded.Separation.HorizontalNM != 5 {
		t.Errorf("Expected 5 nm horizontal minimum, got %v", loaded.Separation.HorizontalNM)
	}
}

// TestEnvironmentOverrides verifies env vars win over the file.
func TestEnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := Default().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	os.Setenv("SEPWATCH_PORT", "7070")
	os.Setenv("SEPWATCH_MIN_HORIZONTAL_NM", "4.5")
	defer os.Unsetenv("SEPWATCH_PORT")
	defer os.Unsetenv("SEPWATCH_MIN_HORIZONTAL_NM")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("Expected env override port 7070, got %s", cfg.Server.Port)
	}
	if cfg.Separation.HorizontalNM != 4.5 {
		t.Errorf("Expected env override 4.5 nm, got %v", cfg.Separation.HorizontalNM)
	}
}

// TestValidateRejectsBadMinima verifies config validation.
func TestValidateRejectsBadMinima(t *testing.T) {
	cfg := Default()
	cfg.Separation.HorizontalNM = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Expected an error for negative horizontal minimum")
	}

	cfg = Default()
	cfg.Separation.LookaheadSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected an error for zero lookahead")
	}

	cfg = Default()
	cfg.Simulation.UpdateRateSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected an error for zero update rate")
	}
}
