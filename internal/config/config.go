// Package config loads the framedemo configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete demo configuration.
type Config struct {
	// Backend is noop or vulkan.
	Backend string `yaml:"backend"`
	// RefreshHz is the software display refresh rate.
	RefreshHz float64 `yaml:"refresh_hz"`
	// Frames is the number of frames drawn before exiting.
	Frames int          `yaml:"frames"`
	Window WindowConfig `yaml:"window"`
	// Clear is the clear color as red, green, blue, alpha.
	Clear   [4]float64    `yaml:"clear_color"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig describes the headless host backing.
type WindowConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Scale  float64 `yaml:"scale"`
}

// LoggingConfig selects log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Backend:   "noop",
		RefreshHz: 60,
		Frames:    120,
		Window:    WindowConfig{Width: 800, Height: 600, Scale: 1},
		Clear:     [4]float64{0, 0, 0, 1},
		Logging:   LoggingConfig{Level: "info"},
	}
}

// Load reads and parses a YAML configuration file. Missing fields keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration over the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
