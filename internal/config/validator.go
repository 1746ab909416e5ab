package config

import (
	"errors"
	"fmt"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid value")

var levels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks cfg and fills zero values with defaults.
func Validate(cfg *Config) error {
	switch cfg.Backend {
	case "":
		cfg.Backend = "noop"
	case "noop", "vulkan":
	default:
		return fmt.Errorf("%w: backend must be noop or vulkan, got %q", ErrInvalid, cfg.Backend)
	}

	if cfg.RefreshHz < 0 {
		return fmt.Errorf("%w: refresh_hz must be >= 0", ErrInvalid)
	}
	if cfg.RefreshHz == 0 {
		cfg.RefreshHz = 60
	}

	if cfg.Frames < 0 {
		return fmt.Errorf("%w: frames must be >= 0", ErrInvalid)
	}

	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return fmt.Errorf("%w: window size must be positive, got %gx%g",
			ErrInvalid, cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Scale <= 0 {
		cfg.Window.Scale = 1
	}

	for i, c := range cfg.Clear {
		if c < 0 || c > 1 {
			return fmt.Errorf("%w: clear_color[%d] = %g is outside [0, 1]", ErrInvalid, i, c)
		}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if !levels[cfg.Logging.Level] {
		return fmt.Errorf("%w: logging.level %q", ErrInvalid, cfg.Logging.Level)
	}
	return nil
}
