package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := Default()
	if *cfg != *want {
		t.Errorf("Parse({}) = %+v, want %+v", cfg, want)
	}
}

func TestParseOverrides(t *testing.T) {
	data := []byte(`
backend: vulkan
refresh_hz: 120
frames: 10
window:
  width: 1280
  height: 720
clear_color: [0.1, 0.2, 0.3, 1]
logging:
  level: debug
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Backend != "vulkan" || cfg.RefreshHz != 120 || cfg.Frames != 10 {
		t.Errorf("unexpected top-level values: %+v", cfg)
	}
	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("window = %+v, want 1280x720", cfg.Window)
	}
	if cfg.Window.Scale != 1 {
		t.Errorf("window.scale = %v, want default 1", cfg.Window.Scale)
	}
	if cfg.Clear != [4]float64{0.1, 0.2, 0.3, 1} {
		t.Errorf("clear_color = %v", cfg.Clear)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %q, want debug", cfg.Logging.Level)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown backend", "backend: metal"},
		{"negative refresh", "refresh_hz: -1"},
		{"negative frames", "frames: -5"},
		{"zero width", "window: {width: 0, height: 10}"},
		{"clear out of range", "clear_color: [2, 0, 0, 1]"},
		{"bad level", "logging: {level: trace}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse([]byte("frames: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "framedemo.yaml")
	if err := os.WriteFile(path, []byte("frames: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Frames != 3 {
		t.Errorf("frames = %d, want 3", cfg.Frames)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
