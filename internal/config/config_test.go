package config

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hand"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HistoryCapacity != 30 {
		t.Errorf("expected capacity 30, got %d", cfg.HistoryCapacity)
	}
	if cfg.Threshold != 0.7 {
		t.Errorf("expected threshold 0.7, got %f", cfg.Threshold)
	}
	if cfg.MinFireInterval != 500*time.Millisecond {
		t.Errorf("expected 500ms interval, got %v", cfg.MinFireInterval)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("expected addr :8080, got %s", cfg.Addr)
	}
	if filepath.Base(cfg.DBPath) != "mudra.db" {
		t.Errorf("expected default db path, got %s", cfg.DBPath)
	}
	if filepath.Base(cfg.HookDir) != "hooks" {
		t.Errorf("expected default hook dir, got %s", cfg.HookDir)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MUDRA_THRESHOLD", "0.55")
	t.Setenv("MUDRA_MIN_FIRE_INTERVAL", "250ms")
	t.Setenv("MUDRA_PINCH_SIGNAL", "distance")
	t.Setenv("MUDRA_GRAB_ENABLED", "true")
	t.Setenv("MUDRA_DB_PATH", "/tmp/x.db")
	t.Setenv("MUDRA_HOOK_DIR", "/tmp/hooks")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	gc := cfg.GestureConfig()
	if err := gc.Validate(); err != nil {
		t.Fatalf("expected valid gesture config, got %v", err)
	}

	pinch := gc.Kinds[0]
	if pinch.Threshold != 0.55 || pinch.MinInterval != 250*time.Millisecond {
		t.Errorf("unexpected pinch config: %+v", pinch)
	}
	// distance signal reads PinchDistance, not PinchStrength
	if v := pinch.Signal(hand.Sample{PinchStrength: 1, PinchDistance: 85}); v != 0 {
		t.Errorf("expected distance signal 0 for a wide pinch, got %f", v)
	}
	if gc.Kinds[1].Enabled {
		t.Error("expected flick disabled")
	}
	if !gc.Kinds[2].Enabled {
		t.Error("expected grab enabled")
	}
}

func TestLoad_CaseInsensitiveChoices(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MUDRA_PINCH_SIGNAL", "Distance")
	t.Setenv("MUDRA_LOG_FORMAT", " JSON ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PinchSignal != PinchSignalDistance || cfg.LogFormat != "json" {
		t.Errorf("expected normalized choices, got %q and %q", cfg.PinchSignal, cfg.LogFormat)
	}
	pinch := cfg.GestureConfig().Kinds[0]
	if v := pinch.Signal(hand.Sample{PinchStrength: 1, PinchDistance: 85}); v != 0 {
		t.Errorf("expected distance signal 0 for a wide pinch, got %f", v)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		field string
		want  error
	}{
		{"threshold too high", "MUDRA_THRESHOLD", "1.5", "MUDRA_THRESHOLD", gesture.ErrInvalidThreshold},
		{"threshold zero", "MUDRA_THRESHOLD", "0", "MUDRA_THRESHOLD", gesture.ErrInvalidThreshold},
		{"zero capacity", "MUDRA_HISTORY_CAPACITY", "0", "MUDRA_HISTORY_CAPACITY", gesture.ErrInvalidCapacity},
		{"negative interval", "MUDRA_MIN_FIRE_INTERVAL", "-1s", "MUDRA_MIN_FIRE_INTERVAL", gesture.ErrInvalidInterval},
		{"pinch range", "MUDRA_MAX_PINCH_DISTANCE", "10", "MUDRA_MAX_PINCH_DISTANCE", ErrInvalidPinchRange},
		{"signal", "MUDRA_PINCH_SIGNAL", "wave", "MUDRA_PINCH_SIGNAL", gesture.ErrMissingSignal},
		{"log format", "MUDRA_LOG_FORMAT", "xml", "MUDRA_LOG_FORMAT", ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MUDRA_DB_PATH", "/tmp/x.db")
			t.Setenv("MUDRA_HOOK_DIR", "/tmp/hooks")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			var cfgErr *gesture.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *gesture.ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, cfgErr.Field)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("MUDRA_HISTORY_CAPACITY", "many")

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}
