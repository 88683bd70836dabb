// Package config loads runtime settings from MUDRA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/ayusman/mudra/internal/gesture"
)

// Pinch signal sources.
const (
	PinchSignalStrength = "strength"
	PinchSignalDistance = "distance"
)

var (
	// ErrInvalidPinchRange indicates a maximum pinch distance not above the minimum.
	ErrInvalidPinchRange = errors.New("max pinch distance must exceed min pinch distance")
	// ErrInvalidValue covers any other rejected setting.
	ErrInvalidValue = errors.New("value out of range")
)

// Config holds every runtime setting.
type Config struct {
	HistoryCapacity  int           `env:"MUDRA_HISTORY_CAPACITY"   envDefault:"30"       validate:"gt=0"`
	Threshold        float64       `env:"MUDRA_THRESHOLD"          envDefault:"0.7"      validate:"gt=0,lt=1"`
	MinFireInterval  time.Duration `env:"MUDRA_MIN_FIRE_INTERVAL"  envDefault:"500ms"    validate:"gte=0"`
	MinPinchDistance float64       `env:"MUDRA_MIN_PINCH_DISTANCE" envDefault:"15"       validate:"gte=0"`
	MaxPinchDistance float64       `env:"MUDRA_MAX_PINCH_DISTANCE" envDefault:"70"       validate:"gtfield=MinPinchDistance"`
	PinchSignal      string        `env:"MUDRA_PINCH_SIGNAL"       envDefault:"strength" validate:"oneof=strength distance"`

	FlickEnabled   bool    `env:"MUDRA_FLICK_ENABLED"   envDefault:"false"`
	FlickThreshold float64 `env:"MUDRA_FLICK_THRESHOLD" envDefault:"0.6" validate:"gt=0,lt=1"`
	GrabEnabled    bool    `env:"MUDRA_GRAB_ENABLED"    envDefault:"false"`
	GrabThreshold  float64 `env:"MUDRA_GRAB_THRESHOLD"  envDefault:"0.8" validate:"gt=0,lt=1"`

	// TickRate is the pipeline rate in Hz. Zero runs unpaced.
	TickRate float64 `env:"MUDRA_TICK_RATE" envDefault:"60" validate:"gte=0"`

	DBPath      string        `env:"MUDRA_DB_PATH"`
	Addr        string        `env:"MUDRA_ADDR"         envDefault:":8080" validate:"required"`
	HookDir     string        `env:"MUDRA_HOOK_DIR"`
	HookTimeout time.Duration `env:"MUDRA_HOOK_TIMEOUT" envDefault:"5s" validate:"gt=0"`

	// NATSURL enables publishing events to NATS when set.
	NATSURL     string `env:"MUDRA_NATS_URL"`
	NATSSubject string `env:"MUDRA_NATS_SUBJECT" envDefault:"mudra.gesture" validate:"required"`

	LogLevel  string `env:"MUDRA_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"MUDRA_LOG_FORMAT" envDefault:"console" validate:"oneof=console json"`
}

// fieldErrors maps struct fields to the sentinel reported when they fail validation.
var fieldErrors = map[string]error{
	"HistoryCapacity":  gesture.ErrInvalidCapacity,
	"Threshold":        gesture.ErrInvalidThreshold,
	"FlickThreshold":   gesture.ErrInvalidThreshold,
	"GrabThreshold":    gesture.ErrInvalidThreshold,
	"MinFireInterval":  gesture.ErrInvalidInterval,
	"MaxPinchDistance": ErrInvalidPinchRange,
	"PinchSignal":      gesture.ErrMissingSignal,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report variable names rather than Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if tag := fld.Tag.Get("env"); tag != "" {
			return tag
		}
		return fld.Name
	})
	return v
}

// Load parses the environment, fills derived paths and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg.PinchSignal = strings.ToLower(strings.TrimSpace(cfg.PinchSignal))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if cfg.DBPath == "" || cfg.HookDir == "" {
		dir, err := DataDir()
		if err != nil {
			return Config{}, err
		}
		if cfg.DBPath == "" {
			cfg.DBPath = filepath.Join(dir, "mudra.db")
		}
		if cfg.HookDir == "" {
			cfg.HookDir = filepath.Join(dir, "hooks")
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DataDir returns ~/.mudra.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".mudra"), nil
}

// Validate checks every field and returns the first failure as a *gesture.ConfigError.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	sentinel, ok := fieldErrors[fe.StructField()]
	if !ok {
		sentinel = fmt.Errorf("%w: failed %q", ErrInvalidValue, fe.Tag())
	}
	return &gesture.ConfigError{Field: fe.Field(), Value: fe.Value(), Err: sentinel}
}

// GestureConfig builds the recognizer configuration.
func (c Config) GestureConfig() gesture.Config {
	pinch := gesture.PinchConfig()
	pinch.Threshold = c.Threshold
	pinch.MinInterval = c.MinFireInterval
	if c.PinchSignal == PinchSignalDistance {
		pinch.Signal = gesture.PinchDistanceSignal(c.MinPinchDistance, c.MaxPinchDistance)
	}

	flick := gesture.FlickConfig()
	flick.Threshold = c.FlickThreshold
	flick.MinInterval = c.MinFireInterval
	flick.Enabled = c.FlickEnabled

	grab := gesture.GrabConfig()
	grab.Threshold = c.GrabThreshold
	grab.MinInterval = c.MinFireInterval
	grab.Enabled = c.GrabEnabled

	return gesture.Config{
		HistoryCapacity: c.HistoryCapacity,
		Kinds:           []gesture.KindConfig{pinch, flick, grab},
	}
}
