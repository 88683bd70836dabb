package gesture

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/history"
)

// Default recognition settings.
const (
	DefaultThreshold        = 0.7
	DefaultMinInterval      = 500 * time.Millisecond
	DefaultMinPinchDistance = 15.0
	DefaultMaxPinchDistance = 70.0
)

var (
	// ErrInvalidThreshold indicates a threshold outside the open interval (0,1).
	ErrInvalidThreshold = errors.New("threshold must be between 0.0 and 1.0 exclusive")
	// ErrInvalidCapacity indicates a history that cannot hold a frame.
	ErrInvalidCapacity = history.ErrInvalidCapacity
	// ErrInvalidInterval indicates a negative minimum fire interval.
	ErrInvalidInterval = errors.New("minimum fire interval must be non-negative")
	// ErrInvalidMinCount indicates a phase minimum below one sample.
	ErrInvalidMinCount = errors.New("minimum phase count must be at least 1")
	// ErrInvalidDirection indicates an unknown Direction value.
	ErrInvalidDirection = errors.New("direction must be rising or falling")
	// ErrMissingSignal indicates a kind without a signal function.
	ErrMissingSignal = errors.New("signal function is required")
	// ErrDuplicateKind indicates the same kind configured twice.
	ErrDuplicateKind = errors.New("kind configured more than once")
	// ErrUnknownKind indicates an empty or unconfigured kind.
	ErrUnknownKind = errors.New("unknown gesture kind")
)

// ConfigError reports an invalid configuration value. It is only returned at
// construction time, never during recognition.
type ConfigError struct {
	Field string
	Value any
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Kind names a gesture type.
type Kind string

const (
	// KindPinch is an index-thumb pinch and release.
	KindPinch Kind = "pinch"
	// KindFlick is an index finger bend and release.
	KindFlick Kind = "flick"
	// KindGrab is a whole-hand close and open.
	KindGrab Kind = "grab"
)

// Direction selects which side of the threshold counts as active.
type Direction int

const (
	// Rising treats values at or above the threshold as active.
	Rising Direction = iota
	// Falling treats values at or below the threshold as active.
	Falling
)

func (d Direction) String() string {
	switch d {
	case Rising:
		return "rising"
	case Falling:
		return "falling"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection parses "rising" or "falling".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rising", "":
		return Rising, nil
	case "falling":
		return Falling, nil
	default:
		return Rising, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// KindConfig parameterizes one detector instance.
type KindConfig struct {
	Kind      Kind
	Signal    SignalFunc
	Threshold float64
	Direction Direction

	// MinCalm and MinActive are the consecutive samples required before
	// leaving the calm and active phases.
	MinCalm   int
	MinActive int

	// MinInterval is the debounce window per hand.
	MinInterval time.Duration

	Enabled bool
}

// Validate checks the configuration, returning a *ConfigError on failure.
func (c KindConfig) Validate() error {
	field := func(name string) string {
		return string(c.Kind) + "." + name
	}

	if strings.TrimSpace(string(c.Kind)) == "" {
		return &ConfigError{Field: "kind", Value: c.Kind, Err: ErrUnknownKind}
	}
	if c.Signal == nil {
		return &ConfigError{Field: field("signal"), Value: nil, Err: ErrMissingSignal}
	}
	if !(c.Threshold > 0 && c.Threshold < 1) {
		return &ConfigError{Field: field("threshold"), Value: c.Threshold, Err: ErrInvalidThreshold}
	}
	if c.Direction != Rising && c.Direction != Falling {
		return &ConfigError{Field: field("direction"), Value: c.Direction, Err: ErrInvalidDirection}
	}
	if c.MinCalm < 1 {
		return &ConfigError{Field: field("min_calm"), Value: c.MinCalm, Err: ErrInvalidMinCount}
	}
	if c.MinActive < 1 {
		return &ConfigError{Field: field("min_active"), Value: c.MinActive, Err: ErrInvalidMinCount}
	}
	if c.MinInterval < 0 {
		return &ConfigError{Field: field("min_interval"), Value: c.MinInterval, Err: ErrInvalidInterval}
	}
	return nil
}

// Config holds the recognizer configuration.
type Config struct {
	// HistoryCapacity is the window length the host keeps for the recognizer.
	HistoryCapacity int
	Kinds           []KindConfig
}

// Validate checks every field, returning the first *ConfigError found.
func (c Config) Validate() error {
	if c.HistoryCapacity <= 0 {
		return &ConfigError{Field: "history_capacity", Value: c.HistoryCapacity, Err: ErrInvalidCapacity}
	}

	seen := make(map[Kind]bool, len(c.Kinds))
	for _, k := range c.Kinds {
		if err := k.Validate(); err != nil {
			return err
		}
		if seen[k.Kind] {
			return &ConfigError{Field: "kind", Value: k.Kind, Err: ErrDuplicateKind}
		}
		seen[k.Kind] = true
	}
	return nil
}

// PinchConfig returns the default pinch detector settings.
func PinchConfig() KindConfig {
	return KindConfig{
		Kind:        KindPinch,
		Signal:      PinchStrengthSignal,
		Threshold:   DefaultThreshold,
		Direction:   Rising,
		MinCalm:     1,
		MinActive:   1,
		MinInterval: DefaultMinInterval,
		Enabled:     true,
	}
}

// FlickConfig returns the default flick detector settings. Flick is disabled by default.
func FlickConfig() KindConfig {
	return KindConfig{
		Kind:        KindFlick,
		Signal:      FingerCurlSignal(hand.Index),
		Threshold:   0.6,
		Direction:   Rising,
		MinCalm:     1,
		MinActive:   1,
		MinInterval: DefaultMinInterval,
	}
}

// GrabConfig returns the default grab detector settings. Grab is disabled by default.
func GrabConfig() KindConfig {
	return KindConfig{
		Kind:        KindGrab,
		Signal:      GrabStrengthSignal,
		Threshold:   0.8,
		Direction:   Rising,
		MinCalm:     1,
		MinActive:   1,
		MinInterval: DefaultMinInterval,
	}
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		HistoryCapacity: history.DefaultCapacity,
		Kinds:           []KindConfig{PinchConfig(), FlickConfig(), GrabConfig()},
	}
}
