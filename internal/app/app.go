// Package app wires the hand source, sample history, recognizer, event
// timeline and hooks into one pipeline.
package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/events"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/history"
	"github.com/ayusman/mudra/internal/hook"
	"github.com/ayusman/mudra/internal/source"
	"github.com/ayusman/mudra/internal/store"
)

// Config holds configuration options for the application.
type Config struct {
	// Store persists settings and the event timeline. Optional.
	Store   *store.Store
	Source  source.Source
	Gesture gesture.Config

	HookDir     string
	HookTimeout time.Duration

	// TickRate is the pipeline rate in Hz. Zero pulls frames as fast as the
	// source delivers them.
	TickRate float64

	Logger zerolog.Logger
}

// App is the main application that orchestrates recognition and event delivery.
type App struct {
	config     Config
	source     source.Source
	hub        *events.Hub
	hookMgr    *hook.Manager
	dispatcher *hook.Dispatcher
	log        zerolog.Logger

	// pipeMu guards the history and recognizer, shared by the pipeline and
	// runtime setting updates.
	pipeMu     sync.Mutex
	history    *history.History
	recognizer *gesture.Recognizer

	mu        sync.RWMutex
	enabled   bool
	lastEvent *gesture.Event
	frames    uint64
	cancel    context.CancelFunc
	done      chan struct{}
	runErr    error
}

// New creates a new App. Invalid gesture configuration is reported as a
// *gesture.ConfigError.
func New(config Config) (*App, error) {
	if config.Source == nil {
		return nil, errors.New("app: source is required")
	}

	h, err := history.New(config.Gesture.HistoryCapacity)
	if err != nil {
		return nil, &gesture.ConfigError{Field: "history_capacity", Value: config.Gesture.HistoryCapacity, Err: err}
	}

	log := config.Logger
	hookLog := log.With().Str("component", "hooks").Logger()
	rec, err := gesture.New(config.Gesture, gesture.WithLogger(log.With().Str("component", "recognizer").Logger()))
	if err != nil {
		return nil, err
	}

	a := &App{
		config:     config,
		source:     config.Source,
		hub:        events.NewHub(),
		hookMgr:    hook.NewManager(config.HookDir, hookLog),
		log:        log,
		history:    h,
		recognizer: rec,
		enabled:    true,
	}

	var bindings hook.BindingLister
	if config.Store != nil {
		bindings = storeBindings{repo: config.Store.Bindings()}
	}
	a.dispatcher = hook.NewDispatcher(a.hookMgr, hook.NewExecutor(config.HookTimeout), bindings, hookLog)

	return a, nil
}

// SetEnabled enables or disables recognition. Frames are still ingested
// while disabled. Re-enabling clears the history and the debounce record so
// frames seen while disabled cannot complete a pulse. The choice is persisted
// when a store is configured.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	was := a.enabled
	a.enabled = enabled
	a.mu.Unlock()

	if enabled && !was {
		a.pipeMu.Lock()
		a.history.Reset()
		a.recognizer.Reset()
		a.pipeMu.Unlock()
	}

	a.log.Info().Bool("enabled", enabled).Msg("recognition toggled")

	if a.config.Store == nil {
		return
	}
	if err := a.config.Store.Settings().Set(store.SettingEnabled, strconv.FormatBool(enabled)); err != nil {
		a.log.Error().Err(err).Msg("persist enabled setting")
	}
}

// IsEnabled returns whether recognition is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// LoadSettings applies stored per-kind overrides and the stored enable flag.
func (a *App) LoadSettings() error {
	if a.config.Store == nil {
		return nil
	}

	settings, err := a.config.Store.Gestures().List()
	if err != nil {
		return fmt.Errorf("load gesture settings: %w", err)
	}

	a.pipeMu.Lock()
	for _, s := range settings {
		kc, err := a.kindFromSetting(s)
		if err == nil {
			err = a.recognizer.SetKind(kc)
		}
		if err != nil {
			a.log.Warn().Err(err).Str("kind", s.Kind).Msg("ignoring stored gesture setting")
		}
	}
	a.pipeMu.Unlock()

	v, err := a.config.Store.Settings().Get(store.SettingEnabled)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return fmt.Errorf("load enabled setting: %w", err)
	default:
		enabled, perr := strconv.ParseBool(v)
		if perr != nil {
			a.log.Warn().Str("value", v).Msg("ignoring invalid enabled setting")
			break
		}
		a.mu.Lock()
		a.enabled = enabled
		a.mu.Unlock()
	}

	a.log.Info().Int("overrides", len(settings)).Bool("enabled", a.IsEnabled()).Msg("settings loaded")
	return nil
}

func (a *App) kindFromSetting(s *store.GestureSetting) (gesture.KindConfig, error) {
	dir, err := gesture.ParseDirection(s.Direction)
	if err != nil {
		return gesture.KindConfig{}, err
	}
	return gesture.KindConfig{
		Kind:        gesture.Kind(s.Kind),
		Threshold:   s.Threshold,
		Direction:   dir,
		MinCalm:     s.MinCalm,
		MinActive:   s.MinActive,
		MinInterval: s.MinInterval,
		Enabled:     s.Enabled,
	}, nil
}

// Kinds returns the live configuration of every gesture kind.
func (a *App) Kinds() []gesture.KindConfig {
	a.pipeMu.Lock()
	defer a.pipeMu.Unlock()
	return a.recognizer.Kinds()
}

// Kind returns the live configuration of one kind.
func (a *App) Kind(k gesture.Kind) (gesture.KindConfig, bool) {
	a.pipeMu.Lock()
	defer a.pipeMu.Unlock()
	return a.recognizer.Kind(k)
}

// UpdateKind applies new settings to a kind and persists them. The signal
// of the kind is kept.
func (a *App) UpdateKind(kc gesture.KindConfig) error {
	kc.Signal = nil

	a.pipeMu.Lock()
	err := a.recognizer.SetKind(kc)
	a.pipeMu.Unlock()
	if err != nil {
		return err
	}

	a.log.Info().
		Str("kind", string(kc.Kind)).
		Float64("threshold", kc.Threshold).
		Bool("enabled", kc.Enabled).
		Msg("gesture settings updated")

	if a.config.Store == nil {
		return nil
	}
	return a.config.Store.Gestures().Upsert(&store.GestureSetting{
		Kind:        string(kc.Kind),
		Threshold:   kc.Threshold,
		Direction:   kc.Direction.String(),
		MinInterval: kc.MinInterval,
		MinCalm:     kc.MinCalm,
		MinActive:   kc.MinActive,
		Enabled:     kc.Enabled,
	})
}

// ResetKind restores the configured defaults of a kind and drops its stored override.
func (a *App) ResetKind(k gesture.Kind) error {
	var def *gesture.KindConfig
	for _, kc := range a.config.Gesture.Kinds {
		if kc.Kind == k {
			def = &kc
			break
		}
	}
	if def == nil {
		return &gesture.ConfigError{Field: "kind", Value: k, Err: gesture.ErrUnknownKind}
	}

	a.pipeMu.Lock()
	err := a.recognizer.SetKind(*def)
	a.pipeMu.Unlock()
	if err != nil {
		return err
	}

	if a.config.Store == nil {
		return nil
	}
	if err := a.config.Store.Gestures().Delete(string(k)); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

// DiscoverHooks scans the hook directory and loads available hooks.
func (a *App) DiscoverHooks() error {
	return a.hookMgr.Discover()
}

// Hub returns the event hub.
func (a *App) Hub() *events.Hub {
	return a.hub
}

// HookManager returns the hook manager.
func (a *App) HookManager() *hook.Manager {
	return a.hookMgr
}

// Store returns the configured store, which may be nil.
func (a *App) Store() *store.Store {
	return a.config.Store
}

// Stats is a snapshot of pipeline counters.
type Stats struct {
	Frames    uint64         `json:"frames"`
	Enabled   bool           `json:"enabled"`
	Running   bool           `json:"running"`
	LastEvent *gesture.Event `json:"last_event,omitempty"`
	LastFired []FireRecord   `json:"last_fired"`
}

// FireRecord is the debounce record of one kind on one hand.
type FireRecord struct {
	Kind gesture.Kind   `json:"kind"`
	Hand hand.Chirality `json:"hand"`
	// AtMS is the session time of the last accepted fire.
	AtMS int64 `json:"at_ms"`
}

// Stats returns a snapshot of pipeline counters.
func (a *App) Stats() Stats {
	fired := []FireRecord{}
	a.pipeMu.Lock()
	for _, kc := range a.recognizer.Kinds() {
		for _, c := range []hand.Chirality{hand.Left, hand.Right} {
			if at, ok := a.recognizer.LastFired(c, kc.Kind); ok {
				fired = append(fired, FireRecord{Kind: kc.Kind, Hand: c, AtMS: at.Milliseconds()})
			}
		}
	}
	a.pipeMu.Unlock()

	a.mu.RLock()
	defer a.mu.RUnlock()

	s := Stats{
		Frames:    a.frames,
		Enabled:   a.enabled,
		LastFired: fired,
	}
	if a.done != nil {
		select {
		case <-a.done:
		default:
			s.Running = true
		}
	}
	if a.lastEvent != nil {
		e := *a.lastEvent
		s.LastEvent = &e
	}
	return s
}

// storeBindings adapts the binding repository to hook.BindingLister.
type storeBindings struct {
	repo *store.BindingRepository
}

func (s storeBindings) BindingsFor(kind gesture.Kind) ([]hook.Binding, error) {
	rows, err := s.repo.ListByKind(string(kind))
	if err != nil {
		return nil, err
	}
	out := make([]hook.Binding, len(rows))
	for i, b := range rows {
		out[i] = hook.Binding{HookName: b.HookName, Config: b.Config}
	}
	return out, nil
}
