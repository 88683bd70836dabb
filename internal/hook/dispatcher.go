package hook

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/gesture"
)

// Binding routes a gesture kind to a named hook with its own config.
type Binding struct {
	HookName string
	Config   json.RawMessage
}

// BindingLister returns the stored bindings for a kind.
type BindingLister interface {
	BindingsFor(kind gesture.Kind) ([]Binding, error)
}

// Dispatcher runs every hook interested in an event in the background.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	bindings BindingLister
	log      zerolog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. bindings may be nil.
func NewDispatcher(m *Manager, e *Executor, bindings BindingLister, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		manager:  m,
		executor: e,
		bindings: bindings,
		log:      log,
	}
}

// Target is a hook resolved for one event.
type Target struct {
	Hook   *Hook
	Config json.RawMessage
}

// Targets resolves the hooks to run for kind. Hooks subscribed by manifest
// run with no config; a binding for the same hook supplies its config.
func (d *Dispatcher) Targets(kind gesture.Kind) []Target {
	var targets []Target
	index := make(map[string]int)

	for _, h := range d.manager.ForKind(kind) {
		index[h.Manifest.Name] = len(targets)
		targets = append(targets, Target{Hook: h})
	}

	if d.bindings == nil {
		return targets
	}
	bindings, err := d.bindings.BindingsFor(kind)
	if err != nil {
		d.log.Error().Err(err).Str("kind", string(kind)).Msg("load bindings")
		return targets
	}
	for _, b := range bindings {
		if i, ok := index[b.HookName]; ok {
			targets[i].Config = b.Config
			continue
		}
		h, err := d.manager.Get(b.HookName)
		if errors.Is(err, ErrHookNotFound) {
			d.log.Warn().Str("hook", b.HookName).Str("kind", string(kind)).Msg("binding refers to unknown hook")
			continue
		}
		index[b.HookName] = len(targets)
		targets = append(targets, Target{Hook: h, Config: b.Config})
	}
	return targets
}

// Dispatch starts every target hook for e and returns how many were started.
// It does not wait for them to finish.
func (d *Dispatcher) Dispatch(ctx context.Context, e gesture.Event) int {
	targets := d.Targets(e.Kind)
	for _, t := range targets {
		d.wg.Add(1)
		go func(t Target) {
			defer d.wg.Done()
			d.run(ctx, t, e)
		}(t)
	}
	return len(targets)
}

func (d *Dispatcher) run(ctx context.Context, t Target, e gesture.Event) {
	log := d.log.With().Str("hook", t.Hook.Manifest.Name).Str("kind", string(e.Kind)).Logger()

	resp, err := d.executor.Execute(ctx, t.Hook, &Request{Event: e, Config: t.Config})
	if err != nil {
		log.Error().Err(err).Msg("hook failed")
		return
	}
	if !resp.Success {
		log.Warn().Str("error", resp.Error).Msg("hook reported failure")
		return
	}
	log.Debug().Msg("hook ran")
}

// Wait blocks until every dispatched hook has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
