// Package gesture recognizes transient pulse gestures, such as a pinch, from a
// window of recent hand samples.
package gesture

import (
	"iter"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/history"
)

// Event is an accepted gesture.
type Event struct {
	Kind      Kind           `json:"kind"`
	Chirality hand.Chirality `json:"chirality"`
	Pose      hand.Pose      `json:"pose"`
	// Time is the host's elapsed session time when the event fired.
	Time time.Duration `json:"time"`
}

// Window is a read-only view of recent samples per hand slot.
type Window interface {
	NewestFirst(slot int) iter.Seq[hand.Sample]
}

// Recognizer runs one detector per enabled gesture kind over each hand slot
// and debounces the results. It is not safe for concurrent use.
type Recognizer struct {
	detectors []*Detector
	gate      *DebounceGate
	log       zerolog.Logger
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithLogger sets the logger used for recognition traces.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Recognizer) {
		r.log = l
	}
}

// New creates a Recognizer, rejecting invalid configuration with a *ConfigError.
func New(cfg Config, opts ...Option) (*Recognizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Recognizer{
		detectors: make([]*Detector, 0, len(cfg.Kinds)),
		gate:      NewDebounceGate(),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, kc := range cfg.Kinds {
		r.detectors = append(r.detectors, &Detector{cfg: kc})
	}
	return r, nil
}

// Recognize scans every slot of w with every enabled detector and returns
// the events that pass the debounce gate, at most one per slot and kind.
// Accepted events are recorded in the gate.
func (r *Recognizer) Recognize(w Window, now time.Duration) []Event {
	var events []Event

	for slot := 0; slot < history.Slots; slot++ {
		for _, d := range r.detectors {
			if !d.cfg.Enabled {
				continue
			}

			sample, ok := d.Scan(w.NewestFirst(slot))
			if !ok {
				continue
			}

			if !r.gate.TryFire(sample.Chirality, d.cfg.Kind, now, d.cfg.MinInterval) {
				r.log.Trace().
					Str("kind", string(d.cfg.Kind)).
					Stringer("hand", sample.Chirality).
					Dur("now", now).
					Msg("gesture debounced")
				continue
			}

			r.log.Debug().
				Str("kind", string(d.cfg.Kind)).
				Stringer("hand", sample.Chirality).
				Int("slot", slot).
				Dur("now", now).
				Msg("gesture recognized")

			events = append(events, Event{
				Kind:      d.cfg.Kind,
				Chirality: sample.Chirality,
				Pose:      sample.Pose,
				Time:      now,
			})
		}
	}

	return events
}

// Kinds returns the configuration of every detector in evaluation order.
func (r *Recognizer) Kinds() []KindConfig {
	kinds := make([]KindConfig, len(r.detectors))
	for i, d := range r.detectors {
		kinds[i] = d.cfg
	}
	return kinds
}

// Kind returns the configuration of one kind.
func (r *Recognizer) Kind(k Kind) (KindConfig, bool) {
	for _, d := range r.detectors {
		if d.cfg.Kind == k {
			return d.cfg, true
		}
	}
	return KindConfig{}, false
}

// SetKind replaces the configuration of an existing kind. A nil Signal keeps
// the current one. Debounce history is kept.
func (r *Recognizer) SetKind(kc KindConfig) error {
	for i, d := range r.detectors {
		if d.cfg.Kind != kc.Kind {
			continue
		}
		if kc.Signal == nil {
			kc.Signal = d.cfg.Signal
		}
		if err := kc.Validate(); err != nil {
			return err
		}
		r.detectors[i] = &Detector{cfg: kc}
		return nil
	}
	return &ConfigError{Field: "kind", Value: kc.Kind, Err: ErrUnknownKind}
}

// LastFired returns the session time kind last fired for the hand.
func (r *Recognizer) LastFired(c hand.Chirality, k Kind) (time.Duration, bool) {
	return r.gate.LastFired(c, k)
}

// Reset forgets every recorded fire time, so the next pulse of any kind fires.
func (r *Recognizer) Reset() {
	r.gate.Reset()
}
