package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/source"
	"github.com/ayusman/mudra/internal/store"
)

// Tick pulls one frame from the source and processes it.
func (a *App) Tick(ctx context.Context) ([]gesture.Event, error) {
	f, err := a.source.Next(ctx)
	if err != nil {
		return nil, err
	}
	return a.Process(ctx, f), nil
}

// Process pushes a frame into the history and, when recognition is enabled,
// recognizes and delivers the gestures it completes.
func (a *App) Process(ctx context.Context, f source.Frame) []gesture.Event {
	enabled := a.IsEnabled()

	a.pipeMu.Lock()
	a.history.Push(f.Hands)
	var accepted []gesture.Event
	if enabled {
		accepted = a.recognizer.Recognize(a.history, f.Time)
	}
	a.pipeMu.Unlock()

	a.mu.Lock()
	a.frames++
	a.mu.Unlock()

	for _, e := range accepted {
		a.handle(ctx, e)
	}
	return accepted
}

// handle delivers one accepted event to the hub, the timeline and the hooks.
func (a *App) handle(ctx context.Context, e gesture.Event) {
	a.mu.Lock()
	last := e
	a.lastEvent = &last
	a.mu.Unlock()

	n := a.hub.Publish(e)
	a.log.Info().
		Str("kind", string(e.Kind)).
		Str("hand", e.Chirality.String()).
		Dur("at", e.Time).
		Int("subscribers", n).
		Msg("gesture")

	if a.config.Store != nil {
		rec := &store.EventRecord{
			Kind:      string(e.Kind),
			Chirality: e.Chirality.String(),
			Pose:      e.Pose,
			Elapsed:   e.Time,
		}
		if err := a.config.Store.Events().Create(rec); err != nil {
			a.log.Error().Err(err).Str("kind", string(e.Kind)).Msg("persist gesture event")
		}
	}

	a.dispatcher.Dispatch(ctx, e)
}

// Run processes frames until the source is exhausted or ctx is cancelled.
// With a positive TickRate frames are pulled on a ticker, otherwise as fast
// as the source delivers them.
func (a *App) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if a.config.TickRate > 0 {
		t := time.NewTicker(time.Duration(float64(time.Second) / a.config.TickRate))
		defer t.Stop()
		tick = t.C
	}

	a.log.Info().Float64("tick_rate", a.config.TickRate).Int("history", a.history.Cap()).Msg("pipeline started")

	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		}

		if _, err := a.Tick(ctx); err != nil {
			switch {
			case errors.Is(err, source.ErrExhausted):
				a.log.Info().Uint64("frames", a.Stats().Frames).Msg("source exhausted")
				return nil
			case ctx.Err() != nil:
				return nil
			default:
				return fmt.Errorf("read frame: %w", err)
			}
		}
	}
}

// Start runs the pipeline in the background.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.done = make(chan struct{})
	a.runErr = nil

	go func(done chan struct{}) {
		err := a.Run(ctx)
		if err != nil {
			a.log.Error().Err(err).Msg("pipeline stopped")
		}
		a.mu.Lock()
		a.runErr = err
		a.mu.Unlock()
		close(done)
	}(a.done)

	return nil
}

// Done returns a channel closed when the background pipeline returns. It is
// nil before Start.
func (a *App) Done() <-chan struct{} {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.done
}

// Err returns the error the background pipeline stopped with.
func (a *App) Err() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.runErr
}

// Stop halts the pipeline, waits for running hooks and releases the source.
func (a *App) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	if err := a.source.Close(); err != nil {
		a.log.Error().Err(err).Msg("close source")
	}
	a.dispatcher.Wait()
	a.hub.Close()

	a.log.Info().Msg("pipeline stopped")
}
