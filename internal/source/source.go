// Package source supplies hand frames to the recognition pipeline from
// recorded sessions, driver bridges or tests.
package source

import (
	"context"
	"errors"
	"time"

	"github.com/ayusman/mudra/internal/history"
)

// ErrExhausted is returned by Next when a finite source has no more frames.
var ErrExhausted = errors.New("source exhausted")

// Frame is one tick of tracking data.
type Frame struct {
	Hands history.Frame
	// Time is the elapsed session time of the frame.
	Time time.Duration
}

// Source defines the interface for hand tracking inputs.
type Source interface {
	// Next blocks until the next frame is available.
	Next(ctx context.Context) (Frame, error)

	// Close releases any resources held by the source.
	Close() error
}
