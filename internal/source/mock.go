package source

import (
	"context"
	"sync"
)

// MockSource is a test implementation of the Source interface.
// It returns the configured frames in order, then ErrExhausted.
type MockSource struct {
	mu     sync.Mutex
	frames []Frame
	pos    int
	err    error
	closed bool
}

// NewMockSource creates a MockSource returning frames.
func NewMockSource(frames ...Frame) *MockSource {
	return &MockSource{frames: frames}
}

// SetError sets the error that will be returned by Next.
func (m *MockSource) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Next returns the next pre-configured frame or error.
func (m *MockSource) Next(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return Frame{}, m.err
	}
	if m.pos >= len(m.frames) {
		return Frame{}, ErrExhausted
	}
	f := m.frames[m.pos]
	m.pos++
	return f, nil
}

// Close marks the source closed.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
