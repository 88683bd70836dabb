// Package history keeps a bounded window of recent dual-hand frames.
package history

import (
	"errors"
	"iter"

	"github.com/ayusman/mudra/internal/hand"
)

// DefaultCapacity is the number of frames kept when no capacity is configured.
const DefaultCapacity = 30

// Slots is the number of independently tracked hand slots per frame.
const Slots = 2

// ErrInvalidCapacity is returned when a history is created without room for a frame.
var ErrInvalidCapacity = errors.New("history capacity must be positive")

// Frame holds one sample per tracked slot; nil marks a slot without a hand.
// Slots are not bound to chirality.
type Frame [Slots]*hand.Sample

// History is a fixed-capacity ring buffer of frames. Pushing into a full
// history overwrites the oldest frame.
type History struct {
	frames []Frame
	head   int // index the next push writes to
	size   int
}

// New creates an empty History holding at most capacity frames.
func New(capacity int) (*History, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &History{frames: make([]Frame, capacity)}, nil
}

// Push inserts the newest frame, evicting the oldest one when full.
func (h *History) Push(f Frame) {
	h.frames[h.head] = f
	h.head = (h.head + 1) % len(h.frames)
	if h.size < len(h.frames) {
		h.size++
	}
}

// Len returns the number of frames currently held.
func (h *History) Len() int {
	return h.size
}

// Cap returns the maximum number of frames held.
func (h *History) Cap() int {
	return len(h.frames)
}

// Reset drops every frame.
func (h *History) Reset() {
	clear(h.frames)
	h.head = 0
	h.size = 0
}

// at returns the i-th newest frame; 0 is the most recent push.
func (h *History) at(i int) Frame {
	idx := (h.head - 1 - i + 2*len(h.frames)) % len(h.frames)
	return h.frames[idx]
}

// NewestFirst yields the samples of one slot from newest to oldest, stopping
// at the first frame where the slot is empty. The sequence is a view over the
// current contents and can be ranged over repeatedly.
func (h *History) NewestFirst(slot int) iter.Seq[hand.Sample] {
	return func(yield func(hand.Sample) bool) {
		if slot < 0 || slot >= Slots {
			return
		}
		for i := 0; i < h.size; i++ {
			s := h.at(i)[slot]
			if s == nil {
				return
			}
			if !yield(*s) {
				return
			}
		}
	}
}
