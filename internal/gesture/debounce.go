package gesture

import (
	"time"

	"github.com/ayusman/mudra/internal/hand"
)

type gateKey struct {
	chirality hand.Chirality
	kind      Kind
}

// DebounceGate suppresses repeat firing of a kind on the same hand within a
// minimum interval. It is not safe for concurrent use.
type DebounceGate struct {
	last map[gateKey]time.Duration
}

// NewDebounceGate creates a gate where nothing has fired yet.
func NewDebounceGate() *DebounceGate {
	return &DebounceGate{last: make(map[gateKey]time.Duration)}
}

// TryFire reports whether a gesture may fire at now. When it may, now is
// recorded as the last fire time for the hand and kind. The first call for
// a key always succeeds.
func (g *DebounceGate) TryFire(c hand.Chirality, k Kind, now, minInterval time.Duration) bool {
	key := gateKey{c, k}
	if last, ok := g.last[key]; ok && now-last < minInterval {
		return false
	}
	g.last[key] = now
	return true
}

// LastFired returns the last accepted fire time for the hand and kind.
func (g *DebounceGate) LastFired(c hand.Chirality, k Kind) (time.Duration, bool) {
	t, ok := g.last[gateKey{c, k}]
	return t, ok
}

// Reset forgets every recorded fire time.
func (g *DebounceGate) Reset() {
	clear(g.last)
}
