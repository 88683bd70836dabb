package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/gesture"
)

// DefaultSubjectPrefix is the NATS subject prefix for gesture events.
const DefaultSubjectPrefix = "mudra.gesture"

// Subject returns the subject an event is published on: <prefix>.<kind>.<hand>.
func Subject(prefix string, e gesture.Event) string {
	return fmt.Sprintf("%s.%s.%s", prefix, e.Kind, e.Chirality)
}

// Connect dials a NATS server with reconnects enabled.
func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(
		url,
		nats.Name("mudra"),
		nats.Timeout(3*time.Second),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
}

// Publisher is the part of *nats.Conn the forwarder needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Forward publishes every event from the hub until ctx is done.
func Forward(ctx context.Context, hub *Hub, pub Publisher, prefix string, log zerolog.Logger) {
	ch, cancel := hub.Subscribe(64)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(e)
			if err != nil {
				log.Error().Err(err).Msg("encode event")
				continue
			}
			subject := Subject(prefix, e)
			if err := pub.Publish(subject, data); err != nil {
				log.Warn().Err(err).Str("subject", subject).Msg("publish event")
			}
		}
	}
}
