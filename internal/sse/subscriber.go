package sse

import (
	"context"
	"log/slog"

	"github.com/slotdeck/server/internal/event"
)

// streamedTypes are the bus events forwarded to SSE clients.
var streamedTypes = []event.Type{
	event.IdentityChanged,
	event.SnapshotSaved,
	event.SnapshotSaveFailed,
	event.AudioStateChanged,
	event.XPAwarded,
	event.LevelUp,
	event.GuestConverted,
}

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{hub: hub, bus: bus}
}

// Subscribe registers forwarding handlers for all streamed event types.
// Payloads are the typed bus payloads, serialized verbatim.
func (s *Subscriber) Subscribe() {
	types := make([]string, 0, len(streamedTypes))
	for _, t := range streamedTypes {
		s.bus.Subscribe(t, s.forward)
		types = append(types, string(t))
	}

	slog.Info("SSE subscriber registered for event types", "types", types)
}

func (s *Subscriber) forward(_ context.Context, evt event.Event) error {
	s.hub.Broadcast(string(evt.Type), evt.Payload)
	return nil
}
