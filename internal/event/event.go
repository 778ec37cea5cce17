package event

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Common event types
const (
	IdentityChanged Type = "identity.changed"

	SnapshotSaved      Type = "snapshot.saved"
	SnapshotSaveFailed Type = "snapshot.save_failed"

	AudioStateChanged Type = "audio.state_changed"

	XPAwarded Type = "session.xp_awarded"
	LevelUp   Type = "session.level_up"

	GuestConverted Type = "session.guest_converted"
)

// Typed event payloads for type safety

// IdentityChangedPayloadV1 fires whenever the active identity changes:
// login, logout, guest creation, conversion. UID is empty on sign-out.
type IdentityChangedPayloadV1 struct {
	UID       string `json:"uid,omitempty"`
	IsGuest   bool   `json:"is_guest"`
	Timestamp int64  `json:"timestamp"`
}

// SnapshotSavedPayloadV1 reports a successful remote snapshot write
type SnapshotSavedPayloadV1 struct {
	UID       string `json:"uid"`
	Version   int64  `json:"version"`
	Timestamp int64  `json:"timestamp"`
}

// SnapshotSaveFailedPayloadV1 reports a failed remote snapshot write
type SnapshotSaveFailedPayloadV1 struct {
	UID       string `json:"uid"`
	Error     string `json:"error"`
	Timestamp int64  `json:"timestamp"`
}

// AudioStatePayloadV1 reports ambient-audio session state transitions
type AudioStatePayloadV1 struct {
	TrackID   string  `json:"track_id"`
	Playing   bool    `json:"playing"`
	Volume    float64 `json:"volume"`
	Timestamp int64   `json:"timestamp"`
}

// XPAwardedPayloadV1 reports gameplay XP grants
type XPAwardedPayloadV1 struct {
	UID       string `json:"uid"`
	Amount    int    `json:"amount"`
	TotalXP   int    `json:"total_xp"`
	Level     int    `json:"level"`
	Timestamp int64  `json:"timestamp"`
}

// GuestConvertedPayloadV1 reports a guest session promoted to an account
type GuestConvertedPayloadV1 struct {
	GuestUID  string `json:"guest_uid"`
	UID       string `json:"uid"`
	Level     int    `json:"level"`
	XP        int    `json:"xp"`
	Timestamp int64  `json:"timestamp"`
}

// New constructs a versioned event with the given payload.
func New(eventType Type, payload interface{}) Event {
	return Event{
		Version: "1.0",
		Type:    eventType,
		Payload: payload,
	}
}

// Now returns the unix timestamp used in event payloads.
func Now() int64 {
	return time.Now().Unix()
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run
// synchronously; a failing handler does not stop the others.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d handler error(s) for %s: %v", len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
