package metrics

import (
	"context"

	"github.com/slotdeck/server/internal/event"
	"github.com/slotdeck/server/internal/logger"
)

// EventMetricsCollector subscribes to bus events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.IdentityChanged,
		event.SnapshotSaved,
		event.SnapshotSaveFailed,
		event.AudioStateChanged,
		event.XPAwarded,
		event.LevelUp,
		event.GuestConverted,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent counts every published event and derives business metrics
// from the payloads that carry them. XP, conversion and snapshot counters
// incremented at the publishing site are not repeated here.
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	if evt.Type == event.LevelUp {
		LevelUps.Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
