package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/slotdeck/server/internal/event"
	"github.com/slotdeck/server/internal/metrics"
	"github.com/slotdeck/server/internal/sse"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus event.Bus
	SSEHub   *sse.Hub
}

// RegisterEventHandlers sets up all event handlers and subscribers.
// This includes:
// - Metrics collector (for event-based metrics)
// - SSE subscriber (forwards bus events to connected dashboard clients)
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	// Register Metrics Collector
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	// Subscribe SSE forwarder
	sse.NewSubscriber(deps.SSEHub, deps.EventBus).Subscribe()
	slog.Info(LogMsgSSESubscriberRegistered)

	return nil
}
