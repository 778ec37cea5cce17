package bootstrap

import (
	"context"
	"log/slog"

	"github.com/slotdeck/server/internal/inventory"
	"github.com/slotdeck/server/internal/server"
	"github.com/slotdeck/server/internal/sse"
	"github.com/slotdeck/server/internal/syncer"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server         *server.Server
	SyncController *syncer.Controller
	Inventory      inventory.Service
	SSEHub         *sse.Hub
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in order:
// 1. HTTP server (stop accepting new requests)
// 2. Sync controller (flush any unsaved snapshot)
// 3. SSE hub (close client streams)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	// Shutdown server first (stop accepting new requests)
	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	// Flush a pending debounced save so no edits are lost
	if components.SyncController != nil && components.SyncController.State().HasUnsavedChanges {
		slog.Info(LogMsgFlushingSnapshot)
		if err := components.SyncController.SaveNow(ctx, components.Inventory.Snapshot()); err != nil {
			slog.Error(LogMsgFinalSaveFailed, "error", err)
		}
	}

	if components.SSEHub != nil {
		components.SSEHub.Stop()
	}

	slog.Info(LogMsgServerStopped)
}
