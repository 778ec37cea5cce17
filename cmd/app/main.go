package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/slotdeck/server/internal/bootstrap"
	"github.com/slotdeck/server/internal/config"
	"github.com/slotdeck/server/internal/database"
	"github.com/slotdeck/server/internal/event"
	"github.com/slotdeck/server/internal/server"
	"github.com/slotdeck/server/internal/sse"
)

const (
	dbMaxConns        = 10
	dbMaxConnIdleTime = 5 * time.Minute
	dbMaxConnLifetime = 30 * time.Minute

	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	dbPool, err := database.NewPool(cfg.GetDBConnString(), dbMaxConns, dbMaxConnIdleTime, dbMaxConnLifetime)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	eventBus := event.NewMemoryBus()

	repos := bootstrap.InitializeRepositories(dbPool)
	services, err := bootstrap.InitializeServices(cfg, repos, eventBus)
	if err != nil {
		slog.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	sseHub := sse.NewHub()
	sseHub.Start()

	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus: eventBus,
		SSEHub:   sseHub,
	}); err != nil {
		slog.Error("Failed to register event handlers", "error", err)
		os.Exit(1)
	}

	// Hydrate the session from persisted state before serving traffic
	services.ResolveStartupSession(context.Background())

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, server.Deps{
		DBPool:           dbPool,
		SessionService:   services.Session,
		InventoryService: services.Inventory,
		SyncController:   services.Syncer,
		AudioSession:     services.Audio,
		Catalog:          services.Catalog,
		FeatureLoader:    services.Features,
		SSEHub:           sseHub,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	case sig := <-stop:
		slog.Info("Received shutdown signal", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server:         srv,
		SyncController: services.Syncer,
		Inventory:      services.Inventory,
		SSEHub:         sseHub,
	})
}
