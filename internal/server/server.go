package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/slotdeck/server/internal/audio"
	"github.com/slotdeck/server/internal/database"
	"github.com/slotdeck/server/internal/features"
	"github.com/slotdeck/server/internal/handler"
	"github.com/slotdeck/server/internal/inventory"
	"github.com/slotdeck/server/internal/item"
	"github.com/slotdeck/server/internal/logger"
	"github.com/slotdeck/server/internal/metrics"
	"github.com/slotdeck/server/internal/session"
	"github.com/slotdeck/server/internal/sse"
	"github.com/slotdeck/server/internal/syncer"
)

// Deps bundles everything the HTTP surface needs. The server is a thin
// routing layer; all state lives in the services.
type Deps struct {
	DBPool           database.Pool
	SessionService   session.Service
	InventoryService inventory.Service
	SyncController   *syncer.Controller
	AudioSession     *audio.Session
	Catalog          *item.Catalog
	FeatureLoader    *features.Loader
	SSEHub           *sse.Hub
}

type Server struct {
	httpServer *http.Server
	deps       Deps
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, deps Deps) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.DBPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Info endpoint
		r.Get("/info", handler.HandleGetInfo(deps.FeatureLoader))

		// Live event stream
		r.Get("/events", sse.Handler(deps.SSEHub))

		// Session routes
		r.Route("/session", func(r chi.Router) {
			r.Get("/", handler.HandleGetSession(deps.SessionService))
			r.Post("/guest", handler.HandleCreateGuestSession(deps.SessionService))
			r.Post("/login", handler.HandleLogin(deps.SessionService))
			r.Post("/register", handler.HandleRegister(deps.SessionService))
			r.Post("/provider", handler.HandleLoginWithProvider(deps.SessionService))
			r.Post("/convert", handler.HandleConvertGuest(deps.SessionService))
			r.Post("/reset-password", handler.HandleResetPassword(deps.SessionService))
			r.Post("/logout", handler.HandleLogout(deps.SessionService))
			r.Post("/xp", handler.HandleAddXP(deps.SessionService))
		})

		// Inventory routes
		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", handler.HandleGetInventory(deps.InventoryService))
			r.Post("/place", handler.HandlePlaceItem(deps.InventoryService, deps.Catalog))
			r.Post("/remove", handler.HandleRemoveSlot(deps.InventoryService))
			r.Post("/swap", handler.HandleSwap(deps.InventoryService))
			r.Post("/reset", handler.HandleResetInventory(deps.InventoryService))
			r.Post("/clear", handler.HandleClearInventory(deps.InventoryService))

			r.Route("/drag", func(r chi.Router) {
				r.Get("/", handler.HandleGetDragState(deps.InventoryService))
				r.Post("/start", handler.HandleDragStart(deps.InventoryService))
				r.Post("/over", handler.HandleDragOver(deps.InventoryService))
				r.Post("/drop", handler.HandleDrop(deps.InventoryService))
				r.Post("/cancel", handler.HandleDragCancel(deps.InventoryService))
			})
		})

		// Item catalog
		r.Get("/items", handler.HandleGetItems(deps.Catalog))

		// Sync routes
		r.Route("/sync", func(r chi.Router) {
			r.Get("/", handler.HandleGetSyncState(deps.SyncController))
			r.Post("/save", handler.HandleSaveNow(deps.SyncController, deps.InventoryService))
			r.Post("/online", handler.HandleSetOnline(deps.SyncController))
			r.Post("/autosave", handler.HandleSetAutoSave(deps.SyncController))
			r.Post("/clear-error", handler.HandleClearSyncError(deps.SyncController))
		})

		// Audio routes
		r.Route("/audio", func(r chi.Router) {
			r.Get("/", handler.HandleGetAudioState(deps.AudioSession))
			r.Post("/play", handler.HandlePlayAudio(deps.AudioSession))
			r.Post("/pause", handler.HandlePauseAudio(deps.AudioSession))
			r.Post("/volume", handler.HandleSetVolume(deps.AudioSession))
			r.Post("/track", handler.HandleSetTrack(deps.AudioSession))
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		deps: deps,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		// Use HasPrefix to catch potential variations (e.g. /healthz/)
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		// Generate unique request ID
		requestID := logger.GenerateRequestID()

		// Add request ID to context
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		// Get scoped logger
		log := logger.FromContext(ctx)

		// Log request start with details
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		// Wrap response writer to capture status code
		rw := newResponseWriter(w)

		// Process request
		next.ServeHTTP(rw, r)

		// Log request completion with metrics
		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
