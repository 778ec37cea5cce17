package sse

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Handler serves the event stream. Clients may narrow the stream with a
// comma-separated ?types= filter; without it they receive everything.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "SSE not supported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		var eventTypes []string
		if filterParam := r.URL.Query().Get("types"); filterParam != "" {
			eventTypes = strings.Split(filterParam, ",")
		}

		client := hub.Register(eventTypes)
		slog.Info(LogMsgClientConnected,
			"client_id", client.ID,
			"filters", eventTypes,
			"total_clients", hub.ClientCount())

		defer func() {
			hub.Unregister(client.ID)
			slog.Info(LogMsgClientDisconnected,
				"client_id", client.ID,
				"total_clients", hub.ClientCount())
		}()

		// Handshake event so clients can confirm their filters took
		hello := Event{
			ID:        client.ID,
			Type:      "connected",
			Timestamp: time.Now().Unix(),
			Payload: map[string]interface{}{
				"client_id": client.ID,
				"filters":   eventTypes,
			},
		}
		if !writeEvent(w, flusher, hello) {
			return
		}

		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return

			case evt, open := <-client.EventChannel:
				if !open {
					// Hub shut down
					return
				}
				if !writeEvent(w, flusher, evt) {
					return
				}

			case <-ticker.C:
				ping := Event{Type: EventTypeKeepalive, Timestamp: time.Now().Unix()}
				if !writeEvent(w, flusher, ping) {
					return
				}
			}
		}
	}
}

// writeEvent flushes one event to the client. Returns false when the
// connection is unusable and the handler should exit.
func writeEvent(w http.ResponseWriter, flusher http.Flusher, evt Event) bool {
	msg, err := FormatSSEMessage(evt)
	if err != nil {
		slog.Error(LogMsgWriteError, "error", err)
		return true
	}

	if _, err := w.Write(msg); err != nil {
		slog.Warn(LogMsgWriteError, "error", err)
		return false
	}
	flusher.Flush()
	return true
}
