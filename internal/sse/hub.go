// Package sse streams dashboard events (identity, snapshot saves, XP,
// audio state) to connected clients over Server-Sent Events.
package sse

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is a single message on the stream.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Client is one connected stream. A nil EventFilter receives every
// event type.
type Client struct {
	ID           string
	EventChannel chan Event
	EventFilter  map[string]bool
}

// Hub fans broadcast events out to registered clients.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client
	closed   bool
	feed     chan Event
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewHub creates an idle hub. Start must be called before Broadcast
// delivers anything.
func NewHub() *Hub {
	return &Hub{
		clients:  make(map[string]*Client),
		feed:     make(chan Event, BroadcastBufferSize),
		shutdown: make(chan struct{}),
	}
}

// Start launches the fan-out loop.
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop ends the fan-out loop and closes every client channel.
func (h *Hub) Stop() {
	close(h.shutdown)
	h.wg.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, client := range h.clients {
		close(client.EventChannel)
	}
	h.clients = make(map[string]*Client)
}

func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case evt := <-h.feed:
			h.deliver(evt)
		case <-h.shutdown:
			return
		}
	}
}

func (h *Hub) deliver(evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.EventFilter != nil && !client.EventFilter[evt.Type] {
			continue
		}

		// Non-blocking send: a client with a full buffer misses the
		// event rather than stalling the hub.
		select {
		case client.EventChannel <- evt:
		default:
		}
	}
}

// Register adds a client, optionally filtered to the given event types.
func (h *Hub) Register(eventTypes []string) *Client {
	client := &Client{
		ID:           uuid.New().String(),
		EventChannel: make(chan Event, ClientEventBuffer),
	}

	if len(eventTypes) > 0 {
		client.EventFilter = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			client.EventFilter[t] = true
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(client.EventChannel)
		return client
	}
	h.clients[client.ID] = client
	return client
}

// Unregister removes a client and closes its channel. Unknown ids are
// ignored.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, ok := h.clients[clientID]; ok {
		close(client.EventChannel)
		delete(h.clients, clientID)
	}
}

// Broadcast queues an event for delivery. Drops the event if the feed
// buffer is full.
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	evt := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}

	select {
	case h.feed <- evt:
	default:
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FormatSSEMessage renders an event in wire format:
// "id: <id>\nevent: <type>\ndata: <json>\n\n".
func FormatSSEMessage(evt Event) ([]byte, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}

	msg := "id: " + evt.ID + "\n"
	msg += "event: " + evt.Type + "\n"
	msg += "data: " + string(data) + "\n\n"

	return []byte(msg), nil
}
