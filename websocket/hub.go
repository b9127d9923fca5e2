package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	EventAttemptStarted   = "attempt.started"
	EventAttemptSubmitted = "attempt.submitted"
	EventAttemptReset     = "attempt.reset"
	EventRetestRequested  = "retest.requested"
	EventRetestApproved   = "retest.approved"
	EventRetestRejected   = "retest.rejected"
)

type Event struct {
	Type string      `json:"type"`
	At   time.Time   `json:"at"`
	Data interface{} `json:"data"`
}

// Client is one connected staff socket.
type Client interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Hub fans events out to every registered client. Publish never blocks; when
// the buffer is full the event is dropped.
type Hub struct {
	register   chan Client
	unregister chan Client
	broadcast  chan Event
	done       chan struct{}

	mu      sync.RWMutex
	clients map[Client]struct{}
}

func NewHub(buffer int) *Hub {
	return &Hub{
		register:   make(chan Client),
		unregister: make(chan Client),
		broadcast:  make(chan Event, buffer),
		done:       make(chan struct{}),
		clients:    make(map[Client]struct{}),
	}
}

// Events is the hub wired into the HTTP server.
var Events = NewHub(256)

// Run serves the hub until ctx ends, then closes every client. A hub runs
// once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				c.Close()
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			log.Debug().Int("clients", h.Count()).Msg("event client registered")
		case c := <-h.unregister:
			h.remove(c)
		case ev := <-h.broadcast:
			h.mu.RLock()
			var failed []Client
			for c := range h.clients {
				if err := c.WriteJSON(ev); err != nil {
					log.Warn().Err(err).Str("event", ev.Type).Msg("dropping event client")
					failed = append(failed, c)
				}
			}
			h.mu.RUnlock()
			for _, c := range failed {
				h.remove(c)
			}
		}
	}
}

func (h *Hub) remove(c Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.Close()
	}
	h.mu.Unlock()
}

// Register blocks until the running hub accepts the client, ctx ends or the
// hub stops.
func (h *Hub) Register(ctx context.Context, c Client) bool {
	select {
	case h.register <- c:
		return true
	case <-ctx.Done():
		return false
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(ctx context.Context, c Client) {
	select {
	case h.unregister <- c:
	case <-ctx.Done():
	case <-h.done:
	}
}

func (h *Hub) Publish(eventType string, data interface{}) {
	ev := Event{Type: eventType, At: time.Now(), Data: data}
	select {
	case h.broadcast <- ev:
	default:
		log.Warn().Str("event", eventType).Msg("event buffer full, dropping event")
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
