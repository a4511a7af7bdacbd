// Package push broadcasts created records to connected subscribers over
// websockets. Delivery is best-effort: there is no acknowledgment, no
// replay, and subscribers that connect after a broadcast do not receive it.
package push

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/shopstream/shopstream/adapters/metrics"
)

const (
	// writeWait is the deadline for one websocket write.
	writeWait = 10 * time.Second

	// sendBuffer is the per-subscriber outbound queue. A subscriber whose
	// queue is full is dropped rather than blocking the broadcast.
	sendBuffer = 64
)

// Envelope is the wire format of a broadcast: the payload tagged with
// its event name.
type Envelope struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data"`
}

// Hub is the registry of currently connected subscribers.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]bool

	upgrader websocket.Upgrader
	logger   zerolog.Logger
	metrics  *metrics.Collector
}

// NewHub creates an empty subscriber registry. The collector may be nil.
func NewHub(logger zerolog.Logger, collector *metrics.Collector) *Hub {
	return &Hub{
		clients: make(map[*client]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:  logger,
		metrics: collector,
	}
}

// ServeWS upgrades an HTTP request to a websocket subscription.
// Connection lifecycle (accept/drop) is owned here; the pipeline only
// needs the set of current subscribers at broadcast time.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	h.register(c)

	go c.writePump()
	go c.readPump()
}

// Broadcast sends payload tagged with event to every currently connected
// subscriber. Fire and forget: failures are logged, never returned.
func (h *Hub) Broadcast(event string, payload map[string]any) {
	msg, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("encode broadcast")
		return
	}

	h.mu.RLock()
	var stale []*client
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			stale = append(stale, c)
		}
	}
	n := len(h.clients)
	h.mu.RUnlock()

	for _, c := range stale {
		h.logger.Warn().Msg("dropping slow subscriber")
		h.unregister(c)
	}

	if h.metrics != nil {
		h.metrics.BroadcastsTotal.WithLabelValues(event).Inc()
	}
	h.logger.Debug().Str("event", event).Int("subscribers", n).Msg("event broadcast")
}

// Subscribers returns the number of currently connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.unregister(c)
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = true
	n := len(h.clients)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.SubscribersConnected.Set(float64(n))
	}
	h.logger.Info().Str("remote", c.conn.RemoteAddr().String()).Msg("subscriber connected")
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if !h.clients[c] {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	close(c.send)
	c.conn.Close()

	if h.metrics != nil {
		h.metrics.SubscribersConnected.Set(float64(n))
	}
	h.logger.Info().Str("remote", c.conn.RemoteAddr().String()).Msg("subscriber disconnected")
}
