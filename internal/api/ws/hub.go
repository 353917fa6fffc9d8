// Package ws carries matchmaking events over websocket connections.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/mcoot/wordduel/internal/api/apierr"
	"github.com/mcoot/wordduel/internal/api/middleware"
	"github.com/mcoot/wordduel/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Matchmaker is the game side of a connection
type Matchmaker interface {
	Join(conn model.ConnectionID, user model.PlayerID) (model.JoinOutcome, error)
	SubmitWord(conn model.ConnectionID, room model.RoomID, raw string) model.SubmitResult
	OnDisconnect(conn model.ConnectionID)
}

// Config holds websocket settings
type Config struct {
	// RatePerSec and Burst bound inbound frames per connection
	RatePerSec float64
	Burst      int
	// SendBuffer is the number of outbound frames queued per connection
	SendBuffer int
	// AllowedOrigins lists accepted Origin headers. Empty means same host only.
	AllowedOrigins []string
}

// DefaultConfig returns default websocket configuration
func DefaultConfig() Config {
	return Config{
		RatePerSec: 10,
		Burst:      20,
		SendBuffer: 64,
	}
}

// Envelope is the frame format in both directions
type Envelope struct {
	Event model.EventType `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Event model.EventType `json:"event"`
	Data  any             `json:"data"`
}

// Hub tracks live connections and delivers events to them
type Hub struct {
	cfg      Config
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mm Matchmaker

	mu      sync.RWMutex
	clients map[model.ConnectionID]*client
	closed  bool
	wg      sync.WaitGroup
}

// NewHub creates a hub. Attach must be called before serving.
func NewHub(cfg Config, logger *slog.Logger) *Hub {
	defaults := DefaultConfig()
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = defaults.RatePerSec
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaults.Burst
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = defaults.SendBuffer
	}

	h := &Hub{
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "ws")),
		clients: make(map[model.ConnectionID]*client),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if len(cfg.AllowedOrigins) > 0 {
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(cfg.AllowedOrigins, origin)
		}
	}
	return h
}

// Attach sets the matchmaker that inbound events are routed to
func (h *Hub) Attach(mm Matchmaker) {
	h.mm = mm
}

// Send queues an event for conn without blocking. Events for unknown
// connections are dropped. A connection whose buffer is full is closed.
func (h *Hub) Send(conn model.ConnectionID, event model.EventType, payload any) {
	h.mu.RLock()
	c, ok := h.clients[conn]
	h.mu.RUnlock()
	if !ok {
		h.logger.Debug("event for unknown connection dropped",
			slog.String("conn", string(conn)),
			slog.String("event", string(event)),
		)
		return
	}

	msg, err := json.Marshal(outbound{Event: event, Data: payload})
	if err != nil {
		h.logger.Error("failed to encode event",
			slog.String("event", string(event)),
			slog.String("error", err.Error()),
		)
		return
	}
	c.enqueue(msg)
}

// ServeWS upgrades an authenticated request and starts the connection pumps
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		apierr.WriteError(w, model.ErrShuttingDown)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &client{
		id:      model.ConnectionID("conn_" + uuid.NewString()),
		user:    player.ID,
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, h.cfg.SendBuffer),
		done:    make(chan struct{}),
		drain:   make(chan struct{}),
		limiter: rate.NewLimiter(rate.Limit(h.cfg.RatePerSec), h.cfg.Burst),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c.id] = c
	h.wg.Add(1)
	h.mu.Unlock()

	h.logger.Info("client connected",
		slog.String("conn", string(c.id)),
		slog.String("user", string(c.user)),
	)

	go c.writePump()
	go c.readPump()
}

// unregister runs once per connection, after its read pump exits
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()

	if h.mm != nil {
		h.mm.OnDisconnect(c.id)
	}
	h.logger.Info("client disconnected", slog.String("conn", string(c.id)))
	h.wg.Done()
}

// Len returns the number of live connections
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close stops accepting connections, flushes queued events to every client
// and closes them. It waits for all connections to finish or ctx to end.
func (h *Hub) Close(ctx context.Context) error {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.stop()
	}

	finished := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		for _, c := range clients {
			c.close()
		}
		return ctx.Err()
	}
}
