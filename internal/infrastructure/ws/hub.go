// Package ws pushes periodic status snapshots to WebSocket clients.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/kaspazof/kaspazof-api/internal/core/ports"
	"github.com/kaspazof/kaspazof-api/internal/infrastructure/metrics"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxMessageSize  = 4096
	sendBuffer      = 16
	snapshotTimeout = 10 * time.Second

	DefaultPushInterval = 30 * time.Second
)

// Message is the frame pushed to every client.
type Message struct {
	Type string       `json:"type"`
	Data StatusUpdate `json:"data"`
}

// StatusUpdate fields are nil when the corresponding source failed.
type StatusUpdate struct {
	Timestamp  time.Time `json:"timestamp"`
	KaspaPrice *float64  `json:"kaspa_price"`
	NodeStatus *string   `json:"node_status"`
	BlockCount *uint64   `json:"block_count"`
}

type Hub struct {
	prices   ports.PriceService
	node     ports.NodeService
	interval time.Duration
	logger   *logrus.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*client
}

// NewHub builds a hub. allowedOrigins restricts the upgrade; "*" or an empty list accepts any origin.
func NewHub(prices ports.PriceService, node ports.NodeService, interval time.Duration, allowedOrigins []string, logger *logrus.Logger) *Hub {
	if interval <= 0 {
		interval = DefaultPushInterval
	}
	h := &Hub{
		prices:   prices,
		node:     node,
		interval: interval,
		logger:   logger,
		clients:  make(map[string]*client),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(set) == 0 {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// ServeHTTP upgrades the request, sends one snapshot right away, then keeps the client
// registered until it disconnects or a write fails.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if h.logger != nil {
			h.logger.WithError(err).Warn("websocket upgrade failed")
		}
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	h.register(c)

	if msg, err := h.encode(h.Snapshot(r.Context())); err == nil {
		c.send <- msg
	}

	go c.writePump(h)
	c.readPump(h)
}

// Run pushes a snapshot every interval until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-ticker.C:
			if h.Len() == 0 {
				continue
			}
			msg, err := h.encode(h.Snapshot(ctx))
			if err != nil {
				continue
			}
			h.Broadcast(msg)
		}
	}
}

// Snapshot assembles one status update from the price and node services.
func (h *Hub) Snapshot(ctx context.Context) Message {
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	upd := StatusUpdate{Timestamp: time.Now().UTC()}
	if h.prices != nil {
		if rec, err := h.prices.GetPrice(ctx); err == nil {
			usd := rec.USD
			upd.KaspaPrice = &usd
		}
	}
	if h.node != nil {
		if info, err := h.node.GetNodeInfo(ctx); err == nil {
			status := "syncing"
			if info.IsSynced {
				status = "synced"
			}
			blocks := info.BlockCount
			upd.NodeStatus = &status
			upd.BlockCount = &blocks
		}
	}
	return Message{Type: "status_update", Data: upd}
}

// Broadcast queues msg for every client. A client whose queue is full is dropped.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	var stale []*client
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			stale = append(stale, c)
		}
	}
	h.mu.Unlock()

	for _, c := range stale {
		h.unregister(c)
	}
}

// Len returns the number of registered clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) encode(m Message) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil && h.logger != nil {
		h.logger.WithError(err).Error("failed to encode status update")
	}
	return b, err
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()
	metrics.SetWSConnections(n)
	if h.logger != nil {
		h.logger.WithFields(logrus.Fields{"client_id": c.id, "total": n}).Info("websocket connected")
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	n := len(h.clients)
	h.mu.Unlock()
	c.close()
	if !ok {
		return
	}
	metrics.SetWSConnections(n)
	if h.logger != nil {
		h.logger.WithFields(logrus.Fields{"client_id": c.id, "total": n}).Info("websocket disconnected")
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	for _, c := range clients {
		h.unregister(c)
	}
}

type client struct {
	id        string
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// readPump discards inbound frames; it only exists to process control frames and notice disconnects.
func (c *client) readPump(h *Hub) {
	defer h.unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && h.logger != nil {
				h.logger.WithField("client_id", c.id).WithError(err).Debug("websocket read error")
			}
			return
		}
	}
}

func (c *client) writePump(h *Hub) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.unregister(c)
	}()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				if h.logger != nil {
					h.logger.WithField("client_id", c.id).WithError(err).Warn("websocket write failed; dropping client")
				}
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
