// Package realtime pushes group events to websocket subscribers.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32
)

// client owns one connection. Only its write pump writes to conn.
type client struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// Hub manages websocket connections per room.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[*client]struct{}
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewHub(allowedOrigins []string, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		rooms:  make(map[string]map[*client]struct{}),
		logger: logger.Named("ws"),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

func (h *Hub) register(room string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*client]struct{})
	}
	h.rooms[room][c] = struct{}{}
	h.logger.Debug("subscriber joined", zap.String("room", room), zap.String("user_id", c.userID), zap.Int("total", len(h.rooms[room])))
}

func (h *Hub) unregister(room string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.rooms[room]
	if !ok {
		return
	}
	if _, ok := conns[c]; !ok {
		return
	}
	delete(conns, c)
	close(c.send)
	if len(conns) == 0 {
		delete(h.rooms, room)
	}
	h.logger.Debug("subscriber left", zap.String("room", room), zap.String("user_id", c.userID), zap.Int("remaining", len(conns)))
}

// Subscribers reports how many connections listen on room.
func (h *Hub) Subscribers(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Broadcast queues event for every connection in room. A subscriber whose
// buffer is full misses the event.
func (h *Hub) Broadcast(room string, event domain.GroupEvent) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("broadcast marshal error", zap.String("type", event.Type), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.rooms[room]
	if !ok {
		return
	}
	for c := range conns {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("subscriber too slow, event dropped", zap.String("room", room), zap.String("user_id", c.userID))
		}
	}
}

// Serve upgrades the request and keeps the connection in room until the peer
// goes away. Messages from the peer are read only to keep the connection alive.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, room, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{conn: conn, userID: userID, send: make(chan []byte, sendBuffer)}
	h.register(room, c)

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.writePump()
	}()

	c.readPump()
	h.unregister(room, c)
	<-done
	return nil
}

func (c *client) readPump() {
	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, conns := range h.rooms {
		for c := range conns {
			close(c.send)
		}
		delete(h.rooms, room)
	}
}
