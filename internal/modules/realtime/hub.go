package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"realtyflow/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

// client is one websocket subscriber. projectID narrows the feed to a single
// project when set.
type client struct {
	userID    string
	projectID string
	conn      *websocket.Conn
	send      chan []byte
}

// Hub fans unit events out to every connected inventory subscriber.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	loggerf func(format string, args ...interface{})
}

func NewHub(loggerf func(format string, args ...interface{})) *Hub {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		loggerf: loggerf,
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish broadcasts a unit event. A subscriber whose buffer is full is
// dropped instead of blocking the publisher.
func (h *Hub) Publish(event domain.UnitEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.loggerf("level=error msg=\"unit event encode failed\" type=%s err=%v", event.Type, err)
		return
	}

	var slow []*client
	h.mu.RLock()
	for c := range h.clients {
		if c.projectID != "" && c.projectID != event.ProjectID {
			continue
		}
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.loggerf("level=warn msg=\"dropping slow inventory subscriber\" user_id=%s", c.userID)
		h.unregister(c)
	}
}

// ServeWS registers the connection and blocks until it closes.
func (h *Hub) ServeWS(conn *websocket.Conn, userID, projectID string) {
	c := &client{
		userID:    userID,
		projectID: projectID,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
	}
	h.register(c)
	h.loggerf("level=info msg=\"inventory subscriber connected\" user_id=%s project_id=%s", userID, projectID)

	go h.writePump(c)
	h.readPump(c)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump only services control frames; the feed is one-way.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
		h.loggerf("level=info msg=\"inventory subscriber disconnected\" user_id=%s", c.userID)
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.loggerf("level=warn msg=\"inventory socket read failed\" user_id=%s err=%v", c.userID, err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
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
				h.unregister(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(c)
				return
			}
		}
	}
}
