package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client is one connected WebSocket consumer.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// hub fans published snapshots out to connected stream clients. Slow
// clients are dropped rather than allowed to stall the simulation side.
type hub struct {
	mu      sync.Mutex
	clients map[string]*client
}

func newHub() *hub {
	return &hub{clients: make(map[string]*client)}
}

func (h *hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, 8),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	slog.Info("stream client connected", "client", c.id)

	go h.writePump(c)
	go h.readPump(c)
}

// writePump pushes queued frames to one client until its channel closes.
func (h *hub) writePump(c *client) {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
	c.conn.Close()
}

// readPump discards inbound messages (the stream is one-way) and detects
// disconnects.
func (h *hub) readPump(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(c)
}

func (h *hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()
	slog.Info("stream client disconnected", "client", c.id)
}

// broadcast queues a snapshot frame for every connected client, dropping
// any client whose buffer is full.
func (h *hub) broadcast(snap Snapshot) {
	msg, err := json.Marshal(snap)
	if err != nil {
		slog.Debug("snapshot marshal failed", "error", err)
		return
	}

	h.mu.Lock()
	var stalled []*client
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			stalled = append(stalled, c)
		}
	}
	for _, c := range stalled {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()

	for _, c := range stalled {
		slog.Info("stream client dropped (slow consumer)", "client", c.id)
	}
}
