// Package ws tracks connected driver websockets and pushes booking
// notifications to them.
package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Message is the wire format pushed to drivers.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Hub maintains one connection per driver. A reconnect replaces the old
// connection.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*conn
}

type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[string]*conn)}
}

// Register attaches a driver's connection, closing any previous one.
func (h *Hub) Register(driverID string, ws *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.conns[driverID]; ok {
		existing.ws.Close()
	}
	h.conns[driverID] = &conn{ws: ws}
}

// Unregister drops the driver's connection if it is still the current one.
func (h *Hub) Unregister(driverID string, ws *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.conns[driverID]; ok && existing.ws == ws {
		delete(h.conns, driverID)
	}
}

// SendToDriver pushes a message to one driver; unknown or dead connections
// are dropped silently.
func (h *Hub) SendToDriver(driverID string, msg Message) {
	h.mu.RLock()
	c, ok := h.conns[driverID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if err := c.send(msg); err != nil {
		log.Printf("ws: send to driver %s: %v", driverID, err)
		h.Unregister(driverID, c.ws)
	}
}

// Broadcast pushes a message to every connected driver.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	targets := make(map[string]*conn, len(h.conns))
	for id, c := range h.conns {
		targets[id] = c
	}
	h.mu.RUnlock()

	for id, c := range targets {
		if err := c.send(msg); err != nil {
			log.Printf("ws: broadcast to driver %s: %v", id, err)
			h.Unregister(id, c.ws)
		}
	}
}

func (c *conn) send(msg Message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, raw)
}
