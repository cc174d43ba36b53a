package websocket

import (
	"fmt"
	"sync"

	"github.com/Yuji-2251/expert-assistant/utils/log"
)

// Hub tracks connected clients. The run goroutine owns registration, but the
// exchange listener and monitoring read the client set from other goroutines,
// so the map is guarded by a lock.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	go h.run()
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.WithCtx(client.ctx).Debug("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client]
			delete(h.clients, client)
			h.mu.Unlock()
			if ok {
				client.Close()
				log.WithCtx(client.ctx).Debug("client unregistered")
			}
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// SendToSession delivers a message to every open socket of one session. A
// session with no sockets is not an error; the page may be HTTP-only.
func (h *Hub) SendToSession(sessionID string, message []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client.sessionID == sessionID && !client.IsClosed() {
			if err := client.SendMessage(message); err != nil {
				return fmt.Errorf("sending to session %s: %w", sessionID, err)
			}
		}
	}
	return nil
}

// IsSessionConnected checks whether a session has at least one open socket.
func (h *Hub) IsSessionConnected(sessionID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client.sessionID == sessionID && !client.IsClosed() {
			return true
		}
	}
	return false
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
