package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans events out to connected admin dashboards
type Hub struct {
	admins map[*Connection]struct{}
	mu     sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *Message
}

// Connection represents a WebSocket connection
type Connection struct {
	AdminID string
	Send    chan []byte
	Hub     *Hub
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		admins:     make(map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *Message, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.admins[conn] = struct{}{}
			h.mu.Unlock()
			log.Printf("Admin %s connected to live feed", conn.AdminID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.admins[conn]; ok {
				delete(h.admins, conn)
				close(conn.Send)
				log.Printf("Admin %s disconnected from live feed", conn.AdminID)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, _ := json.Marshal(msg)
			h.mu.RLock()
			for conn := range h.admins {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Count returns the number of connected admins
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.admins)
}

// BroadcastToAdmins queues an event for every admin (implements service.Broadcaster).
// It never blocks the caller; events are dropped when the queue is full.
func (h *Hub) BroadcastToAdmins(msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("WebSocket payload marshal error: %v", err)
		return
	}
	select {
	case h.broadcast <- &Message{Type: msgType, Payload: data}:
	default:
		log.Printf("WebSocket broadcast queue full, dropped %s", msgType)
	}
}
