package websocket

import (
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Hub fans alert events out to connected dashboard clients. A client may
// subscribe to a single field or to every field.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

type envelope struct {
	fieldID string
	payload []byte
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	// Field filter. Empty means all fields.
	fieldID string
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan envelope),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if client.fieldID != "" && client.fieldID != msg.fieldID {
					continue
				}
				select {
				case client.send <- msg.payload:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastAlert pushes one serialized alert event to every client watching
// the given field. Non-blocking for the caller.
func (h *Hub) BroadcastAlert(fieldID string, payload []byte) {
	h.broadcast <- envelope{fieldID: fieldID, payload: payload}
}

// AddClient registers a connection. fieldID narrows the stream to one field
// when non-empty.
func (h *Hub) AddClient(conn *websocket.Conn, fieldID string) {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 256), fieldID: fieldID}
	client.hub.register <- client

	go client.writePump()
	client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		// The stream is push-only; reads only drain control frames and
		// detect disconnects.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
