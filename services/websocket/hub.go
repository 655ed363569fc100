package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	fiberws "github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mutex sync.RWMutex
}

// Client is one websocket connection bound to a user.
type Client struct {
	hub    *Hub
	send   chan []byte
	userID uint
}

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("WebSocket client connected. User ID: %d", client.userID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			log.Printf("WebSocket client disconnected. User ID: %d", client.userID)

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// BroadcastToUser sends a message to all connections for a specific user
func (h *Hub) BroadcastToUser(userID uint, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling WebSocket message: %v", err)
		return
	}

	h.mutex.RLock()
	for client := range h.clients {
		if client.userID == userID {
			select {
			case client.send <- data:
			default:
				// A blocked send channel means a dead peer.
				close(client.send)
				delete(h.clients, client)
			}
		}
	}
	h.mutex.RUnlock()
}

// Broadcast sends a message to all connected clients
func (h *Hub) Broadcast(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling WebSocket message: %v", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		log.Println("Broadcast channel is full")
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// ServeFiberWS handles Fiber websocket connections
func (h *Hub) ServeFiberWS(c *fiberws.Conn, userID uint) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ServeFiberWS panic for user %d: %v", userID, r)
		}
	}()

	client := &Client{
		hub:    h,
		send:   make(chan []byte, 256),
		userID: userID,
	}

	h.register <- client

	// Write pump runs in its own goroutine; the read pump stays on this
	// goroutine so the connection is never shared across goroutines.
	go h.writePump(client, c)
	h.readPump(client, c)
}

func (h *Hub) writePump(client *Client, c *fiberws.Conn) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("writePump panic for user %d: %v", client.userID, r)
		}
		h.unregister <- client
		c.Close()
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			c.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.WriteMessage(fiberws.CloseMessage, []byte{})
				return
			}
			if err := c.WriteMessage(fiberws.TextMessage, message); err != nil {
				log.Printf("WebSocket write error for user %d: %v", client.userID, err)
				return
			}

		case <-ticker.C:
			c.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.WriteMessage(fiberws.PingMessage, nil); err != nil {
				log.Printf("WebSocket ping error for user %d: %v", client.userID, err)
				return
			}
		}
	}
}

func (h *Hub) readPump(client *Client, c *fiberws.Conn) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("readPump panic for user %d: %v", client.userID, r)
		}
		h.unregister <- client
		c.Close()
	}()

	c.SetReadLimit(maxMessageSize)
	c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		c.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// The server only pushes; inbound frames are drained for pings.
		if _, _, err := c.ReadMessage(); err != nil {
			if fiberws.IsUnexpectedCloseError(err, fiberws.CloseGoingAway, fiberws.CloseAbnormalClosure) {
				log.Printf("WebSocket unexpected close for user %d: %v", client.userID, err)
			}
			break
		}
	}
}
