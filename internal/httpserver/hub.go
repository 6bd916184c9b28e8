package httpserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The Flash client has no Origin header to check.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsClient is one WebSocket connection. Writes are serialized through mu;
// broadcasts and the read loop's replies share the connection.
type wsClient struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub tracks WebSocket clients and routes their JSON messages.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*wsClient
	nextID  int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*wsClient)}
}

// Handle upgrades the request and runs the client's read loop.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "err", err, "remote", r.RemoteAddr)
		return
	}

	client := h.register(conn)
	defer h.unregister(client)

	slog.Info("websocket client connected", "client", client.id)

	if err := client.send(map[string]any{
		"type":      "welcome",
		"client_id": client.id,
		"message":   "Connected to RCC Server Emulator",
	}); err != nil {
		slog.Warn("failed to send welcome", "err", err, "client", client.id)
		return
	}

	for {
		var msg map[string]any
		if err := conn.ReadJSON(&msg); err != nil {
			slog.Info("websocket client disconnected", "client", client.id, "err", err)
			return
		}
		h.route(client, msg)
	}
}

func (h *Hub) register(conn *websocket.Conn) *wsClient {
	h.mu.Lock()
	defer h.mu.Unlock()
	client := &wsClient{id: fmt.Sprintf("client_%d", h.nextID), conn: conn}
	h.nextID++
	h.clients[client.id] = client
	return client
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()
	_ = c.conn.Close()
}

// route dispatches one message by its "type" field.
func (h *Hub) route(client *wsClient, msg map[string]any) {
	msgType, _ := msg["type"].(string)

	switch msgType {
	case "ping":
		_ = client.send(map[string]any{
			"type":      "pong",
			"timestamp": msg["timestamp"],
		})

	case "game_action":
		action, _ := msg["action"].(string)
		_ = client.send(map[string]any{
			"type":    "game_response",
			"action":  action,
			"success": true,
			"data":    map[string]any{"message": fmt.Sprintf("Action %s processed", action)},
		})

	case "chat":
		message, _ := msg["message"].(string)
		h.broadcast(map[string]any{
			"type":      "chat",
			"client_id": client.id,
			"message":   message,
		}, client.id)

	default:
		_ = client.send(map[string]any{
			"type":     "echo",
			"original": msg,
			"message":  fmt.Sprintf("Echoing message type: %s", msgType),
		})
	}
}

// broadcast sends a message to every client except excludeID.
func (h *Hub) broadcast(msg map[string]any, excludeID string) {
	h.mu.Lock()
	targets := make([]*wsClient, 0, len(h.clients))
	for id, c := range h.clients {
		if id != excludeID {
			targets = append(targets, c)
		}
	}
	h.mu.Unlock()

	for _, c := range targets {
		if err := c.send(msg); err != nil {
			slog.Warn("broadcast failed, dropping client", "client", c.id, "err", err)
			h.unregister(c)
		}
	}
}
