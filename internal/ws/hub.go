package ws

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/socio-irdl/socio/backend/internal/models"
)

// client pairs a socket with the mutex serializing writes to it. gorilla
// forbids concurrent calls to a connection's write methods.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(event)
}

// Hub tracks connected chat users and delivers events to them. It is
// process-wide state with an explicit connect/disconnect lifecycle: a user
// is online while their socket is registered and goes offline when the read
// loop ends for any reason.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*client
	upgrader websocket.Upgrader
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Event is the envelope pushed over the socket
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Serve upgrades the request and keeps the connection registered until it
// closes. The authenticated username comes from the JWT middleware.
func (h *Hub) Serve(c echo.Context) error {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	cl := h.register(claims.Username, conn)
	defer h.unregister(claims.Username, cl)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

func (h *Hub) register(username string, conn *websocket.Conn) *client {
	cl := &client{conn: conn}
	h.mu.Lock()
	if old, ok := h.clients[username]; ok {
		old.conn.Close()
	}
	h.clients[username] = cl
	h.mu.Unlock()

	log.Debug().Str("username", username).Msg("Chat socket connected.")
	h.broadcastPresence()
	return cl
}

// unregister drops cl only while it still owns the map entry. When a
// reconnect has already replaced it, the stale read loop's deferred call
// must leave the new connection alone.
func (h *Hub) unregister(username string, cl *client) {
	h.mu.Lock()
	current, ok := h.clients[username]
	if !ok || current != cl {
		h.mu.Unlock()
		return
	}
	current.conn.Close()
	delete(h.clients, username)
	h.mu.Unlock()

	log.Debug().Str("username", username).Msg("Chat socket disconnected.")
	h.broadcastPresence()
}

// IsOnline reports whether username currently has a registered socket
func (h *Hub) IsOnline(username string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[username]
	return ok
}

// Online returns the usernames of all connected users
func (h *Hub) Online() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	users := make([]string, 0, len(h.clients))
	for username := range h.clients {
		users = append(users, username)
	}
	return users
}

// Send delivers an event to one user if they are online, reporting whether
// delivery was attempted
func (h *Hub) Send(username string, event Event) bool {
	h.mu.RLock()
	cl, ok := h.clients[username]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	if err := cl.write(event); err != nil {
		log.Debug().Err(err).Str("username", username).Msg("Chat socket write failed.")
		return false
	}
	return true
}

func (h *Hub) broadcastPresence() {
	online := h.Online()
	event := Event{Type: "presence", Payload: online}
	for _, username := range online {
		h.Send(username, event)
	}
}
