package notifications

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub tracks which websocket connections belong to which user. It is
// process-scoped state with an explicit lifecycle: connections are added on
// upgrade and removed when the read loop ends.
type Hub struct {
	mu    sync.RWMutex
	conns map[uint]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{conns: make(map[uint]map[*websocket.Conn]bool)}
}

func (h *Hub) Register(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*websocket.Conn]bool)
	}
	h.conns[userID][conn] = true
}

func (h *Hub) Unregister(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.conns[userID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.conns, userID)
		}
	}
}

// SendToUser pushes a JSON frame to every open connection of a user.
// Returns false when the user has no open connection.
func (h *Hub) SendToUser(userID uint, payload interface{}) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		return false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	set, ok := h.conns[userID]
	if !ok || len(set) == 0 {
		return false
	}
	for conn := range set {
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}
	return true
}

// Connected reports whether a user currently has an open connection.
func (h *Hub) Connected(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID]) > 0
}

// ServeWS upgrades the request and parks it in the hub until the client
// disconnects. The route is JWT-protected, so user_id is in the context.
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		hub.Register(userID, conn)
		defer func() {
			hub.Unregister(userID, conn)
			conn.Close()
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}
