package stream

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ortocare/clinic-platform/internal/realtime"
	"github.com/ortocare/clinic-platform/pkg/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS middleware gates the upgrade request itself.
	},
}

// Handler upgrades dashboard connections and pumps hub events to them.
type Handler struct {
	hub    *Hub
	logger *logging.Logger
}

// NewHandler creates a stream handler bound to the given hub.
func NewHandler(hub *Hub, logger *logging.Logger) *Handler {
	if hub == nil {
		panic("stream: hub cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{hub: hub, logger: logger}
}

// Connect upgrades the request to a WebSocket, registers the client
// subscribed to every collection, and starts the read/write pumps.
// GET /stream
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		ID:          uuid.NewString(),
		Collections: collectionsParam(r),
		Send:        make(chan []byte, 256),
	}
	h.hub.Register(client)
	h.logger.Info("stream client connected", "client_id", client.ID, "collections", client.Collections)

	go h.writePump(client, ws)
	go h.readPump(client, ws)
}

// collectionsParam reads the optional ?collections= filter (repeated
// params). Without it the client gets every synced collection.
func collectionsParam(r *http.Request) []string {
	if raw := r.URL.Query()["collections"]; len(raw) > 0 {
		return raw
	}
	return append([]string(nil), realtime.Collections...)
}

func (h *Handler) readPump(client *Client, ws *websocket.Conn) {
	defer func() {
		h.hub.Unregister(client)
		ws.Close()
		h.logger.Info("stream client disconnected", "client_id", client.ID)
	}()

	for {
		_, message, err := ws.ReadMessage()
		if err != nil {
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue // Ignore malformed messages.
		}
		h.hub.ProcessMessage(client, msg)
	}
}

func (h *Handler) writePump(client *Client, ws *websocket.Conn) {
	defer ws.Close()

	for message := range client.Send {
		if err := ws.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
}
