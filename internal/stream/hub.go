// Package stream pushes realtime collection snapshots to dashboard
// clients over WebSockets. Clients subscribe to collections and receive
// the full collection state whenever the backend signals a change.
package stream

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ortocare/clinic-platform/internal/realtime"
	"github.com/ortocare/clinic-platform/pkg/logging"
)

// Event is one message pushed to a WebSocket client.
type Event struct {
	Type       string            `json:"type"`
	Collection string            `json:"collection"`
	Timestamp  time.Time         `json:"timestamp"`
	Records    []realtime.Record `json:"records,omitempty"`
}

// ClientMessage is an inbound subscription command.
type ClientMessage struct {
	Action      string   `json:"action"`
	Collections []string `json:"collections"`
}

// Client represents a single WebSocket connection.
type Client struct {
	ID          string
	Collections []string
	Send        chan []byte
}

// Hub tracks connected clients and their collection subscriptions, and
// remembers the latest snapshot per collection so a new subscriber gets
// current state immediately instead of waiting for the next change.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{} // collection -> subscribers
	all     map[*Client]struct{}
	latest  map[string][]byte // collection -> marshaled snapshot event

	logger *logging.Logger
	unsubs []realtime.Unsubscribe
}

// NewHub creates an empty hub.
func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		all:     make(map[*Client]struct{}),
		latest:  make(map[string][]byte),
		logger:  logger,
	}
}

// AttachBridge subscribes the hub to every synced collection. Snapshots
// arriving from the bridge are fanned out to subscribed clients. Safe
// to call against an unconfigured bridge.
func (h *Hub) AttachBridge(ctx context.Context, bridge *realtime.Bridge) error {
	if bridge == nil {
		return nil
	}
	for _, collection := range realtime.Collections {
		collection := collection
		unsub, err := bridge.Subscribe(ctx, collection, func(records []realtime.Record) {
			h.broadcastSnapshot(collection, records)
		})
		if err != nil {
			h.DetachBridge()
			return err
		}
		h.unsubs = append(h.unsubs, unsub)
	}
	return nil
}

// DetachBridge cancels the bridge subscriptions.
func (h *Hub) DetachBridge() {
	for _, unsub := range h.unsubs {
		unsub()
	}
	h.unsubs = nil
}

// Register adds a client and replays the cached snapshots of its
// initial collections.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.all[client] = struct{}{}
	for _, collection := range client.Collections {
		h.subscribeLocked(client, collection)
	}
}

// Unregister removes a client from the hub and closes its Send channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; !ok {
		return
	}
	for _, collection := range client.Collections {
		if subs, ok := h.clients[collection]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.clients, collection)
			}
		}
	}
	delete(h.all, client)
	close(client.Send)
}

// ProcessMessage dispatches an inbound subscribe/unsubscribe command.
func (h *Hub) ProcessMessage(client *Client, msg ClientMessage) {
	switch msg.Action {
	case "subscribe":
		h.Subscribe(client, msg.Collections)
	case "unsubscribe":
		h.Unsubscribe(client, msg.Collections)
	}
}

// Subscribe adds collections to an already-registered client.
func (h *Hub) Subscribe(client *Client, collections []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, collection := range collections {
		h.subscribeLocked(client, collection)
		client.Collections = append(client.Collections, collection)
	}
}

// Unsubscribe removes collections from an already-registered client.
func (h *Hub) Unsubscribe(client *Client, collections []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	removeSet := make(map[string]struct{}, len(collections))
	for _, c := range collections {
		removeSet[c] = struct{}{}
		if subs, ok := h.clients[c]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.clients, c)
			}
		}
	}

	remaining := make([]string, 0, len(client.Collections))
	for _, c := range client.Collections {
		if _, rm := removeSet[c]; !rm {
			remaining = append(remaining, c)
		}
	}
	client.Collections = remaining
}

// ClientCount returns the total number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

// CollectionCount returns the number of clients subscribed to a collection.
func (h *Hub) CollectionCount(collection string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[collection])
}

func (h *Hub) subscribeLocked(client *Client, collection string) {
	if h.clients[collection] == nil {
		h.clients[collection] = make(map[*Client]struct{})
	}
	h.clients[collection][client] = struct{}{}

	if cached, ok := h.latest[collection]; ok {
		select {
		case client.Send <- cached:
		default:
		}
	}
}

func (h *Hub) broadcastSnapshot(collection string, records []realtime.Record) {
	event := Event{
		Type:       "snapshot",
		Collection: collection,
		Timestamp:  time.Now().UTC(),
		Records:    records,
	}
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal snapshot event", "collection", collection, "error", err)
		return
	}

	// Sends happen under the lock: Unregister closes Send under the same
	// lock, so a send can never land on a closed channel. The sends are
	// non-blocking, so the lock is never held waiting on a slow client.
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest[collection] = data
	for client := range h.clients[collection] {
		select {
		case client.Send <- data:
		default:
			// Client buffer full; skip to avoid blocking the bridge.
		}
	}
}
