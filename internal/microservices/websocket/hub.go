package websocket

import (
	"log/slog"
	"sync"

	"notifyhub/internal/microservices/http-api/models"
)

// Central hub managing all connections and groups.
// Each WebSocket connection runs in its own goroutine; the hub only touches
// the registry under its lock and never blocks on a slow client (events are
// dropped when a client's send buffer is full).

const OwnersGroup = "owners"

// GroupForUser returns the per-user fan-out group id
func GroupForUser(userID string) string {
	return "user_" + userID
}

type Hub struct {
	groups map[string]map[*Client]bool // map[groupID] -> set of clients
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		groups: make(map[string]map[*Client]bool),
		logger: logger,
	}
}

// Register adds the client to its user group, and to the owners broadcast
// group when the user is a marketplace owner.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.addToGroup(GroupForUser(c.UserID), c)
	if c.IsOwner {
		h.addToGroup(OwnersGroup, c)
	}
	h.logger.Info("client registered", "client_id", c.ID, "user_id", c.UserID, "owner", c.IsOwner)
}

// Unregister removes the client from every group it was added to and
// closes its outbound channel so the write pump drains and exits.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	for groupID, clients := range h.groups {
		if clients[c] {
			delete(clients, c)
			if len(clients) == 0 {
				delete(h.groups, groupID)
			}
		}
	}
	h.mu.Unlock()

	c.Close()
	h.logger.Info("client unregistered", "client_id", c.ID, "user_id", c.UserID)
}

func (h *Hub) addToGroup(groupID string, c *Client) {
	if h.groups[groupID] == nil {
		h.groups[groupID] = make(map[*Client]bool)
	}
	h.groups[groupID][c] = true
}

// Publish fans data out to every client in the group. Returns true once the
// event has been accepted, whether or not anyone is currently connected.
func (h *Hub) Publish(groupID string, data []byte) bool {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.groups[groupID]))
	for c := range h.groups[groupID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Enqueue(data)
	}
	return true
}

// SendNotification pushes a dispatched notification to the user's live
// connections as a JSON event.
func (h *Hub) SendNotification(userID string, n *models.Notification) bool {
	data, err := NewNotificationEvent(n).ToJSON()
	if err != nil {
		return false
	}
	return h.Publish(GroupForUser(userID), data)
}

// BroadcastToOwners pushes an event to every connected marketplace owner
func (h *Hub) BroadcastToOwners(n *models.Notification) bool {
	data, err := NewNotificationEvent(n).ToJSON()
	if err != nil {
		return false
	}
	return h.Publish(OwnersGroup, data)
}

// ConnectionCount returns the number of live connections in a group
func (h *Hub) ConnectionCount(groupID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[groupID])
}
