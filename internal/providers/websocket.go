package providers

import (
	"context"
	"fmt"

	"notifyhub/internal/microservices/http-api/models"
)

// NotificationPublisher is the slice of the real-time hub this adapter needs
type NotificationPublisher interface {
	SendNotification(userID string, n *models.Notification) bool
	BroadcastToOwners(n *models.Notification) bool
}

// WebSocketProvider publishes to the user's live-connection group. Success
// means the fan-out layer accepted the event; whether a client is actually
// connected right now is deliberately not checked.
type WebSocketProvider struct {
	publisher NotificationPublisher
}

func NewWebSocketProvider(publisher NotificationPublisher) *WebSocketProvider {
	return &WebSocketProvider{publisher: publisher}
}

func (p *WebSocketProvider) Send(ctx context.Context, n *models.Notification, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !p.publisher.SendNotification(user.ID, n) {
		return fmt.Errorf("fan-out layer rejected event for user %s", user.ID)
	}
	// Maintenance notices concern the whole platform, so every connected
	// owner sees them regardless of who the notification is addressed to.
	if n.Category == models.CategorySystemMaintenance {
		p.publisher.BroadcastToOwners(n)
	}
	return nil
}
