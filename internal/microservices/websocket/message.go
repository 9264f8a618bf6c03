package websocket

import (
	"encoding/json"
	"log/slog"
	"time"

	"notifyhub/internal/microservices/http-api/models"
)

// Wire protocol for the real-time channel. Every server→client event carries
// a type and a timestamp; client→server messages carry a type and, for
// mark_as_read, the notification id.

type MessageType string

const ( // client → server
	TypePing           MessageType = "ping"
	TypeMarkAsRead     MessageType = "mark_as_read"
	TypeGetUnreadCount MessageType = "get_unread_count"
)

const ( // server → client
	TypeConnectionEstablished MessageType = "connection_established"
	TypePong                  MessageType = "pong"
	TypeUnreadCount           MessageType = "unread_count"
)

// ClientMessage is what a connected client sends us
type ClientMessage struct {
	Type           MessageType `json:"type"`
	NotificationID string      `json:"notification_id,omitempty"`
}

// Event is the generic server→client envelope
type Event struct {
	Type      MessageType `json:"type"`
	UserID    string      `json:"user_id,omitempty"`
	Count     *int64      `json:"count,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NotificationEvent is the push of a dispatched notification to a live client.
// Its "type" field carries the business category, not a protocol message type.
type NotificationEvent struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func NewConnectionEstablished(userID string) *Event {
	return &Event{
		Type:      TypeConnectionEstablished,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}
}

func NewPong() *Event {
	return &Event{
		Type:      TypePong,
		Timestamp: time.Now().UTC(),
	}
}

func NewUnreadCount(count int64) *Event {
	return &Event{
		Type:      TypeUnreadCount,
		Count:     &count,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotificationEvent(n *models.Notification) *NotificationEvent {
	return &NotificationEvent{
		ID:        n.ID,
		Type:      string(n.Category),
		Title:     n.Title,
		Body:      n.Body,
		Data:      n.Payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON: marshal Event struct to JSON
func (e *Event) ToJSON() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		slog.Error("Failed to marshal event to JSON", "error", err)
		return nil, err
	}
	return data, nil
}

func (e *NotificationEvent) ToJSON() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		slog.Error("Failed to marshal notification event to JSON", "error", err)
		return nil, err
	}
	return data, nil
}

// ClientMessageFromJSON: unmarshal JSON data to ClientMessage struct
func ClientMessageFromJSON(data []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
