package dto

import (
	"time"

	"notifyhub/internal/microservices/http-api/models"
)

// SendNotificationRequest: payload for a direct send
type SendNotificationRequest struct {
	UserID       string                      `json:"user_id" binding:"required,uuid"`
	Category     models.NotificationCategory `json:"category" binding:"required"`
	Channel      models.NotificationChannel  `json:"channel" binding:"required,oneof=push email sms websocket"`
	Title        string                      `json:"title" binding:"required"`
	Body         string                      `json:"body" binding:"required"`
	Payload      map[string]any              `json:"payload"`
	Priority     models.NotificationPriority `json:"priority" binding:"omitempty,oneof=high medium low"`
	ScheduledFor *time.Time                  `json:"scheduled_for"`
	RelatedType  string                      `json:"related_type"`
	RelatedID    string                      `json:"related_id"`
}

// BulkSendRequest: one send fanned out to many users
type BulkSendRequest struct {
	UserIDs      []string                    `json:"user_ids" binding:"required,min=1"`
	Category     models.NotificationCategory `json:"category" binding:"required"`
	Channel      models.NotificationChannel  `json:"channel" binding:"required,oneof=push email sms websocket"`
	Title        string                      `json:"title" binding:"required"`
	Body         string                      `json:"body" binding:"required"`
	Payload      map[string]any              `json:"payload"`
	Priority     models.NotificationPriority `json:"priority" binding:"omitempty,oneof=high medium low"`
	ScheduledFor *time.Time                  `json:"scheduled_for"`
}

// TemplateSendRequest: send rendered from a stored template
type TemplateSendRequest struct {
	UserID       string                      `json:"user_id" binding:"required,uuid"`
	TemplateName string                      `json:"template_name" binding:"required"`
	Channel      models.NotificationChannel  `json:"channel" binding:"required,oneof=push email sms websocket"`
	Context      map[string]any              `json:"context"`
	Payload      map[string]any              `json:"payload"`
	Priority     models.NotificationPriority `json:"priority" binding:"omitempty,oneof=high medium low"`
	ScheduledFor *time.Time                  `json:"scheduled_for"`
}

// SendResponse: boolean outcome of a send request
type SendResponse struct {
	Accepted bool `json:"accepted"`
}

// NotificationListResponse: page of a user's notifications
type NotificationListResponse struct {
	Items []models.Notification `json:"items"`
	Total int                   `json:"total"`
}

// UnreadCountResponse: count of sent/delivered notifications
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
