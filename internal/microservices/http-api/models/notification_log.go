package models

import "time"

// NotificationLog is one append-only row per delivery attempt. Rows are never
// updated; they disappear only when their notification is cleaned up.
type NotificationLog struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	NotificationID string `gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE" json:"notification_id"`

	Attempt          int                `gorm:"not null" json:"attempt"` // 1-based
	Status           NotificationStatus `gorm:"not null" json:"status"`
	ProviderResponse string             `json:"provider_response,omitempty"`
	ErrorMessage     string             `json:"error_message,omitempty"`
	DurationMs       int64              `json:"duration_ms"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	Notification *Notification `gorm:"foreignKey:NotificationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (NotificationLog) TableName() string {
	return "notification_logs"
}
