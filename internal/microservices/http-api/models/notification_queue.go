package models

import "time"

// NotificationQueueEntry is the work-list row for a pending notification,
// at most one live entry per notification. IsProcessing is true only while a
// worker holds the claim; a crashed worker leaves it true until the entry
// goes stale and becomes claimable again.
type NotificationQueueEntry struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	NotificationID string `gorm:"type:uuid;not null;uniqueIndex" json:"notification_id"`

	Priority     int       `gorm:"not null;index" json:"priority"` // higher = more urgent
	ScheduledFor time.Time `gorm:"not null;index" json:"scheduled_for"`

	IsProcessing        bool       `gorm:"default:false" json:"is_processing"`
	ProcessingStartedAt *time.Time `json:"processing_started_at,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	Notification *Notification `gorm:"foreignKey:NotificationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (NotificationQueueEntry) TableName() string {
	return "notification_queue"
}
