package models

import "time"

// NotificationTemplate holds a reusable message with {{name}} placeholders,
// looked up by (name, channel) at dispatch time. Administrators own these rows;
// the dispatch path only reads them.
type NotificationTemplate struct {
	ID       uint                 `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string               `gorm:"not null;uniqueIndex:idx_template_name_channel" json:"name"`
	Category NotificationCategory `gorm:"not null" json:"category"`
	Channel  NotificationChannel  `gorm:"not null;uniqueIndex:idx_template_name_channel" json:"channel"`

	Subject   string   `json:"subject"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Variables []string `gorm:"serializer:json" json:"variables"`
	IsActive  bool     `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (NotificationTemplate) TableName() string {
	return "notification_templates"
}
