package models

import "time"

type User struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `gorm:"not null" json:"-"` // bcrypt hash
	Email    string `gorm:"uniqueIndex" json:"email"`
	Phone    string `json:"phone"`
	FCMToken string `json:"-"` // device token for push delivery
	IsOwner  bool   `gorm:"default:false" json:"is_owner"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
