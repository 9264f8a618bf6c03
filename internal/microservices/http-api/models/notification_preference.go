package models

import (
	"fmt"
	"time"
)

// NotificationPreference is one row per user, lazily created with all-defaults
// on the first dispatch attempt. The websocket channel has no opt-out flags:
// in-app delivery is always allowed outside quiet hours.
type NotificationPreference struct {
	UserID string `gorm:"type:uuid;primaryKey" json:"user_id"`

	// Per-channel global switches
	PushEnabled  bool `gorm:"default:true" json:"push_enabled"`
	EmailEnabled bool `gorm:"default:true" json:"email_enabled"`
	SMSEnabled   bool `gorm:"default:true" json:"sms_enabled"`

	// Per-channel, per-group sub-switches
	PushOrders     bool `gorm:"default:true" json:"push_orders"`
	PushMessages   bool `gorm:"default:true" json:"push_messages"`
	PushMarketing  bool `gorm:"default:true" json:"push_marketing"`
	PushSystem     bool `gorm:"default:true" json:"push_system"`
	EmailOrders    bool `gorm:"default:true" json:"email_orders"`
	EmailMessages  bool `gorm:"default:true" json:"email_messages"`
	EmailMarketing bool `gorm:"default:true" json:"email_marketing"`
	EmailSystem    bool `gorm:"default:true" json:"email_system"`
	SMSOrders      bool `gorm:"default:true" json:"sms_orders"`
	SMSMessages    bool `gorm:"default:true" json:"sms_messages"`
	SMSMarketing   bool `gorm:"default:true" json:"sms_marketing"`
	SMSSystem      bool `gorm:"default:true" json:"sms_system"`

	// Quiet hours, "HH:MM" local to Timezone; either both set or both empty
	QuietHoursStart string `json:"quiet_hours_start"`
	QuietHoursEnd   string `json:"quiet_hours_end"`
	Timezone        string `gorm:"default:UTC" json:"timezone"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (NotificationPreference) TableName() string {
	return "notification_preferences"
}

// DefaultPreference returns the all-enabled preference used on lazy creation
func DefaultPreference(userID string) *NotificationPreference {
	return &NotificationPreference{
		UserID:         userID,
		PushEnabled:    true,
		EmailEnabled:   true,
		SMSEnabled:     true,
		PushOrders:     true,
		PushMessages:   true,
		PushMarketing:  true,
		PushSystem:     true,
		EmailOrders:    true,
		EmailMessages:  true,
		EmailMarketing: true,
		EmailSystem:    true,
		SMSOrders:      true,
		SMSMessages:    true,
		SMSMarketing:   true,
		SMSSystem:      true,
		Timezone:       "UTC",
	}
}

// ChannelEnabled reports whether the channel's global switch is on.
// Websocket delivery has no switch and is always allowed.
func (p *NotificationPreference) ChannelEnabled(channel NotificationChannel) bool {
	switch channel {
	case ChannelPush:
		return p.PushEnabled
	case ChannelEmail:
		return p.EmailEnabled
	case ChannelSMS:
		return p.SMSEnabled
	default:
		return true
	}
}

// CategoryEnabled reports whether the (channel, category-group) sub-switch is on
func (p *NotificationPreference) CategoryEnabled(channel NotificationChannel, category NotificationCategory) bool {
	group := category.Group()
	switch channel {
	case ChannelPush:
		switch group {
		case GroupOrders:
			return p.PushOrders
		case GroupMessages:
			return p.PushMessages
		case GroupMarketing:
			return p.PushMarketing
		default:
			return p.PushSystem
		}
	case ChannelEmail:
		switch group {
		case GroupOrders:
			return p.EmailOrders
		case GroupMessages:
			return p.EmailMessages
		case GroupMarketing:
			return p.EmailMarketing
		default:
			return p.EmailSystem
		}
	case ChannelSMS:
		switch group {
		case GroupOrders:
			return p.SMSOrders
		case GroupMessages:
			return p.SMSMessages
		case GroupMarketing:
			return p.SMSMarketing
		default:
			return p.SMSSystem
		}
	default:
		return true
	}
}

// Validate checks the quiet-hours invariant: either both bounds set or neither
func (p *NotificationPreference) Validate() error {
	if (p.QuietHoursStart == "") != (p.QuietHoursEnd == "") {
		return fmt.Errorf("quiet hours require both start and end")
	}
	if p.QuietHoursStart != "" {
		if _, err := time.Parse("15:04", p.QuietHoursStart); err != nil {
			return fmt.Errorf("invalid quiet_hours_start %q: %w", p.QuietHoursStart, err)
		}
		if _, err := time.Parse("15:04", p.QuietHoursEnd); err != nil {
			return fmt.Errorf("invalid quiet_hours_end %q: %w", p.QuietHoursEnd, err)
		}
	}
	if p.Timezone != "" {
		if _, err := time.LoadLocation(p.Timezone); err != nil {
			return fmt.Errorf("unknown timezone %q", p.Timezone)
		}
	}
	return nil
}

// InQuietHours reports whether now falls inside the configured window,
// evaluated in the user's timezone. A window with start > end spans midnight:
// in-window means now >= start OR now <= end.
func (p *NotificationPreference) InQuietHours(now time.Time) bool {
	if p.QuietHoursStart == "" || p.QuietHoursEnd == "" {
		return false
	}
	start, err := time.Parse("15:04", p.QuietHoursStart)
	if err != nil {
		return false
	}
	end, err := time.Parse("15:04", p.QuietHoursEnd)
	if err != nil {
		return false
	}

	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)
	current := local.Hour()*60 + local.Minute()
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()

	if startMin > endMin {
		return current >= startMin || current <= endMin
	}
	return current >= startMin && current <= endMin
}
