package models

import "time"

// Delivery channels
type NotificationChannel string

const (
	ChannelPush      NotificationChannel = "push"
	ChannelEmail     NotificationChannel = "email"
	ChannelSMS       NotificationChannel = "sms"
	ChannelWebSocket NotificationChannel = "websocket"
)

// Business categories
type NotificationCategory string

const (
	CategoryOrderConfirmed    NotificationCategory = "order_confirmed"
	CategoryPaymentSuccess    NotificationCategory = "payment_success"
	CategoryNewMessage        NotificationCategory = "new_message"
	CategoryMarketApproved    NotificationCategory = "market_approved"
	CategoryProductPublished  NotificationCategory = "product_published"
	CategoryDiscountAvailable NotificationCategory = "discount_available"
	CategorySystemMaintenance NotificationCategory = "system_maintenance"
	CategorySecurityAlert     NotificationCategory = "security_alert"
)

// Preference groups: every category maps to one of the four opt-out groups
type CategoryGroup string

const (
	GroupOrders    CategoryGroup = "orders"
	GroupMessages  CategoryGroup = "messages"
	GroupMarketing CategoryGroup = "marketing"
	GroupSystem    CategoryGroup = "system"
)

// Group returns the preference group a category is gated by
func (c NotificationCategory) Group() CategoryGroup {
	switch c {
	case CategoryOrderConfirmed, CategoryPaymentSuccess:
		return GroupOrders
	case CategoryNewMessage:
		return GroupMessages
	case CategoryProductPublished, CategoryDiscountAvailable:
		return GroupMarketing
	default:
		return GroupSystem
	}
}

type NotificationStatus string

const (
	StatusPending   NotificationStatus = "pending"
	StatusSent      NotificationStatus = "sent"
	StatusDelivered NotificationStatus = "delivered"
	StatusRead      NotificationStatus = "read"
	StatusFailed    NotificationStatus = "failed"
)

type NotificationPriority string

const (
	PriorityHigh   NotificationPriority = "high"
	PriorityMedium NotificationPriority = "medium"
	PriorityLow    NotificationPriority = "low"
)

// Queue score components; higher total means dispatched earlier
var priorityScores = map[NotificationPriority]int{
	PriorityHigh:   100,
	PriorityMedium: 50,
	PriorityLow:    10,
}

var channelWeights = map[NotificationChannel]int{
	ChannelSMS:       20,
	ChannelPush:      15,
	ChannelEmail:     10,
	ChannelWebSocket: 5,
}

// QueueScore computes the priority score for a queue entry
func QueueScore(priority NotificationPriority, channel NotificationChannel) int {
	return priorityScores[priority] + channelWeights[channel]
}

const DefaultMaxRetries = 3

// Notification is the unit of delivery. Title and body are already rendered;
// template placeholders never reach this row.
type Notification struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string `gorm:"type:uuid;not null;index" json:"user_id"`
	TemplateID *uint  `json:"template_id,omitempty"`

	Category NotificationCategory `gorm:"not null;index" json:"category"`
	Channel  NotificationChannel  `gorm:"not null" json:"channel"`
	Title    string               `json:"title"`
	Body     string               `json:"body"`
	Payload  map[string]any       `gorm:"serializer:json" json:"payload,omitempty"`

	Status   NotificationStatus   `gorm:"default:pending;index" json:"status"`
	Priority NotificationPriority `gorm:"default:medium" json:"priority"`

	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
	ReadAt       *time.Time `json:"read_at,omitempty"`

	FailureReason string `json:"failure_reason,omitempty"`
	RetryCount    int    `gorm:"default:0" json:"retry_count"`
	MaxRetries    int    `gorm:"default:3" json:"max_retries"`

	// Loose reference to the domain object this notification is about;
	// nothing enforces it at the storage layer
	RelatedType string `json:"related_type,omitempty"`
	RelatedID   string `json:"related_id,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	User     *User                 `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Template *NotificationTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

// IsTerminal reports whether no further automatic transition can occur
func (n *Notification) IsTerminal() bool {
	return n.Status == StatusFailed || n.Status == StatusRead
}
