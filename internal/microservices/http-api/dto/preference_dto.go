package dto

// UpdatePreferenceRequest: the user-mutable slice of a preference row.
// Missing fields keep their current value.
type UpdatePreferenceRequest struct {
	PushEnabled  *bool `json:"push_enabled"`
	EmailEnabled *bool `json:"email_enabled"`
	SMSEnabled   *bool `json:"sms_enabled"`

	PushOrders     *bool `json:"push_orders"`
	PushMessages   *bool `json:"push_messages"`
	PushMarketing  *bool `json:"push_marketing"`
	PushSystem     *bool `json:"push_system"`
	EmailOrders    *bool `json:"email_orders"`
	EmailMessages  *bool `json:"email_messages"`
	EmailMarketing *bool `json:"email_marketing"`
	EmailSystem    *bool `json:"email_system"`
	SMSOrders      *bool `json:"sms_orders"`
	SMSMessages    *bool `json:"sms_messages"`
	SMSMarketing   *bool `json:"sms_marketing"`
	SMSSystem      *bool `json:"sms_system"`

	QuietHoursStart *string `json:"quiet_hours_start"`
	QuietHoursEnd   *string `json:"quiet_hours_end"`
	Timezone        *string `json:"timezone"`
}
