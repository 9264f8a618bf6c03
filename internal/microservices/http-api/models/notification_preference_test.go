package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPreference_AllEnabled(t *testing.T) {
	pref := DefaultPreference("user-1")

	assert.Equal(t, "user-1", pref.UserID)
	assert.True(t, pref.PushEnabled)
	assert.True(t, pref.EmailEnabled)
	assert.True(t, pref.SMSEnabled)
	assert.True(t, pref.EmailMarketing)
	assert.True(t, pref.SMSSystem)
	assert.Empty(t, pref.QuietHoursStart)
	assert.Equal(t, "UTC", pref.Timezone)
}

func TestChannelEnabled(t *testing.T) {
	pref := DefaultPreference("user-1")
	pref.PushEnabled = false
	pref.SMSEnabled = false

	assert.False(t, pref.ChannelEnabled(ChannelPush))
	assert.True(t, pref.ChannelEnabled(ChannelEmail))
	assert.False(t, pref.ChannelEnabled(ChannelSMS))
	// in-app delivery has no opt-out
	assert.True(t, pref.ChannelEnabled(ChannelWebSocket))
}

func TestCategoryEnabled(t *testing.T) {
	pref := DefaultPreference("user-1")
	pref.PushMarketing = false
	pref.EmailOrders = false

	assert.False(t, pref.CategoryEnabled(ChannelPush, CategoryDiscountAvailable))
	assert.False(t, pref.CategoryEnabled(ChannelPush, CategoryProductPublished))
	assert.True(t, pref.CategoryEnabled(ChannelPush, CategoryOrderConfirmed))
	assert.False(t, pref.CategoryEnabled(ChannelEmail, CategoryPaymentSuccess))
	assert.True(t, pref.CategoryEnabled(ChannelWebSocket, CategoryDiscountAvailable))
}

func TestCategoryGroup(t *testing.T) {
	cases := []struct {
		category NotificationCategory
		group    CategoryGroup
	}{
		{CategoryOrderConfirmed, GroupOrders},
		{CategoryPaymentSuccess, GroupOrders},
		{CategoryNewMessage, GroupMessages},
		{CategoryProductPublished, GroupMarketing},
		{CategoryDiscountAvailable, GroupMarketing},
		{CategorySystemMaintenance, GroupSystem},
		{CategorySecurityAlert, GroupSystem},
		{CategoryMarketApproved, GroupSystem},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.group, tc.category.Group(), "category=%s", tc.category)
	}
}

func TestQueueScore(t *testing.T) {
	assert.Equal(t, 120, QueueScore(PriorityHigh, ChannelSMS))
	assert.Equal(t, 115, QueueScore(PriorityHigh, ChannelPush))
	assert.Equal(t, 60, QueueScore(PriorityMedium, ChannelEmail))
	assert.Equal(t, 15, QueueScore(PriorityLow, ChannelWebSocket))
}

func TestValidate_QuietHours(t *testing.T) {
	pref := DefaultPreference("user-1")
	assert.NoError(t, pref.Validate())

	pref.QuietHoursStart = "22:00"
	assert.Error(t, pref.Validate(), "start without end must be rejected")

	pref.QuietHoursEnd = "06:00"
	assert.NoError(t, pref.Validate())

	pref.QuietHoursStart = "25:99"
	assert.Error(t, pref.Validate())

	pref.QuietHoursStart = "22:00"
	pref.Timezone = "Not/AZone"
	assert.Error(t, pref.Validate())
}

func TestInQuietHours_SameDayWindow(t *testing.T) {
	pref := DefaultPreference("user-1")
	pref.QuietHoursStart = "13:00"
	pref.QuietHoursEnd = "15:00"

	assert.True(t, pref.InQuietHours(time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)))
	assert.True(t, pref.InQuietHours(time.Date(2025, 6, 15, 13, 0, 0, 0, time.UTC)))
	assert.True(t, pref.InQuietHours(time.Date(2025, 6, 15, 15, 0, 0, 0, time.UTC)))
	assert.False(t, pref.InQuietHours(time.Date(2025, 6, 15, 12, 59, 0, 0, time.UTC)))
	assert.False(t, pref.InQuietHours(time.Date(2025, 6, 15, 16, 0, 0, 0, time.UTC)))
}

func TestInQuietHours_MidnightSpan(t *testing.T) {
	pref := DefaultPreference("user-1")
	pref.QuietHoursStart = "22:00"
	pref.QuietHoursEnd = "06:00"

	assert.True(t, pref.InQuietHours(time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC)))
	assert.True(t, pref.InQuietHours(time.Date(2025, 6, 15, 5, 0, 0, 0, time.UTC)))
	assert.True(t, pref.InQuietHours(time.Date(2025, 6, 15, 22, 0, 0, 0, time.UTC)))
	assert.True(t, pref.InQuietHours(time.Date(2025, 6, 15, 6, 0, 0, 0, time.UTC)))
	assert.False(t, pref.InQuietHours(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)))
	assert.False(t, pref.InQuietHours(time.Date(2025, 6, 15, 21, 59, 0, 0, time.UTC)))
}

func TestInQuietHours_UserTimezone(t *testing.T) {
	pref := DefaultPreference("user-1")
	pref.QuietHoursStart = "22:00"
	pref.QuietHoursEnd = "06:00"
	pref.Timezone = "Asia/Tehran" // UTC+3:30

	// 20:00 UTC is 23:30 in Tehran, inside the window
	assert.True(t, pref.InQuietHours(time.Date(2025, 6, 15, 20, 0, 0, 0, time.UTC)))
	// 10:00 UTC is 13:30 in Tehran, outside
	assert.False(t, pref.InQuietHours(time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)))
}

func TestInQuietHours_Unset(t *testing.T) {
	pref := DefaultPreference("user-1")
	assert.False(t, pref.InQuietHours(time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC)))
}
