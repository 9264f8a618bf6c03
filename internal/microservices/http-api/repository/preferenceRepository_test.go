package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifyhub/internal/microservices/http-api/models"
)

func TestGetOrCreate_FirstUseCreatesDefaults(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationPreferenceRepository(db)

	preference, err := repo.GetOrCreate(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "user-1", preference.UserID)
	assert.True(t, preference.PushEnabled)
	assert.True(t, preference.EmailEnabled)
	assert.True(t, preference.SMSEnabled)
	assert.Equal(t, "UTC", preference.Timezone)
	assert.Empty(t, preference.QuietHoursStart)
}

func TestGetOrCreate_SecondCallKeepsExistingRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationPreferenceRepository(db)
	ctx := context.Background()

	preference, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)

	preference.PushEnabled = false
	preference.QuietHoursStart = "22:00"
	preference.QuietHoursEnd = "07:00"
	require.NoError(t, repo.Update(ctx, preference))

	// a later dispatch must see the stored choices, not fresh defaults
	reloaded, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, reloaded.PushEnabled)
	assert.Equal(t, "22:00", reloaded.QuietHoursStart)

	var count int64
	require.NoError(t, db.Model(&models.NotificationPreference{}).Where("user_id = ?", "user-1").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetOrCreate_ConcurrentFirstUseCreatesOneRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationPreferenceRepository(db)

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.GetOrCreate(context.Background(), "user-1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&models.NotificationPreference{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
