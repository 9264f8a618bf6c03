package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"notifyhub/internal/microservices/http-api/models"
)

var queueNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// seedQueueEntry inserts a notification plus its queue row and returns the entry
func seedQueueEntry(t *testing.T, db *gorm.DB, priority int, scheduledFor time.Time) *models.NotificationQueueEntry {
	t.Helper()

	userID := uuid.New().String()
	require.NoError(t, db.Create(&models.User{
		ID:       userID,
		Username: "user-" + userID[:8],
		Password: "x",
		Email:    userID[:8] + "@example.com",
	}).Error)

	notificationID := uuid.New().String()
	require.NoError(t, db.Create(&models.Notification{
		ID:       notificationID,
		UserID:   userID,
		Category: models.CategoryOrderConfirmed,
		Channel:  models.ChannelEmail,
		Title:    "seeded",
		Status:   models.StatusPending,
		Priority: models.PriorityMedium,
	}).Error)

	entry := &models.NotificationQueueEntry{
		NotificationID: notificationID,
		Priority:       priority,
		ScheduledFor:   scheduledFor,
	}
	require.NoError(t, db.Create(entry).Error)
	return entry
}

func TestClaim_ConcurrentClaimsSingleWinner(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationQueueRepository(db)
	entry := seedQueueEntry(t, db, 110, queueNow.Add(-time.Minute))

	const claimers = 8
	var wg sync.WaitGroup
	results := make(chan bool, claimers)
	errs := make(chan error, claimers)
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := repo.Claim(context.Background(), entry.ID, queueNow, 5*time.Minute)
			results <- claimed
			errs <- err
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	winners := 0
	for claimed := range results {
		if claimed {
			winners++
		}
	}
	assert.Equal(t, 1, winners)

	var claimed models.NotificationQueueEntry
	require.NoError(t, db.First(&claimed, entry.ID).Error)
	assert.True(t, claimed.IsProcessing)
	assert.NotNil(t, claimed.ProcessingStartedAt)
}

func TestClaim_StaleClaimIsReclaimable(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationQueueRepository(db)
	entry := seedQueueEntry(t, db, 60, queueNow.Add(-time.Minute))
	ctx := context.Background()

	claimed, err := repo.Claim(ctx, entry.ID, queueNow, 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)

	// the claim is still fresh, a second worker must lose
	claimed, err = repo.Claim(ctx, entry.ID, queueNow.Add(time.Minute), 5*time.Minute)
	require.NoError(t, err)
	assert.False(t, claimed)

	// past the timeout the first worker is presumed dead
	claimed, err = repo.Claim(ctx, entry.ID, queueNow.Add(6*time.Minute), 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestClaim_UnknownEntry(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationQueueRepository(db)

	claimed, err := repo.Claim(context.Background(), 9999, queueNow, 5*time.Minute)

	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestDueBatch_OrderedByPriorityThenSchedule(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationQueueRepository(db)

	low := seedQueueEntry(t, db, 10, queueNow.Add(-3*time.Minute))
	high := seedQueueEntry(t, db, 100, queueNow.Add(-time.Minute))
	medium := seedQueueEntry(t, db, 50, queueNow.Add(-2*time.Minute))

	entries, err := repo.DueBatch(context.Background(), queueNow, 10, 5*time.Minute)

	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []uint{high.ID, medium.ID, low.ID}, []uint{entries[0].ID, entries[1].ID, entries[2].ID})
	assert.Equal(t, []int{100, 50, 10}, []int{entries[0].Priority, entries[1].Priority, entries[2].Priority})
}

func TestDueBatch_EqualPriorityOldestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationQueueRepository(db)

	later := seedQueueEntry(t, db, 50, queueNow.Add(-time.Minute))
	earlier := seedQueueEntry(t, db, 50, queueNow.Add(-10*time.Minute))

	entries, err := repo.DueBatch(context.Background(), queueNow, 10, 5*time.Minute)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, earlier.ID, entries[0].ID)
	assert.Equal(t, later.ID, entries[1].ID)
}

func TestDueBatch_SkipsFutureAndFreshClaims(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationQueueRepository(db)
	ctx := context.Background()

	due := seedQueueEntry(t, db, 50, queueNow.Add(-time.Minute))
	seedQueueEntry(t, db, 100, queueNow.Add(time.Hour)) // not due yet

	held := seedQueueEntry(t, db, 100, queueNow.Add(-time.Minute))
	claimed, err := repo.Claim(ctx, held.ID, queueNow.Add(-30*time.Second), 5*time.Minute)
	require.NoError(t, err)
	require.True(t, claimed)

	stale := seedQueueEntry(t, db, 100, queueNow.Add(-time.Minute))
	claimed, err = repo.Claim(ctx, stale.ID, queueNow.Add(-10*time.Minute), 5*time.Minute)
	require.NoError(t, err)
	require.True(t, claimed)

	entries, err := repo.DueBatch(ctx, queueNow, 10, 5*time.Minute)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	// abandoned claims come back, fresh ones stay out
	assert.Equal(t, stale.ID, entries[0].ID)
	assert.Equal(t, due.ID, entries[1].ID)
}

func TestDueBatch_RespectsLimit(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationQueueRepository(db)

	for i := 0; i < 5; i++ {
		seedQueueEntry(t, db, 50+i, queueNow.Add(-time.Minute))
	}

	entries, err := repo.DueBatch(context.Background(), queueNow, 2, 5*time.Minute)

	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRescheduleByNotification_ReleasesClaim(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationQueueRepository(db)
	ctx := context.Background()
	entry := seedQueueEntry(t, db, 60, queueNow.Add(-time.Minute))

	claimed, err := repo.Claim(ctx, entry.ID, queueNow, 5*time.Minute)
	require.NoError(t, err)
	require.True(t, claimed)

	backoffUntil := queueNow.Add(2 * time.Minute)
	require.NoError(t, repo.RescheduleByNotification(ctx, entry.NotificationID, backoffUntil))

	var reloaded models.NotificationQueueEntry
	require.NoError(t, db.First(&reloaded, entry.ID).Error)
	assert.False(t, reloaded.IsProcessing)
	assert.Nil(t, reloaded.ProcessingStartedAt)
	assert.WithinDuration(t, backoffUntil, reloaded.ScheduledFor, time.Second)

	// gone from the due batch until the backoff elapses
	entries, err := repo.DueBatch(ctx, queueNow, 10, 5*time.Minute)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
