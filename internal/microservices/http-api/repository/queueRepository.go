package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"notifyhub/internal/microservices/http-api/models"
)

type NotificationQueueRepository interface {
	Create(ctx context.Context, entry *models.NotificationQueueEntry) error
	DueBatch(ctx context.Context, now time.Time, limit int, claimTimeout time.Duration) ([]models.NotificationQueueEntry, error)
	Claim(ctx context.Context, entryID uint, now time.Time, claimTimeout time.Duration) (bool, error)
	RescheduleByNotification(ctx context.Context, notificationID string, at time.Time) error
	DeleteByNotification(ctx context.Context, notificationID string) error
}

type queueRepository struct {
	db *gorm.DB
}

func NewNotificationQueueRepository(db *gorm.DB) NotificationQueueRepository {
	return &queueRepository{db: db}
}

func (r *queueRepository) Create(ctx context.Context, entry *models.NotificationQueueEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// DueBatch returns up to limit due entries, most urgent first, older-scheduled
// first on equal priority. Entries whose claim has gone stale are included so a
// crashed worker's work is eventually retried.
func (r *queueRepository) DueBatch(ctx context.Context, now time.Time, limit int, claimTimeout time.Duration) ([]models.NotificationQueueEntry, error) {
	var entries []models.NotificationQueueEntry
	err := r.db.WithContext(ctx).
		Where("scheduled_for <= ?", now).
		Where("is_processing = ? OR processing_started_at < ?", false, now.Add(-claimTimeout)).
		Order("priority DESC").
		Order("scheduled_for ASC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// Claim takes exclusive ownership of an entry. The WHERE clause makes this a
// single compare-and-set: of two concurrent claimers, exactly one sees a row
// updated. A stale claim (worker died mid-processing) is claimable again once
// processing_started_at is older than the timeout.
func (r *queueRepository) Claim(ctx context.Context, entryID uint, now time.Time, claimTimeout time.Duration) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.NotificationQueueEntry{}).
		Where("id = ?", entryID).
		Where("is_processing = ? OR processing_started_at < ?", false, now.Add(-claimTimeout)).
		Updates(map[string]any{"is_processing": true, "processing_started_at": now})
	return res.RowsAffected > 0, res.Error
}

// RescheduleByNotification releases the claim and pushes the entry out to the
// backoff time; used when a send attempt failed but retries remain.
func (r *queueRepository) RescheduleByNotification(ctx context.Context, notificationID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.NotificationQueueEntry{}).
		Where("notification_id = ?", notificationID).
		Updates(map[string]any{
			"scheduled_for":         at,
			"is_processing":         false,
			"processing_started_at": nil,
		}).Error
}

func (r *queueRepository) DeleteByNotification(ctx context.Context, notificationID string) error {
	return r.db.WithContext(ctx).
		Where("notification_id = ?", notificationID).
		Delete(&models.NotificationQueueEntry{}).Error
}
