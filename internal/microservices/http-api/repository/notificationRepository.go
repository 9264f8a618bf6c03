package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"notifyhub/internal/microservices/http-api/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkSent(ctx context.Context, id string, at time.Time) error
	MarkDelivered(ctx context.Context, id string, at time.Time) error
	MarkRead(ctx context.Context, id, userID string, at time.Time) (bool, error)
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error)
	MarkFailed(ctx context.Context, id, reason string) error
	SetRetryCount(ctx context.Context, id string, retryCount int) error
	Delete(ctx context.Context, id string) error
	DeleteTerminalOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.WithContext(ctx).First(&notification, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("status IN ?", []models.NotificationStatus{models.StatusSent, models.StatusDelivered})
	}

	var notifications []models.Notification
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND status IN ?", userID, []models.NotificationStatus{models.StatusSent, models.StatusDelivered}).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkSent(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]any{"status": models.StatusSent, "sent_at": at}).Error
}

func (r *notificationRepository) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND status = ?", id, models.StatusSent).
		Updates(map[string]any{"status": models.StatusDelivered, "delivered_at": at}).Error
}

// MarkRead transitions to read only from sent or delivered; a pending or failed
// notification is left untouched and false is returned.
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND status IN ?", id, userID,
			[]models.NotificationStatus{models.StatusSent, models.StatusDelivered}).
		Updates(map[string]any{"status": models.StatusRead, "read_at": at})
	return res.RowsAffected > 0, res.Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND status IN ?", userID,
			[]models.NotificationStatus{models.StatusSent, models.StatusDelivered}).
		Updates(map[string]any{"status": models.StatusRead, "read_at": at})
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) MarkFailed(ctx context.Context, id, reason string) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]any{"status": models.StatusFailed, "failure_reason": reason}).Error
}

func (r *notificationRepository) SetRetryCount(ctx context.Context, id string, retryCount int) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("retry_count", retryCount).Error
}

func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Notification{}, "id = ?", id).Error
}

// DeleteTerminalOlderThan removes delivered/read/failed rows past the retention
// horizon; logs and queue entries go with them via FK cascade. Pending and sent
// rows are never touched regardless of age.
func (r *notificationRepository) DeleteTerminalOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("status IN ? AND created_at < ?",
			[]models.NotificationStatus{models.StatusDelivered, models.StatusRead, models.StatusFailed}, cutoff).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
