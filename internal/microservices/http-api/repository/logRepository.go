package repository

import (
	"context"

	"gorm.io/gorm"

	"notifyhub/internal/microservices/http-api/models"
)

type NotificationLogRepository interface {
	Create(ctx context.Context, log *models.NotificationLog) error
	ListByNotification(ctx context.Context, notificationID string) ([]models.NotificationLog, error)
}

type logRepository struct {
	db *gorm.DB
}

func NewNotificationLogRepository(db *gorm.DB) NotificationLogRepository {
	return &logRepository{db: db}
}

func (r *logRepository) Create(ctx context.Context, log *models.NotificationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *logRepository) ListByNotification(ctx context.Context, notificationID string) ([]models.NotificationLog, error) {
	var logs []models.NotificationLog
	err := r.db.WithContext(ctx).
		Where("notification_id = ?", notificationID).
		Order("attempt ASC").
		Find(&logs).Error
	return logs, err
}
