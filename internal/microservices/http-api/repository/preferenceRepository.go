package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"notifyhub/internal/microservices/http-api/models"
)

type NotificationPreferenceRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*models.NotificationPreference, error)
	Update(ctx context.Context, preference *models.NotificationPreference) error
}

type preferenceRepository struct {
	db *gorm.DB
}

func NewNotificationPreferenceRepository(db *gorm.DB) NotificationPreferenceRepository {
	return &preferenceRepository{db: db}
}

// GetOrCreate returns the user's preference row, inserting the all-defaults row
// on first use. The insert ignores conflicts so two concurrent first dispatches
// still end up with exactly one row.
func (r *preferenceRepository) GetOrCreate(ctx context.Context, userID string) (*models.NotificationPreference, error) {
	defaults := models.DefaultPreference(userID)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(defaults).Error
	if err != nil {
		return nil, err
	}

	var preference models.NotificationPreference
	if err := r.db.WithContext(ctx).First(&preference, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &preference, nil
}

func (r *preferenceRepository) Update(ctx context.Context, preference *models.NotificationPreference) error {
	return r.db.WithContext(ctx).Save(preference).Error
}
