package service

import (
	"context"

	"notifyhub/internal/microservices/http-api/models"
	"notifyhub/internal/microservices/http-api/repository"
)

type PreferenceService interface {
	Get(ctx context.Context, userID string) (*models.NotificationPreference, error)
	Update(ctx context.Context, preference *models.NotificationPreference) error
}

type preferenceService struct {
	repo repository.NotificationPreferenceRepository
}

func NewPreferenceService(repo repository.NotificationPreferenceRepository) PreferenceService {
	return &preferenceService{repo: repo}
}

func (s *preferenceService) Get(ctx context.Context, userID string) (*models.NotificationPreference, error) {
	return s.repo.GetOrCreate(ctx, userID)
}

// Update validates the quiet-hours invariant before persisting; only the
// owning user's handler ever calls this.
func (s *preferenceService) Update(ctx context.Context, preference *models.NotificationPreference) error {
	if err := preference.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, preference)
}
