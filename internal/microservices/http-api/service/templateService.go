package service

import (
	"context"
	"errors"

	"notifyhub/internal/microservices/http-api/models"
	"notifyhub/internal/microservices/http-api/repository"
)

var ErrTemplateInvalid = errors.New("template needs a name, category and channel")

// TemplateService is the admin-facing CRUD surface; the dispatch path reads
// templates only through the repository.
type TemplateService interface {
	Create(ctx context.Context, template *models.NotificationTemplate) error
	Update(ctx context.Context, template *models.NotificationTemplate) error
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*models.NotificationTemplate, error)
	List(ctx context.Context) ([]models.NotificationTemplate, error)
}

type templateService struct {
	repo repository.NotificationTemplateRepository
}

func NewTemplateService(repo repository.NotificationTemplateRepository) TemplateService {
	return &templateService{repo: repo}
}

func (s *templateService) Create(ctx context.Context, template *models.NotificationTemplate) error {
	if template.Name == "" || template.Category == "" || template.Channel == "" {
		return ErrTemplateInvalid
	}
	return s.repo.Create(ctx, template)
}

func (s *templateService) Update(ctx context.Context, template *models.NotificationTemplate) error {
	if template.Name == "" || template.Category == "" || template.Channel == "" {
		return ErrTemplateInvalid
	}
	return s.repo.Update(ctx, template)
}

func (s *templateService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *templateService) Get(ctx context.Context, id uint) (*models.NotificationTemplate, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *templateService) List(ctx context.Context) ([]models.NotificationTemplate, error) {
	return s.repo.List(ctx)
}
