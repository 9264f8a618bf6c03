package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"notifyhub/internal/microservices/http-api/models"
)

type NotificationTemplateRepository interface {
	Create(ctx context.Context, template *models.NotificationTemplate) error
	Update(ctx context.Context, template *models.NotificationTemplate) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.NotificationTemplate, error)
	GetActiveByNameAndChannel(ctx context.Context, name string, channel models.NotificationChannel) (*models.NotificationTemplate, error)
	List(ctx context.Context) ([]models.NotificationTemplate, error)
}

type templateRepository struct {
	db *gorm.DB
}

func NewNotificationTemplateRepository(db *gorm.DB) NotificationTemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Create(ctx context.Context, template *models.NotificationTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *templateRepository) Update(ctx context.Context, template *models.NotificationTemplate) error {
	return r.db.WithContext(ctx).Save(template).Error
}

func (r *templateRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.NotificationTemplate{}, id).Error
}

func (r *templateRepository) GetByID(ctx context.Context, id uint) (*models.NotificationTemplate, error) {
	var template models.NotificationTemplate
	err := r.db.WithContext(ctx).First(&template, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *templateRepository) GetActiveByNameAndChannel(ctx context.Context, name string, channel models.NotificationChannel) (*models.NotificationTemplate, error) {
	var template models.NotificationTemplate
	err := r.db.WithContext(ctx).
		Where("name = ? AND channel = ? AND is_active = ?", name, channel, true).
		First(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *templateRepository) List(ctx context.Context) ([]models.NotificationTemplate, error) {
	var templates []models.NotificationTemplate
	err := r.db.WithContext(ctx).Order("name ASC").Find(&templates).Error
	return templates, err
}
