package repository

import (
	"context"

	"github.com/campusbook/booking-service/internal/models"
	"gorm.io/gorm"
)

type ResourceRepository interface {
	Create(ctx context.Context, resource *models.Resource) error
	FindByID(ctx context.Context, id uint) (*models.Resource, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Resource, error)
}

type resourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}

func (r *resourceRepository) FindByID(ctx context.Context, id uint) (*models.Resource, error) {
	var resource models.Resource
	if err := r.db.WithContext(ctx).First(&resource, id).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}

// FindByIDForUpdate acquires a row-level lock on the resource within the
// given transaction. Serializes concurrent booking writers per resource;
// bookings on different resources never contend.
func (r *resourceRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Resource, error) {
	var resource models.Resource
	if err := tx.WithContext(ctx).
		Set("gorm:query_option", "FOR UPDATE").
		First(&resource, id).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}
