package repository

import (
	"context"

	"github.com/campusbook/booking-service/internal/models"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByResource(ctx context.Context, resourceID uint, includeHidden bool) ([]models.Review, error)
	ExistsForBooking(ctx context.Context, reviewerID string, bookingID uint) (bool, error)
	AverageRating(ctx context.Context, resourceID uint) (float64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) FindByResource(ctx context.Context, resourceID uint, includeHidden bool) ([]models.Review, error) {
	var reviews []models.Review
	q := r.db.WithContext(ctx).Where("resource_id = ?", resourceID)
	if !includeHidden {
		q = q.Where("hidden = ?", false)
	}
	if err := q.Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) ExistsForBooking(ctx context.Context, reviewerID string, bookingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("reviewer_id = ? AND booking_id = ?", reviewerID, bookingID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) AverageRating(ctx context.Context, resourceID uint) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("resource_id = ? AND hidden = ?", resourceID, false).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	return avg, err
}
