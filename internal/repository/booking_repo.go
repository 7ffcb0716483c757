package repository

import (
	"context"
	"time"

	"github.com/campusbook/booking-service/internal/models"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindActive(ctx context.Context, tx *gorm.DB, resourceID uint) ([]models.Booking, error)
	FindByResource(ctx context.Context, resourceID uint, status *models.BookingStatus) ([]models.Booking, error)
	FindByRequester(ctx context.Context, requesterID string, status *models.BookingStatus) ([]models.Booking, error)
	FindPendingForOwner(ctx context.Context, ownerID string) ([]models.Booking, error)
	FindUpcoming(ctx context.Context, requesterID string, now time.Time, limit int) ([]models.Booking, error)
	FindCompletedByRequester(ctx context.Context, requesterID string, resourceID *uint) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, from, to models.BookingStatus, notes *string) (int64, error)
	UpdateInterval(ctx context.Context, tx *gorm.DB, bookingID uint, from models.BookingStatus, iv models.Interval) (int64, error)
	MarkPastComplete(ctx context.Context, now time.Time) (int64, error)
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindActive returns the bookings that participate in conflict checks:
// pending or approved, for the given resource. Runs on the caller's
// transaction so the read is covered by the resource row lock.
func (r *bookingRepository) FindActive(ctx context.Context, tx *gorm.DB, resourceID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := tx.WithContext(ctx).
		Where("resource_id = ? AND status IN ?", resourceID,
			[]models.BookingStatus{models.StatusPending, models.StatusApproved}).
		Order("start_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByResource(ctx context.Context, resourceID uint, status *models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx).Where("resource_id = ?", resourceID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Order("start_at DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByRequester(ctx context.Context, requesterID string, status *models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx).Where("requester_id = ?", requesterID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Order("start_at DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindPendingForOwner returns pending bookings across every resource the
// owner holds, newest request first.
func (r *bookingRepository) FindPendingForOwner(ctx context.Context, ownerID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Joins("JOIN resources ON resources.id = bookings.resource_id").
		Where("resources.owner_id = ? AND bookings.status = ?", ownerID, models.StatusPending).
		Order("bookings.created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindUpcoming(ctx context.Context, requesterID string, now time.Time, limit int) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("requester_id = ? AND status = ? AND start_at > ?", requesterID, models.StatusApproved, now).
		Order("start_at ASC").
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindCompletedByRequester(ctx context.Context, requesterID string, resourceID *uint) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx).
		Where("requester_id = ? AND status = ?", requesterID, models.StatusCompleted)
	if resourceID != nil {
		q = q.Where("resource_id = ?", *resourceID)
	}
	if err := q.Order("end_at DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// UpdateStatus moves a booking from one status to another. The guard on
// the current status makes the write a compare-and-swap: if another
// writer got there first, no row matches and zero is returned.
func (r *bookingRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, from, to models.BookingStatus, notes *string) (int64, error) {
	updates := map[string]any{"status": to}
	if notes != nil {
		updates["notes"] = *notes
	}
	result := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", bookingID, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// UpdateInterval rewrites a booking's slot. Guarded on the status the
// caller validated, same compare-and-swap discipline as UpdateStatus.
func (r *bookingRepository) UpdateInterval(ctx context.Context, tx *gorm.DB, bookingID uint, from models.BookingStatus, iv models.Interval) (int64, error) {
	result := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", bookingID, from).
		Updates(map[string]any{"start_at": iv.Start, "end_at": iv.End})
	return result.RowsAffected, result.Error
}

// MarkPastComplete moves approved bookings whose end has passed into
// completed. Idempotent: re-running touches no additional rows.
func (r *bookingRepository) MarkPastComplete(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("status = ? AND end_at < ?", models.StatusApproved, now).
		Update("status", models.StatusCompleted)
	return result.RowsAffected, result.Error
}
