package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/campusbook/booking-service/internal/models"
	"github.com/campusbook/booking-service/internal/notify"
	"github.com/campusbook/booking-service/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const maxBookingDuration = 24 * time.Hour

type SubmitRequest struct {
	ResourceID  uint
	RequesterID string
	Start       time.Time
	End         time.Time
	Purpose     string
	Notes       string
}

type BookingService interface {
	SubmitBooking(ctx context.Context, req SubmitRequest) (*models.Booking, error)
	SubmitRecurring(ctx context.Context, req SubmitRequest, rec Recurrence) (*RecurringResult, error)
	ChangeStatus(ctx context.Context, bookingID uint, action Action, actor models.Actor, reason string) (*models.Booking, error)
	RescheduleBooking(ctx context.Context, bookingID uint, iv models.Interval, actor models.Actor) (*models.Booking, error)
	SweepCompleted(ctx context.Context, now time.Time) (int64, error)
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	ListByResource(ctx context.Context, resourceID uint, status *models.BookingStatus) ([]models.Booking, error)
	ListByRequester(ctx context.Context, requesterID string, status *models.BookingStatus) ([]models.Booking, error)
	PendingForOwner(ctx context.Context, ownerID string) ([]models.Booking, error)
	UpcomingForUser(ctx context.Context, requesterID string, limit int) ([]models.Booking, error)
	CheckAvailability(ctx context.Context, resourceID uint, iv models.Interval) (bool, []models.Booking, error)
}

type bookingService struct {
	bookings  repository.BookingRepository
	resources repository.ResourceRepository
	notifier  notify.Notifier
	now       func() time.Time
}

func NewBookingService(bookings repository.BookingRepository, resources repository.ResourceRepository, notifier notify.Notifier) BookingService {
	return &bookingService{
		bookings:  bookings,
		resources: resources,
		notifier:  notifier,
		now:       time.Now,
	}
}

func (s *bookingService) SubmitBooking(ctx context.Context, req SubmitRequest) (*models.Booking, error) {
	iv := models.Interval{Start: req.Start, End: req.End}
	if err := s.validateInterval(iv); err != nil {
		return nil, err
	}

	booking, event, err := s.admitWithRetry(ctx, req, iv)
	if err != nil {
		return nil, err
	}

	s.notify(event)
	return booking, nil
}

// admitWithRetry runs the admission transaction, retrying once if a
// concurrent insert trips the booking_no_overlap constraint at commit.
// The retry re-runs the conflict check under a fresh lock; a second trip
// is a conflict.
func (s *bookingService) admitWithRetry(ctx context.Context, req SubmitRequest, iv models.Interval) (*models.Booking, *notify.Event, error) {
	booking, event, err := s.admit(ctx, req, iv)
	if err != nil && isConstraintViolation(err) {
		booking, event, err = s.admit(ctx, req, iv)
		if err != nil && isConstraintViolation(err) {
			err = ErrBookingConflict
		}
	}
	return booking, event, err
}

// isConstraintViolation matches the two shapes the booking_no_overlap
// exclusion constraint surfaces as: the raw 23P01 from the driver, or
// gorm's translated duplicate-key error.
func isConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}

// admit performs the check-then-insert atomically: the resource row lock
// serializes concurrent submissions for the same resource, so two
// overlapping intervals can never both pass the conflict check.
func (s *bookingService) admit(ctx context.Context, req SubmitRequest, iv models.Interval) (*models.Booking, *notify.Event, error) {
	var result *models.Booking
	var event *notify.Event

	err := s.inTx(ctx, func(tx *gorm.DB) error {
		resource, err := s.resources.FindByIDForUpdate(ctx, tx, req.ResourceID)
		if err != nil {
			return ErrResourceNotFound
		}
		if !resource.Bookable() {
			return ErrResourceUnavailable
		}

		conflict, err := s.hasConflict(ctx, tx, req.ResourceID, iv, 0)
		if err != nil {
			return err
		}
		if conflict {
			return ErrBookingConflict
		}

		// Initial status is a pure function of the policy at submission
		// time; later policy changes never touch existing bookings.
		status := models.StatusPending
		if resource.ApprovalPolicy == models.PolicyOpen {
			status = models.StatusApproved
		}

		booking := &models.Booking{
			ResourceID:  req.ResourceID,
			RequesterID: req.RequesterID,
			StartAt:     iv.Start,
			EndAt:       iv.End,
			Status:      status,
			Purpose:     req.Purpose,
			Notes:       req.Notes,
		}
		if err := s.bookings.Create(ctx, tx, booking); err != nil {
			return err
		}
		result = booking

		if status == models.StatusPending {
			event = &notify.Event{
				Kind:        notify.KindRequested,
				BookingID:   booking.ID,
				ResourceID:  resource.ID,
				RecipientID: resource.OwnerID,
				ActorID:     req.RequesterID,
				Detail:      "new booking request awaiting approval",
			}
		} else {
			event = &notify.Event{
				Kind:        notify.KindApproved,
				BookingID:   booking.ID,
				ResourceID:  resource.ID,
				RecipientID: req.RequesterID,
				Detail:      "booking automatically confirmed",
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return result, event, nil
}

// hasConflict is a pure predicate over the active bookings of a resource:
// true as soon as one overlaps iv under the half-open test. excludeID
// lets a reschedule check against everything but itself.
func (s *bookingService) hasConflict(ctx context.Context, tx *gorm.DB, resourceID uint, iv models.Interval, excludeID uint) (bool, error) {
	active, err := s.bookings.FindActive(ctx, tx, resourceID)
	if err != nil {
		return false, err
	}
	for i := range active {
		if excludeID != 0 && active[i].ID == excludeID {
			continue
		}
		if iv.Overlaps(active[i].Interval()) {
			return true, nil
		}
	}
	return false, nil
}

func (s *bookingService) validateInterval(iv models.Interval) error {
	if !iv.End.After(iv.Start) {
		return ErrEndBeforeStart
	}
	if iv.Duration() > maxBookingDuration {
		return ErrDurationTooLong
	}
	if iv.Start.Before(s.now()) {
		return ErrStartInPast
	}
	return nil
}

func (s *bookingService) RescheduleBooking(ctx context.Context, bookingID uint, iv models.Interval, actor models.Actor) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	if booking.RequesterID != actor.ID && !actor.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if !booking.Status.Active() {
		return nil, ErrInvalidTransition
	}
	if err := s.validateInterval(iv); err != nil {
		return nil, err
	}

	err = s.inTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.resources.FindByIDForUpdate(ctx, tx, booking.ResourceID); err != nil {
			return ErrResourceNotFound
		}
		conflict, err := s.hasConflict(ctx, tx, booking.ResourceID, iv, booking.ID)
		if err != nil {
			return err
		}
		if conflict {
			return ErrBookingConflict
		}
		rows, err := s.bookings.UpdateInterval(ctx, tx, booking.ID, booking.Status, iv)
		if err != nil {
			return err
		}
		if rows == 0 {
			// The booking left its active status under a concurrent writer.
			return ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	booking.StartAt = iv.Start
	booking.EndAt = iv.End
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func (s *bookingService) ListByResource(ctx context.Context, resourceID uint, status *models.BookingStatus) ([]models.Booking, error) {
	return s.bookings.FindByResource(ctx, resourceID, status)
}

func (s *bookingService) ListByRequester(ctx context.Context, requesterID string, status *models.BookingStatus) ([]models.Booking, error) {
	return s.bookings.FindByRequester(ctx, requesterID, status)
}

func (s *bookingService) PendingForOwner(ctx context.Context, ownerID string) ([]models.Booking, error) {
	return s.bookings.FindPendingForOwner(ctx, ownerID)
}

func (s *bookingService) UpcomingForUser(ctx context.Context, requesterID string, limit int) ([]models.Booking, error) {
	return s.bookings.FindUpcoming(ctx, requesterID, s.now(), limit)
}

// CheckAvailability returns whether iv is free on the resource, plus the
// full set of conflicting bookings for callers that want the detail.
func (s *bookingService) CheckAvailability(ctx context.Context, resourceID uint, iv models.Interval) (bool, []models.Booking, error) {
	if !iv.End.After(iv.Start) {
		return false, nil, ErrEndBeforeStart
	}
	if _, err := s.resources.FindByID(ctx, resourceID); err != nil {
		return false, nil, ErrResourceNotFound
	}

	active, err := s.bookings.FindActive(ctx, s.bookings.GetDB(), resourceID)
	if err != nil {
		return false, nil, err
	}
	var conflicts []models.Booking
	for i := range active {
		if iv.Overlaps(active[i].Interval()) {
			conflicts = append(conflicts, active[i])
		}
	}
	return len(conflicts) == 0, conflicts, nil
}

// inTx wraps fn in a database transaction. Repositories backed by mocks
// carry no live handle; fn then runs directly.
func (s *bookingService) inTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	db := s.bookings.GetDB()
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// notify emits a lifecycle event; delivery failures are logged, never
// surfaced to the caller.
func (s *bookingService) notify(event *notify.Event) {
	if event == nil || s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(*event); err != nil {
		log.Printf("[BookingService] notify %s: %v", event.Kind, err)
	}
}
