package service

import (
	"context"
	"time"

	"github.com/campusbook/booking-service/internal/models"
	"github.com/campusbook/booking-service/internal/notify"
	"gorm.io/gorm"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionCancel  Action = "cancel"
)

const defaultRejectReason = "No reason provided."

func (a Action) target() (models.BookingStatus, bool) {
	switch a {
	case ActionApprove:
		return models.StatusApproved, true
	case ActionReject:
		return models.StatusRejected, true
	case ActionCancel:
		return models.StatusCancelled, true
	}
	return "", false
}

// ChangeStatus applies one lifecycle transition. Approve and reject are
// owner/staff moves on pending bookings; cancel is a requester/admin move
// on pending or approved ones. Anything else is rejected so callers can
// surface "already processed" instead of silently ignoring the request.
func (s *bookingService) ChangeStatus(ctx context.Context, bookingID uint, action Action, actor models.Actor, reason string) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	resource, err := s.resources.FindByID(ctx, booking.ResourceID)
	if err != nil {
		return nil, ErrResourceNotFound
	}

	target, ok := action.target()
	if !ok {
		return nil, ErrInvalidTransition
	}

	switch action {
	case ActionApprove, ActionReject:
		if resource.OwnerID != actor.ID && !actor.IsStaff() {
			return nil, ErrPermissionDenied
		}
	case ActionCancel:
		if booking.RequesterID != actor.ID && !actor.IsAdmin() {
			return nil, ErrPermissionDenied
		}
	}

	if !booking.Status.CanTransitionTo(target) {
		return nil, ErrInvalidTransition
	}

	var notes *string
	if action == ActionReject {
		if reason == "" {
			reason = defaultRejectReason
		}
		notes = &reason
	}

	err = s.inTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.resources.FindByIDForUpdate(ctx, tx, booking.ResourceID); err != nil {
			return ErrResourceNotFound
		}
		rows, err := s.bookings.UpdateStatus(ctx, tx, bookingID, booking.Status, target, notes)
		if err != nil {
			return err
		}
		if rows == 0 {
			// Another writer moved the booking between our read and this
			// write; the transition we validated no longer applies.
			return ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	booking.Status = target
	if notes != nil {
		booking.Notes = *notes
	}
	booking.UpdatedAt = s.now()

	s.notify(transitionEvent(booking, resource, action, actor, reason))
	return booking, nil
}

// transitionEvent addresses the event to the counterparty: the requester
// when the owner/admin moved, the owner when the requester moved.
func transitionEvent(booking *models.Booking, resource *models.Resource, action Action, actor models.Actor, reason string) *notify.Event {
	recipient := booking.RequesterID
	if actor.ID == booking.RequesterID {
		recipient = resource.OwnerID
	}

	event := &notify.Event{
		BookingID:   booking.ID,
		ResourceID:  resource.ID,
		RecipientID: recipient,
		ActorID:     actor.ID,
	}
	switch action {
	case ActionApprove:
		event.Kind = notify.KindApproved
		event.Detail = "booking request approved"
	case ActionReject:
		event.Kind = notify.KindRejected
		event.Detail = reason
	case ActionCancel:
		event.Kind = notify.KindCancelled
		event.Detail = "booking cancelled"
	}
	return event
}

// SweepCompleted moves every approved booking whose end has passed into
// completed. A completed interval lies in the past, so the transition is
// never re-validated against conflicts. Safe to run on any cadence.
func (s *bookingService) SweepCompleted(ctx context.Context, now time.Time) (int64, error) {
	return s.bookings.MarkPastComplete(ctx, now)
}
