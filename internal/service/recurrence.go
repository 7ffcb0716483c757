package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusbook/booking-service/internal/models"
	"github.com/campusbook/booking-service/internal/notify"
)

type Cadence string

const (
	CadenceDaily    Cadence = "daily"
	CadenceWeekly   Cadence = "weekly"
	CadenceBiweekly Cadence = "biweekly"
)

// maxOccurrences caps one recurring request regardless of count.
const maxOccurrences = 10

func (c Cadence) Valid() bool {
	return c == CadenceDaily || c == CadenceWeekly || c == CadenceBiweekly
}

func (c Cadence) stepDays() int {
	switch c {
	case CadenceDaily:
		return 1
	case CadenceWeekly:
		return 7
	case CadenceBiweekly:
		return 14
	}
	return 0
}

type Recurrence struct {
	Cadence Cadence
	Count   int
	// EndDate bounds the series by date only (inclusive); time of day is
	// ignored.
	EndDate *time.Time
}

type RecurringResult struct {
	Created     []models.Booking
	FailedSlots []models.Interval
}

// ExpandRecurrence materializes the occurrence intervals of a recurring
// request. The cadence step moves both endpoints, so every occurrence
// keeps the base duration.
func ExpandRecurrence(base models.Interval, rec Recurrence) []models.Interval {
	count := rec.Count
	if count > maxOccurrences {
		count = maxOccurrences
	}
	step := rec.Cadence.stepDays()

	out := make([]models.Interval, 0, count)
	cur := base
	for i := 0; i < count; i++ {
		if rec.EndDate != nil && dateOnly(cur.Start).After(dateOnly(*rec.EndDate)) {
			break
		}
		out = append(out, cur)
		cur = cur.Shift(step)
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SubmitRecurring feeds each occurrence through admission independently.
// Conflicting slots are skipped and reported back; partial success is the
// expected outcome. Only a batch with zero admitted occurrences fails.
func (s *bookingService) SubmitRecurring(ctx context.Context, req SubmitRequest, rec Recurrence) (*RecurringResult, error) {
	if !rec.Cadence.Valid() {
		return nil, ErrInvalidCadence
	}
	if rec.Count < 1 {
		return nil, ErrInvalidCount
	}
	base := models.Interval{Start: req.Start, End: req.End}
	if err := s.validateInterval(base); err != nil {
		return nil, err
	}

	result := &RecurringResult{}
	var requestEvent *notify.Event
	pendingCount := 0

	for _, iv := range ExpandRecurrence(base, rec) {
		booking, event, err := s.admitWithRetry(ctx, req, iv)
		if err != nil {
			if errors.Is(err, ErrBookingConflict) {
				result.FailedSlots = append(result.FailedSlots, iv)
				continue
			}
			return nil, err
		}
		result.Created = append(result.Created, *booking)

		if event.Kind == notify.KindRequested {
			// One request event covers the whole pending batch.
			pendingCount++
			if requestEvent == nil {
				requestEvent = event
			}
		} else {
			s.notify(event)
		}
	}

	if len(result.Created) == 0 {
		return nil, ErrAllSlotsConflict
	}
	if requestEvent != nil {
		requestEvent.Detail = fmt.Sprintf("%d recurring booking requests awaiting approval", pendingCount)
		s.notify(requestEvent)
	}
	return result, nil
}
