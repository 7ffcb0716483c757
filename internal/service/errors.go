package service

import "errors"

var (
	ErrResourceNotFound    = errors.New("resource not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrResourceUnavailable = errors.New("resource is not published")

	// Validation failures, one sentinel per violated rule.
	ErrEndBeforeStart  = errors.New("end time must be after start time")
	ErrDurationTooLong = errors.New("booking cannot exceed 24 hours")
	ErrStartInPast     = errors.New("booking cannot start in the past")
	ErrInvalidCadence  = errors.New("recurrence cadence must be daily, weekly or biweekly")
	ErrInvalidCount    = errors.New("recurrence count must be at least 1")

	ErrBookingConflict  = errors.New("time slot conflicts with an existing booking")
	ErrAllSlotsConflict = errors.New("all recurring time slots conflict with existing bookings")

	ErrInvalidTransition = errors.New("booking has already been processed")
	ErrPermissionDenied  = errors.New("actor is not allowed to perform this action")

	ErrNotEligibleToReview = errors.New("no completed booking to review, or already reviewed")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
)

// IsValidation reports whether err is one of the admission validation
// sentinels, letting handlers map the whole family to a bad-request.
func IsValidation(err error) bool {
	for _, v := range []error{ErrEndBeforeStart, ErrDurationTooLong, ErrStartInPast, ErrInvalidCadence, ErrInvalidCount, ErrInvalidRating} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
