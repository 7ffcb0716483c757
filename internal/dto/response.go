package dto

import (
	"time"

	"github.com/campusbook/booking-service/internal/models"
)

type BookingResponse struct {
	ID          uint                 `json:"id"`
	ResourceID  uint                 `json:"resource_id"`
	RequesterID string               `json:"requester_id"`
	StartAt     time.Time            `json:"start_at"`
	EndAt       time.Time            `json:"end_at"`
	Status      models.BookingStatus `json:"status"`
	Purpose     string               `json:"purpose,omitempty"`
	Notes       string               `json:"notes,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type IntervalResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type RecurringBookingResponse struct {
	Created     []BookingResponse  `json:"created"`
	FailedSlots []IntervalResponse `json:"failed_slots"`
}

type AvailabilityResponse struct {
	Available bool              `json:"available"`
	Message   string            `json:"message"`
	Conflicts []BookingResponse `json:"conflicts,omitempty"`
}

type SweepResponse struct {
	Completed int64 `json:"completed"`
}

type ReviewResponse struct {
	ID         uint      `json:"id"`
	ResourceID uint      `json:"resource_id"`
	ReviewerID string    `json:"reviewer_id"`
	BookingID  uint      `json:"booking_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type ResourceReviewsResponse struct {
	Reviews       []ReviewResponse `json:"reviews"`
	AverageRating float64          `json:"average_rating"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		ResourceID:  b.ResourceID,
		RequesterID: b.RequesterID,
		StartAt:     b.StartAt,
		EndAt:       b.EndAt,
		Status:      b.Status,
		Purpose:     b.Purpose,
		Notes:       b.Notes,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func ToBookingResponses(bookings []models.Booking) []BookingResponse {
	out := make([]BookingResponse, len(bookings))
	for i := range bookings {
		out[i] = ToBookingResponse(&bookings[i])
	}
	return out
}

func ToIntervalResponses(intervals []models.Interval) []IntervalResponse {
	out := make([]IntervalResponse, len(intervals))
	for i, iv := range intervals {
		out[i] = IntervalResponse{Start: iv.Start, End: iv.End}
	}
	return out
}

func ToReviewResponse(r *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		ResourceID: r.ResourceID,
		ReviewerID: r.ReviewerID,
		BookingID:  r.BookingID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}
