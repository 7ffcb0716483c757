package dto

import "time"

type CreateBookingRequest struct {
	RequesterID string             `json:"requester_id"`
	StartAt     time.Time          `json:"start_at"`
	EndAt       time.Time          `json:"end_at"`
	Purpose     string             `json:"purpose,omitempty"`
	Notes       string             `json:"notes,omitempty"`
	Recurrence  *RecurrenceRequest `json:"recurrence,omitempty"`
}

type RecurrenceRequest struct {
	Pattern string     `json:"pattern"`
	Count   int        `json:"count"`
	EndDate *time.Time `json:"end_date,omitempty"`
}

type StatusChangeRequest struct {
	ActorID   string `json:"actor_id"`
	ActorRole string `json:"actor_role"`
	Reason    string `json:"reason,omitempty"`
}

type RescheduleRequest struct {
	ActorID   string    `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
}

type CreateReviewRequest struct {
	ReviewerID string `json:"reviewer_id"`
	BookingID  uint   `json:"booking_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
}
