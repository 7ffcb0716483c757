package models

import "time"

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusRejected  BookingStatus = "rejected"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// statusTransitions is the closed set of legal status changes.
// Rejected, cancelled and completed are terminal.
var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusCancelled, StatusCompleted},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Active reports whether the booking participates in conflict checks.
func (s BookingStatus) Active() bool {
	return s == StatusPending || s == StatusApproved
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Booking struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	ResourceID      uint          `gorm:"not null;index" json:"resource_id"`
	RequesterID     string        `gorm:"not null;index" json:"requester_id"`
	StartAt         time.Time     `gorm:"not null;index" json:"start_at"`
	EndAt           time.Time     `gorm:"not null" json:"end_at"`
	Status          BookingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Purpose         string        `json:"purpose,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	CalendarEventID string        `gorm:"type:varchar(255)" json:"calendar_event_id,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	Resource *Resource `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`
}

func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartAt, End: b.EndAt}
}
