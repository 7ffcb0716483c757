package models

import "time"

type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ResourceID uint      `gorm:"not null;index" json:"resource_id"`
	ReviewerID string    `gorm:"not null;index" json:"reviewer_id"`
	BookingID  uint      `gorm:"not null" json:"booking_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	Hidden     bool      `gorm:"default:false" json:"hidden"`
	CreatedAt  time.Time `json:"created_at"`
}
