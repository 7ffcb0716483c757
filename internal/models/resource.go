package models

import "time"

type ApprovalPolicy string

const (
	// PolicyOpen auto-approves new bookings (study rooms).
	PolicyOpen ApprovalPolicy = "open"
	// PolicyRequiresApproval holds new bookings as pending until the
	// owner or staff signs off (labs, equipment, event spaces).
	PolicyRequiresApproval ApprovalPolicy = "requires_approval"
)

type ResourceStatus string

const (
	ResourceDraft     ResourceStatus = "draft"
	ResourcePublished ResourceStatus = "published"
	ResourceArchived  ResourceStatus = "archived"
)

type Resource struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OwnerID        string         `gorm:"not null;index" json:"owner_id"`
	Title          string         `gorm:"not null" json:"title"`
	Description    string         `json:"description,omitempty"`
	Category       string         `gorm:"type:varchar(50);index" json:"category,omitempty"`
	Location       string         `json:"location,omitempty"`
	Capacity       int            `json:"capacity,omitempty"`
	ApprovalPolicy ApprovalPolicy `gorm:"type:varchar(20);not null;default:'requires_approval'" json:"approval_policy"`
	Status         ResourceStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (r *Resource) Bookable() bool {
	return r.Status == ResourcePublished
}
