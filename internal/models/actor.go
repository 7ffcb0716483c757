package models

type ActorRole string

const (
	RoleStudent ActorRole = "student"
	RoleStaff   ActorRole = "staff"
	RoleAdmin   ActorRole = "admin"
)

// Actor identifies who is performing an operation. Identity and role are
// established by the calling layer; this service only enforces them.
type Actor struct {
	ID   string
	Role ActorRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff || a.Role == RoleAdmin
}
