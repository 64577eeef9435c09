package domain

import "time"

// TeamStatus is the lifecycle state of a BidFlow staff record.
type TeamStatus string

const (
	TeamStatusActive   TeamStatus = "active"
	TeamStatusPending  TeamStatus = "pending"
	TeamStatusInactive TeamStatus = "inactive"
)

// TeamMember is a staff record of the permission directory.
type TeamMember struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Role        string          `json:"role"`
	Status      TeamStatus      `json:"status"`
	Permissions TeamPermissions `json:"permissions"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Toggled is the status an admin toggle moves the member to.
func (s TeamStatus) Toggled() TeamStatus {
	if s == TeamStatusActive {
		return TeamStatusInactive
	}
	return TeamStatusActive
}
