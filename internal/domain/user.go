package domain

import "time"

// UserRole distinguishes administrators from field technicians.
type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleTechnician UserRole = "TECHNICIAN"
)

// User is an internal operator: an admin or a technician who works tickets.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	State        LifecycleState
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
