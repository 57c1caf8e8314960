package domain

import "time"

// Contact (contacto de empresa) is a person tied to a company, optionally
// placed at a specific location.
type Contact struct {
	ID         string
	CompanyID  string
	LocationID *string
	Name       string
	Email      *string
	Phone      *string
	Role       *string
	State      LifecycleState
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
