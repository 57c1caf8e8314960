package domain

import "time"

// Branch (sucursal) is a company site. Every branch owns exactly one
// address; an address is never shared between branches.
type Branch struct {
	ID        string
	Name      string
	Phone     *string
	Email     *string
	AddressID string
	CompanyID *string
	State     LifecycleState
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location (ubicacion) is a sub-area within a branch, such as a floor or a
// server room.
type Location struct {
	ID            string
	BranchID      string
	ReferenceName *string
	Notes         *string
	State         LifecycleState
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
