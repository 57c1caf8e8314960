package domain

import "time"

// Company (empresa) is a customer organization. RUT is the Chilean tax
// identifier and is globally unique.
type Company struct {
	ID        string
	Name      string
	RUT       string
	Email     *string
	Phone     *string
	LogoURL   *string
	AddressID *string
	State     LifecycleState
	CreatedAt time.Time
	UpdatedAt time.Time
}
