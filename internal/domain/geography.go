package domain

import "time"

// Country is the root of the geographic containment hierarchy.
type Country struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Region belongs to exactly one Country.
type Region struct {
	ID        string
	CountryID string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Province belongs to exactly one Region. Province names are unique per
// region only; two regions may each contain a "Santiago".
type Province struct {
	ID        string
	RegionID  string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comuna is the leaf geographic level addresses attach to.
type Comuna struct {
	ID         string
	ProvinceID string
	Name       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
