package domain

import "time"

// Address is a postal address inside a comuna. The schema does not enforce
// uniqueness; callers de-duplicate on (street, number, comuna).
type Address struct {
	ID        string
	ComunaID  string
	Street    string
	Number    string
	Unit      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
