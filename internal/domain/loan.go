package domain

import "time"

// LoanStatus enumerates loan lifecycle states.
type LoanStatus string

const (
	LoanStatusLoaned   LoanStatus = "LOANED"
	LoanStatusReturned LoanStatus = "RETURNED"
	LoanStatusOverdue  LoanStatus = "OVERDUE"
)

// ValidLoanStatus reports whether s is a known loan status.
func ValidLoanStatus(s LoanStatus) bool {
	switch s {
	case LoanStatusLoaned, LoanStatusReturned, LoanStatusOverdue:
		return true
	}
	return false
}

// EquipmentLoan (equipo en prestamo) records a piece of equipment handed to
// an external contact. While a loan is open the equipment status must be
// LOANED; when the loan is returned the equipment goes back to AVAILABLE.
type EquipmentLoan struct {
	ID                  string
	EquipmentID         string
	ContactID           string
	ResponsibleOnSite   string
	LoanDate            time.Time
	EstimatedReturnDate time.Time
	ActualReturnDate    *time.Time
	Status              LoanStatus
	TicketID            *string
	LoanNotes           *string
	ReturnNotes         *string
	DeliveredByID       *string
	ReceivedByID        *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
