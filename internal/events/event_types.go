package events

import (
	"time"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketDeleted       EventType = "ticket_deleted"
	EventLoanCreated         EventType = "loan_created"
	EventLoanReturned        EventType = "loan_returned"
	EventImportCompleted     EventType = "import_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   *string     `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID   string                `json:"ticket_id"`
	CaseNumber int64                 `json:"case_number"`
	Priority   domain.TicketPriority `json:"priority"`
	Title      string                `json:"title"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketID  string              `json:"ticket_id"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	TicketID   string `json:"ticket_id"`
	CaseNumber int64  `json:"case_number"`
}

// LoanCreatedPayload payload.
type LoanCreatedPayload struct {
	LoanID      string  `json:"loan_id"`
	EquipmentID string  `json:"equipment_id"`
	ContactID   string  `json:"contact_id"`
	TicketID    *string `json:"ticket_id,omitempty"`
}

// LoanReturnedPayload payload.
type LoanReturnedPayload struct {
	LoanID      string `json:"loan_id"`
	EquipmentID string `json:"equipment_id"`
}

// ImportCompletedPayload payload.
type ImportCompletedPayload struct {
	SuccessfulCount int `json:"successful_count"`
	FailedCount     int `json:"failed_count"`
}
