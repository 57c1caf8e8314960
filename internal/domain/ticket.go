package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Transitions are
// unconstrained: any status may follow any other.
type TicketStatus string

const (
	TicketStatusOpen              TicketStatus = "OPEN"
	TicketStatusInProgress        TicketStatus = "IN_PROGRESS"
	TicketStatusPendingThirdParty TicketStatus = "PENDING_THIRD_PARTY"
	TicketStatusPendingCustomer   TicketStatus = "PENDING_CUSTOMER"
	TicketStatusResolved          TicketStatus = "RESOLVED"
	TicketStatusClosed            TicketStatus = "CLOSED"
	TicketStatusCancelled         TicketStatus = "CANCELLED"
)

// ValidTicketStatus reports whether s is a known status value.
func ValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusPendingThirdParty,
		TicketStatusPendingCustomer, TicketStatusResolved, TicketStatusClosed,
		TicketStatusCancelled:
		return true
	}
	return false
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// ValidTicketPriority reports whether p is a known priority value.
func ValidTicketPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// Ticket is the central work item. CaseNumber is assigned exactly once at
// creation time from a monotonic counter and is never reused, even after the
// ticket is deleted.
type Ticket struct {
	ID                  string
	CaseNumber          int64
	Title               string
	DetailedDescription string
	IncidentType        string
	Priority            TicketPriority
	Status              TicketStatus
	RequesterName       string
	RequesterPhone      *string
	RequesterEmail      *string
	CompanyID           *string
	BranchID            *string
	ContactID           *string
	AssignedTechID      *string
	CreatedByID         *string
	EstimatedResolution *time.Time
	ActualResolution    *time.Time
	AffectedEquipment   *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TicketAction is one append-only log entry against a ticket. Actions are
// removed by cascade when their ticket is deleted.
type TicketAction struct {
	ID          string
	TicketID    string
	Description string
	ActionDate  time.Time
	Category    string
	UserID      *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DefaultActionCategory is applied when a caller appends an action without
// an explicit category.
const DefaultActionCategory = "comentario"
