package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/events"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/persistence"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/repository"
	"github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/errorutil"
	"github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/optional"
)

// TicketService coordinates the ticket lifecycle: case-number allocation,
// relation wiring, optional loan sub-requests and hard deletes.
type TicketService struct {
	tickets    repository.TicketRepository
	actions    repository.TicketActionRepository
	loans      repository.LoanRepository
	loanSvc    *LoanService
	tx         persistence.Transactor
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	ActionRepo repository.TicketActionRepository
	LoanRepo   repository.LoanRepository
	LoanSvc    *LoanService
	Tx         persistence.Transactor
	Dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		actions:    deps.ActionRepo,
		loans:      deps.LoanRepo,
		loanSvc:    deps.LoanSvc,
		tx:         deps.Tx,
		dispatcher: deps.Dispatcher,
	}
}

// TicketCreateInput describes ticket creation payload. Relation IDs left nil
// stay unset. Loan, when non-nil, is created in the same transaction as the
// ticket so both succeed or fail together.
type TicketCreateInput struct {
	Title               string
	DetailedDescription string
	IncidentType        string
	Priority            domain.TicketPriority
	Status              domain.TicketStatus
	RequesterName       string
	RequesterPhone      *string
	RequesterEmail      *string
	CompanyID           *string
	BranchID            *string
	ContactID           *string
	AssignedTechID      *string
	CreatedByID         *string
	EstimatedResolution *time.Time
	AffectedEquipment   *string
	Loan                *LoanCreateInput
}

// TicketUpdateInput describes a partial update. Absent fields are left
// untouched; explicit nulls disconnect the relation.
type TicketUpdateInput struct {
	ID                  string
	Title               optional.Field[string]
	DetailedDescription optional.Field[string]
	IncidentType        optional.Field[string]
	Priority            optional.Field[domain.TicketPriority]
	Status              optional.Field[domain.TicketStatus]
	RequesterName       optional.Field[string]
	RequesterPhone      optional.Field[string]
	RequesterEmail      optional.Field[string]
	CompanyID           optional.Field[string]
	BranchID            optional.Field[string]
	ContactID           optional.Field[string]
	AssignedTechID      optional.Field[string]
	EstimatedResolution optional.Field[time.Time]
	ActualResolution    optional.Field[time.Time]
	AffectedEquipment   optional.Field[string]
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	CompanyID      *string
	BranchID       *string
	AssignedTechID *string
	Statuses       []domain.TicketStatus
	Priorities     []domain.TicketPriority
	SearchTerm     *string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	Limit          int
	Offset         int
}

// Create persists a new ticket. The case number is taken from the atomic
// counter inside the transaction, so concurrent creators get distinct,
// strictly increasing numbers and an aborted create burns nothing.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	var missing []string
	if strings.TrimSpace(input.Title) == "" {
		missing = append(missing, "titulo")
	}
	if strings.TrimSpace(input.RequesterName) == "" {
		missing = append(missing, "solicitante_nombre")
	}
	if len(missing) > 0 {
		return nil, errorutil.NewValidationError("missing required fields: "+strings.Join(missing, ", "), nil)
	}

	if input.Priority == "" {
		input.Priority = domain.TicketPriorityMedium
	}
	if !domain.ValidTicketPriority(input.Priority) {
		return nil, errorutil.NewValidationError("unknown priority: "+string(input.Priority), nil)
	}
	if input.Status == "" {
		input.Status = domain.TicketStatusOpen
	}
	if !domain.ValidTicketStatus(input.Status) {
		return nil, errorutil.NewValidationError("unknown status: "+string(input.Status), nil)
	}

	ticket := &domain.Ticket{
		Title:               strings.TrimSpace(input.Title),
		DetailedDescription: strings.TrimSpace(input.DetailedDescription),
		IncidentType:        input.IncidentType,
		Priority:            input.Priority,
		Status:              input.Status,
		RequesterName:       strings.TrimSpace(input.RequesterName),
		RequesterPhone:      input.RequesterPhone,
		RequesterEmail:      input.RequesterEmail,
		CompanyID:           input.CompanyID,
		BranchID:            input.BranchID,
		ContactID:           input.ContactID,
		AssignedTechID:      input.AssignedTechID,
		CreatedByID:         input.CreatedByID,
		EstimatedResolution: input.EstimatedResolution,
		AffectedEquipment:   input.AffectedEquipment,
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		caseNumber, err := s.tickets.NextCaseNumber(ctx)
		if err != nil {
			return err
		}
		ticket.CaseNumber = caseNumber

		if err := s.tickets.Create(ctx, ticket); err != nil {
			return err
		}

		action := &domain.TicketAction{
			TicketID:    ticket.ID,
			Description: "Ticket creado",
			Category:    "sistema",
			UserID:      input.CreatedByID,
		}
		if err := s.actions.Create(ctx, action); err != nil {
			return err
		}

		if input.Loan != nil {
			loanInput := *input.Loan
			loanInput.TicketID = &ticket.ID
			if _, err := s.loanSvc.Create(ctx, loanInput); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventTicketCreated,
		ActorID: input.CreatedByID,
		Payload: events.TicketCreatedPayload{
			TicketID:   ticket.ID,
			CaseNumber: ticket.CaseNumber,
			Priority:   ticket.Priority,
			Title:      ticket.Title,
		},
	})
	return ticket, nil
}

// Update applies a partial update. Status transitions are deliberately
// unconstrained; only enum membership is checked.
func (s *TicketService) Update(ctx context.Context, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("ticket", map[string]any{"id": input.ID})
		}
		return nil, err
	}
	oldStatus := ticket.Status

	if input.Title.Present && !input.Title.Null {
		ticket.Title = strings.TrimSpace(input.Title.Value)
	}
	if input.DetailedDescription.Present && !input.DetailedDescription.Null {
		ticket.DetailedDescription = input.DetailedDescription.Value
	}
	if input.IncidentType.Present && !input.IncidentType.Null {
		ticket.IncidentType = input.IncidentType.Value
	}
	if input.Priority.Present && !input.Priority.Null {
		if !domain.ValidTicketPriority(input.Priority.Value) {
			return nil, errorutil.NewValidationError("unknown priority: "+string(input.Priority.Value), nil)
		}
		ticket.Priority = input.Priority.Value
	}
	if input.Status.Present && !input.Status.Null {
		if !domain.ValidTicketStatus(input.Status.Value) {
			return nil, errorutil.NewValidationError("unknown status: "+string(input.Status.Value), nil)
		}
		ticket.Status = input.Status.Value
	}
	if input.RequesterName.Present && !input.RequesterName.Null {
		ticket.RequesterName = strings.TrimSpace(input.RequesterName.Value)
	}
	input.RequesterPhone.Apply(&ticket.RequesterPhone)
	input.RequesterEmail.Apply(&ticket.RequesterEmail)
	input.CompanyID.Apply(&ticket.CompanyID)
	input.BranchID.Apply(&ticket.BranchID)
	input.ContactID.Apply(&ticket.ContactID)
	input.AssignedTechID.Apply(&ticket.AssignedTechID)
	input.EstimatedResolution.Apply(&ticket.EstimatedResolution)
	input.ActualResolution.Apply(&ticket.ActualResolution)
	input.AffectedEquipment.Apply(&ticket.AffectedEquipment)

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	if ticket.Status != oldStatus {
		s.publish(ctx, events.Event{
			Type: events.EventTicketStatusChanged,
			Payload: events.TicketStatusChangedPayload{
				TicketID:  ticket.ID,
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
			},
		})
	}
	return ticket, nil
}

// Delete removes the ticket after detaching any loans that reference it.
// Loans survive as historical records; actions go with the ticket via
// cascade.
func (s *TicketService) Delete(ctx context.Context, id string) error {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return errorutil.NewNotFound("ticket", map[string]any{"id": id})
		}
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.loans.DetachTicket(ctx, ticket.ID); err != nil {
			return err
		}
		return s.tickets.Delete(ctx, ticket.ID)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type: events.EventTicketDeleted,
		Payload: events.TicketDeletedPayload{
			TicketID:   ticket.ID,
			CaseNumber: ticket.CaseNumber,
		},
	})
	return nil
}

// GetByID fetches a single ticket.
func (s *TicketService) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, err
	}
	return ticket, nil
}

// List returns tickets matching the filter, newest case first.
func (s *TicketService) List(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	return s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		CompanyID:      filter.CompanyID,
		BranchID:       filter.BranchID,
		AssignedTechID: filter.AssignedTechID,
		Statuses:       filter.Statuses,
		Priorities:     filter.Priorities,
		SearchTerm:     filter.SearchTerm,
		CreatedFrom:    filter.CreatedFrom,
		CreatedTo:      filter.CreatedTo,
		Limit:          filter.Limit,
		Offset:         filter.Offset,
	})
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
