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

// LoanService keeps equipment status and loan records in lockstep: opening
// a loan flips the equipment to LOANED, registering the return flips it
// back to AVAILABLE, both inside one transaction.
type LoanService struct {
	loans      repository.LoanRepository
	equipment  repository.EquipmentRepository
	contacts   repository.ContactRepository
	tx         persistence.Transactor
	dispatcher events.Dispatcher
}

// LoanDependencies bundles collaborators for the loan service.
type LoanDependencies struct {
	LoanRepo      repository.LoanRepository
	EquipmentRepo repository.EquipmentRepository
	ContactRepo   repository.ContactRepository
	Tx            persistence.Transactor
	Dispatcher    events.Dispatcher
}

// NewLoanService constructs the service.
func NewLoanService(deps LoanDependencies) *LoanService {
	return &LoanService{
		loans:      deps.LoanRepo,
		equipment:  deps.EquipmentRepo,
		contacts:   deps.ContactRepo,
		tx:         deps.Tx,
		dispatcher: deps.Dispatcher,
	}
}

// LoanCreateInput describes a new loan.
type LoanCreateInput struct {
	EquipmentID         string
	ContactID           string
	ResponsibleOnSite   string
	LoanDate            time.Time
	EstimatedReturnDate time.Time
	TicketID            *string
	LoanNotes           *string
	DeliveredByID       *string
}

// LoanUpdateInput describes a partial loan update. Setting ActualReturnDate
// together with status RETURNED closes the loan and frees the equipment.
type LoanUpdateInput struct {
	ID                  string
	ResponsibleOnSite   optional.Field[string]
	EstimatedReturnDate optional.Field[time.Time]
	ActualReturnDate    optional.Field[time.Time]
	Status              optional.Field[domain.LoanStatus]
	TicketID            optional.Field[string]
	LoanNotes           optional.Field[string]
	ReturnNotes         optional.Field[string]
	ReceivedByID        optional.Field[string]
}

// LoanListFilter describes listing filters.
type LoanListFilter struct {
	EquipmentID *string
	ContactID   *string
	TicketID    *string
	Statuses    []domain.LoanStatus
	Limit       int
	Offset      int
}

// Create opens a loan. The equipment must currently be AVAILABLE; the
// validation error lists every missing required field at once so the
// caller can fix the form in one pass.
func (s *LoanService) Create(ctx context.Context, input LoanCreateInput) (*domain.EquipmentLoan, error) {
	var missing []string
	if input.EquipmentID == "" {
		missing = append(missing, "equipo_id")
	}
	if input.ContactID == "" {
		missing = append(missing, "contacto_id")
	}
	if strings.TrimSpace(input.ResponsibleOnSite) == "" {
		missing = append(missing, "responsable_en_sitio")
	}
	if input.EstimatedReturnDate.IsZero() {
		missing = append(missing, "fecha_devolucion_estimada")
	}
	if len(missing) > 0 {
		return nil, errorutil.NewValidationError("missing required fields: "+strings.Join(missing, ", "), nil)
	}
	if input.LoanDate.IsZero() {
		input.LoanDate = time.Now()
	}

	equipment, err := s.equipment.GetByID(ctx, input.EquipmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("equipment", map[string]any{"id": input.EquipmentID})
		}
		return nil, err
	}
	if equipment.Status != domain.EquipmentStatusAvailable {
		return nil, errorutil.NewBusinessRuleError(
			"equipment " + equipment.UniqueIdentifier + " is not available for loan (status " + string(equipment.Status) + ")")
	}
	if _, err := s.contacts.GetByID(ctx, input.ContactID); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("contact", map[string]any{"id": input.ContactID})
		}
		return nil, err
	}

	loan := &domain.EquipmentLoan{
		EquipmentID:         input.EquipmentID,
		ContactID:           input.ContactID,
		ResponsibleOnSite:   strings.TrimSpace(input.ResponsibleOnSite),
		LoanDate:            input.LoanDate,
		EstimatedReturnDate: input.EstimatedReturnDate,
		Status:              domain.LoanStatusLoaned,
		TicketID:            input.TicketID,
		LoanNotes:           input.LoanNotes,
		DeliveredByID:       input.DeliveredByID,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.loans.Create(ctx, loan); err != nil {
			return err
		}
		return s.equipment.SetStatus(ctx, loan.EquipmentID, domain.EquipmentStatusLoaned)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type: events.EventLoanCreated,
		Payload: events.LoanCreatedPayload{
			LoanID:      loan.ID,
			EquipmentID: loan.EquipmentID,
			ContactID:   loan.ContactID,
			TicketID:    loan.TicketID,
		},
	})
	return loan, nil
}

// Update applies a partial update. The return flow is triggered by an
// actual return date arriving together with status RETURNED; the loan row
// and the equipment row change in the same transaction.
func (s *LoanService) Update(ctx context.Context, input LoanUpdateInput) (*domain.EquipmentLoan, error) {
	loan, err := s.loans.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("loan", map[string]any{"id": input.ID})
		}
		return nil, err
	}
	wasOpen := loan.Status == domain.LoanStatusLoaned || loan.Status == domain.LoanStatusOverdue

	if input.ResponsibleOnSite.Present && !input.ResponsibleOnSite.Null {
		loan.ResponsibleOnSite = strings.TrimSpace(input.ResponsibleOnSite.Value)
	}
	if input.EstimatedReturnDate.Present && !input.EstimatedReturnDate.Null {
		loan.EstimatedReturnDate = input.EstimatedReturnDate.Value
	}
	if input.Status.Present && !input.Status.Null {
		if !domain.ValidLoanStatus(input.Status.Value) {
			return nil, errorutil.NewValidationError("unknown loan status: "+string(input.Status.Value), nil)
		}
		loan.Status = input.Status.Value
	}
	input.ActualReturnDate.Apply(&loan.ActualReturnDate)
	input.TicketID.Apply(&loan.TicketID)
	input.LoanNotes.Apply(&loan.LoanNotes)
	input.ReturnNotes.Apply(&loan.ReturnNotes)
	input.ReceivedByID.Apply(&loan.ReceivedByID)

	returning := wasOpen && loan.Status == domain.LoanStatusReturned && loan.ActualReturnDate != nil

	if returning {
		err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := s.loans.Update(ctx, loan); err != nil {
				return err
			}
			return s.equipment.SetStatus(ctx, loan.EquipmentID, domain.EquipmentStatusAvailable)
		})
	} else {
		err = s.loans.Update(ctx, loan)
	}
	if err != nil {
		return nil, err
	}

	if returning {
		s.publish(ctx, events.Event{
			Type: events.EventLoanReturned,
			Payload: events.LoanReturnedPayload{
				LoanID:      loan.ID,
				EquipmentID: loan.EquipmentID,
			},
		})
	}
	return loan, nil
}

// Delete removes the loan record only. The equipment status is left alone:
// an open loan being deleted is a bookkeeping correction, not a return.
func (s *LoanService) Delete(ctx context.Context, id string) error {
	if err := s.loans.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return errorutil.NewNotFound("loan", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

// GetByID fetches a single loan.
func (s *LoanService) GetByID(ctx context.Context, id string) (*domain.EquipmentLoan, error) {
	loan, err := s.loans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("loan", map[string]any{"id": id})
		}
		return nil, err
	}
	return loan, nil
}

// List returns loans matching the filter.
func (s *LoanService) List(ctx context.Context, filter LoanListFilter) ([]domain.EquipmentLoan, error) {
	return s.loans.List(ctx, repository.LoanFilter{
		EquipmentID: filter.EquipmentID,
		ContactID:   filter.ContactID,
		TicketID:    filter.TicketID,
		Statuses:    filter.Statuses,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	})
}

func (s *LoanService) publish(ctx context.Context, event events.Event) {
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
