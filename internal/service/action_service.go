package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/repository"
	"github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/errorutil"
	"github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/optional"
)

// ActionService manages the per-ticket activity log.
type ActionService struct {
	actions repository.TicketActionRepository
	tickets repository.TicketRepository
}

// NewActionService constructs the service.
func NewActionService(actionRepo repository.TicketActionRepository, ticketRepo repository.TicketRepository) *ActionService {
	return &ActionService{actions: actionRepo, tickets: ticketRepo}
}

// ActionCreateInput describes a new log entry. A nil ActionDate means "now";
// the category defaults to comentario.
type ActionCreateInput struct {
	TicketID    string
	Description string
	ActionDate  *time.Time
	Category    string
	UserID      *string
}

// ActionUpdateInput describes a partial edit of an existing entry.
type ActionUpdateInput struct {
	ID          string
	Description optional.Field[string]
	Category    optional.Field[string]
}

// Append adds an entry to the ticket's log.
func (s *ActionService) Append(ctx context.Context, input ActionCreateInput) (*domain.TicketAction, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, errorutil.NewValidationError("missing required fields: descripcion", nil)
	}
	if _, err := s.tickets.GetByID(ctx, input.TicketID); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("ticket", map[string]any{"id": input.TicketID})
		}
		return nil, err
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = domain.DefaultActionCategory
	}

	action := &domain.TicketAction{
		TicketID:    input.TicketID,
		Description: strings.TrimSpace(input.Description),
		Category:    category,
		UserID:      input.UserID,
	}
	if input.ActionDate != nil {
		action.ActionDate = *input.ActionDate
	}
	if err := s.actions.Create(ctx, action); err != nil {
		return nil, err
	}
	return action, nil
}

// Edit updates the text or category of an existing entry. The action date
// and authorship are immutable.
func (s *ActionService) Edit(ctx context.Context, input ActionUpdateInput) (*domain.TicketAction, error) {
	action, err := s.actions.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("action", map[string]any{"id": input.ID})
		}
		return nil, err
	}

	if input.Description.Present && !input.Description.Null {
		trimmed := strings.TrimSpace(input.Description.Value)
		if trimmed == "" {
			return nil, errorutil.NewValidationError("descripcion must not be empty", nil)
		}
		action.Description = trimmed
	}
	if input.Category.Present && !input.Category.Null {
		action.Category = strings.TrimSpace(input.Category.Value)
	}

	if err := s.actions.Update(ctx, action); err != nil {
		return nil, err
	}
	return action, nil
}

// ListByTicket returns the ticket's log, latest entry first.
func (s *ActionService) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketAction, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, err
	}
	return s.actions.ListByTicket(ctx, ticketID)
}
