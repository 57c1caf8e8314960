package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/repository"
	"github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/errorutil"
	"github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/optional"
)

// ContactService manages company contacts. Like companies, contacts stay
// on record forever; retirement is a state flip.
type ContactService struct {
	contacts  repository.ContactRepository
	companies repository.CompanyRepository
}

// NewContactService constructs the service.
func NewContactService(contactRepo repository.ContactRepository, companyRepo repository.CompanyRepository) *ContactService {
	return &ContactService{contacts: contactRepo, companies: companyRepo}
}

// ContactCreateInput describes a new contact.
type ContactCreateInput struct {
	CompanyID  string
	LocationID *string
	Name       string
	Email      *string
	Phone      *string
	Role       *string
}

// ContactUpdateInput describes a partial update.
type ContactUpdateInput struct {
	ID         string
	LocationID optional.Field[string]
	Name       optional.Field[string]
	Email      optional.Field[string]
	Phone      optional.Field[string]
	Role       optional.Field[string]
}

// Create registers a contact under an existing company.
func (s *ContactService) Create(ctx context.Context, input ContactCreateInput) (*domain.Contact, error) {
	var missing []string
	if input.CompanyID == "" {
		missing = append(missing, "empresa_id")
	}
	if strings.TrimSpace(input.Name) == "" {
		missing = append(missing, "nombre")
	}
	if len(missing) > 0 {
		return nil, errorutil.NewValidationError("missing required fields: "+strings.Join(missing, ", "), nil)
	}
	if _, err := s.companies.GetByID(ctx, input.CompanyID); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("company", map[string]any{"id": input.CompanyID})
		}
		return nil, err
	}

	contact := &domain.Contact{
		CompanyID:  input.CompanyID,
		LocationID: input.LocationID,
		Name:       strings.TrimSpace(input.Name),
		Email:      input.Email,
		Phone:      input.Phone,
		Role:       input.Role,
		State:      domain.LifecycleActive,
	}
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// Update applies a partial update. A present-null LocationID removes the
// contact from its location.
func (s *ContactService) Update(ctx context.Context, input ContactUpdateInput) (*domain.Contact, error) {
	contact, err := s.contacts.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("contact", map[string]any{"id": input.ID})
		}
		return nil, err
	}

	if input.Name.Present && !input.Name.Null {
		contact.Name = strings.TrimSpace(input.Name.Value)
	}
	input.LocationID.Apply(&contact.LocationID)
	input.Email.Apply(&contact.Email)
	input.Phone.Apply(&contact.Phone)
	input.Role.Apply(&contact.Role)

	if err := s.contacts.Update(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// Deactivate flips the contact to INACTIVE.
func (s *ContactService) Deactivate(ctx context.Context, id string) error {
	if err := s.contacts.SetState(ctx, id, domain.LifecycleInactive); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return errorutil.NewNotFound("contact", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

// GetByID fetches a single contact.
func (s *ContactService) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	contact, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("contact", map[string]any{"id": id})
		}
		return nil, err
	}
	return contact, nil
}

// List returns contacts, optionally scoped to a company.
func (s *ContactService) List(ctx context.Context, companyID *string, limit, offset int) ([]domain.Contact, error) {
	return s.contacts.List(ctx, companyID, limit, offset)
}
