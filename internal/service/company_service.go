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

// CompanyService manages customer organizations. Companies are never hard
// deleted; ticket history keeps pointing at them, so retirement is a state
// flip to INACTIVE.
type CompanyService struct {
	companies repository.CompanyRepository
}

// NewCompanyService constructs the service.
func NewCompanyService(companyRepo repository.CompanyRepository) *CompanyService {
	return &CompanyService{companies: companyRepo}
}

// CompanyCreateInput describes a new company.
type CompanyCreateInput struct {
	Name      string
	RUT       string
	Email     *string
	Phone     *string
	LogoURL   *string
	AddressID *string
}

// CompanyUpdateInput describes a partial update.
type CompanyUpdateInput struct {
	ID        string
	Name      optional.Field[string]
	RUT       optional.Field[string]
	Email     optional.Field[string]
	Phone     optional.Field[string]
	LogoURL   optional.Field[string]
	AddressID optional.Field[string]
}

// Create registers a company. Duplicate RUTs surface as a conflict via the
// unique constraint.
func (s *CompanyService) Create(ctx context.Context, input CompanyCreateInput) (*domain.Company, error) {
	var missing []string
	if strings.TrimSpace(input.Name) == "" {
		missing = append(missing, "nombre")
	}
	if strings.TrimSpace(input.RUT) == "" {
		missing = append(missing, "rut")
	}
	if len(missing) > 0 {
		return nil, errorutil.NewValidationError("missing required fields: "+strings.Join(missing, ", "), nil)
	}

	company := &domain.Company{
		Name:      strings.TrimSpace(input.Name),
		RUT:       strings.TrimSpace(input.RUT),
		Email:     input.Email,
		Phone:     input.Phone,
		LogoURL:   input.LogoURL,
		AddressID: input.AddressID,
		State:     domain.LifecycleActive,
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// Update applies a partial update.
func (s *CompanyService) Update(ctx context.Context, input CompanyUpdateInput) (*domain.Company, error) {
	company, err := s.companies.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("company", map[string]any{"id": input.ID})
		}
		return nil, err
	}

	if input.Name.Present && !input.Name.Null {
		company.Name = strings.TrimSpace(input.Name.Value)
	}
	if input.RUT.Present && !input.RUT.Null {
		company.RUT = strings.TrimSpace(input.RUT.Value)
	}
	input.Email.Apply(&company.Email)
	input.Phone.Apply(&company.Phone)
	input.LogoURL.Apply(&company.LogoURL)
	input.AddressID.Apply(&company.AddressID)

	if err := s.companies.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// Deactivate flips the company to INACTIVE.
func (s *CompanyService) Deactivate(ctx context.Context, id string) error {
	if err := s.companies.SetState(ctx, id, domain.LifecycleInactive); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return errorutil.NewNotFound("company", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

// GetByID fetches a single company.
func (s *CompanyService) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("company", map[string]any{"id": id})
		}
		return nil, err
	}
	return company, nil
}

// List returns companies, newest first.
func (s *CompanyService) List(ctx context.Context, limit, offset int) ([]domain.Company, error) {
	return s.companies.List(ctx, limit, offset)
}
