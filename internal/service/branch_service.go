package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/persistence"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/repository"
	"github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/errorutil"
	"github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/optional"
)

// BranchService manages company sites and their addresses. Unlike companies
// and contacts, branches support hard deletion, guarded by reference counts
// over everything placed at the branch.
type BranchService struct {
	branches  repository.BranchRepository
	locations repository.LocationRepository
	contacts  repository.ContactRepository
	equipment repository.EquipmentRepository
	addresses repository.AddressRepository
	tx        persistence.Transactor
}

// BranchDependencies bundles collaborators for the branch service.
type BranchDependencies struct {
	BranchRepo    repository.BranchRepository
	LocationRepo  repository.LocationRepository
	ContactRepo   repository.ContactRepository
	EquipmentRepo repository.EquipmentRepository
	AddressRepo   repository.AddressRepository
	Tx            persistence.Transactor
}

// NewBranchService constructs the service.
func NewBranchService(deps BranchDependencies) *BranchService {
	return &BranchService{
		branches:  deps.BranchRepo,
		locations: deps.LocationRepo,
		contacts:  deps.ContactRepo,
		equipment: deps.EquipmentRepo,
		addresses: deps.AddressRepo,
		tx:        deps.Tx,
	}
}

// BranchCreateInput describes a new branch. The address is resolved by its
// natural key (street, number, comuna); an existing matching address is
// reused, otherwise one is created.
type BranchCreateInput struct {
	Name      string
	Phone     *string
	Email     *string
	CompanyID *string
	ComunaID  string
	Street    string
	Number    string
	Unit      *string
}

// BranchUpdateInput describes a partial update.
type BranchUpdateInput struct {
	ID        string
	Name      optional.Field[string]
	Phone     optional.Field[string]
	Email     optional.Field[string]
	CompanyID optional.Field[string]
}

// BranchDeleteResult reports the outcome of a delete attempt. Refusals
// caused by remaining references are an expected answer, not an error.
type BranchDeleteResult struct {
	Deleted bool
	Message string
}

// Create registers a branch, reusing or creating its address.
func (s *BranchService) Create(ctx context.Context, input BranchCreateInput) (*domain.Branch, error) {
	var missing []string
	if strings.TrimSpace(input.Name) == "" {
		missing = append(missing, "nombre")
	}
	if input.ComunaID == "" {
		missing = append(missing, "comuna_id")
	}
	if strings.TrimSpace(input.Street) == "" {
		missing = append(missing, "calle")
	}
	if strings.TrimSpace(input.Number) == "" {
		missing = append(missing, "numero")
	}
	if len(missing) > 0 {
		return nil, errorutil.NewValidationError("missing required fields: "+strings.Join(missing, ", "), nil)
	}

	branch := &domain.Branch{
		Name:      strings.TrimSpace(input.Name),
		Phone:     input.Phone,
		Email:     input.Email,
		CompanyID: input.CompanyID,
		State:     domain.LifecycleActive,
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		address, err := s.addresses.FindByNaturalKey(ctx, strings.TrimSpace(input.Street), strings.TrimSpace(input.Number), input.ComunaID)
		if err != nil && !errors.Is(err, repository.ErrNoRows) {
			return err
		}
		if address == nil || errors.Is(err, repository.ErrNoRows) {
			address = &domain.Address{
				ComunaID: input.ComunaID,
				Street:   strings.TrimSpace(input.Street),
				Number:   strings.TrimSpace(input.Number),
				Unit:     input.Unit,
			}
			if err := s.addresses.Create(ctx, address); err != nil {
				return err
			}
		}
		branch.AddressID = address.ID
		return s.branches.Create(ctx, branch)
	})
	if err != nil {
		return nil, err
	}
	return branch, nil
}

// Update applies a partial update. The address assignment is immutable; to
// move a branch, delete and recreate it.
func (s *BranchService) Update(ctx context.Context, input BranchUpdateInput) (*domain.Branch, error) {
	branch, err := s.branches.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("branch", map[string]any{"id": input.ID})
		}
		return nil, err
	}

	if input.Name.Present && !input.Name.Null {
		branch.Name = strings.TrimSpace(input.Name.Value)
	}
	input.Phone.Apply(&branch.Phone)
	input.Email.Apply(&branch.Email)
	input.CompanyID.Apply(&branch.CompanyID)

	if err := s.branches.Update(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// Deactivate flips the branch to INACTIVE.
func (s *BranchService) Deactivate(ctx context.Context, id string) error {
	if err := s.branches.SetState(ctx, id, domain.LifecycleInactive); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return errorutil.NewNotFound("branch", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

// Delete hard-deletes the branch together with its locations, but only when
// no contact or equipment remains at any of those locations. The refusal
// comes back as a result value so the handler can render it without a 5xx.
func (s *BranchService) Delete(ctx context.Context, id string) (*BranchDeleteResult, error) {
	branch, err := s.branches.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("branch", map[string]any{"id": id})
		}
		return nil, err
	}

	result := &BranchDeleteResult{}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		locations, err := s.locations.ListByBranch(ctx, branch.ID)
		if err != nil {
			return err
		}
		var contactRefs, equipmentRefs int64
		for _, location := range locations {
			n, err := s.contacts.CountByLocation(ctx, location.ID)
			if err != nil {
				return err
			}
			contactRefs += n
			n, err = s.equipment.CountByLocation(ctx, location.ID)
			if err != nil {
				return err
			}
			equipmentRefs += n
		}
		if contactRefs > 0 || equipmentRefs > 0 {
			result.Deleted = false
			result.Message = fmt.Sprintf(
				"branch still referenced: %d contact(s) and %d equipment item(s) at its locations", contactRefs, equipmentRefs)
			return nil
		}
		for _, location := range locations {
			if err := s.locations.Delete(ctx, location.ID); err != nil {
				return err
			}
		}
		if err := s.branches.Delete(ctx, branch.ID); err != nil {
			return err
		}
		result.Deleted = true
		result.Message = "branch deleted"
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID fetches a single branch.
func (s *BranchService) GetByID(ctx context.Context, id string) (*domain.Branch, error) {
	branch, err := s.branches.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("branch", map[string]any{"id": id})
		}
		return nil, err
	}
	return branch, nil
}

// List returns branches, optionally scoped to a company.
func (s *BranchService) List(ctx context.Context, companyID *string, limit, offset int) ([]domain.Branch, error) {
	return s.branches.List(ctx, companyID, limit, offset)
}
