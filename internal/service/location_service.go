package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/repository"
	"github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/errorutil"
	"github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/optional"
)

// LocationService manages sub-areas inside branches. Hard deletion is
// allowed but refused while contacts or equipment still point at the
// location.
type LocationService struct {
	locations repository.LocationRepository
	branches  repository.BranchRepository
	contacts  repository.ContactRepository
	equipment repository.EquipmentRepository
}

// LocationDependencies bundles collaborators for the location service.
type LocationDependencies struct {
	LocationRepo  repository.LocationRepository
	BranchRepo    repository.BranchRepository
	ContactRepo   repository.ContactRepository
	EquipmentRepo repository.EquipmentRepository
}

// NewLocationService constructs the service.
func NewLocationService(deps LocationDependencies) *LocationService {
	return &LocationService{
		locations: deps.LocationRepo,
		branches:  deps.BranchRepo,
		contacts:  deps.ContactRepo,
		equipment: deps.EquipmentRepo,
	}
}

// LocationCreateInput describes a new location.
type LocationCreateInput struct {
	BranchID      string
	ReferenceName *string
	Notes         *string
}

// LocationUpdateInput describes a partial update.
type LocationUpdateInput struct {
	ID            string
	ReferenceName optional.Field[string]
	Notes         optional.Field[string]
}

// LocationDeleteResult reports the outcome of a delete attempt.
type LocationDeleteResult struct {
	Deleted bool
	Message string
}

// Create registers a location within an existing branch.
func (s *LocationService) Create(ctx context.Context, input LocationCreateInput) (*domain.Location, error) {
	if input.BranchID == "" {
		return nil, errorutil.NewValidationError("missing required fields: sucursal_id", nil)
	}
	if _, err := s.branches.GetByID(ctx, input.BranchID); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("branch", map[string]any{"id": input.BranchID})
		}
		return nil, err
	}

	if input.ReferenceName != nil {
		trimmed := strings.TrimSpace(*input.ReferenceName)
		if trimmed == "" {
			input.ReferenceName = nil
		} else {
			input.ReferenceName = &trimmed
		}
	}

	location := &domain.Location{
		BranchID:      input.BranchID,
		ReferenceName: input.ReferenceName,
		Notes:         input.Notes,
		State:         domain.LifecycleActive,
	}
	if err := s.locations.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// Update applies a partial update.
func (s *LocationService) Update(ctx context.Context, input LocationUpdateInput) (*domain.Location, error) {
	location, err := s.locations.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("location", map[string]any{"id": input.ID})
		}
		return nil, err
	}

	input.ReferenceName.Apply(&location.ReferenceName)
	input.Notes.Apply(&location.Notes)

	if err := s.locations.Update(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// Deactivate flips the location to INACTIVE.
func (s *LocationService) Deactivate(ctx context.Context, id string) error {
	if err := s.locations.SetState(ctx, id, domain.LifecycleInactive); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return errorutil.NewNotFound("location", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

// Delete hard-deletes the location unless contacts or equipment still
// reference it. A refusal is reported as a result, not an error.
func (s *LocationService) Delete(ctx context.Context, id string) (*LocationDeleteResult, error) {
	location, err := s.locations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("location", map[string]any{"id": id})
		}
		return nil, err
	}

	contactRefs, err := s.contacts.CountByLocation(ctx, location.ID)
	if err != nil {
		return nil, err
	}
	equipmentRefs, err := s.equipment.CountByLocation(ctx, location.ID)
	if err != nil {
		return nil, err
	}
	if contactRefs > 0 || equipmentRefs > 0 {
		return &LocationDeleteResult{
			Deleted: false,
			Message: fmt.Sprintf("location still referenced: %d contact(s) and %d equipment item(s)", contactRefs, equipmentRefs),
		}, nil
	}

	if err := s.locations.Delete(ctx, location.ID); err != nil {
		return nil, err
	}
	return &LocationDeleteResult{Deleted: true, Message: "location deleted"}, nil
}

// GetByID fetches a single location.
func (s *LocationService) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	location, err := s.locations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("location", map[string]any{"id": id})
		}
		return nil, err
	}
	return location, nil
}

// List returns locations, optionally scoped to a branch.
func (s *LocationService) List(ctx context.Context, branchID *string, limit, offset int) ([]domain.Location, error) {
	if branchID != nil {
		return s.locations.ListByBranch(ctx, *branchID)
	}
	return s.locations.List(ctx, limit, offset)
}
