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

// EquipmentService manages the inventory tree. Status changes that belong
// to the loan lifecycle (LOANED and back) are owned by the loan service;
// here we only guard the transitions that would contradict an open loan.
type EquipmentService struct {
	equipment repository.EquipmentRepository
	loans     repository.LoanRepository
}

// NewEquipmentService constructs the service.
func NewEquipmentService(equipmentRepo repository.EquipmentRepository, loanRepo repository.LoanRepository) *EquipmentService {
	return &EquipmentService{equipment: equipmentRepo, loans: loanRepo}
}

// EquipmentCreateInput describes a new inventory item.
type EquipmentCreateInput struct {
	Name             string
	UniqueIdentifier string
	Type             domain.EquipmentType
	Status           domain.EquipmentStatus
	LocationID       *string
	CompanyID        *string
	ParentID         *string
}

// EquipmentUpdateInput describes a partial update. A present-null ParentID
// detaches the component from its parent.
type EquipmentUpdateInput struct {
	ID         string
	Name       optional.Field[string]
	Type       optional.Field[domain.EquipmentType]
	Status     optional.Field[domain.EquipmentStatus]
	LocationID optional.Field[string]
	CompanyID  optional.Field[string]
	ParentID   optional.Field[string]
}

// EquipmentListFilter describes listing filters.
type EquipmentListFilter struct {
	Statuses   []domain.EquipmentStatus
	Types      []domain.EquipmentType
	CompanyID  *string
	LocationID *string
	Limit      int
	Offset     int
}

// Create registers a new inventory item.
func (s *EquipmentService) Create(ctx context.Context, input EquipmentCreateInput) (*domain.Equipment, error) {
	var missing []string
	if strings.TrimSpace(input.Name) == "" {
		missing = append(missing, "nombre")
	}
	if strings.TrimSpace(input.UniqueIdentifier) == "" {
		missing = append(missing, "identificador_unico")
	}
	if len(missing) > 0 {
		return nil, errorutil.NewValidationError("missing required fields: "+strings.Join(missing, ", "), nil)
	}
	if input.Type == "" {
		input.Type = domain.EquipmentTypeOther
	}
	if !domain.ValidEquipmentType(input.Type) {
		return nil, errorutil.NewValidationError("unknown equipment type: "+string(input.Type), nil)
	}
	if input.Status == "" {
		input.Status = domain.EquipmentStatusAvailable
	}
	if !domain.ValidEquipmentStatus(input.Status) {
		return nil, errorutil.NewValidationError("unknown equipment status: "+string(input.Status), nil)
	}
	if input.ParentID != nil {
		if _, err := s.equipment.GetByID(ctx, *input.ParentID); err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return nil, errorutil.NewNotFound("equipment", map[string]any{"id": *input.ParentID})
			}
			return nil, err
		}
	}

	equipment := &domain.Equipment{
		Name:             strings.TrimSpace(input.Name),
		UniqueIdentifier: strings.TrimSpace(input.UniqueIdentifier),
		Type:             input.Type,
		Status:           input.Status,
		LocationID:       input.LocationID,
		CompanyID:        input.CompanyID,
		ParentID:         input.ParentID,
	}
	if err := s.equipment.Create(ctx, equipment); err != nil {
		return nil, err
	}
	return equipment, nil
}

// Update applies a partial update. Decommissioning a loaned item is
// rejected; re-parenting walks the ancestor chain to reject cycles.
func (s *EquipmentService) Update(ctx context.Context, input EquipmentUpdateInput) (*domain.Equipment, error) {
	equipment, err := s.equipment.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("equipment", map[string]any{"id": input.ID})
		}
		return nil, err
	}

	if input.Name.Present && !input.Name.Null {
		equipment.Name = strings.TrimSpace(input.Name.Value)
	}
	if input.Type.Present && !input.Type.Null {
		if !domain.ValidEquipmentType(input.Type.Value) {
			return nil, errorutil.NewValidationError("unknown equipment type: "+string(input.Type.Value), nil)
		}
		equipment.Type = input.Type.Value
	}
	if input.Status.Present && !input.Status.Null {
		if !domain.ValidEquipmentStatus(input.Status.Value) {
			return nil, errorutil.NewValidationError("unknown equipment status: "+string(input.Status.Value), nil)
		}
		if input.Status.Value == domain.EquipmentStatusDecommissioned && equipment.Status == domain.EquipmentStatusLoaned {
			if err := s.ensureNoOpenLoan(ctx, equipment); err != nil {
				return nil, err
			}
		}
		equipment.Status = input.Status.Value
	}
	input.LocationID.Apply(&equipment.LocationID)
	input.CompanyID.Apply(&equipment.CompanyID)

	if input.ParentID.Present {
		if input.ParentID.Null {
			equipment.ParentID = nil
		} else {
			parentID := input.ParentID.Value
			if err := s.checkParentCycle(ctx, equipment.ID, parentID); err != nil {
				return nil, err
			}
			equipment.ParentID = &parentID
		}
	}

	if err := s.equipment.Update(ctx, equipment); err != nil {
		return nil, err
	}
	return equipment, nil
}

// Decommission retires an item. Items with an open loan must be returned
// first.
func (s *EquipmentService) Decommission(ctx context.Context, id string) (*domain.Equipment, error) {
	equipment, err := s.equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("equipment", map[string]any{"id": id})
		}
		return nil, err
	}
	if err := s.ensureNoOpenLoan(ctx, equipment); err != nil {
		return nil, err
	}
	if err := s.equipment.SetStatus(ctx, equipment.ID, domain.EquipmentStatusDecommissioned); err != nil {
		return nil, err
	}
	equipment.Status = domain.EquipmentStatusDecommissioned
	return equipment, nil
}

// GetByID fetches a single item.
func (s *EquipmentService) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	equipment, err := s.equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, errorutil.NewNotFound("equipment", map[string]any{"id": id})
		}
		return nil, err
	}
	return equipment, nil
}

// List returns inventory items matching the filter.
func (s *EquipmentService) List(ctx context.Context, filter EquipmentListFilter) ([]domain.Equipment, error) {
	return s.equipment.List(ctx, repository.EquipmentFilter{
		Statuses:   filter.Statuses,
		Types:      filter.Types,
		CompanyID:  filter.CompanyID,
		LocationID: filter.LocationID,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

func (s *EquipmentService) ensureNoOpenLoan(ctx context.Context, equipment *domain.Equipment) error {
	open, err := s.loans.CountOpenByEquipment(ctx, equipment.ID)
	if err != nil {
		return err
	}
	if open > 0 || equipment.Status == domain.EquipmentStatusLoaned {
		return errorutil.NewBusinessRuleError(
			"equipment " + equipment.UniqueIdentifier + " has an open loan and cannot be decommissioned")
	}
	return nil
}

// checkParentCycle walks up from the candidate parent. Hitting the item
// itself means the new edge would close a cycle; the walk is bounded by
// MaxEquipmentTreeDepth so a corrupted chain cannot loop forever.
func (s *EquipmentService) checkParentCycle(ctx context.Context, id, parentID string) error {
	if parentID == id {
		return errorutil.NewBusinessRuleError("equipment cannot be its own parent")
	}
	current := parentID
	for depth := 0; depth < domain.MaxEquipmentTreeDepth; depth++ {
		ancestor, err := s.equipment.GetByID(ctx, current)
		if err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return errorutil.NewNotFound("equipment", map[string]any{"id": current})
			}
			return err
		}
		if ancestor.ParentID == nil {
			return nil
		}
		if *ancestor.ParentID == id {
			return errorutil.NewBusinessRuleError("parent assignment would create a cycle in the equipment tree")
		}
		current = *ancestor.ParentID
	}
	return errorutil.NewBusinessRuleError("equipment tree is too deep")
}
