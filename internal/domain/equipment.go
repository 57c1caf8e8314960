package domain

import "time"

// EquipmentType enumerates inventory categories.
type EquipmentType string

const (
	EquipmentTypeLaptop     EquipmentType = "LAPTOP"
	EquipmentTypeMonitor    EquipmentType = "MONITOR"
	EquipmentTypePeripheral EquipmentType = "PERIPHERAL"
	EquipmentTypePrinter    EquipmentType = "PRINTER"
	EquipmentTypeNetwork    EquipmentType = "NETWORK"
	EquipmentTypeOther      EquipmentType = "OTHER"
)

// ValidEquipmentType reports whether t is a known equipment type.
func ValidEquipmentType(t EquipmentType) bool {
	switch t {
	case EquipmentTypeLaptop, EquipmentTypeMonitor, EquipmentTypePeripheral,
		EquipmentTypePrinter, EquipmentTypeNetwork, EquipmentTypeOther:
		return true
	}
	return false
}

// EquipmentStatus tracks where a piece of equipment currently is. LOANED is
// kept in lockstep with open loans by the loan service.
type EquipmentStatus string

const (
	EquipmentStatusAvailable      EquipmentStatus = "AVAILABLE"
	EquipmentStatusInInternalUse  EquipmentStatus = "IN_INTERNAL_USE"
	EquipmentStatusLoaned         EquipmentStatus = "LOANED"
	EquipmentStatusInMaintenance  EquipmentStatus = "IN_MAINTENANCE"
	EquipmentStatusDecommissioned EquipmentStatus = "DECOMMISSIONED"
)

// ValidEquipmentStatus reports whether s is a known equipment status.
func ValidEquipmentStatus(s EquipmentStatus) bool {
	switch s {
	case EquipmentStatusAvailable, EquipmentStatusInInternalUse, EquipmentStatusLoaned,
		EquipmentStatusInMaintenance, EquipmentStatusDecommissioned:
		return true
	}
	return false
}

// MaxEquipmentTreeDepth bounds the ancestor walk when attaching a component
// to a parent device.
const MaxEquipmentTreeDepth = 32

// Equipment (equipo de inventario) is a physical asset. ParentID links a
// component to a composite device, forming a tree; cycles are rejected by
// the equipment service.
type Equipment struct {
	ID               string
	Name             string
	UniqueIdentifier string
	Type             EquipmentType
	Status           EquipmentStatus
	LocationID       *string
	CompanyID        *string
	ParentID         *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
