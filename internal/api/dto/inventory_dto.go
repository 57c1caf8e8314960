package dto

import (
	"time"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/optional"
)

// CreateEquipmentRequest payload.
type CreateEquipmentRequest struct {
	Nombre             string                 `json:"nombre" validate:"required"`
	IdentificadorUnico string                 `json:"identificadorUnico" validate:"required"`
	Tipo               domain.EquipmentType   `json:"tipo"`
	Estado             domain.EquipmentStatus `json:"estado"`
	UbicacionID        *string                `json:"ubicacionId"`
	EmpresaID          *string                `json:"empresaId"`
	PadreID            *string                `json:"padreId"`
}

// UpdateEquipmentRequest payload. A null padreId detaches the component
// from its parent device.
type UpdateEquipmentRequest struct {
	Nombre      optional.Field[string]                 `json:"nombre"`
	Tipo        optional.Field[domain.EquipmentType]   `json:"tipo"`
	Estado      optional.Field[domain.EquipmentStatus] `json:"estado"`
	UbicacionID optional.Field[string]                 `json:"ubicacionId"`
	EmpresaID   optional.Field[string]                 `json:"empresaId"`
	PadreID     optional.Field[string]                 `json:"padreId"`
}

// EquipmentResponse is the wire form of an inventory item.
type EquipmentResponse struct {
	ID                 string                 `json:"id"`
	Nombre             string                 `json:"nombre"`
	IdentificadorUnico string                 `json:"identificadorUnico"`
	Tipo               domain.EquipmentType   `json:"tipo"`
	Estado             domain.EquipmentStatus `json:"estado"`
	UbicacionID        *string                `json:"ubicacionId"`
	EmpresaID          *string                `json:"empresaId"`
	PadreID            *string                `json:"padreId"`
	CreatedAt          time.Time              `json:"createdAt"`
	UpdatedAt          time.Time              `json:"updatedAt"`
}

// EquipmentFromDomain maps an item to its wire form.
func EquipmentFromDomain(e *domain.Equipment) EquipmentResponse {
	return EquipmentResponse{
		ID:                 e.ID,
		Nombre:             e.Name,
		IdentificadorUnico: e.UniqueIdentifier,
		Tipo:               e.Type,
		Estado:             e.Status,
		UbicacionID:        e.LocationID,
		EmpresaID:          e.CompanyID,
		PadreID:            e.ParentID,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

// CreateLoanRequest payload, used standalone and nested in ticket creation.
type CreateLoanRequest struct {
	EquipoID                string    `json:"equipoId" validate:"required"`
	ContactoID              string    `json:"contactoId" validate:"required"`
	ResponsableEnSitio      string    `json:"responsableEnSitio" validate:"required"`
	FechaPrestamo           time.Time `json:"fechaPrestamo"`
	FechaDevolucionEstimada time.Time `json:"fechaDevolucionEstimada" validate:"required"`
	TicketID                *string   `json:"ticketId"`
	NotasPrestamo           *string   `json:"notasPrestamo"`
	EntregadoPorID          *string   `json:"entregadoPorId"`
}

// UpdateLoanRequest payload. Setting fechaDevolucionReal together with
// estado RETURNED registers the return.
type UpdateLoanRequest struct {
	ResponsableEnSitio      optional.Field[string]            `json:"responsableEnSitio"`
	FechaDevolucionEstimada optional.Field[time.Time]         `json:"fechaDevolucionEstimada"`
	FechaDevolucionReal     optional.Field[time.Time]         `json:"fechaDevolucionReal"`
	Estado                  optional.Field[domain.LoanStatus] `json:"estado"`
	TicketID                optional.Field[string]            `json:"ticketId"`
	NotasPrestamo           optional.Field[string]            `json:"notasPrestamo"`
	NotasDevolucion         optional.Field[string]            `json:"notasDevolucion"`
	RecibidoPorID           optional.Field[string]            `json:"recibidoPorId"`
}

// LoanResponse is the wire form of a loan.
type LoanResponse struct {
	ID                      string            `json:"id"`
	EquipoID                string            `json:"equipoId"`
	ContactoID              string            `json:"contactoId"`
	ResponsableEnSitio      string            `json:"responsableEnSitio"`
	FechaPrestamo           time.Time         `json:"fechaPrestamo"`
	FechaDevolucionEstimada time.Time         `json:"fechaDevolucionEstimada"`
	FechaDevolucionReal     *time.Time        `json:"fechaDevolucionReal"`
	Estado                  domain.LoanStatus `json:"estado"`
	TicketID                *string           `json:"ticketId"`
	NotasPrestamo           *string           `json:"notasPrestamo"`
	NotasDevolucion         *string           `json:"notasDevolucion"`
	EntregadoPorID          *string           `json:"entregadoPorId"`
	RecibidoPorID           *string           `json:"recibidoPorId"`
	CreatedAt               time.Time         `json:"createdAt"`
	UpdatedAt               time.Time         `json:"updatedAt"`
}

// LoanFromDomain maps a loan to its wire form.
func LoanFromDomain(l *domain.EquipmentLoan) LoanResponse {
	return LoanResponse{
		ID:                      l.ID,
		EquipoID:                l.EquipmentID,
		ContactoID:              l.ContactID,
		ResponsableEnSitio:      l.ResponsibleOnSite,
		FechaPrestamo:           l.LoanDate,
		FechaDevolucionEstimada: l.EstimatedReturnDate,
		FechaDevolucionReal:     l.ActualReturnDate,
		Estado:                  l.Status,
		TicketID:                l.TicketID,
		NotasPrestamo:           l.LoanNotes,
		NotasDevolucion:         l.ReturnNotes,
		EntregadoPorID:          l.DeliveredByID,
		RecibidoPorID:           l.ReceivedByID,
		CreatedAt:               l.CreatedAt,
		UpdatedAt:               l.UpdatedAt,
	}
}
