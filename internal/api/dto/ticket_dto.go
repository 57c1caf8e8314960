package dto

import (
	"time"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/optional"
)

// CreateTicketRequest payload. Prestamo, when present, opens an equipment
// loan in the same transaction as the ticket.
type CreateTicketRequest struct {
	Titulo                string                `json:"titulo" validate:"required"`
	DescripcionDetallada  string                `json:"descripcionDetallada"`
	TipoIncidente         string                `json:"tipoIncidente"`
	Prioridad             domain.TicketPriority `json:"prioridad"`
	Estado                domain.TicketStatus   `json:"estado"`
	SolicitanteNombre     string                `json:"solicitanteNombre" validate:"required"`
	SolicitanteTelefono   *string               `json:"solicitanteTelefono"`
	SolicitanteEmail      *string               `json:"solicitanteEmail" validate:"omitempty,email"`
	EmpresaID             *string               `json:"empresaId"`
	SucursalID            *string               `json:"sucursalId"`
	ContactoID            *string               `json:"contactoId"`
	TecnicoAsignadoID     *string               `json:"tecnicoAsignadoId"`
	FechaSolucionEstimada *time.Time            `json:"fechaSolucionEstimada"`
	EquipoAfectado        *string               `json:"equipoAfectado"`
	Prestamo              *CreateLoanRequest    `json:"prestamo"`
}

// UpdateTicketRequest payload. Tri-state fields: absent keys leave the
// column alone, explicit nulls clear it.
type UpdateTicketRequest struct {
	Titulo                optional.Field[string]                `json:"titulo"`
	DescripcionDetallada  optional.Field[string]                `json:"descripcionDetallada"`
	TipoIncidente         optional.Field[string]                `json:"tipoIncidente"`
	Prioridad             optional.Field[domain.TicketPriority] `json:"prioridad"`
	Estado                optional.Field[domain.TicketStatus]   `json:"estado"`
	SolicitanteNombre     optional.Field[string]                `json:"solicitanteNombre"`
	SolicitanteTelefono   optional.Field[string]                `json:"solicitanteTelefono"`
	SolicitanteEmail      optional.Field[string]                `json:"solicitanteEmail"`
	EmpresaID             optional.Field[string]                `json:"empresaId"`
	SucursalID            optional.Field[string]                `json:"sucursalId"`
	ContactoID            optional.Field[string]                `json:"contactoId"`
	TecnicoAsignadoID     optional.Field[string]                `json:"tecnicoAsignadoId"`
	FechaSolucionEstimada optional.Field[time.Time]             `json:"fechaSolucionEstimada"`
	FechaSolucionReal     optional.Field[time.Time]             `json:"fechaSolucionReal"`
	EquipoAfectado        optional.Field[string]                `json:"equipoAfectado"`
}

// TicketResponse is the wire form of a ticket.
type TicketResponse struct {
	ID                    string                `json:"id"`
	NumeroCaso            int64                 `json:"numeroCaso"`
	Titulo                string                `json:"titulo"`
	DescripcionDetallada  string                `json:"descripcionDetallada"`
	TipoIncidente         string                `json:"tipoIncidente"`
	Prioridad             domain.TicketPriority `json:"prioridad"`
	Estado                domain.TicketStatus   `json:"estado"`
	SolicitanteNombre     string                `json:"solicitanteNombre"`
	SolicitanteTelefono   *string               `json:"solicitanteTelefono"`
	SolicitanteEmail      *string               `json:"solicitanteEmail"`
	EmpresaID             *string               `json:"empresaId"`
	SucursalID            *string               `json:"sucursalId"`
	ContactoID            *string               `json:"contactoId"`
	TecnicoAsignadoID     *string               `json:"tecnicoAsignadoId"`
	CreadoPorID           *string               `json:"creadoPorId"`
	FechaSolucionEstimada *time.Time            `json:"fechaSolucionEstimada"`
	FechaSolucionReal     *time.Time            `json:"fechaSolucionReal"`
	EquipoAfectado        *string               `json:"equipoAfectado"`
	CreatedAt             time.Time             `json:"createdAt"`
	UpdatedAt             time.Time             `json:"updatedAt"`
}

// TicketFromDomain maps a ticket to its wire form.
func TicketFromDomain(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                    t.ID,
		NumeroCaso:            t.CaseNumber,
		Titulo:                t.Title,
		DescripcionDetallada:  t.DetailedDescription,
		TipoIncidente:         t.IncidentType,
		Prioridad:             t.Priority,
		Estado:                t.Status,
		SolicitanteNombre:     t.RequesterName,
		SolicitanteTelefono:   t.RequesterPhone,
		SolicitanteEmail:      t.RequesterEmail,
		EmpresaID:             t.CompanyID,
		SucursalID:            t.BranchID,
		ContactoID:            t.ContactID,
		TecnicoAsignadoID:     t.AssignedTechID,
		CreadoPorID:           t.CreatedByID,
		FechaSolucionEstimada: t.EstimatedResolution,
		FechaSolucionReal:     t.ActualResolution,
		EquipoAfectado:        t.AffectedEquipment,
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
	}
}

// CreateActionRequest payload.
type CreateActionRequest struct {
	Descripcion string     `json:"descripcion" validate:"required"`
	FechaAccion *time.Time `json:"fechaAccion"`
	Categoria   string     `json:"categoria"`
}

// UpdateActionRequest payload.
type UpdateActionRequest struct {
	Descripcion optional.Field[string] `json:"descripcion"`
	Categoria   optional.Field[string] `json:"categoria"`
}

// ActionResponse is the wire form of a ticket log entry.
type ActionResponse struct {
	ID          string    `json:"id"`
	TicketID    string    `json:"ticketId"`
	Descripcion string    `json:"descripcion"`
	FechaAccion time.Time `json:"fechaAccion"`
	Categoria   string    `json:"categoria"`
	UsuarioID   *string   `json:"usuarioId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ActionFromDomain maps a log entry to its wire form.
func ActionFromDomain(a *domain.TicketAction) ActionResponse {
	return ActionResponse{
		ID:          a.ID,
		TicketID:    a.TicketID,
		Descripcion: a.Description,
		FechaAccion: a.ActionDate,
		Categoria:   a.Category,
		UsuarioID:   a.UserID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
