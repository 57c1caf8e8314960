package handlers

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/api/dto"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/auth"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/persistence"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/service"
	apperrors "github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/errorutil"
)

// TicketsHandler exposes ticket CRUD and the per-ticket activity log.
type TicketsHandler struct {
	tickets *service.TicketService
	actions *service.ActionService
	cache   *persistence.TicketCache
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, actionService *service.ActionService, cache *persistence.TicketCache) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService, actions: actionService, cache: cache}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	input := service.TicketCreateInput{
		Title:               req.Titulo,
		DetailedDescription: req.DescripcionDetallada,
		IncidentType:        req.TipoIncidente,
		Priority:            req.Prioridad,
		Status:              req.Estado,
		RequesterName:       req.SolicitanteNombre,
		RequesterPhone:      req.SolicitanteTelefono,
		RequesterEmail:      req.SolicitanteEmail,
		CompanyID:           req.EmpresaID,
		BranchID:            req.SucursalID,
		ContactID:           req.ContactoID,
		AssignedTechID:      req.TecnicoAsignadoID,
		EstimatedResolution: req.FechaSolucionEstimada,
		AffectedEquipment:   req.EquipoAfectado,
	}
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.User != nil {
		input.CreatedByID = &principal.User.ID
	}
	if req.Prestamo != nil {
		input.Loan = &service.LoanCreateInput{
			EquipmentID:         req.Prestamo.EquipoID,
			ContactID:           req.Prestamo.ContactoID,
			ResponsibleOnSite:   req.Prestamo.ResponsableEnSitio,
			LoanDate:            req.Prestamo.FechaPrestamo,
			EstimatedReturnDate: req.Prestamo.FechaDevolucionEstimada,
			LoanNotes:           req.Prestamo.NotasPrestamo,
			DeliveredByID:       req.Prestamo.EntregadoPorID,
		}
	}

	ticket, err := h.tickets.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	tickets, err := h.tickets.List(c.Context(), parseTicketQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.TicketFromDomain(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /tickets/:id. Reads through the redis cache; a miss loads the
// ticket and its log and caches the rendered payload.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if h.cache != nil {
		if cached, ok := h.cache.Get(c.Context(), id); ok {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Send(cached)
		}
	}

	ticket, err := h.tickets.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	actions, err := h.actions.ListByTicket(c.Context(), ticket.ID)
	if err != nil {
		return err
	}
	actionItems := make([]dto.ActionResponse, 0, len(actions))
	for i := range actions {
		actionItems = append(actionItems, dto.ActionFromDomain(&actions[i]))
	}

	payload := fiber.Map{"data": fiber.Map{
		"ticket":   dto.TicketFromDomain(ticket),
		"acciones": actionItems,
	}}
	if h.cache != nil {
		if body, err := json.Marshal(payload); err == nil {
			h.cache.Set(c.Context(), ticket.ID, body)
		}
	}
	return c.JSON(payload)
}

// Update PATCH /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.Update(c.Context(), service.TicketUpdateInput{
		ID:                  c.Params("id"),
		Title:               req.Titulo,
		DetailedDescription: req.DescripcionDetallada,
		IncidentType:        req.TipoIncidente,
		Priority:            req.Prioridad,
		Status:              req.Estado,
		RequesterName:       req.SolicitanteNombre,
		RequesterPhone:      req.SolicitanteTelefono,
		RequesterEmail:      req.SolicitanteEmail,
		CompanyID:           req.EmpresaID,
		BranchID:            req.SucursalID,
		ContactID:           req.ContactoID,
		AssignedTechID:      req.TecnicoAsignadoID,
		EstimatedResolution: req.FechaSolucionEstimada,
		ActualResolution:    req.FechaSolucionReal,
		AffectedEquipment:   req.EquipoAfectado,
	})
	if err != nil {
		return err
	}
	if h.cache != nil {
		h.cache.Invalidate(c.Context(), ticket.ID)
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// Delete DELETE /tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.tickets.Delete(c.Context(), id); err != nil {
		return err
	}
	if h.cache != nil {
		h.cache.Invalidate(c.Context(), id)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddAction POST /tickets/:id/acciones.
func (h *TicketsHandler) AddAction(c *fiber.Ctx) error {
	var req dto.CreateActionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	input := service.ActionCreateInput{
		TicketID:    c.Params("id"),
		Description: req.Descripcion,
		ActionDate:  req.FechaAccion,
		Category:    req.Categoria,
	}
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.User != nil {
		input.UserID = &principal.User.ID
	}

	action, err := h.actions.Append(c.Context(), input)
	if err != nil {
		return err
	}
	if h.cache != nil {
		h.cache.Invalidate(c.Context(), action.TicketID)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ActionFromDomain(action)})
}

// ListActions GET /tickets/:id/acciones.
func (h *TicketsHandler) ListActions(c *fiber.Ctx) error {
	actions, err := h.actions.ListByTicket(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.ActionResponse, 0, len(actions))
	for i := range actions {
		items = append(items, dto.ActionFromDomain(&actions[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateAction PATCH /acciones/:id.
func (h *TicketsHandler) UpdateAction(c *fiber.Ctx) error {
	var req dto.UpdateActionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	action, err := h.actions.Edit(c.Context(), service.ActionUpdateInput{
		ID:          c.Params("id"),
		Description: req.Descripcion,
		Category:    req.Categoria,
	})
	if err != nil {
		return err
	}
	if h.cache != nil {
		h.cache.Invalidate(c.Context(), action.TicketID)
	}
	return c.JSON(fiber.Map{"data": dto.ActionFromDomain(action)})
}

func parseTicketQuery(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if v := c.Query("empresaId"); v != "" {
		filter.CompanyID = &v
	}
	if v := c.Query("sucursalId"); v != "" {
		filter.BranchID = &v
	}
	if v := c.Query("tecnicoId"); v != "" {
		filter.AssignedTechID = &v
	}
	if v := c.Query("buscar"); v != "" {
		filter.SearchTerm = &v
	}
	for _, raw := range strings.Split(c.Query("estado"), ",") {
		if raw = strings.TrimSpace(raw); raw != "" {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.ToUpper(raw)))
		}
	}
	for _, raw := range strings.Split(c.Query("prioridad"), ",") {
		if raw = strings.TrimSpace(raw); raw != "" {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.ToUpper(raw)))
		}
	}
	if v := c.Query("desde"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.CreatedFrom = &t
		}
	}
	if v := c.Query("hasta"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.CreatedTo = &t
		}
	}
	return filter
}

func parseIntQuery(c *fiber.Ctx, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
