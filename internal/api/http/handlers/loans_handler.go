package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/api/dto"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/service"
	apperrors "github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/errorutil"
)

// LoansHandler exposes equipment loan endpoints.
type LoansHandler struct {
	service *service.LoanService
}

// NewLoansHandler constructs handler.
func NewLoansHandler(loanService *service.LoanService) *LoansHandler {
	return &LoansHandler{service: loanService}
}

// Create POST /equipos-en-prestamo.
func (h *LoansHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	loan, err := h.service.Create(c.Context(), service.LoanCreateInput{
		EquipmentID:         req.EquipoID,
		ContactID:           req.ContactoID,
		ResponsibleOnSite:   req.ResponsableEnSitio,
		LoanDate:            req.FechaPrestamo,
		EstimatedReturnDate: req.FechaDevolucionEstimada,
		TicketID:            req.TicketID,
		LoanNotes:           req.NotasPrestamo,
		DeliveredByID:       req.EntregadoPorID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.LoanFromDomain(loan)})
}

// List GET /equipos-en-prestamo.
func (h *LoansHandler) List(c *fiber.Ctx) error {
	filter := service.LoanListFilter{
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if v := c.Query("equipoId"); v != "" {
		filter.EquipmentID = &v
	}
	if v := c.Query("contactoId"); v != "" {
		filter.ContactID = &v
	}
	if v := c.Query("ticketId"); v != "" {
		filter.TicketID = &v
	}
	for _, raw := range strings.Split(c.Query("estado"), ",") {
		if raw = strings.TrimSpace(raw); raw != "" {
			filter.Statuses = append(filter.Statuses, domain.LoanStatus(strings.ToUpper(raw)))
		}
	}

	loans, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.LoanResponse, 0, len(loans))
	for i := range loans {
		items = append(items, dto.LoanFromDomain(&loans[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /equipos-en-prestamo/:id.
func (h *LoansHandler) Get(c *fiber.Ctx) error {
	loan, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoanFromDomain(loan)})
}

// Update PATCH /equipos-en-prestamo/:id.
func (h *LoansHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	loan, err := h.service.Update(c.Context(), service.LoanUpdateInput{
		ID:                  c.Params("id"),
		ResponsibleOnSite:   req.ResponsableEnSitio,
		EstimatedReturnDate: req.FechaDevolucionEstimada,
		ActualReturnDate:    req.FechaDevolucionReal,
		Status:              req.Estado,
		TicketID:            req.TicketID,
		LoanNotes:           req.NotasPrestamo,
		ReturnNotes:         req.NotasDevolucion,
		ReceivedByID:        req.RecibidoPorID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoanFromDomain(loan)})
}

// Delete DELETE /equipos-en-prestamo/:id.
func (h *LoansHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
