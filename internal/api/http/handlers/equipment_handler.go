package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/api/dto"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/service"
	apperrors "github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/errorutil"
)

// EquipmentHandler exposes inventory endpoints.
type EquipmentHandler struct {
	service *service.EquipmentService
}

// NewEquipmentHandler constructs handler.
func NewEquipmentHandler(equipmentService *service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{service: equipmentService}
}

// Create POST /equipos.
func (h *EquipmentHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateEquipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	equipment, err := h.service.Create(c.Context(), service.EquipmentCreateInput{
		Name:             req.Nombre,
		UniqueIdentifier: req.IdentificadorUnico,
		Type:             req.Tipo,
		Status:           req.Estado,
		LocationID:       req.UbicacionID,
		CompanyID:        req.EmpresaID,
		ParentID:         req.PadreID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.EquipmentFromDomain(equipment)})
}

// List GET /equipos.
func (h *EquipmentHandler) List(c *fiber.Ctx) error {
	filter := service.EquipmentListFilter{
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if v := c.Query("empresaId"); v != "" {
		filter.CompanyID = &v
	}
	if v := c.Query("ubicacionId"); v != "" {
		filter.LocationID = &v
	}
	for _, raw := range strings.Split(c.Query("estado"), ",") {
		if raw = strings.TrimSpace(raw); raw != "" {
			filter.Statuses = append(filter.Statuses, domain.EquipmentStatus(strings.ToUpper(raw)))
		}
	}
	for _, raw := range strings.Split(c.Query("tipo"), ",") {
		if raw = strings.TrimSpace(raw); raw != "" {
			filter.Types = append(filter.Types, domain.EquipmentType(strings.ToUpper(raw)))
		}
	}

	items, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	out := make([]dto.EquipmentResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.EquipmentFromDomain(&items[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get GET /equipos/:id.
func (h *EquipmentHandler) Get(c *fiber.Ctx) error {
	equipment, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.EquipmentFromDomain(equipment)})
}

// Update PATCH /equipos/:id.
func (h *EquipmentHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateEquipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	equipment, err := h.service.Update(c.Context(), service.EquipmentUpdateInput{
		ID:         c.Params("id"),
		Name:       req.Nombre,
		Type:       req.Tipo,
		Status:     req.Estado,
		LocationID: req.UbicacionID,
		CompanyID:  req.EmpresaID,
		ParentID:   req.PadreID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.EquipmentFromDomain(equipment)})
}

// Decommission POST /equipos/:id/dar-de-baja.
func (h *EquipmentHandler) Decommission(c *fiber.Ctx) error {
	equipment, err := h.service.Decommission(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.EquipmentFromDomain(equipment)})
}
