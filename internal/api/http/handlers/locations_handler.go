package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/api/dto"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/service"
	apperrors "github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/errorutil"
)

// LocationsHandler exposes branch sub-area endpoints.
type LocationsHandler struct {
	service *service.LocationService
}

// NewLocationsHandler constructs handler.
func NewLocationsHandler(locationService *service.LocationService) *LocationsHandler {
	return &LocationsHandler{service: locationService}
}

// Create POST /ubicaciones.
func (h *LocationsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	location, err := h.service.Create(c.Context(), service.LocationCreateInput{
		BranchID:      req.SucursalID,
		ReferenceName: req.NombreReferencial,
		Notes:         req.Notas,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.LocationFromDomain(location)})
}

// List GET /ubicaciones.
func (h *LocationsHandler) List(c *fiber.Ctx) error {
	var branchID *string
	if v := c.Query("sucursalId"); v != "" {
		branchID = &v
	}
	locations, err := h.service.List(c.Context(), branchID, parseIntQuery(c, "limit", 50), parseIntQuery(c, "offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.LocationResponse, 0, len(locations))
	for i := range locations {
		items = append(items, dto.LocationFromDomain(&locations[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /ubicaciones/:id.
func (h *LocationsHandler) Get(c *fiber.Ctx) error {
	location, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LocationFromDomain(location)})
}

// Update PATCH /ubicaciones/:id.
func (h *LocationsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	location, err := h.service.Update(c.Context(), service.LocationUpdateInput{
		ID:            c.Params("id"),
		ReferenceName: req.NombreReferencial,
		Notes:         req.Notas,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LocationFromDomain(location)})
}

// Delete DELETE /ubicaciones/:id. Refused with a result body while
// contacts or equipment still reference the location.
func (h *LocationsHandler) Delete(c *fiber.Ctx) error {
	result, err := h.service.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DeleteResultResponse{Deleted: result.Deleted, Message: result.Message}})
}
