package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/api/dto"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/service"
	apperrors "github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/errorutil"
)

// BranchesHandler exposes branch endpoints.
type BranchesHandler struct {
	service *service.BranchService
}

// NewBranchesHandler constructs handler.
func NewBranchesHandler(branchService *service.BranchService) *BranchesHandler {
	return &BranchesHandler{service: branchService}
}

// Create POST /sucursales.
func (h *BranchesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateBranchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	branch, err := h.service.Create(c.Context(), service.BranchCreateInput{
		Name:      req.Nombre,
		Phone:     req.Telefono,
		Email:     req.Email,
		CompanyID: req.EmpresaID,
		ComunaID:  req.ComunaID,
		Street:    req.Calle,
		Number:    req.Numero,
		Unit:      req.Depto,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.BranchFromDomain(branch)})
}

// List GET /sucursales.
func (h *BranchesHandler) List(c *fiber.Ctx) error {
	var companyID *string
	if v := c.Query("empresaId"); v != "" {
		companyID = &v
	}
	branches, err := h.service.List(c.Context(), companyID, parseIntQuery(c, "limit", 50), parseIntQuery(c, "offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.BranchResponse, 0, len(branches))
	for i := range branches {
		items = append(items, dto.BranchFromDomain(&branches[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /sucursales/:id.
func (h *BranchesHandler) Get(c *fiber.Ctx) error {
	branch, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BranchFromDomain(branch)})
}

// Update PATCH /sucursales/:id.
func (h *BranchesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateBranchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	branch, err := h.service.Update(c.Context(), service.BranchUpdateInput{
		ID:        c.Params("id"),
		Name:      req.Nombre,
		Phone:     req.Telefono,
		Email:     req.Email,
		CompanyID: req.EmpresaID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BranchFromDomain(branch)})
}

// Delete DELETE /sucursales/:id. The delete is refused with a 200 result
// body when contacts or equipment remain at the branch's locations.
func (h *BranchesHandler) Delete(c *fiber.Ctx) error {
	result, err := h.service.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DeleteResultResponse{Deleted: result.Deleted, Message: result.Message}})
}
