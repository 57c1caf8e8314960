package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/api/dto"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/service"
	apperrors "github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/errorutil"
)

// CompaniesHandler exposes company endpoints.
type CompaniesHandler struct {
	service *service.CompanyService
}

// NewCompaniesHandler constructs handler.
func NewCompaniesHandler(companyService *service.CompanyService) *CompaniesHandler {
	return &CompaniesHandler{service: companyService}
}

// Create POST /empresas.
func (h *CompaniesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	company, err := h.service.Create(c.Context(), service.CompanyCreateInput{
		Name:      req.Nombre,
		RUT:       req.RUT,
		Email:     req.Email,
		Phone:     req.Telefono,
		LogoURL:   req.LogoURL,
		AddressID: req.DireccionID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.CompanyFromDomain(company)})
}

// List GET /empresas.
func (h *CompaniesHandler) List(c *fiber.Ctx) error {
	companies, err := h.service.List(c.Context(), parseIntQuery(c, "limit", 50), parseIntQuery(c, "offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.CompanyResponse, 0, len(companies))
	for i := range companies {
		items = append(items, dto.CompanyFromDomain(&companies[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /empresas/:id.
func (h *CompaniesHandler) Get(c *fiber.Ctx) error {
	company, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CompanyFromDomain(company)})
}

// Update PATCH /empresas/:id.
func (h *CompaniesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	company, err := h.service.Update(c.Context(), service.CompanyUpdateInput{
		ID:        c.Params("id"),
		Name:      req.Nombre,
		RUT:       req.RUT,
		Email:     req.Email,
		Phone:     req.Telefono,
		LogoURL:   req.LogoURL,
		AddressID: req.DireccionID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CompanyFromDomain(company)})
}

// Deactivate DELETE /empresas/:id. Companies are never hard-deleted.
func (h *CompaniesHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.service.Deactivate(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
