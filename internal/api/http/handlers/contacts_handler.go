package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/api/dto"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/service"
	apperrors "github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/errorutil"
)

// ContactsHandler exposes company contact endpoints.
type ContactsHandler struct {
	service *service.ContactService
}

// NewContactsHandler constructs handler.
func NewContactsHandler(contactService *service.ContactService) *ContactsHandler {
	return &ContactsHandler{service: contactService}
}

// Create POST /contactos.
func (h *ContactsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateContactRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	contact, err := h.service.Create(c.Context(), service.ContactCreateInput{
		CompanyID:  req.EmpresaID,
		LocationID: req.UbicacionID,
		Name:       req.Nombre,
		Email:      req.Email,
		Phone:      req.Telefono,
		Role:       req.Cargo,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ContactFromDomain(contact)})
}

// List GET /contactos.
func (h *ContactsHandler) List(c *fiber.Ctx) error {
	var companyID *string
	if v := c.Query("empresaId"); v != "" {
		companyID = &v
	}
	contacts, err := h.service.List(c.Context(), companyID, parseIntQuery(c, "limit", 50), parseIntQuery(c, "offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.ContactResponse, 0, len(contacts))
	for i := range contacts {
		items = append(items, dto.ContactFromDomain(&contacts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /contactos/:id.
func (h *ContactsHandler) Get(c *fiber.Ctx) error {
	contact, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ContactFromDomain(contact)})
}

// Update PATCH /contactos/:id.
func (h *ContactsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateContactRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	contact, err := h.service.Update(c.Context(), service.ContactUpdateInput{
		ID:         c.Params("id"),
		LocationID: req.UbicacionID,
		Name:       req.Nombre,
		Email:      req.Email,
		Phone:      req.Telefono,
		Role:       req.Cargo,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ContactFromDomain(contact)})
}

// Deactivate DELETE /contactos/:id. Contacts are never hard-deleted.
func (h *ContactsHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.service.Deactivate(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
