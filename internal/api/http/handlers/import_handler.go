package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/service"
	apperrors "github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/errorutil"
)

// ImportHandler exposes the admin bulk load endpoint.
type ImportHandler struct {
	service *service.ImportService
}

// NewImportHandler constructs handler.
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{service: importService}
}

// Run POST /admin/importar-tickets. The body is the raw row array from a
// legacy export. A failed run still answers 200: the result body reports
// the rollback and the per-row errors.
func (h *ImportHandler) Run(c *fiber.Ctx) error {
	var rows []service.ImportRow
	if err := c.BodyParser(&rows); err != nil {
		return apperrors.NewValidationError("invalid payload: expected a JSON array of rows", nil)
	}

	result, err := h.service.Run(c.Context(), rows)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
