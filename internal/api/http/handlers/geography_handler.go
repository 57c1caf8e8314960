package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/api/dto"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/service"
)

// GeographyHandler exposes the read-only geography lists that feed address
// forms.
type GeographyHandler struct {
	service *service.GeographyService
}

// NewGeographyHandler constructs handler.
func NewGeographyHandler(geographyService *service.GeographyService) *GeographyHandler {
	return &GeographyHandler{service: geographyService}
}

// ListCountries GET /geografia/paises.
func (h *GeographyHandler) ListCountries(c *fiber.Ctx) error {
	countries, err := h.service.ListCountries(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.CountryResponse, 0, len(countries))
	for _, country := range countries {
		items = append(items, dto.CountryResponse{ID: country.ID, Nombre: country.Name})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListRegions GET /geografia/regiones.
func (h *GeographyHandler) ListRegions(c *fiber.Ctx) error {
	regions, err := h.service.ListRegions(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.RegionResponse, 0, len(regions))
	for _, region := range regions {
		items = append(items, dto.RegionResponse{ID: region.ID, PaisID: region.CountryID, Nombre: region.Name})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListProvinces GET /geografia/provincias.
func (h *GeographyHandler) ListProvinces(c *fiber.Ctx) error {
	provinces, err := h.service.ListProvinces(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.ProvinceResponse, 0, len(provinces))
	for _, province := range provinces {
		items = append(items, dto.ProvinceResponse{ID: province.ID, RegionID: province.RegionID, Nombre: province.Name})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListComunas GET /geografia/comunas.
func (h *GeographyHandler) ListComunas(c *fiber.Ctx) error {
	comunas, err := h.service.ListComunas(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.ComunaResponse, 0, len(comunas))
	for _, comuna := range comunas {
		items = append(items, dto.ComunaResponse{ID: comuna.ID, ProvinciaID: comuna.ProvinceID, Nombre: comuna.Name})
	}
	return c.JSON(fiber.Map{"data": items})
}
