package service

import (
	"context"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/repository"
)

// GeographyService exposes the containment hierarchy for address forms.
// Writes go through the resolver during imports; this surface is read-only.
type GeographyService struct {
	geography repository.GeographyRepository
}

// NewGeographyService constructs the service.
func NewGeographyService(geographyRepo repository.GeographyRepository) *GeographyService {
	return &GeographyService{geography: geographyRepo}
}

func (s *GeographyService) ListCountries(ctx context.Context) ([]domain.Country, error) {
	return s.geography.ListCountries(ctx)
}

func (s *GeographyService) ListRegions(ctx context.Context) ([]domain.Region, error) {
	return s.geography.ListRegions(ctx)
}

func (s *GeographyService) ListProvinces(ctx context.Context) ([]domain.Province, error) {
	return s.geography.ListProvinces(ctx)
}

func (s *GeographyService) ListComunas(ctx context.Context) ([]domain.Comuna, error) {
	return s.geography.ListComunas(ctx)
}
