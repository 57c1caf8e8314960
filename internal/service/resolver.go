package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/repository"
)

// entityResolver turns the textual natural keys found in import rows
// (country names, street addresses, branch names) into persisted entities,
// creating what does not exist yet. Geography lookups are memoized for the
// lifetime of one resolver, which is one import run; the cache is thrown
// away afterwards so later runs see fresh data.
type entityResolver struct {
	geography repository.GeographyRepository
	addresses repository.AddressRepository
	branches  repository.BranchRepository
	locations repository.LocationRepository

	countries map[string]*domain.Country
	regions   map[string]*domain.Region
	provinces map[string]*domain.Province
	comunas   map[string]*domain.Comuna
}

func newEntityResolver(
	geographyRepo repository.GeographyRepository,
	addressRepo repository.AddressRepository,
	branchRepo repository.BranchRepository,
	locationRepo repository.LocationRepository,
) *entityResolver {
	return &entityResolver{
		geography: geographyRepo,
		addresses: addressRepo,
		branches:  branchRepo,
		locations: locationRepo,
		countries: make(map[string]*domain.Country),
		regions:   make(map[string]*domain.Region),
		provinces: make(map[string]*domain.Province),
		comunas:   make(map[string]*domain.Comuna),
	}
}

// cacheKey normalizes a name for memoization and case-insensitive matching.
func cacheKey(parts ...string) string {
	lowered := make([]string, len(parts))
	for i, p := range parts {
		lowered[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(lowered, "\x00")
}

// resolveComuna walks the four-level chain country > region > province >
// comuna, reusing rows that match case-insensitively and creating the rest.
func (r *entityResolver) resolveComuna(ctx context.Context, countryName, regionName, provinceName, comunaName string) (*domain.Comuna, error) {
	country, err := r.resolveCountry(ctx, countryName)
	if err != nil {
		return nil, err
	}
	region, err := r.resolveRegion(ctx, country.ID, regionName)
	if err != nil {
		return nil, err
	}
	province, err := r.resolveProvince(ctx, region.ID, provinceName)
	if err != nil {
		return nil, err
	}

	comunaName = strings.TrimSpace(comunaName)
	key := cacheKey(province.ID, comunaName)
	if comuna, ok := r.comunas[key]; ok {
		return comuna, nil
	}
	comuna, err := r.geography.FindComunaByName(ctx, province.ID, comunaName)
	if err != nil && !errors.Is(err, repository.ErrNoRows) {
		return nil, err
	}
	if comuna == nil || errors.Is(err, repository.ErrNoRows) {
		comuna = &domain.Comuna{ProvinceID: province.ID, Name: comunaName}
		if err := r.geography.CreateComuna(ctx, comuna); err != nil {
			return nil, err
		}
	}
	r.comunas[key] = comuna
	return comuna, nil
}

func (r *entityResolver) resolveCountry(ctx context.Context, name string) (*domain.Country, error) {
	name = strings.TrimSpace(name)
	key := cacheKey(name)
	if country, ok := r.countries[key]; ok {
		return country, nil
	}
	country, err := r.geography.FindCountryByName(ctx, name)
	if err != nil && !errors.Is(err, repository.ErrNoRows) {
		return nil, err
	}
	if country == nil || errors.Is(err, repository.ErrNoRows) {
		country = &domain.Country{Name: name}
		if err := r.geography.CreateCountry(ctx, country); err != nil {
			return nil, err
		}
	}
	r.countries[key] = country
	return country, nil
}

func (r *entityResolver) resolveRegion(ctx context.Context, countryID, name string) (*domain.Region, error) {
	name = strings.TrimSpace(name)
	key := cacheKey(countryID, name)
	if region, ok := r.regions[key]; ok {
		return region, nil
	}
	region, err := r.geography.FindRegionByName(ctx, countryID, name)
	if err != nil && !errors.Is(err, repository.ErrNoRows) {
		return nil, err
	}
	if region == nil || errors.Is(err, repository.ErrNoRows) {
		region = &domain.Region{CountryID: countryID, Name: name}
		if err := r.geography.CreateRegion(ctx, region); err != nil {
			return nil, err
		}
	}
	r.regions[key] = region
	return region, nil
}

func (r *entityResolver) resolveProvince(ctx context.Context, regionID, name string) (*domain.Province, error) {
	name = strings.TrimSpace(name)
	key := cacheKey(regionID, name)
	if province, ok := r.provinces[key]; ok {
		return province, nil
	}
	province, err := r.geography.FindProvinceByName(ctx, regionID, name)
	if err != nil && !errors.Is(err, repository.ErrNoRows) {
		return nil, err
	}
	if province == nil || errors.Is(err, repository.ErrNoRows) {
		province = &domain.Province{RegionID: regionID, Name: name}
		if err := r.geography.CreateProvince(ctx, province); err != nil {
			return nil, err
		}
	}
	r.provinces[key] = province
	return province, nil
}

// resolveAddress matches on the exact (street, number, comuna) triple.
// Addresses are not memoized; duplicates within a run still resolve to the
// row created first because each miss goes back to the database.
func (r *entityResolver) resolveAddress(ctx context.Context, comunaID, street, number string, unit *string) (*domain.Address, error) {
	street = strings.TrimSpace(street)
	number = strings.TrimSpace(number)
	address, err := r.addresses.FindByNaturalKey(ctx, street, number, comunaID)
	if err != nil && !errors.Is(err, repository.ErrNoRows) {
		return nil, err
	}
	if address != nil && !errors.Is(err, repository.ErrNoRows) {
		return address, nil
	}
	address = &domain.Address{ComunaID: comunaID, Street: street, Number: number, Unit: unit}
	if err := r.addresses.Create(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

// resolveBranch matches on (name, address); a branch found at the same
// address under a different company is reused untouched.
func (r *entityResolver) resolveBranch(ctx context.Context, name, addressID string, companyID *string) (*domain.Branch, error) {
	name = strings.TrimSpace(name)
	branch, err := r.branches.FindByNameAndAddress(ctx, name, addressID)
	if err != nil && !errors.Is(err, repository.ErrNoRows) {
		return nil, err
	}
	if branch != nil && !errors.Is(err, repository.ErrNoRows) {
		return branch, nil
	}
	branch = &domain.Branch{
		Name:      name,
		AddressID: addressID,
		CompanyID: companyID,
		State:     domain.LifecycleActive,
	}
	if err := r.branches.Create(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// resolveLocation matches on (branch, reference name), where a nil name
// matches the branch's anonymous default location.
func (r *entityResolver) resolveLocation(ctx context.Context, branchID string, referenceName *string) (*domain.Location, error) {
	if referenceName != nil {
		trimmed := strings.TrimSpace(*referenceName)
		if trimmed == "" {
			referenceName = nil
		} else {
			referenceName = &trimmed
		}
	}
	location, err := r.locations.FindByBranchAndName(ctx, branchID, referenceName)
	if err != nil && !errors.Is(err, repository.ErrNoRows) {
		return nil, err
	}
	if location != nil && !errors.Is(err, repository.ErrNoRows) {
		return location, nil
	}
	location = &domain.Location{
		BranchID:      branchID,
		ReferenceName: referenceName,
		State:         domain.LifecycleActive,
	}
	if err := r.locations.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}
