package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/persistence"
)

// GeographyRepository persists the country/region/province/comuna chain.
// Name lookups are case-insensitive and scoped to the parent level.
type GeographyRepository interface {
	FindCountryByName(ctx context.Context, name string) (*domain.Country, error)
	CreateCountry(ctx context.Context, country *domain.Country) error
	ListCountries(ctx context.Context) ([]domain.Country, error)

	FindRegionByName(ctx context.Context, countryID, name string) (*domain.Region, error)
	CreateRegion(ctx context.Context, region *domain.Region) error
	ListRegions(ctx context.Context) ([]domain.Region, error)

	FindProvinceByName(ctx context.Context, regionID, name string) (*domain.Province, error)
	CreateProvince(ctx context.Context, province *domain.Province) error
	ListProvinces(ctx context.Context) ([]domain.Province, error)

	FindComunaByName(ctx context.Context, provinceID, name string) (*domain.Comuna, error)
	CreateComuna(ctx context.Context, comuna *domain.Comuna) error
	ListComunas(ctx context.Context) ([]domain.Comuna, error)
}

type geographyRepository struct {
	pool *pgxpool.Pool
}

// NewGeographyRepository instantiates repository.
func NewGeographyRepository(pool *pgxpool.Pool) GeographyRepository {
	return &geographyRepository{pool: pool}
}

func (r *geographyRepository) db(ctx context.Context) persistence.DB {
	return persistence.Querier(ctx, r.pool)
}

func (r *geographyRepository) FindCountryByName(ctx context.Context, name string) (*domain.Country, error) {
	const query = `
        SELECT id, name, created_at, updated_at
        FROM countries WHERE LOWER(name)=LOWER($1)`
	var c domain.Country
	err := r.db(ctx).QueryRow(ctx, query, name).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *geographyRepository) CreateCountry(ctx context.Context, country *domain.Country) error {
	const query = `
        INSERT INTO countries (name) VALUES ($1)
        RETURNING id, created_at, updated_at`
	return r.db(ctx).QueryRow(ctx, query, country.Name).
		Scan(&country.ID, &country.CreatedAt, &country.UpdatedAt)
}

func (r *geographyRepository) ListCountries(ctx context.Context) ([]domain.Country, error) {
	const query = `SELECT id, name, created_at, updated_at FROM countries ORDER BY name`
	rows, err := r.db(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Country
	for rows.Next() {
		var c domain.Country
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *geographyRepository) FindRegionByName(ctx context.Context, countryID, name string) (*domain.Region, error) {
	const query = `
        SELECT id, country_id, name, created_at, updated_at
        FROM regions WHERE country_id=$1 AND LOWER(name)=LOWER($2)`
	var reg domain.Region
	err := r.db(ctx).QueryRow(ctx, query, countryID, name).
		Scan(&reg.ID, &reg.CountryID, &reg.Name, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *geographyRepository) CreateRegion(ctx context.Context, region *domain.Region) error {
	const query = `
        INSERT INTO regions (country_id, name) VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	return r.db(ctx).QueryRow(ctx, query, region.CountryID, region.Name).
		Scan(&region.ID, &region.CreatedAt, &region.UpdatedAt)
}

func (r *geographyRepository) ListRegions(ctx context.Context) ([]domain.Region, error) {
	const query = `SELECT id, country_id, name, created_at, updated_at FROM regions ORDER BY name`
	rows, err := r.db(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Region
	for rows.Next() {
		var reg domain.Region
		if err := rows.Scan(&reg.ID, &reg.CountryID, &reg.Name, &reg.CreatedAt, &reg.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, reg)
	}
	return result, rows.Err()
}

func (r *geographyRepository) FindProvinceByName(ctx context.Context, regionID, name string) (*domain.Province, error) {
	const query = `
        SELECT id, region_id, name, created_at, updated_at
        FROM provinces WHERE region_id=$1 AND LOWER(name)=LOWER($2)`
	var p domain.Province
	err := r.db(ctx).QueryRow(ctx, query, regionID, name).
		Scan(&p.ID, &p.RegionID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *geographyRepository) CreateProvince(ctx context.Context, province *domain.Province) error {
	const query = `
        INSERT INTO provinces (region_id, name) VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	return r.db(ctx).QueryRow(ctx, query, province.RegionID, province.Name).
		Scan(&province.ID, &province.CreatedAt, &province.UpdatedAt)
}

func (r *geographyRepository) ListProvinces(ctx context.Context) ([]domain.Province, error) {
	const query = `SELECT id, region_id, name, created_at, updated_at FROM provinces ORDER BY name`
	rows, err := r.db(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Province
	for rows.Next() {
		var p domain.Province
		if err := rows.Scan(&p.ID, &p.RegionID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *geographyRepository) FindComunaByName(ctx context.Context, provinceID, name string) (*domain.Comuna, error) {
	const query = `
        SELECT id, province_id, name, created_at, updated_at
        FROM comunas WHERE province_id=$1 AND LOWER(name)=LOWER($2)`
	var c domain.Comuna
	err := r.db(ctx).QueryRow(ctx, query, provinceID, name).
		Scan(&c.ID, &c.ProvinceID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *geographyRepository) CreateComuna(ctx context.Context, comuna *domain.Comuna) error {
	const query = `
        INSERT INTO comunas (province_id, name) VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	return r.db(ctx).QueryRow(ctx, query, comuna.ProvinceID, comuna.Name).
		Scan(&comuna.ID, &comuna.CreatedAt, &comuna.UpdatedAt)
}

func (r *geographyRepository) ListComunas(ctx context.Context) ([]domain.Comuna, error) {
	const query = `SELECT id, province_id, name, created_at, updated_at FROM comunas ORDER BY name`
	rows, err := r.db(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comuna
	for rows.Next() {
		var c domain.Comuna
		if err := rows.Scan(&c.ID, &c.ProvinceID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// ErrNoRows re-exports the pgx sentinel so services don't import pgx directly.
var ErrNoRows = pgx.ErrNoRows
