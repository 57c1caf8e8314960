package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/persistence"
)

// CompanyRepository encapsulates company persistence. Companies are never
// hard-deleted; SetState flips the lifecycle state.
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	Update(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, id string) (*domain.Company, error)
	List(ctx context.Context, limit, offset int) ([]domain.Company, error)
	ListAll(ctx context.Context) ([]domain.Company, error)
	SetState(ctx context.Context, id string, state domain.LifecycleState) error
}

type companyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository instantiates repository.
func NewCompanyRepository(pool *pgxpool.Pool) CompanyRepository {
	return &companyRepository{pool: pool}
}

func (r *companyRepository) db(ctx context.Context) persistence.DB {
	return persistence.Querier(ctx, r.pool)
}

const companyColumns = `id, name, rut, email, phone, logo_url, address_id, state, created_at, updated_at`

func (r *companyRepository) Create(ctx context.Context, company *domain.Company) error {
	const query = `
        INSERT INTO companies (name, rut, email, phone, logo_url, address_id, state)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	if company.State == "" {
		company.State = domain.LifecycleActive
	}
	return r.db(ctx).QueryRow(ctx, query,
		company.Name,
		company.RUT,
		company.Email,
		company.Phone,
		company.LogoURL,
		company.AddressID,
		company.State,
	).Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt)
}

func (r *companyRepository) Update(ctx context.Context, company *domain.Company) error {
	const query = `
        UPDATE companies SET name=$1, rut=$2, email=$3, phone=$4, logo_url=$5,
            address_id=$6, state=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.db(ctx).Exec(ctx, query,
		company.Name,
		company.RUT,
		company.Email,
		company.Phone,
		company.LogoURL,
		company.AddressID,
		company.State,
		company.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *companyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id=$1`
	var c domain.Company
	if err := r.db(ctx).QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.RUT, &c.Email, &c.Phone, &c.LogoURL, &c.AddressID,
		&c.State, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *companyRepository) List(ctx context.Context, limit, offset int) ([]domain.Company, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.db(ctx).Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCompanies(rows)
}

func (r *companyRepository) ListAll(ctx context.Context) ([]domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY name`
	rows, err := r.db(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCompanies(rows)
}

func (r *companyRepository) SetState(ctx context.Context, id string, state domain.LifecycleState) error {
	const query = `UPDATE companies SET state=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.db(ctx).Exec(ctx, query, state, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanCompanies(rows pgx.Rows) ([]domain.Company, error) {
	var result []domain.Company
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(
			&c.ID, &c.Name, &c.RUT, &c.Email, &c.Phone, &c.LogoURL, &c.AddressID,
			&c.State, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
