package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/persistence"
)

// BranchRepository encapsulates branch persistence.
type BranchRepository interface {
	Create(ctx context.Context, branch *domain.Branch) error
	Update(ctx context.Context, branch *domain.Branch) error
	GetByID(ctx context.Context, id string) (*domain.Branch, error)
	FindByNameAndAddress(ctx context.Context, name, addressID string) (*domain.Branch, error)
	List(ctx context.Context, companyID *string, limit, offset int) ([]domain.Branch, error)
	SetState(ctx context.Context, id string, state domain.LifecycleState) error
	Delete(ctx context.Context, id string) error
}

type branchRepository struct {
	pool *pgxpool.Pool
}

// NewBranchRepository instantiates repository.
func NewBranchRepository(pool *pgxpool.Pool) BranchRepository {
	return &branchRepository{pool: pool}
}

func (r *branchRepository) db(ctx context.Context) persistence.DB {
	return persistence.Querier(ctx, r.pool)
}

const branchColumns = `id, name, phone, email, address_id, company_id, state, created_at, updated_at`

func (r *branchRepository) Create(ctx context.Context, branch *domain.Branch) error {
	const query = `
        INSERT INTO branches (name, phone, email, address_id, company_id, state)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	if branch.State == "" {
		branch.State = domain.LifecycleActive
	}
	return r.db(ctx).QueryRow(ctx, query,
		branch.Name,
		branch.Phone,
		branch.Email,
		branch.AddressID,
		branch.CompanyID,
		branch.State,
	).Scan(&branch.ID, &branch.CreatedAt, &branch.UpdatedAt)
}

func (r *branchRepository) Update(ctx context.Context, branch *domain.Branch) error {
	const query = `
        UPDATE branches SET name=$1, phone=$2, email=$3, company_id=$4, state=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.db(ctx).Exec(ctx, query,
		branch.Name,
		branch.Phone,
		branch.Email,
		branch.CompanyID,
		branch.State,
		branch.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *branchRepository) GetByID(ctx context.Context, id string) (*domain.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *branchRepository) FindByNameAndAddress(ctx context.Context, name, addressID string) (*domain.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE name=$1 AND address_id=$2 LIMIT 1`
	return r.fetchSingle(ctx, query, name, addressID)
}

func (r *branchRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Branch, error) {
	var b domain.Branch
	if err := r.db(ctx).QueryRow(ctx, query, args...).Scan(
		&b.ID, &b.Name, &b.Phone, &b.Email, &b.AddressID, &b.CompanyID,
		&b.State, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *branchRepository) List(ctx context.Context, companyID *string, limit, offset int) ([]domain.Branch, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + branchColumns + ` FROM branches`
	args := []any{}
	if companyID != nil {
		query += ` WHERE company_id=$1 ORDER BY name LIMIT $2 OFFSET $3`
		args = append(args, *companyID, limit, offset)
	} else {
		query += ` ORDER BY name LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Branch
	for rows.Next() {
		var b domain.Branch
		if err := rows.Scan(
			&b.ID, &b.Name, &b.Phone, &b.Email, &b.AddressID, &b.CompanyID,
			&b.State, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

func (r *branchRepository) SetState(ctx context.Context, id string, state domain.LifecycleState) error {
	const query = `UPDATE branches SET state=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.db(ctx).Exec(ctx, query, state, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *branchRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM branches WHERE id=$1`
	cmd, err := r.db(ctx).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
