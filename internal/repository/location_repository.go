package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/persistence"
)

// LocationRepository encapsulates location persistence.
type LocationRepository interface {
	Create(ctx context.Context, location *domain.Location) error
	Update(ctx context.Context, location *domain.Location) error
	GetByID(ctx context.Context, id string) (*domain.Location, error)
	FindByBranchAndName(ctx context.Context, branchID string, referenceName *string) (*domain.Location, error)
	ListByBranch(ctx context.Context, branchID string) ([]domain.Location, error)
	List(ctx context.Context, limit, offset int) ([]domain.Location, error)
	SetState(ctx context.Context, id string, state domain.LifecycleState) error
	Delete(ctx context.Context, id string) error
}

type locationRepository struct {
	pool *pgxpool.Pool
}

// NewLocationRepository instantiates repository.
func NewLocationRepository(pool *pgxpool.Pool) LocationRepository {
	return &locationRepository{pool: pool}
}

func (r *locationRepository) db(ctx context.Context) persistence.DB {
	return persistence.Querier(ctx, r.pool)
}

const locationColumns = `id, branch_id, reference_name, notes, state, created_at, updated_at`

func (r *locationRepository) Create(ctx context.Context, location *domain.Location) error {
	const query = `
        INSERT INTO locations (branch_id, reference_name, notes, state)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	if location.State == "" {
		location.State = domain.LifecycleActive
	}
	return r.db(ctx).QueryRow(ctx, query,
		location.BranchID,
		location.ReferenceName,
		location.Notes,
		location.State,
	).Scan(&location.ID, &location.CreatedAt, &location.UpdatedAt)
}

func (r *locationRepository) Update(ctx context.Context, location *domain.Location) error {
	const query = `
        UPDATE locations SET reference_name=$1, notes=$2, state=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.db(ctx).Exec(ctx, query,
		location.ReferenceName,
		location.Notes,
		location.State,
		location.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *locationRepository) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

// FindByBranchAndName treats a nil reference name as part of the key: a
// branch has at most one unnamed default location.
func (r *locationRepository) FindByBranchAndName(ctx context.Context, branchID string, referenceName *string) (*domain.Location, error) {
	if referenceName == nil {
		query := `SELECT ` + locationColumns + ` FROM locations WHERE branch_id=$1 AND reference_name IS NULL LIMIT 1`
		return r.fetchSingle(ctx, query, branchID)
	}
	query := `SELECT ` + locationColumns + ` FROM locations WHERE branch_id=$1 AND reference_name=$2 LIMIT 1`
	return r.fetchSingle(ctx, query, branchID, *referenceName)
}

func (r *locationRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Location, error) {
	var loc domain.Location
	if err := r.db(ctx).QueryRow(ctx, query, args...).Scan(
		&loc.ID, &loc.BranchID, &loc.ReferenceName, &loc.Notes,
		&loc.State, &loc.CreatedAt, &loc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *locationRepository) ListByBranch(ctx context.Context, branchID string) ([]domain.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE branch_id=$1 ORDER BY reference_name`
	rows, err := r.db(ctx).Query(ctx, query, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLocations(rows)
}

func (r *locationRepository) List(ctx context.Context, limit, offset int) ([]domain.Location, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + locationColumns + ` FROM locations ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db(ctx).Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLocations(rows)
}

func (r *locationRepository) SetState(ctx context.Context, id string, state domain.LifecycleState) error {
	const query = `UPDATE locations SET state=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.db(ctx).Exec(ctx, query, state, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *locationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM locations WHERE id=$1`
	cmd, err := r.db(ctx).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanLocations(rows pgx.Rows) ([]domain.Location, error) {
	var result []domain.Location
	for rows.Next() {
		var loc domain.Location
		if err := rows.Scan(
			&loc.ID, &loc.BranchID, &loc.ReferenceName, &loc.Notes,
			&loc.State, &loc.CreatedAt, &loc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, loc)
	}
	return result, rows.Err()
}
