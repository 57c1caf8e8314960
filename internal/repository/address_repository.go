package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/persistence"
)

// AddressRepository encapsulates address persistence. The (street, number,
// comuna) natural key is enforced by callers via FindByNaturalKey.
type AddressRepository interface {
	Create(ctx context.Context, address *domain.Address) error
	GetByID(ctx context.Context, id string) (*domain.Address, error)
	FindByNaturalKey(ctx context.Context, street, number, comunaID string) (*domain.Address, error)
}

type addressRepository struct {
	pool *pgxpool.Pool
}

// NewAddressRepository instantiates repository.
func NewAddressRepository(pool *pgxpool.Pool) AddressRepository {
	return &addressRepository{pool: pool}
}

func (r *addressRepository) db(ctx context.Context) persistence.DB {
	return persistence.Querier(ctx, r.pool)
}

func (r *addressRepository) Create(ctx context.Context, address *domain.Address) error {
	const query = `
        INSERT INTO addresses (comuna_id, street, number, unit)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.db(ctx).QueryRow(ctx, query,
		address.ComunaID,
		address.Street,
		address.Number,
		address.Unit,
	).Scan(&address.ID, &address.CreatedAt, &address.UpdatedAt)
}

func (r *addressRepository) GetByID(ctx context.Context, id string) (*domain.Address, error) {
	const query = `
        SELECT id, comuna_id, street, number, unit, created_at, updated_at
        FROM addresses WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

// FindByNaturalKey matches street and number case-sensitively, mirroring the
// de-duplication key used by the branch resolver.
func (r *addressRepository) FindByNaturalKey(ctx context.Context, street, number, comunaID string) (*domain.Address, error) {
	const query = `
        SELECT id, comuna_id, street, number, unit, created_at, updated_at
        FROM addresses WHERE street=$1 AND number=$2 AND comuna_id=$3
        LIMIT 1`
	return r.fetchSingle(ctx, query, street, number, comunaID)
}

func (r *addressRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Address, error) {
	var addr domain.Address
	if err := r.db(ctx).QueryRow(ctx, query, args...).Scan(
		&addr.ID,
		&addr.ComunaID,
		&addr.Street,
		&addr.Number,
		&addr.Unit,
		&addr.CreatedAt,
		&addr.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &addr, nil
}
