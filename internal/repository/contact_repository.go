package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/persistence"
)

// ContactRepository encapsulates contact persistence. Contacts are
// soft-deleted via SetState.
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	Update(ctx context.Context, contact *domain.Contact) error
	GetByID(ctx context.Context, id string) (*domain.Contact, error)
	List(ctx context.Context, companyID *string, limit, offset int) ([]domain.Contact, error)
	ListAll(ctx context.Context) ([]domain.Contact, error)
	SetState(ctx context.Context, id string, state domain.LifecycleState) error
	CountByLocation(ctx context.Context, locationID string) (int64, error)
}

type contactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository instantiates repository.
func NewContactRepository(pool *pgxpool.Pool) ContactRepository {
	return &contactRepository{pool: pool}
}

func (r *contactRepository) db(ctx context.Context) persistence.DB {
	return persistence.Querier(ctx, r.pool)
}

const contactColumns = `id, company_id, location_id, name, email, phone, role, state, created_at, updated_at`

func (r *contactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	const query = `
        INSERT INTO contacts (company_id, location_id, name, email, phone, role, state)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	if contact.State == "" {
		contact.State = domain.LifecycleActive
	}
	return r.db(ctx).QueryRow(ctx, query,
		contact.CompanyID,
		contact.LocationID,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.Role,
		contact.State,
	).Scan(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt)
}

func (r *contactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	const query = `
        UPDATE contacts SET location_id=$1, name=$2, email=$3, phone=$4, role=$5,
            state=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.db(ctx).Exec(ctx, query,
		contact.LocationID,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.Role,
		contact.State,
		contact.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *contactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id=$1`
	var c domain.Contact
	if err := r.db(ctx).QueryRow(ctx, query, id).Scan(
		&c.ID, &c.CompanyID, &c.LocationID, &c.Name, &c.Email, &c.Phone, &c.Role,
		&c.State, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contactRepository) List(ctx context.Context, companyID *string, limit, offset int) ([]domain.Contact, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + contactColumns + ` FROM contacts`
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
	return scanContacts(rows)
}

func (r *contactRepository) ListAll(ctx context.Context) ([]domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts ORDER BY name`
	rows, err := r.db(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanContacts(rows)
}

func (r *contactRepository) SetState(ctx context.Context, id string, state domain.LifecycleState) error {
	const query = `UPDATE contacts SET state=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.db(ctx).Exec(ctx, query, state, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *contactRepository) CountByLocation(ctx context.Context, locationID string) (int64, error) {
	const query = `SELECT COUNT(*) FROM contacts WHERE location_id=$1`
	var count int64
	if err := r.db(ctx).QueryRow(ctx, query, locationID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanContacts(rows pgx.Rows) ([]domain.Contact, error) {
	var result []domain.Contact
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(
			&c.ID, &c.CompanyID, &c.LocationID, &c.Name, &c.Email, &c.Phone, &c.Role,
			&c.State, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
