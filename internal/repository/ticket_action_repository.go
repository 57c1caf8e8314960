package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/persistence"
)

// TicketActionRepository encapsulates ticket action log persistence.
// ListByTicket returns entries latest-first (action_date descending).
type TicketActionRepository interface {
	Create(ctx context.Context, action *domain.TicketAction) error
	Update(ctx context.Context, action *domain.TicketAction) error
	GetByID(ctx context.Context, id string) (*domain.TicketAction, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketAction, error)
}

type ticketActionRepository struct {
	pool *pgxpool.Pool
}

// NewTicketActionRepository instantiates repository.
func NewTicketActionRepository(pool *pgxpool.Pool) TicketActionRepository {
	return &ticketActionRepository{pool: pool}
}

func (r *ticketActionRepository) db(ctx context.Context) persistence.DB {
	return persistence.Querier(ctx, r.pool)
}

const actionColumns = `id, ticket_id, description, action_date, category, user_id, created_at, updated_at`

func (r *ticketActionRepository) Create(ctx context.Context, action *domain.TicketAction) error {
	const query = `
        INSERT INTO ticket_actions (ticket_id, description, action_date, category, user_id)
        VALUES ($1,$2,COALESCE($3,NOW()),$4,$5)
        RETURNING id, action_date, created_at, updated_at`
	var actionDate any
	if !action.ActionDate.IsZero() {
		actionDate = action.ActionDate
	}
	if action.Category == "" {
		action.Category = domain.DefaultActionCategory
	}
	return r.db(ctx).QueryRow(ctx, query,
		action.TicketID,
		action.Description,
		actionDate,
		action.Category,
		action.UserID,
	).Scan(&action.ID, &action.ActionDate, &action.CreatedAt, &action.UpdatedAt)
}

func (r *ticketActionRepository) Update(ctx context.Context, action *domain.TicketAction) error {
	const query = `
        UPDATE ticket_actions SET description=$1, category=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.db(ctx).Exec(ctx, query, action.Description, action.Category, action.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketActionRepository) GetByID(ctx context.Context, id string) (*domain.TicketAction, error) {
	query := `SELECT ` + actionColumns + ` FROM ticket_actions WHERE id=$1`
	var a domain.TicketAction
	if err := r.db(ctx).QueryRow(ctx, query, id).Scan(
		&a.ID, &a.TicketID, &a.Description, &a.ActionDate, &a.Category, &a.UserID,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ticketActionRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketAction, error) {
	query := `SELECT ` + actionColumns + ` FROM ticket_actions WHERE ticket_id=$1 ORDER BY action_date DESC`
	rows, err := r.db(ctx).Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketAction
	for rows.Next() {
		var a domain.TicketAction
		if err := rows.Scan(
			&a.ID, &a.TicketID, &a.Description, &a.ActionDate, &a.Category, &a.UserID,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
