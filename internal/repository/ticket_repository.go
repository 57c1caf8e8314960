package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/persistence"
)

// TicketFilter captures ticket search parameters.
type TicketFilter struct {
	CompanyID      *string
	BranchID       *string
	AssignedTechID *string
	Statuses       []domain.TicketStatus
	Priorities     []domain.TicketPriority
	SearchTerm     *string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	Limit          int
	Offset         int
}

// TicketRepository encapsulates ticket persistence. Case numbers come from
// NextCaseNumber, an atomic counter increment that participates in the
// caller's transaction.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByCaseNumber(ctx context.Context, caseNumber int64) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	NextCaseNumber(ctx context.Context) (int64, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) db(ctx context.Context) persistence.DB {
	return persistence.Querier(ctx, r.pool)
}

const ticketColumns = `id, case_number, title, detailed_description, incident_type, priority, status,
               requester_name, requester_phone, requester_email,
               company_id, branch_id, contact_id, assigned_tech_id, created_by_id,
               estimated_resolution, actual_resolution, affected_equipment, created_at, updated_at`

// NextCaseNumber atomically increments the counter row and returns the new
// value. Inside a transaction the increment rolls back with everything else,
// so an aborted batch never burns numbers.
func (r *ticketRepository) NextCaseNumber(ctx context.Context) (int64, error) {
	const query = `UPDATE ticket_counter SET value = value + 1 WHERE id = 1 RETURNING value`
	var n int64
	if err := r.db(ctx).QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (case_number, title, detailed_description, incident_type, priority, status,
            requester_name, requester_phone, requester_email,
            company_id, branch_id, contact_id, assigned_tech_id, created_by_id,
            estimated_resolution, actual_resolution, affected_equipment, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,COALESCE($18,NOW()))
        RETURNING id, created_at, updated_at`
	var createdAt *time.Time
	if !ticket.CreatedAt.IsZero() {
		createdAt = &ticket.CreatedAt
	}
	return r.db(ctx).QueryRow(ctx, query,
		ticket.CaseNumber,
		ticket.Title,
		ticket.DetailedDescription,
		ticket.IncidentType,
		ticket.Priority,
		ticket.Status,
		ticket.RequesterName,
		ticket.RequesterPhone,
		ticket.RequesterEmail,
		ticket.CompanyID,
		ticket.BranchID,
		ticket.ContactID,
		ticket.AssignedTechID,
		ticket.CreatedByID,
		ticket.EstimatedResolution,
		ticket.ActualResolution,
		ticket.AffectedEquipment,
		createdAt,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, detailed_description=$2, incident_type=$3, priority=$4, status=$5,
            requester_name=$6, requester_phone=$7, requester_email=$8,
            company_id=$9, branch_id=$10, contact_id=$11, assigned_tech_id=$12,
            estimated_resolution=$13, actual_resolution=$14, affected_equipment=$15, updated_at=NOW()
        WHERE id=$16`
	cmd, err := r.db(ctx).Exec(ctx, query,
		ticket.Title,
		ticket.DetailedDescription,
		ticket.IncidentType,
		ticket.Priority,
		ticket.Status,
		ticket.RequesterName,
		ticket.RequesterPhone,
		ticket.RequesterEmail,
		ticket.CompanyID,
		ticket.BranchID,
		ticket.ContactID,
		ticket.AssignedTechID,
		ticket.EstimatedResolution,
		ticket.ActualResolution,
		ticket.AffectedEquipment,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tickets WHERE id=$1`
	cmd, err := r.db(ctx).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByCaseNumber(ctx context.Context, caseNumber int64) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE case_number=$1`
	return r.fetchSingle(ctx, query, caseNumber)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var t domain.Ticket
	if err := r.db(ctx).QueryRow(ctx, query, arg).Scan(
		&t.ID,
		&t.CaseNumber,
		&t.Title,
		&t.DetailedDescription,
		&t.IncidentType,
		&t.Priority,
		&t.Status,
		&t.RequesterName,
		&t.RequesterPhone,
		&t.RequesterEmail,
		&t.CompanyID,
		&t.BranchID,
		&t.ContactID,
		&t.AssignedTechID,
		&t.CreatedByID,
		&t.EstimatedResolution,
		&t.ActualResolution,
		&t.AffectedEquipment,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		clauses = append(clauses, fmt.Sprintf("company_id=$%d", len(args)))
	}
	if filter.BranchID != nil {
		args = append(args, *filter.BranchID)
		clauses = append(clauses, fmt.Sprintf("branch_id=$%d", len(args)))
	}
	if filter.AssignedTechID != nil {
		args = append(args, *filter.AssignedTechID)
		clauses = append(clauses, fmt.Sprintf("assigned_tech_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(detailed_description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY case_number DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(
			&t.ID,
			&t.CaseNumber,
			&t.Title,
			&t.DetailedDescription,
			&t.IncidentType,
			&t.Priority,
			&t.Status,
			&t.RequesterName,
			&t.RequesterPhone,
			&t.RequesterEmail,
			&t.CompanyID,
			&t.BranchID,
			&t.ContactID,
			&t.AssignedTechID,
			&t.CreatedByID,
			&t.EstimatedResolution,
			&t.ActualResolution,
			&t.AffectedEquipment,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
