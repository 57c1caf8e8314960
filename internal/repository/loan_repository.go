package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/persistence"
)

// LoanFilter captures loan search parameters.
type LoanFilter struct {
	EquipmentID *string
	ContactID   *string
	TicketID    *string
	Statuses    []domain.LoanStatus
	Limit       int
	Offset      int
}

// LoanRepository encapsulates equipment loan persistence.
type LoanRepository interface {
	Create(ctx context.Context, loan *domain.EquipmentLoan) error
	Update(ctx context.Context, loan *domain.EquipmentLoan) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.EquipmentLoan, error)
	List(ctx context.Context, filter LoanFilter) ([]domain.EquipmentLoan, error)
	CountOpenByEquipment(ctx context.Context, equipmentID string) (int64, error)
	DetachTicket(ctx context.Context, ticketID string) error
}

type loanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository instantiates repository.
func NewLoanRepository(pool *pgxpool.Pool) LoanRepository {
	return &loanRepository{pool: pool}
}

func (r *loanRepository) db(ctx context.Context) persistence.DB {
	return persistence.Querier(ctx, r.pool)
}

const loanColumns = `id, equipment_id, contact_id, responsible_on_site, loan_date, estimated_return_date,
             actual_return_date, status, ticket_id, loan_notes, return_notes,
             delivered_by_id, received_by_id, created_at, updated_at`

func (r *loanRepository) Create(ctx context.Context, loan *domain.EquipmentLoan) error {
	const query = `
        INSERT INTO equipment_loans (equipment_id, contact_id, responsible_on_site, loan_date,
            estimated_return_date, actual_return_date, status, ticket_id, loan_notes, return_notes,
            delivered_by_id, received_by_id)
        VALUES ($1,$2,$3,COALESCE($4,NOW()),$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, loan_date, created_at, updated_at`
	var loanDate any
	if !loan.LoanDate.IsZero() {
		loanDate = loan.LoanDate
	}
	if loan.Status == "" {
		loan.Status = domain.LoanStatusLoaned
	}
	return r.db(ctx).QueryRow(ctx, query,
		loan.EquipmentID,
		loan.ContactID,
		loan.ResponsibleOnSite,
		loanDate,
		loan.EstimatedReturnDate,
		loan.ActualReturnDate,
		loan.Status,
		loan.TicketID,
		loan.LoanNotes,
		loan.ReturnNotes,
		loan.DeliveredByID,
		loan.ReceivedByID,
	).Scan(&loan.ID, &loan.LoanDate, &loan.CreatedAt, &loan.UpdatedAt)
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.EquipmentLoan) error {
	const query = `
        UPDATE equipment_loans SET responsible_on_site=$1, estimated_return_date=$2,
            actual_return_date=$3, status=$4, ticket_id=$5, loan_notes=$6, return_notes=$7,
            delivered_by_id=$8, received_by_id=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.db(ctx).Exec(ctx, query,
		loan.ResponsibleOnSite,
		loan.EstimatedReturnDate,
		loan.ActualReturnDate,
		loan.Status,
		loan.TicketID,
		loan.LoanNotes,
		loan.ReturnNotes,
		loan.DeliveredByID,
		loan.ReceivedByID,
		loan.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *loanRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM equipment_loans WHERE id=$1`
	cmd, err := r.db(ctx).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *loanRepository) GetByID(ctx context.Context, id string) (*domain.EquipmentLoan, error) {
	query := `SELECT ` + loanColumns + ` FROM equipment_loans WHERE id=$1`
	var l domain.EquipmentLoan
	if err := r.db(ctx).QueryRow(ctx, query, id).Scan(
		&l.ID, &l.EquipmentID, &l.ContactID, &l.ResponsibleOnSite, &l.LoanDate,
		&l.EstimatedReturnDate, &l.ActualReturnDate, &l.Status, &l.TicketID,
		&l.LoanNotes, &l.ReturnNotes, &l.DeliveredByID, &l.ReceivedByID,
		&l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *loanRepository) List(ctx context.Context, filter LoanFilter) ([]domain.EquipmentLoan, error) {
	query := `SELECT ` + loanColumns + ` FROM equipment_loans WHERE 1=1`
	args := []any{}

	if filter.EquipmentID != nil {
		args = append(args, *filter.EquipmentID)
		query += fmt.Sprintf(" AND equipment_id=$%d", len(args))
	}
	if filter.ContactID != nil {
		args = append(args, *filter.ContactID)
		query += fmt.Sprintf(" AND contact_id=$%d", len(args))
	}
	if filter.TicketID != nil {
		args = append(args, *filter.TicketID)
		query += fmt.Sprintf(" AND ticket_id=$%d", len(args))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		query += fmt.Sprintf(" AND status = ANY($%d)", len(args))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" ORDER BY loan_date DESC LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EquipmentLoan
	for rows.Next() {
		var l domain.EquipmentLoan
		if err := rows.Scan(
			&l.ID, &l.EquipmentID, &l.ContactID, &l.ResponsibleOnSite, &l.LoanDate,
			&l.EstimatedReturnDate, &l.ActualReturnDate, &l.Status, &l.TicketID,
			&l.LoanNotes, &l.ReturnNotes, &l.DeliveredByID, &l.ReceivedByID,
			&l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// CountOpenByEquipment counts loans for the equipment that have not been
// returned yet.
func (r *loanRepository) CountOpenByEquipment(ctx context.Context, equipmentID string) (int64, error) {
	const query = `SELECT COUNT(*) FROM equipment_loans WHERE equipment_id=$1 AND actual_return_date IS NULL`
	var count int64
	if err := r.db(ctx).QueryRow(ctx, query, equipmentID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// DetachTicket clears the ticket link on every loan that references it.
// Used before a ticket hard-delete: loans are historical records and
// survive the ticket.
func (r *loanRepository) DetachTicket(ctx context.Context, ticketID string) error {
	const query = `UPDATE equipment_loans SET ticket_id=NULL, updated_at=NOW() WHERE ticket_id=$1`
	_, err := r.db(ctx).Exec(ctx, query, ticketID)
	return err
}
