package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/persistence"
)

// EquipmentFilter captures inventory search parameters.
type EquipmentFilter struct {
	Statuses   []domain.EquipmentStatus
	Types      []domain.EquipmentType
	CompanyID  *string
	LocationID *string
	Limit      int
	Offset     int
}

// EquipmentRepository encapsulates inventory persistence.
type EquipmentRepository interface {
	Create(ctx context.Context, equipment *domain.Equipment) error
	Update(ctx context.Context, equipment *domain.Equipment) error
	GetByID(ctx context.Context, id string) (*domain.Equipment, error)
	List(ctx context.Context, filter EquipmentFilter) ([]domain.Equipment, error)
	SetStatus(ctx context.Context, id string, status domain.EquipmentStatus) error
	CountByLocation(ctx context.Context, locationID string) (int64, error)
}

type equipmentRepository struct {
	pool *pgxpool.Pool
}

// NewEquipmentRepository instantiates repository.
func NewEquipmentRepository(pool *pgxpool.Pool) EquipmentRepository {
	return &equipmentRepository{pool: pool}
}

func (r *equipmentRepository) db(ctx context.Context) persistence.DB {
	return persistence.Querier(ctx, r.pool)
}

const equipmentColumns = `id, name, unique_identifier, type, status, location_id, company_id, parent_id, created_at, updated_at`

func (r *equipmentRepository) Create(ctx context.Context, equipment *domain.Equipment) error {
	const query = `
        INSERT INTO equipment (name, unique_identifier, type, status, location_id, company_id, parent_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	if equipment.Status == "" {
		equipment.Status = domain.EquipmentStatusAvailable
	}
	return r.db(ctx).QueryRow(ctx, query,
		equipment.Name,
		equipment.UniqueIdentifier,
		equipment.Type,
		equipment.Status,
		equipment.LocationID,
		equipment.CompanyID,
		equipment.ParentID,
	).Scan(&equipment.ID, &equipment.CreatedAt, &equipment.UpdatedAt)
}

func (r *equipmentRepository) Update(ctx context.Context, equipment *domain.Equipment) error {
	const query = `
        UPDATE equipment SET name=$1, unique_identifier=$2, type=$3, status=$4,
            location_id=$5, company_id=$6, parent_id=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.db(ctx).Exec(ctx, query,
		equipment.Name,
		equipment.UniqueIdentifier,
		equipment.Type,
		equipment.Status,
		equipment.LocationID,
		equipment.CompanyID,
		equipment.ParentID,
		equipment.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *equipmentRepository) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id=$1`
	var e domain.Equipment
	if err := r.db(ctx).QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Name, &e.UniqueIdentifier, &e.Type, &e.Status,
		&e.LocationID, &e.CompanyID, &e.ParentID, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *equipmentRepository) List(ctx context.Context, filter EquipmentFilter) ([]domain.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE 1=1`
	args := []any{}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		query += fmt.Sprintf(" AND status = ANY($%d)", len(args))
	}
	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		args = append(args, types)
		query += fmt.Sprintf(" AND type = ANY($%d)", len(args))
	}
	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		query += fmt.Sprintf(" AND company_id=$%d", len(args))
	}
	if filter.LocationID != nil {
		args = append(args, *filter.LocationID)
		query += fmt.Sprintf(" AND location_id=$%d", len(args))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" ORDER BY name LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Equipment
	for rows.Next() {
		var e domain.Equipment
		if err := rows.Scan(
			&e.ID, &e.Name, &e.UniqueIdentifier, &e.Type, &e.Status,
			&e.LocationID, &e.CompanyID, &e.ParentID, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *equipmentRepository) SetStatus(ctx context.Context, id string, status domain.EquipmentStatus) error {
	const query = `UPDATE equipment SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.db(ctx).Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *equipmentRepository) CountByLocation(ctx context.Context, locationID string) (int64, error) {
	const query = `SELECT COUNT(*) FROM equipment WHERE location_id=$1`
	var count int64
	if err := r.db(ctx).QueryRow(ctx, query, locationID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
