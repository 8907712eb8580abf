package repositories

import (
	"context"
	"errors"
	"fmt"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/apperrors"
	"maintenance-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type JobOrderRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.JobOrder, uint64, error)
	Find(ctx context.Context, id uint64) (*entities.JobOrder, error)
	CreateTx(ctx context.Context, tx pgx.Tx, order entities.JobOrder) (uint64, error)
	AddItemTx(ctx context.Context, tx pgx.Tx, item entities.JobOrderItem) error
	ListItems(ctx context.Context, jobOrderID uint64) ([]entities.JobOrderItem, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
}

type JobOrderRepository struct {
	storage *pgxpool.Pool
}

func NewJobOrderRepository(storage *pgxpool.Pool) JobOrderRepositoryInterface {
	return &JobOrderRepository{storage: storage}
}

const jobOrderColumns = `id, campus, sub_location, order_number, status, submitted_by, submitted_at, created_at, updated_at`

func scanJobOrder(row pgx.Row) (*entities.JobOrder, error) {
	var o entities.JobOrder
	err := row.Scan(
		&o.ID, &o.Campus, &o.SubLocation, &o.OrderNumber, &o.Status,
		&o.SubmittedBy, &o.SubmittedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *JobOrderRepository) List(ctx context.Context, filter types.Filter) ([]entities.JobOrder, uint64, error) {
	allowedFilter := []string{"campus", "status", "submitted_by"}
	allowedSearch := []string{"order_number", "sub_location"}
	allowedSort := map[string]string{"submitted_at": "submitted_at", "campus": "campus"}

	builder := applyListFilter(
		psql.Select(jobOrderColumns).From("job_orders"),
		filter, allowedFilter, allowedSearch, allowedSort,
	)
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("id DESC")
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("job order list ToSql: %w", err)
	}
	rows, err := r.storage.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []entities.JobOrder
	for rows.Next() {
		o, err := scanJobOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countBuilder := applyListFilter(
		psql.Select("COUNT(*)").From("job_orders"),
		filter, allowedFilter, allowedSearch, nil,
	)
	total, err := countRows(ctx, r.storage, countBuilder)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *JobOrderRepository) Find(ctx context.Context, id uint64) (*entities.JobOrder, error) {
	o, err := scanJobOrder(r.storage.QueryRow(ctx,
		`SELECT `+jobOrderColumns+` FROM job_orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *JobOrderRepository) CreateTx(ctx context.Context, tx pgx.Tx, order entities.JobOrder) (uint64, error) {
	var id uint64
	err := tx.QueryRow(ctx,
		`INSERT INTO job_orders (campus, sub_location, order_number, status, submitted_by, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		order.Campus, order.SubLocation, order.OrderNumber, order.Status, order.SubmittedBy, order.SubmittedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *JobOrderRepository) AddItemTx(ctx context.Context, tx pgx.Tx, item entities.JobOrderItem) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO job_order_items (job_order_id, position, equipment_name, ticket_number)
		 VALUES ($1, $2, $3, $4)`,
		item.JobOrderID, item.Position, item.EquipmentName, item.TicketNumber,
	)
	return err
}

func (r *JobOrderRepository) ListItems(ctx context.Context, jobOrderID uint64) ([]entities.JobOrderItem, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT id, job_order_id, position, equipment_name, ticket_number
		 FROM job_order_items WHERE job_order_id = $1 ORDER BY position`, jobOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entities.JobOrderItem
	for rows.Next() {
		var item entities.JobOrderItem
		if err := rows.Scan(&item.ID, &item.JobOrderID, &item.Position, &item.EquipmentName, &item.TicketNumber); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *JobOrderRepository) UpdateStatus(ctx context.Context, id uint64, status string) error {
	result, err := r.storage.Exec(ctx,
		`UPDATE job_orders SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
