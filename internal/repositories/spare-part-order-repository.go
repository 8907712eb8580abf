package repositories

import (
	"context"
	"errors"
	"fmt"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/apperrors"
	"maintenance-system/pkg/constants"
	"maintenance-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SparePartOrderRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.SparePartOrder, uint64, error)
	Find(ctx context.Context, id uint64) (*entities.SparePartOrder, error)
	FindForUpdateTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.SparePartOrder, error)
	CreateTx(ctx context.Context, tx pgx.Tx, requestedBy uint64, d dto.CreateSparePartOrderDTO) (uint64, error)
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uint64, status string, reviewedBy *uint64, markCompleted bool) error
	ListItems(ctx context.Context, orderID uint64) ([]dto.SparePartOrderItemRow, error)
	ListItemsTx(ctx context.Context, tx pgx.Tx, orderID uint64) ([]entities.SparePartOrderItem, error)
}

type SparePartOrderRepository struct {
	storage *pgxpool.Pool
}

func NewSparePartOrderRepository(storage *pgxpool.Pool) SparePartOrderRepositoryInterface {
	return &SparePartOrderRepository{storage: storage}
}

const orderColumns = `id, status, requested_by, reviewed_by, completed_at, note, created_at, updated_at`

func scanSparePartOrder(row pgx.Row) (*entities.SparePartOrder, error) {
	var o entities.SparePartOrder
	err := row.Scan(
		&o.ID, &o.Status, &o.RequestedBy, &o.ReviewedBy, &o.CompletedAt, &o.Note,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *SparePartOrderRepository) List(ctx context.Context, filter types.Filter) ([]entities.SparePartOrder, uint64, error) {
	allowedFilter := []string{"status", "requested_by"}
	allowedSort := map[string]string{"created_at": "created_at", "status": "status"}

	builder := applyListFilter(
		psql.Select(orderColumns).From("spare_part_orders"),
		filter, allowedFilter, nil, allowedSort,
	)
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("id DESC")
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("spare part order list ToSql: %w", err)
	}
	rows, err := r.storage.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []entities.SparePartOrder
	for rows.Next() {
		o, err := scanSparePartOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countBuilder := applyListFilter(
		psql.Select("COUNT(*)").From("spare_part_orders"),
		filter, allowedFilter, nil, nil,
	)
	total, err := countRows(ctx, r.storage, countBuilder)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *SparePartOrderRepository) Find(ctx context.Context, id uint64) (*entities.SparePartOrder, error) {
	o, err := scanSparePartOrder(r.storage.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM spare_part_orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

// FindForUpdateTx locks the order row. The completion credit depends on
// reading the pre-transition status under lock so it can never run twice.
func (r *SparePartOrderRepository) FindForUpdateTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.SparePartOrder, error) {
	o, err := scanSparePartOrder(tx.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM spare_part_orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *SparePartOrderRepository) CreateTx(ctx context.Context, tx pgx.Tx, requestedBy uint64, d dto.CreateSparePartOrderDTO) (uint64, error) {
	var id uint64
	err := tx.QueryRow(ctx,
		`INSERT INTO spare_part_orders (status, requested_by, note)
		 VALUES ($1, $2, $3) RETURNING id`,
		constants.SparePartOrderPendingTechnician, requestedBy, d.Note,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	for _, item := range d.Items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO spare_part_order_items (order_id, spare_part_id, quantity, unit_cost)
			 VALUES ($1, $2, $3, $4)`,
			id, item.SparePartID, item.Quantity, item.UnitCost,
		); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (r *SparePartOrderRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uint64, status string, reviewedBy *uint64, markCompleted bool) error {
	builder := psql.Update("spare_part_orders").
		Set("status", status).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": id})
	if reviewedBy != nil {
		builder = builder.Set("reviewed_by", *reviewedBy)
	}
	if markCompleted {
		builder = builder.Set("completed_at", sq.Expr("CURRENT_TIMESTAMP"))
	}

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	result, err := tx.Exec(ctx, sqlQuery, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *SparePartOrderRepository) ListItems(ctx context.Context, orderID uint64) ([]dto.SparePartOrderItemRow, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT i.id, i.spare_part_id, p.name, i.quantity, i.unit_cost
		 FROM spare_part_order_items i
		 JOIN spare_parts p ON p.id = i.spare_part_id
		 WHERE i.order_id = $1
		 ORDER BY i.id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dto.SparePartOrderItemRow
	for rows.Next() {
		var item dto.SparePartOrderItemRow
		if err := rows.Scan(&item.ID, &item.SparePartID, &item.PartName, &item.Quantity, &item.UnitCost); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SparePartOrderRepository) ListItemsTx(ctx context.Context, tx pgx.Tx, orderID uint64) ([]entities.SparePartOrderItem, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, order_id, spare_part_id, quantity, unit_cost
		 FROM spare_part_order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entities.SparePartOrderItem
	for rows.Next() {
		var item entities.SparePartOrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.SparePartID, &item.Quantity, &item.UnitCost); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
