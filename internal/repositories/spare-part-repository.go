package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/apperrors"
	"maintenance-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SparePartRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.SparePart, uint64, error)
	Find(ctx context.Context, id uint64) (*entities.SparePart, error)
	Create(ctx context.Context, d dto.CreateSparePartDTO) (uint64, error)
	Update(ctx context.Context, id uint64, d dto.UpdateSparePartDTO) error
	SoftDelete(ctx context.Context, id uint64) error
	// UpsertByNameTx finds an inventory record by case-insensitive name or
	// creates it with zero stock. Repeated calls with the same name return
	// the same id.
	UpsertByNameTx(ctx context.Context, tx pgx.Tx, name string) (uint64, error)
	IncrementQuantityTx(ctx context.Context, tx pgx.Tx, sparePartID uint64, delta int) error
}

type SparePartRepository struct {
	storage *pgxpool.Pool
}

func NewSparePartRepository(storage *pgxpool.Pool) SparePartRepositoryInterface {
	return &SparePartRepository{storage: storage}
}

const sparePartColumns = `id, name, part_number, quantity, min_quantity, unit_cost, created_at, updated_at, deleted_at`

func scanSparePart(row pgx.Row) (*entities.SparePart, error) {
	var p entities.SparePart
	err := row.Scan(
		&p.ID, &p.Name, &p.PartNumber, &p.Quantity, &p.MinQuantity, &p.UnitCost,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SparePartRepository) List(ctx context.Context, filter types.Filter) ([]entities.SparePart, uint64, error) {
	allowedFilter := []string{"part_number"}
	allowedSearch := []string{"name", "part_number"}
	allowedSort := map[string]string{"name": "name", "quantity": "quantity", "created_at": "created_at"}

	builder := applyListFilter(
		psql.Select(sparePartColumns).From("spare_parts").Where(sq.Eq{"deleted_at": nil}),
		filter, allowedFilter, allowedSearch, allowedSort,
	)
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("id ASC")
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("spare part list ToSql: %w", err)
	}
	rows, err := r.storage.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []entities.SparePart
	for rows.Next() {
		p, err := scanSparePart(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countBuilder := applyListFilter(
		psql.Select("COUNT(*)").From("spare_parts").Where(sq.Eq{"deleted_at": nil}),
		filter, allowedFilter, allowedSearch, nil,
	)
	total, err := countRows(ctx, r.storage, countBuilder)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *SparePartRepository) Find(ctx context.Context, id uint64) (*entities.SparePart, error) {
	p, err := scanSparePart(r.storage.QueryRow(ctx,
		`SELECT `+sparePartColumns+` FROM spare_parts WHERE id = $1 AND deleted_at IS NULL`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *SparePartRepository) Create(ctx context.Context, d dto.CreateSparePartDTO) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx,
		`INSERT INTO spare_parts (name, part_number, quantity, min_quantity, unit_cost)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		strings.TrimSpace(d.Name), d.PartNumber, d.Quantity, d.MinQuantity, d.UnitCost,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *SparePartRepository) Update(ctx context.Context, id uint64, d dto.UpdateSparePartDTO) error {
	builder := psql.Update("spare_parts").
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": id, "deleted_at": nil})

	if d.Name != nil {
		builder = builder.Set("name", strings.TrimSpace(*d.Name))
	}
	if d.PartNumber != nil {
		builder = builder.Set("part_number", *d.PartNumber)
	}
	if d.Quantity != nil {
		builder = builder.Set("quantity", *d.Quantity)
	}
	if d.MinQuantity != nil {
		builder = builder.Set("min_quantity", *d.MinQuantity)
	}
	if d.UnitCost != nil {
		builder = builder.Set("unit_cost", *d.UnitCost)
	}

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	result, err := r.storage.Exec(ctx, sqlQuery, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *SparePartRepository) SoftDelete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		`UPDATE spare_parts SET deleted_at = CURRENT_TIMESTAMP WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *SparePartRepository) UpsertByNameTx(ctx context.Context, tx pgx.Tx, name string) (uint64, error) {
	name = strings.TrimSpace(name)
	var id uint64

	err := tx.QueryRow(ctx,
		`SELECT id FROM spare_parts WHERE LOWER(name) = LOWER($1) AND deleted_at IS NULL`, name,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO spare_parts (name, part_number, quantity, min_quantity, unit_cost)
		 VALUES ($1, '', 0, 0, 0) RETURNING id`, name,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *SparePartRepository) IncrementQuantityTx(ctx context.Context, tx pgx.Tx, sparePartID uint64, delta int) error {
	result, err := tx.Exec(ctx,
		`UPDATE spare_parts SET quantity = quantity + $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		delta, sparePartID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
