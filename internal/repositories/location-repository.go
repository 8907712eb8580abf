package repositories

import (
	"context"
	"errors"
	"fmt"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/apperrors"
	"maintenance-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LocationRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.Location, uint64, error)
	Find(ctx context.Context, id uint64) (*entities.Location, error)
	FindByCampusAndName(ctx context.Context, campus, name string) (*entities.Location, error)
	Create(ctx context.Context, d dto.CreateLocationDTO) (uint64, error)
	Update(ctx context.Context, id uint64, d dto.UpdateLocationDTO) error
	Delete(ctx context.Context, id uint64) error
}

type LocationRepository struct {
	storage *pgxpool.Pool
}

func NewLocationRepository(storage *pgxpool.Pool) LocationRepositoryInterface {
	return &LocationRepository{storage: storage}
}

const locationColumns = `id, campus, name, name_ar, created_at, updated_at`

func scanLocation(row pgx.Row) (*entities.Location, error) {
	var l entities.Location
	if err := row.Scan(&l.ID, &l.Campus, &l.Name, &l.NameAr, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LocationRepository) List(ctx context.Context, filter types.Filter) ([]entities.Location, uint64, error) {
	allowedFilter := []string{"campus"}
	allowedSearch := []string{"name", "name_ar", "campus"}
	allowedSort := map[string]string{"campus": "campus", "name": "name"}

	builder := applyListFilter(
		psql.Select(locationColumns).From("locations"),
		filter, allowedFilter, allowedSearch, allowedSort,
	)
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("campus ASC, name ASC")
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("location list ToSql: %w", err)
	}
	rows, err := r.storage.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []entities.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countBuilder := applyListFilter(
		psql.Select("COUNT(*)").From("locations"),
		filter, allowedFilter, allowedSearch, nil,
	)
	total, err := countRows(ctx, r.storage, countBuilder)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *LocationRepository) Find(ctx context.Context, id uint64) (*entities.Location, error) {
	l, err := scanLocation(r.storage.QueryRow(ctx,
		`SELECT `+locationColumns+` FROM locations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *LocationRepository) FindByCampusAndName(ctx context.Context, campus, name string) (*entities.Location, error) {
	l, err := scanLocation(r.storage.QueryRow(ctx,
		`SELECT `+locationColumns+` FROM locations WHERE LOWER(campus) = LOWER($1) AND LOWER(name) = LOWER($2)`,
		campus, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *LocationRepository) Create(ctx context.Context, d dto.CreateLocationDTO) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx,
		`INSERT INTO locations (campus, name, name_ar) VALUES ($1, $2, $3) RETURNING id`,
		d.Campus, d.Name, d.NameAr.Ptr(),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *LocationRepository) Update(ctx context.Context, id uint64, d dto.UpdateLocationDTO) error {
	builder := psql.Update("locations").
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": id})

	if d.Campus != nil {
		builder = builder.Set("campus", *d.Campus)
	}
	if d.Name != nil {
		builder = builder.Set("name", *d.Name)
	}
	if d.NameAr.Valid {
		builder = builder.Set("name_ar", d.NameAr.String)
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

func (r *LocationRepository) Delete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
