package repositories

import (
	"context"
	"errors"
	"fmt"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/apperrors"
	"maintenance-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AttendanceRow struct {
	Record   entities.AttendanceRecord
	UserName string
}

type AttendanceRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter) ([]AttendanceRow, uint64, error)
	FindOpen(ctx context.Context, userID uint64) (*entities.AttendanceRecord, error)
	CheckIn(ctx context.Context, userID uint64, note string) (uint64, error)
	CheckOut(ctx context.Context, recordID uint64) error
}

type AttendanceRepository struct {
	storage *pgxpool.Pool
}

func NewAttendanceRepository(storage *pgxpool.Pool) AttendanceRepositoryInterface {
	return &AttendanceRepository{storage: storage}
}

func (r *AttendanceRepository) List(ctx context.Context, filter types.Filter) ([]AttendanceRow, uint64, error) {
	allowedFilter := []string{"a.user_id"}
	allowedSort := map[string]string{"check_in_at": "a.check_in_at"}

	builder := applyListFilter(
		psql.Select("a.id, a.user_id, a.check_in_at, a.check_out_at, a.note, u.name").
			From("attendance_records a").
			Join("users u ON u.id = a.user_id"),
		filter, allowedFilter, nil, allowedSort,
	)
	builder = applyCheckInRange(builder, filter)
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("a.check_in_at DESC")
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("attendance list ToSql: %w", err)
	}
	rows, err := r.storage.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []AttendanceRow
	for rows.Next() {
		var row AttendanceRow
		err := rows.Scan(&row.Record.ID, &row.Record.UserID, &row.Record.CheckInAt,
			&row.Record.CheckOutAt, &row.Record.Note, &row.UserName)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countBuilder := applyListFilter(
		psql.Select("COUNT(*)").
			From("attendance_records a").
			Join("users u ON u.id = a.user_id"),
		filter, allowedFilter, nil, nil,
	)
	countBuilder = applyCheckInRange(countBuilder, filter)
	total, err := countRows(ctx, r.storage, countBuilder)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// applyCheckInRange narrows by the "from"/"to" query filters, inclusive on
// both ends. Values are passed through as-is; postgres parses the timestamps.
func applyCheckInRange(builder sq.SelectBuilder, filter types.Filter) sq.SelectBuilder {
	if v, ok := filter.Filter["from"]; ok {
		builder = builder.Where(sq.GtOrEq{"a.check_in_at": v})
	}
	if v, ok := filter.Filter["to"]; ok {
		builder = builder.Where(sq.LtOrEq{"a.check_in_at": v})
	}
	return builder
}

// FindOpen returns the user's record that has not been checked out yet.
func (r *AttendanceRepository) FindOpen(ctx context.Context, userID uint64) (*entities.AttendanceRecord, error) {
	var rec entities.AttendanceRecord
	err := r.storage.QueryRow(ctx,
		`SELECT id, user_id, check_in_at, check_out_at, note
		 FROM attendance_records
		 WHERE user_id = $1 AND check_out_at IS NULL
		 ORDER BY check_in_at DESC LIMIT 1`, userID,
	).Scan(&rec.ID, &rec.UserID, &rec.CheckInAt, &rec.CheckOutAt, &rec.Note)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *AttendanceRepository) CheckIn(ctx context.Context, userID uint64, note string) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx,
		`INSERT INTO attendance_records (user_id, check_in_at, note)
		 VALUES ($1, CURRENT_TIMESTAMP, $2) RETURNING id`,
		userID, note,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *AttendanceRepository) CheckOut(ctx context.Context, recordID uint64) error {
	result, err := r.storage.Exec(ctx,
		`UPDATE attendance_records SET check_out_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND check_out_at IS NULL`, recordID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
