package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/apperrors"
	"maintenance-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const equipmentColumns = `e.id, e.name, e.tag_number, e.model, e.manufacturer, e.serial_number,
	e.location_id, e.last_maintenance, e.maintenance_interval, e.operational_status,
	e.created_at, e.updated_at, e.deleted_at,
	l.id, l.campus, l.name, l.name_ar`

type EquipmentRow struct {
	Equipment entities.Equipment
	Location  *dto.ShortLocationDTO
}

type EquipmentRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter) ([]EquipmentRow, uint64, error)
	Find(ctx context.Context, id uint64) (*EquipmentRow, error)
	FindByTag(ctx context.Context, tagNumber string) (*entities.Equipment, error)
	Create(ctx context.Context, d dto.CreateEquipmentDTO) (uint64, error)
	CreateTx(ctx context.Context, tx pgx.Tx, d dto.CreateEquipmentDTO) (uint64, error)
	Update(ctx context.Context, id uint64, d dto.UpdateEquipmentDTO) error
	SoftDelete(ctx context.Context, id uint64) error
	ListByLocation(ctx context.Context, locationID uint64) ([]entities.Equipment, error)
	StampLastMaintenanceTx(ctx context.Context, tx pgx.Tx, equipmentIDs []uint64, date time.Time) error
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentRepository(storage *pgxpool.Pool) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage}
}

func (r *EquipmentRepository) baseSelect() sq.SelectBuilder {
	return psql.Select(equipmentColumns).
		From("equipments e").
		LeftJoin("locations l ON l.id = e.location_id").
		Where(sq.Eq{"e.deleted_at": nil})
}

func scanEquipmentRow(row pgx.Row) (*EquipmentRow, error) {
	var out EquipmentRow
	var locID *uint64
	var locCampus, locName *string
	var locNameAr *string

	err := row.Scan(
		&out.Equipment.ID,
		&out.Equipment.Name,
		&out.Equipment.TagNumber,
		&out.Equipment.Model,
		&out.Equipment.Manufacturer,
		&out.Equipment.SerialNumber,
		&out.Equipment.LocationID,
		&out.Equipment.LastMaintenance,
		&out.Equipment.MaintenanceInterval,
		&out.Equipment.OperationalStatus,
		&out.Equipment.CreatedAt,
		&out.Equipment.UpdatedAt,
		&out.Equipment.DeletedAt,
		&locID,
		&locCampus,
		&locName,
		&locNameAr,
	)
	if err != nil {
		return nil, err
	}

	if locID != nil {
		out.Location = &dto.ShortLocationDTO{
			ID:     *locID,
			Campus: *locCampus,
			Name:   *locName,
			NameAr: locNameAr,
		}
	}
	return &out, nil
}

func (r *EquipmentRepository) List(ctx context.Context, filter types.Filter) ([]EquipmentRow, uint64, error) {
	allowedFilter := []string{"e.location_id", "e.operational_status", "e.manufacturer", "l.campus"}
	allowedSearch := []string{"e.name", "e.tag_number", "e.model", "e.serial_number"}
	allowedSort := map[string]string{
		"name":             "e.name",
		"tag_number":       "e.tag_number",
		"last_maintenance": "e.last_maintenance",
		"created_at":       "e.created_at",
	}

	builder := applyListFilter(r.baseSelect(), filter, allowedFilter, allowedSearch, allowedSort)
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("e.id ASC")
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("equipment list ToSql: %w", err)
	}

	rows, err := r.storage.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("equipment list query: %w", err)
	}
	defer rows.Close()

	var result []EquipmentRow
	for rows.Next() {
		item, err := scanEquipmentRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("equipment list scan: %w", err)
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countBuilder := applyListFilter(
		psql.Select("COUNT(*)").
			From("equipments e").
			LeftJoin("locations l ON l.id = e.location_id").
			Where(sq.Eq{"e.deleted_at": nil}),
		filter, allowedFilter, allowedSearch, nil,
	)
	total, err := countRows(ctx, r.storage, countBuilder)
	if err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func (r *EquipmentRepository) Find(ctx context.Context, id uint64) (*EquipmentRow, error) {
	sqlQuery, args, err := r.baseSelect().Where(sq.Eq{"e.id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	item, err := scanEquipmentRow(r.storage.QueryRow(ctx, sqlQuery, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *EquipmentRepository) FindByTag(ctx context.Context, tagNumber string) (*entities.Equipment, error) {
	const query = `
		SELECT id, name, tag_number, model, manufacturer, serial_number,
		       location_id, last_maintenance, maintenance_interval, operational_status,
		       created_at, updated_at, deleted_at
		FROM equipments
		WHERE tag_number = $1 AND deleted_at IS NULL
	`
	var e entities.Equipment
	err := r.storage.QueryRow(ctx, query, tagNumber).Scan(
		&e.ID, &e.Name, &e.TagNumber, &e.Model, &e.Manufacturer, &e.SerialNumber,
		&e.LocationID, &e.LastMaintenance, &e.MaintenanceInterval, &e.OperationalStatus,
		&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

const insertEquipmentQuery = `
	INSERT INTO equipments (name, tag_number, model, manufacturer, serial_number,
	                        location_id, last_maintenance, maintenance_interval, operational_status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id
`

func (r *EquipmentRepository) Create(ctx context.Context, d dto.CreateEquipmentDTO) (uint64, error) {
	return insertEquipment(ctx, r.storage, d)
}

func (r *EquipmentRepository) CreateTx(ctx context.Context, tx pgx.Tx, d dto.CreateEquipmentDTO) (uint64, error) {
	return insertEquipment(ctx, tx, d)
}

func insertEquipment(ctx context.Context, q Querier, d dto.CreateEquipmentDTO) (uint64, error) {
	var id uint64
	err := q.QueryRow(ctx, insertEquipmentQuery,
		d.Name, d.TagNumber, d.Model, d.Manufacturer, d.SerialNumber,
		d.LocationID, d.LastMaintenance, d.MaintenanceInterval, d.OperationalStatus,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *EquipmentRepository) Update(ctx context.Context, id uint64, d dto.UpdateEquipmentDTO) error {
	builder := psql.Update("equipments").
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": id, "deleted_at": nil})

	if d.Name != nil {
		builder = builder.Set("name", *d.Name)
	}
	if d.TagNumber != nil {
		builder = builder.Set("tag_number", *d.TagNumber)
	}
	if d.Model != nil {
		builder = builder.Set("model", *d.Model)
	}
	if d.Manufacturer != nil {
		builder = builder.Set("manufacturer", *d.Manufacturer)
	}
	if d.SerialNumber != nil {
		builder = builder.Set("serial_number", *d.SerialNumber)
	}
	if d.LocationID != nil {
		builder = builder.Set("location_id", *d.LocationID)
	}
	if d.LastMaintenance != nil {
		builder = builder.Set("last_maintenance", *d.LastMaintenance)
	}
	if d.MaintenanceInterval != nil {
		builder = builder.Set("maintenance_interval", *d.MaintenanceInterval)
	}
	if d.OperationalStatus != nil {
		builder = builder.Set("operational_status", *d.OperationalStatus)
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

func (r *EquipmentRepository) SoftDelete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		`UPDATE equipments SET deleted_at = CURRENT_TIMESTAMP WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) ListByLocation(ctx context.Context, locationID uint64) ([]entities.Equipment, error) {
	const query = `
		SELECT id, name, tag_number, model, manufacturer, serial_number,
		       location_id, last_maintenance, maintenance_interval, operational_status,
		       created_at, updated_at, deleted_at
		FROM equipments
		WHERE location_id = $1 AND deleted_at IS NULL
		ORDER BY id
	`
	rows, err := r.storage.Query(ctx, query, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []entities.Equipment
	for rows.Next() {
		var e entities.Equipment
		if err := rows.Scan(
			&e.ID, &e.Name, &e.TagNumber, &e.Model, &e.Manufacturer, &e.SerialNumber,
			&e.LocationID, &e.LastMaintenance, &e.MaintenanceInterval, &e.OperationalStatus,
			&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// StampLastMaintenanceTx sets last_maintenance for a batch of equipment,
// used by the PM bulk-complete operation.
func (r *EquipmentRepository) StampLastMaintenanceTx(ctx context.Context, tx pgx.Tx, equipmentIDs []uint64, date time.Time) error {
	if len(equipmentIDs) == 0 {
		return nil
	}
	sqlQuery, args, err := psql.Update("equipments").
		Set("last_maintenance", date).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": equipmentIDs}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, sqlQuery, args...)
	return err
}
