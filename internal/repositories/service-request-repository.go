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

const requestColumns = `r.id, r.ticket_id, r.equipment_id, e.name, r.assignee_id,
	r.request_type, r.priority, r.scheduled_at, r.approval_status, r.work_status,
	r.problem_description, r.technical_assessment, r.recommendation,
	r.created_by, r.created_at, r.updated_at, r.deleted_at`

// ServiceRequestRow joins the request with its equipment name and assignee.
type ServiceRequestRow struct {
	Request       entities.ServiceRequest
	EquipmentName string
	Assignee      *dto.ShortUserDTO
}

type ServiceRequestRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter) ([]ServiceRequestRow, uint64, error)
	Find(ctx context.Context, id uint64) (*ServiceRequestRow, error)
	FindForUpdateTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ServiceRequest, error)
	CreateTx(ctx context.Context, tx pgx.Tx, ticketID string, createdBy uint64, d dto.CreateServiceRequestDTO) (uint64, error)
	UpdateFieldsTx(ctx context.Context, tx pgx.Tx, id uint64, set map[string]interface{}) error
	ReplaceExtraAssigneesTx(ctx context.Context, tx pgx.Tx, requestID uint64, assignees []uint64) error
	ListExtraAssignees(ctx context.Context, requestID uint64) ([]uint64, error)
	ReplacePartsTx(ctx context.Context, tx pgx.Tx, requestID uint64, parts []entities.RequestPart) error
	ListParts(ctx context.Context, requestID uint64) ([]entities.RequestPart, error)
	SoftDelete(ctx context.Context, id uint64) error
	ListPendingPreventiveByLocationTx(ctx context.Context, tx pgx.Tx, locationID uint64) ([]entities.ServiceRequest, error)
	CompleteBatchTx(ctx context.Context, tx pgx.Tx, requestIDs []uint64) (int64, error)
}

type ServiceRequestRepository struct {
	storage *pgxpool.Pool
}

func NewServiceRequestRepository(storage *pgxpool.Pool) ServiceRequestRepositoryInterface {
	return &ServiceRequestRepository{storage: storage}
}

func (r *ServiceRequestRepository) baseSelect() sq.SelectBuilder {
	return psql.Select(requestColumns + `, u.id, u.name, u.role`).
		From("service_requests r").
		Join("equipments e ON e.id = r.equipment_id").
		LeftJoin("users u ON u.id = r.assignee_id").
		Where(sq.Eq{"r.deleted_at": nil})
}

func scanRequestRow(row pgx.Row) (*ServiceRequestRow, error) {
	var out ServiceRequestRow
	var uID *uint64
	var uName, uRole *string

	err := row.Scan(
		&out.Request.ID,
		&out.Request.TicketID,
		&out.Request.EquipmentID,
		&out.EquipmentName,
		&out.Request.AssigneeID,
		&out.Request.RequestType,
		&out.Request.Priority,
		&out.Request.ScheduledAt,
		&out.Request.ApprovalStatus,
		&out.Request.WorkStatus,
		&out.Request.ProblemDesc,
		&out.Request.Assessment,
		&out.Request.Recommendation,
		&out.Request.CreatedBy,
		&out.Request.CreatedAt,
		&out.Request.UpdatedAt,
		&out.Request.DeletedAt,
		&uID,
		&uName,
		&uRole,
	)
	if err != nil {
		return nil, err
	}
	if uID != nil {
		out.Assignee = &dto.ShortUserDTO{ID: *uID, Name: *uName, Role: *uRole}
	}
	return &out, nil
}

func (r *ServiceRequestRepository) List(ctx context.Context, filter types.Filter) ([]ServiceRequestRow, uint64, error) {
	allowedFilter := []string{"r.equipment_id", "r.assignee_id", "r.request_type", "r.priority", "r.approval_status", "r.work_status", "r.created_by"}
	allowedSearch := []string{"r.ticket_id", "e.name", "r.problem_description"}
	allowedSort := map[string]string{
		"ticket_id":    "r.ticket_id",
		"scheduled_at": "r.scheduled_at",
		"priority":     "r.priority",
		"created_at":   "r.created_at",
	}

	builder := applyListFilter(r.baseSelect(), filter, allowedFilter, allowedSearch, allowedSort)
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("r.id DESC")
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("request list ToSql: %w", err)
	}

	rows, err := r.storage.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("request list query: %w", err)
	}
	defer rows.Close()

	var result []ServiceRequestRow
	for rows.Next() {
		item, err := scanRequestRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("request list scan: %w", err)
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countBuilder := applyListFilter(
		psql.Select("COUNT(*)").
			From("service_requests r").
			Join("equipments e ON e.id = r.equipment_id").
			Where(sq.Eq{"r.deleted_at": nil}),
		filter, allowedFilter, allowedSearch, nil,
	)
	total, err := countRows(ctx, r.storage, countBuilder)
	if err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func (r *ServiceRequestRepository) Find(ctx context.Context, id uint64) (*ServiceRequestRow, error) {
	sqlQuery, args, err := r.baseSelect().Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	item, err := scanRequestRow(r.storage.QueryRow(ctx, sqlQuery, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// FindForUpdateTx locks the request row so state-transition checks and the
// following update are serialized against concurrent editors.
func (r *ServiceRequestRepository) FindForUpdateTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ServiceRequest, error) {
	const query = `
		SELECT id, ticket_id, equipment_id, assignee_id, request_type, priority,
		       scheduled_at, approval_status, work_status,
		       problem_description, technical_assessment, recommendation,
		       created_by, created_at, updated_at, deleted_at
		FROM service_requests
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`
	var req entities.ServiceRequest
	err := tx.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.TicketID, &req.EquipmentID, &req.AssigneeID, &req.RequestType, &req.Priority,
		&req.ScheduledAt, &req.ApprovalStatus, &req.WorkStatus,
		&req.ProblemDesc, &req.Assessment, &req.Recommendation,
		&req.CreatedBy, &req.CreatedAt, &req.UpdatedAt, &req.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *ServiceRequestRepository) CreateTx(ctx context.Context, tx pgx.Tx, ticketID string, createdBy uint64, d dto.CreateServiceRequestDTO) (uint64, error) {
	const query = `
		INSERT INTO service_requests
			(ticket_id, equipment_id, assignee_id, request_type, priority, scheduled_at,
			 approval_status, work_status, problem_description, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	var id uint64
	err := tx.QueryRow(ctx, query,
		ticketID, d.EquipmentID, d.AssigneeID, d.RequestType, d.Priority, d.ScheduledAt,
		constants.ApprovalPending, constants.WorkPending, d.ProblemDesc, createdBy,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateFieldsTx applies only the given column set. The service layer decides
// which columns the editor may touch.
func (r *ServiceRequestRepository) UpdateFieldsTx(ctx context.Context, tx pgx.Tx, id uint64, set map[string]interface{}) error {
	if len(set) == 0 {
		return nil
	}
	builder := psql.Update("service_requests").
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": id, "deleted_at": nil})
	for col, val := range set {
		builder = builder.Set(col, val)
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

func (r *ServiceRequestRepository) ReplaceExtraAssigneesTx(ctx context.Context, tx pgx.Tx, requestID uint64, assignees []uint64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM request_assignees WHERE request_id = $1`, requestID); err != nil {
		return err
	}
	for _, userID := range assignees {
		if _, err := tx.Exec(ctx,
			`INSERT INTO request_assignees (request_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			requestID, userID,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *ServiceRequestRepository) ListExtraAssignees(ctx context.Context, requestID uint64) ([]uint64, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT user_id FROM request_assignees WHERE request_id = $1 ORDER BY user_id`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *ServiceRequestRepository) ReplacePartsTx(ctx context.Context, tx pgx.Tx, requestID uint64, parts []entities.RequestPart) error {
	if _, err := tx.Exec(ctx, `DELETE FROM request_parts WHERE request_id = $1`, requestID); err != nil {
		return err
	}
	for _, part := range parts {
		if _, err := tx.Exec(ctx,
			`INSERT INTO request_parts (request_id, spare_part_id, name, quantity, unit_cost)
			 VALUES ($1, $2, $3, $4, $5)`,
			requestID, part.SparePartID, part.Name, part.Quantity, part.UnitCost,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *ServiceRequestRepository) ListParts(ctx context.Context, requestID uint64) ([]entities.RequestPart, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT id, request_id, spare_part_id, name, quantity, unit_cost
		 FROM request_parts WHERE request_id = $1 ORDER BY id`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entities.RequestPart
	for rows.Next() {
		var p entities.RequestPart
		if err := rows.Scan(&p.ID, &p.RequestID, &p.SparePartID, &p.Name, &p.Quantity, &p.UnitCost); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ServiceRequestRepository) SoftDelete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		`UPDATE service_requests SET deleted_at = CURRENT_TIMESTAMP WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListPendingPreventiveByLocationTx locks the PM tickets still pending at a
// location so the bulk-complete batch is consistent.
func (r *ServiceRequestRepository) ListPendingPreventiveByLocationTx(ctx context.Context, tx pgx.Tx, locationID uint64) ([]entities.ServiceRequest, error) {
	const query = `
		SELECT r.id, r.ticket_id, r.equipment_id, r.assignee_id, r.request_type, r.priority,
		       r.scheduled_at, r.approval_status, r.work_status,
		       r.problem_description, r.technical_assessment, r.recommendation,
		       r.created_by, r.created_at, r.updated_at, r.deleted_at
		FROM service_requests r
		JOIN equipments e ON e.id = r.equipment_id
		WHERE e.location_id = $1
		  AND r.request_type = $2
		  AND r.work_status <> $3
		  AND r.deleted_at IS NULL
		ORDER BY r.id
		FOR UPDATE OF r
	`
	rows, err := tx.Query(ctx, query, locationID, constants.RequestTypePreventive, constants.WorkCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entities.ServiceRequest
	for rows.Next() {
		var req entities.ServiceRequest
		if err := rows.Scan(
			&req.ID, &req.TicketID, &req.EquipmentID, &req.AssigneeID, &req.RequestType, &req.Priority,
			&req.ScheduledAt, &req.ApprovalStatus, &req.WorkStatus,
			&req.ProblemDesc, &req.Assessment, &req.Recommendation,
			&req.CreatedBy, &req.CreatedAt, &req.UpdatedAt, &req.DeletedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *ServiceRequestRepository) CompleteBatchTx(ctx context.Context, tx pgx.Tx, requestIDs []uint64) (int64, error) {
	if len(requestIDs) == 0 {
		return 0, nil
	}
	sqlQuery, args, err := psql.Update("service_requests").
		Set("work_status", constants.WorkCompleted).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": requestIDs}).
		ToSql()
	if err != nil {
		return 0, err
	}
	result, err := tx.Exec(ctx, sqlQuery, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
