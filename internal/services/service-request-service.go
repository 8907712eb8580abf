package services

import (
	"context"
	"time"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/apperrors"
	"maintenance-system/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ServiceRequestServiceInterface interface {
	List(ctx context.Context, filter types.Filter) ([]dto.ServiceRequestDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.ServiceRequestDTO, error)
	Create(ctx context.Context, actorID uint64, d dto.CreateServiceRequestDTO) (*dto.ServiceRequestDTO, error)
	Update(ctx context.Context, actorID uint64, actorRole authz.Role, id uint64, d dto.UpdateServiceRequestDTO) (*dto.ServiceRequestDTO, error)
	Delete(ctx context.Context, actorRole authz.Role, id uint64) error
	// BulkCompletePreventive closes every still-open preventive ticket at a
	// location and stamps the affected equipment's last-maintenance date.
	BulkCompletePreventive(ctx context.Context, actorRole authz.Role, d dto.BulkCompleteDTO) (*dto.AffectedDTO, error)
}

type ServiceRequestService struct {
	requestRepo   repositories.ServiceRequestRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	sparePartRepo repositories.SparePartRepositoryInterface
	ticketRepo    repositories.TicketRepositoryInterface
	txManager     repositories.TxManagerInterface
	logger        *zap.Logger
}

func NewServiceRequestService(
	requestRepo repositories.ServiceRequestRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	sparePartRepo repositories.SparePartRepositoryInterface,
	ticketRepo repositories.TicketRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) ServiceRequestServiceInterface {
	return &ServiceRequestService{
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		sparePartRepo: sparePartRepo,
		ticketRepo:    ticketRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

func buildRequestDTO(row repositories.ServiceRequestRow) dto.ServiceRequestDTO {
	r := row.Request
	return dto.ServiceRequestDTO{
		ID:             r.ID,
		TicketID:       r.TicketID,
		EquipmentID:    r.EquipmentID,
		EquipmentName:  row.EquipmentName,
		Assignee:       row.Assignee,
		RequestType:    r.RequestType,
		Priority:       r.Priority,
		ScheduledAt:    null.TimeFromPtr(r.ScheduledAt),
		ApprovalStatus: r.ApprovalStatus,
		WorkStatus:     r.WorkStatus,
		ProblemDesc:    r.ProblemDesc,
		Assessment:     r.Assessment,
		Recommendation: r.Recommendation,
		CreatedBy:      r.CreatedBy,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      r.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *ServiceRequestService) List(ctx context.Context, filter types.Filter) ([]dto.ServiceRequestDTO, uint64, error) {
	rows, total, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.ServiceRequestDTO, 0, len(rows))
	for _, row := range rows {
		result = append(result, buildRequestDTO(row))
	}
	return result, total, nil
}

func (s *ServiceRequestService) Find(ctx context.Context, id uint64) (*dto.ServiceRequestDTO, error) {
	row, err := s.requestRepo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := buildRequestDTO(*row)

	extras, err := s.requestRepo.ListExtraAssignees(ctx, id)
	if err != nil {
		return nil, err
	}
	out.ExtraAssignees = extras

	parts, err := s.requestRepo.ListParts(ctx, id)
	if err != nil {
		return nil, err
	}
	out.Parts = make([]dto.RequestPartItem, 0, len(parts))
	for _, p := range parts {
		out.Parts = append(out.Parts, dto.RequestPartItem{
			ID:          p.ID,
			SparePartID: p.SparePartID,
			Name:        p.Name,
			Quantity:    p.Quantity,
			UnitCost:    p.UnitCost,
		})
	}
	return &out, nil
}

func (s *ServiceRequestService) Create(ctx context.Context, actorID uint64, d dto.CreateServiceRequestDTO) (*dto.ServiceRequestDTO, error) {
	if _, err := s.equipmentRepo.Find(ctx, d.EquipmentID); err != nil {
		return nil, err
	}

	var requestID uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		year := time.Now().Year()
		seq, err := s.ticketRepo.NextSequence(ctx, tx, year%100)
		if err != nil {
			return err
		}
		ticketID := repositories.FormatTicketID(year, seq)

		requestID, err = s.requestRepo.CreateTx(ctx, tx, ticketID, actorID, d)
		if err != nil {
			return err
		}
		if len(d.ExtraAssignees) > 0 {
			if err := s.requestRepo.ReplaceExtraAssigneesTx(ctx, tx, requestID, d.ExtraAssignees); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("service request created", zap.Uint64("id", requestID), zap.Uint64("created_by", actorID))
	return s.Find(ctx, requestID)
}

func (s *ServiceRequestService) Update(ctx context.Context, actorID uint64, actorRole authz.Role, id uint64, d dto.UpdateServiceRequestDTO) (*dto.ServiceRequestDTO, error) {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.requestRepo.FindForUpdateTx(ctx, tx, id)
		if err != nil {
			return err
		}

		isAssignee := current.AssigneeID != nil && *current.AssigneeID == actorID
		if !isAssignee {
			extras, err := s.requestRepo.ListExtraAssignees(ctx, id)
			if err != nil {
				return err
			}
			for _, userID := range extras {
				if userID == actorID {
					isAssignee = true
					break
				}
			}
		}

		editCtx := authz.RequestEditContext{
			ActorRole:       actorRole,
			ActorIsAssignee: isAssignee,
			ApprovalStatus:  current.ApprovalStatus,
			WorkStatus:      current.WorkStatus,
		}

		set := make(map[string]interface{})

		touchesBasic := d.EquipmentID != nil || d.AssigneeID != nil || d.ExtraAssignees != nil ||
			d.RequestType != nil || d.Priority != nil || d.ScheduledAt != nil
		if touchesBasic {
			if !editCtx.CanEditBasicFields() {
				return apperrors.ErrForbidden
			}
			if d.EquipmentID != nil {
				if _, err := s.equipmentRepo.Find(ctx, *d.EquipmentID); err != nil {
					return err
				}
				set["equipment_id"] = *d.EquipmentID
			}
			if d.AssigneeID != nil {
				set["assignee_id"] = *d.AssigneeID
			}
			if d.RequestType != nil {
				set["request_type"] = *d.RequestType
			}
			if d.Priority != nil {
				set["priority"] = *d.Priority
			}
			if d.ScheduledAt != nil {
				set["scheduled_at"] = *d.ScheduledAt
			}
			if d.ExtraAssignees != nil {
				if err := s.requestRepo.ReplaceExtraAssigneesTx(ctx, tx, id, d.ExtraAssignees); err != nil {
					return err
				}
			}
		}

		touchesTechnical := d.ProblemDesc != nil || d.Assessment != nil || d.Recommendation != nil || d.Parts != nil
		if touchesTechnical {
			if !editCtx.CanEditTechnicalFields() {
				return apperrors.ErrForbidden
			}
			if d.ProblemDesc != nil {
				set["problem_description"] = *d.ProblemDesc
			}
			if d.Assessment != nil {
				set["technical_assessment"] = *d.Assessment
			}
			if d.Recommendation != nil {
				set["recommendation"] = *d.Recommendation
			}
			if d.Parts != nil {
				parts, err := s.linkParts(ctx, tx, id, d.Parts)
				if err != nil {
					return err
				}
				if err := s.requestRepo.ReplacePartsTx(ctx, tx, id, parts); err != nil {
					return err
				}
			}
		}

		if d.ApprovalStatus != nil {
			if !editCtx.CanSetApprovalStatus() {
				return apperrors.ErrForbidden
			}
			set["approval_status"] = *d.ApprovalStatus
		}

		if d.WorkStatus != nil && *d.WorkStatus != current.WorkStatus {
			if !editCtx.CanSetWorkStatus() {
				return apperrors.ErrForbidden
			}
			set["work_status"] = *d.WorkStatus
		}

		return s.requestRepo.UpdateFieldsTx(ctx, tx, id, set)
	})
	if err != nil {
		return nil, err
	}
	return s.Find(ctx, id)
}

// linkParts resolves each named part against inventory, creating a zero-stock
// record when the name is new. Explicit spare_part_id values are kept as-is.
func (s *ServiceRequestService) linkParts(ctx context.Context, tx pgx.Tx, requestID uint64, items []dto.RequestPartDTO) ([]entities.RequestPart, error) {
	parts := make([]entities.RequestPart, 0, len(items))
	for _, item := range items {
		part := entities.RequestPart{
			RequestID:   requestID,
			SparePartID: item.SparePartID,
			Name:        item.Name,
			Quantity:    item.Quantity,
			UnitCost:    item.UnitCost,
		}
		if part.SparePartID == nil && item.Name != "" {
			id, err := s.sparePartRepo.UpsertByNameTx(ctx, tx, item.Name)
			if err != nil {
				return nil, err
			}
			part.SparePartID = &id
		}
		parts = append(parts, part)
	}
	return parts, nil
}

func (s *ServiceRequestService) Delete(ctx context.Context, actorRole authz.Role, id uint64) error {
	if !actorRole.CanApprove() {
		return apperrors.ErrForbidden
	}
	return s.requestRepo.SoftDelete(ctx, id)
}

func (s *ServiceRequestService) BulkCompletePreventive(ctx context.Context, actorRole authz.Role, d dto.BulkCompleteDTO) (*dto.AffectedDTO, error) {
	if !actorRole.CanApprove() {
		return nil, apperrors.ErrForbidden
	}

	maintenanceDate := time.Now()
	if d.MaintenanceDate != nil {
		maintenanceDate = *d.MaintenanceDate
	}

	var affected int64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		pending, err := s.requestRepo.ListPendingPreventiveByLocationTx(ctx, tx, d.LocationID)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}

		requestIDs := make([]uint64, 0, len(pending))
		equipmentSet := make(map[uint64]struct{})
		for _, req := range pending {
			requestIDs = append(requestIDs, req.ID)
			equipmentSet[req.EquipmentID] = struct{}{}
		}
		equipmentIDs := make([]uint64, 0, len(equipmentSet))
		for id := range equipmentSet {
			equipmentIDs = append(equipmentIDs, id)
		}

		affected, err = s.requestRepo.CompleteBatchTx(ctx, tx, requestIDs)
		if err != nil {
			return err
		}
		return s.equipmentRepo.StampLastMaintenanceTx(ctx, tx, equipmentIDs, maintenanceDate)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("preventive tickets bulk-completed",
		zap.Uint64("location_id", d.LocationID), zap.Int64("affected", affected))
	return &dto.AffectedDTO{Affected: affected}, nil
}
