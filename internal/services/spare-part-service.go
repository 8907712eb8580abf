package services

import (
	"context"
	"time"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/apperrors"
	"maintenance-system/pkg/constants"
	"maintenance-system/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SparePartServiceInterface interface {
	List(ctx context.Context, filter types.Filter) ([]dto.SparePartDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.SparePartDTO, error)
	Create(ctx context.Context, d dto.CreateSparePartDTO) (*dto.SparePartDTO, error)
	Update(ctx context.Context, id uint64, d dto.UpdateSparePartDTO) (*dto.SparePartDTO, error)
	Delete(ctx context.Context, id uint64) error

	ListOrders(ctx context.Context, filter types.Filter) ([]dto.SparePartOrderDTO, uint64, error)
	FindOrder(ctx context.Context, id uint64) (*dto.SparePartOrderDTO, error)
	CreateOrder(ctx context.Context, actorID uint64, d dto.CreateSparePartOrderDTO) (*dto.SparePartOrderDTO, error)
	// AdvanceOrder moves a restock order through its lifecycle. Completing an
	// order credits inventory exactly once, under a row lock.
	AdvanceOrder(ctx context.Context, actorID uint64, actorRole authz.Role, id uint64, status string) (*dto.SparePartOrderDTO, error)
}

type SparePartService struct {
	partRepo  repositories.SparePartRepositoryInterface
	orderRepo repositories.SparePartOrderRepositoryInterface
	txManager repositories.TxManagerInterface
	logger    *zap.Logger
}

func NewSparePartService(
	partRepo repositories.SparePartRepositoryInterface,
	orderRepo repositories.SparePartOrderRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) SparePartServiceInterface {
	return &SparePartService{
		partRepo:  partRepo,
		orderRepo: orderRepo,
		txManager: txManager,
		logger:    logger,
	}
}

func buildSparePartDTO(p entities.SparePart) dto.SparePartDTO {
	return dto.SparePartDTO{
		ID:          p.ID,
		Name:        p.Name,
		PartNumber:  p.PartNumber,
		Quantity:    p.Quantity,
		MinQuantity: p.MinQuantity,
		UnitCost:    p.UnitCost,
		LowStock:    p.Quantity < p.MinQuantity,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *SparePartService) List(ctx context.Context, filter types.Filter) ([]dto.SparePartDTO, uint64, error) {
	parts, total, err := s.partRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.SparePartDTO, 0, len(parts))
	for _, p := range parts {
		result = append(result, buildSparePartDTO(p))
	}
	return result, total, nil
}

func (s *SparePartService) Find(ctx context.Context, id uint64) (*dto.SparePartDTO, error) {
	p, err := s.partRepo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := buildSparePartDTO(*p)
	return &out, nil
}

func (s *SparePartService) Create(ctx context.Context, d dto.CreateSparePartDTO) (*dto.SparePartDTO, error) {
	id, err := s.partRepo.Create(ctx, d)
	if err != nil {
		return nil, err
	}
	s.logger.Info("spare part created", zap.Uint64("id", id), zap.String("name", d.Name))
	return s.Find(ctx, id)
}

func (s *SparePartService) Update(ctx context.Context, id uint64, d dto.UpdateSparePartDTO) (*dto.SparePartDTO, error) {
	if err := s.partRepo.Update(ctx, id, d); err != nil {
		return nil, err
	}
	return s.Find(ctx, id)
}

func (s *SparePartService) Delete(ctx context.Context, id uint64) error {
	return s.partRepo.SoftDelete(ctx, id)
}

func (s *SparePartService) buildOrderDTO(ctx context.Context, o entities.SparePartOrder) (*dto.SparePartOrderDTO, error) {
	items, err := s.orderRepo.ListItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return &dto.SparePartOrderDTO{
		ID:          o.ID,
		Status:      o.Status,
		RequestedBy: o.RequestedBy,
		ReviewedBy:  null.Uint64FromPtr(o.ReviewedBy),
		CompletedAt: null.TimeFromPtr(o.CompletedAt),
		Note:        o.Note,
		Items:       items,
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   o.UpdatedAt.Format(time.RFC3339),
	}, nil
}

func (s *SparePartService) ListOrders(ctx context.Context, filter types.Filter) ([]dto.SparePartOrderDTO, uint64, error) {
	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.SparePartOrderDTO, 0, len(orders))
	for _, o := range orders {
		item, err := s.buildOrderDTO(ctx, o)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *item)
	}
	return result, total, nil
}

func (s *SparePartService) FindOrder(ctx context.Context, id uint64) (*dto.SparePartOrderDTO, error) {
	o, err := s.orderRepo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildOrderDTO(ctx, *o)
}

func (s *SparePartService) CreateOrder(ctx context.Context, actorID uint64, d dto.CreateSparePartOrderDTO) (*dto.SparePartOrderDTO, error) {
	for _, item := range d.Items {
		if _, err := s.partRepo.Find(ctx, item.SparePartID); err != nil {
			return nil, err
		}
	}

	var orderID uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		orderID, err = s.orderRepo.CreateTx(ctx, tx, actorID, d)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("spare part order created", zap.Uint64("id", orderID), zap.Uint64("requested_by", actorID))
	return s.FindOrder(ctx, orderID)
}

// orderTransitionAllowed encodes the restock lifecycle:
// technician submits the draft for review, a supervisor then completes it
// (stock received, inventory credited) or approves it without stock movement.
func orderTransitionAllowed(from, to string) bool {
	switch from {
	case constants.SparePartOrderPendingTechnician:
		return to == constants.SparePartOrderPendingSupervisor
	case constants.SparePartOrderPendingSupervisor:
		return to == constants.SparePartOrderCompleted || to == constants.SparePartOrderApproved
	}
	return false
}

func (s *SparePartService) AdvanceOrder(ctx context.Context, actorID uint64, actorRole authz.Role, id uint64, status string) (*dto.SparePartOrderDTO, error) {
	switch status {
	case constants.SparePartOrderPendingSupervisor:
		if !actorRole.CanSubmitPartOrders() {
			return nil, apperrors.ErrForbidden
		}
	case constants.SparePartOrderCompleted, constants.SparePartOrderApproved:
		if !actorRole.CanFinalizePartOrders() {
			return nil, apperrors.ErrForbidden
		}
	default:
		return nil, apperrors.NewValidationError("unknown order status %q", status)
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.orderRepo.FindForUpdateTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if !orderTransitionAllowed(current.Status, status) {
			return apperrors.ErrConflict
		}

		var reviewedBy *uint64
		markCompleted := false
		if status == constants.SparePartOrderCompleted || status == constants.SparePartOrderApproved {
			reviewedBy = &actorID
		}
		if status == constants.SparePartOrderCompleted {
			markCompleted = true
			// The row lock above plus the transition guard make this credit
			// run at most once per order.
			items, err := s.orderRepo.ListItemsTx(ctx, tx, id)
			if err != nil {
				return err
			}
			for _, item := range items {
				if err := s.partRepo.IncrementQuantityTx(ctx, tx, item.SparePartID, item.Quantity); err != nil {
					return err
				}
			}
		}

		return s.orderRepo.UpdateStatusTx(ctx, tx, id, status, reviewedBy, markCompleted)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("spare part order advanced", zap.Uint64("id", id), zap.String("status", status))
	return s.FindOrder(ctx, id)
}
