package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"
	"maintenance-system/pkg/types"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type JobOrderServiceInterface interface {
	List(ctx context.Context, filter types.Filter) ([]dto.JobOrderDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.JobOrderDTO, error)
	// Create submits the whole job order in one transaction. Every item gets
	// its own ticket number from the shared year-scoped counter.
	Create(ctx context.Context, actorID uint64, d dto.CreateJobOrderDTO) (*dto.JobOrderDTO, error)
	Complete(ctx context.Context, id uint64) (*dto.JobOrderDTO, error)
}

type JobOrderService struct {
	jobOrderRepo repositories.JobOrderRepositoryInterface
	ticketRepo   repositories.TicketRepositoryInterface
	txManager    repositories.TxManagerInterface
	logger       *zap.Logger
}

func NewJobOrderService(
	jobOrderRepo repositories.JobOrderRepositoryInterface,
	ticketRepo repositories.TicketRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) JobOrderServiceInterface {
	return &JobOrderService{
		jobOrderRepo: jobOrderRepo,
		ticketRepo:   ticketRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

func (s *JobOrderService) buildJobOrderDTO(ctx context.Context, o entities.JobOrder) (*dto.JobOrderDTO, error) {
	items, err := s.jobOrderRepo.ListItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.JobOrderItemRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, dto.JobOrderItemRow{
			Position:      item.Position,
			EquipmentName: item.EquipmentName,
			TicketNumber:  item.TicketNumber,
		})
	}

	return &dto.JobOrderDTO{
		ID:          o.ID,
		Campus:      o.Campus,
		SubLocation: o.SubLocation,
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		SubmittedBy: o.SubmittedBy,
		SubmittedAt: o.SubmittedAt.Format(time.RFC3339),
		Items:       rows,
	}, nil
}

func (s *JobOrderService) List(ctx context.Context, filter types.Filter) ([]dto.JobOrderDTO, uint64, error) {
	orders, total, err := s.jobOrderRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.JobOrderDTO, 0, len(orders))
	for _, o := range orders {
		item, err := s.buildJobOrderDTO(ctx, o)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *item)
	}
	return result, total, nil
}

func (s *JobOrderService) Find(ctx context.Context, id uint64) (*dto.JobOrderDTO, error) {
	o, err := s.jobOrderRepo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildJobOrderDTO(ctx, *o)
}

func newOrderNumber() string {
	return fmt.Sprintf("JO-%s", strings.ToUpper(uuid.NewString()[:8]))
}

func (s *JobOrderService) Create(ctx context.Context, actorID uint64, d dto.CreateJobOrderDTO) (*dto.JobOrderDTO, error) {
	var orderID uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		now := time.Now()
		order := entities.JobOrder{
			Campus:      d.Campus,
			SubLocation: d.SubLocation,
			OrderNumber: newOrderNumber(),
			Status:      constants.JobOrderSubmitted,
			SubmittedBy: actorID,
			SubmittedAt: now,
		}

		var err error
		orderID, err = s.jobOrderRepo.CreateTx(ctx, tx, order)
		if err != nil {
			return err
		}

		year := now.Year()
		for i, item := range d.Items {
			seq, err := s.ticketRepo.NextSequence(ctx, tx, year%100)
			if err != nil {
				return err
			}
			if err := s.jobOrderRepo.AddItemTx(ctx, tx, entities.JobOrderItem{
				JobOrderID:    orderID,
				Position:      i + 1,
				EquipmentName: item.EquipmentName,
				TicketNumber:  repositories.FormatTicketID(year, seq),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("job order created", zap.Uint64("id", orderID), zap.Int("items", len(d.Items)))
	return s.Find(ctx, orderID)
}

func (s *JobOrderService) Complete(ctx context.Context, id uint64) (*dto.JobOrderDTO, error) {
	if err := s.jobOrderRepo.UpdateStatus(ctx, id, constants.JobOrderCompleted); err != nil {
		return nil, err
	}
	return s.Find(ctx, id)
}
