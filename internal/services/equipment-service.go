package services

import (
	"context"
	"errors"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/maintenance"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/apperrors"
	"maintenance-system/pkg/types"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

type EquipmentServiceInterface interface {
	List(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	Create(ctx context.Context, d dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error)
	Update(ctx context.Context, id uint64, d dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error)
	Delete(ctx context.Context, id uint64) error
}

type EquipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	dueSoonWindow time.Duration
	logger        *zap.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	dueSoonWindow time.Duration,
	logger *zap.Logger,
) EquipmentServiceInterface {
	if dueSoonWindow <= 0 {
		dueSoonWindow = maintenance.DefaultDueSoonWindow
	}
	return &EquipmentService{
		equipmentRepo: equipmentRepo,
		dueSoonWindow: dueSoonWindow,
		logger:        logger,
	}
}

// buildEquipmentDTO derives the maintenance block at read time. Nothing about
// due-state is stored, so the answer is correct for the given clock.
func (s *EquipmentService) buildEquipmentDTO(row repositories.EquipmentRow, now time.Time) dto.EquipmentDTO {
	e := row.Equipment
	return dto.EquipmentDTO{
		ID:                  e.ID,
		Name:                e.Name,
		TagNumber:           e.TagNumber,
		Model:               e.Model,
		Manufacturer:        e.Manufacturer,
		SerialNumber:        e.SerialNumber,
		Location:            row.Location,
		LastMaintenance:     null.TimeFromPtr(e.LastMaintenance),
		MaintenanceInterval: e.MaintenanceInterval,
		OperationalStatus:   e.OperationalStatus,
		Maintenance:         maintenance.Derive(e.LastMaintenance, e.MaintenanceInterval, now, s.dueSoonWindow),
		CreatedAt:           e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           e.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *EquipmentService) List(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	rows, total, err := s.equipmentRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	result := make([]dto.EquipmentDTO, 0, len(rows))
	for _, row := range rows {
		result = append(result, s.buildEquipmentDTO(row, now))
	}
	return result, total, nil
}

func (s *EquipmentService) Find(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	row, err := s.equipmentRepo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := s.buildEquipmentDTO(*row, time.Now())
	return &out, nil
}

func (s *EquipmentService) Create(ctx context.Context, d dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error) {
	switch _, err := s.equipmentRepo.FindByTag(ctx, d.TagNumber); {
	case err == nil:
		return nil, apperrors.NewValidationError("tag number %q is already in use", d.TagNumber)
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	id, err := s.equipmentRepo.Create(ctx, d)
	if err != nil {
		return nil, err
	}
	s.logger.Info("equipment created", zap.Uint64("id", id), zap.String("tag", d.TagNumber))
	return s.Find(ctx, id)
}

func (s *EquipmentService) Update(ctx context.Context, id uint64, d dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error) {
	if d.TagNumber != nil {
		switch existing, err := s.equipmentRepo.FindByTag(ctx, *d.TagNumber); {
		case err == nil && existing.ID != id:
			return nil, apperrors.NewValidationError("tag number %q is already in use", *d.TagNumber)
		case err != nil && !errors.Is(err, apperrors.ErrNotFound):
			return nil, err
		}
	}
	if err := s.equipmentRepo.Update(ctx, id, d); err != nil {
		return nil, err
	}
	return s.Find(ctx, id)
}

func (s *EquipmentService) Delete(ctx context.Context, id uint64) error {
	if err := s.equipmentRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("equipment deleted", zap.Uint64("id", id))
	return nil
}
