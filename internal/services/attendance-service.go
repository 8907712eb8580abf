package services

import (
	"context"
	"errors"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/apperrors"
	"maintenance-system/pkg/types"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

type AttendanceServiceInterface interface {
	List(ctx context.Context, filter types.Filter) ([]dto.AttendanceDTO, uint64, error)
	// CheckIn opens a shift record for the user. A user cannot hold two open
	// records at once.
	CheckIn(ctx context.Context, userID uint64, d dto.CheckInDTO) (*dto.AttendanceDTO, error)
	// CheckOut closes the user's open record.
	CheckOut(ctx context.Context, userID uint64) error
}

type AttendanceService struct {
	attendanceRepo repositories.AttendanceRepositoryInterface
	logger         *zap.Logger
}

func NewAttendanceService(attendanceRepo repositories.AttendanceRepositoryInterface, logger *zap.Logger) AttendanceServiceInterface {
	return &AttendanceService{attendanceRepo: attendanceRepo, logger: logger}
}

func (s *AttendanceService) List(ctx context.Context, filter types.Filter) ([]dto.AttendanceDTO, uint64, error) {
	rows, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.AttendanceDTO, 0, len(rows))
	for _, row := range rows {
		result = append(result, dto.AttendanceDTO{
			ID:         row.Record.ID,
			UserID:     row.Record.UserID,
			UserName:   row.UserName,
			CheckInAt:  row.Record.CheckInAt.Format(time.RFC3339),
			CheckOutAt: null.TimeFromPtr(row.Record.CheckOutAt),
			Note:       row.Record.Note,
		})
	}
	return result, total, nil
}

func (s *AttendanceService) CheckIn(ctx context.Context, userID uint64, d dto.CheckInDTO) (*dto.AttendanceDTO, error) {
	if _, err := s.attendanceRepo.FindOpen(ctx, userID); err == nil {
		return nil, apperrors.ErrConflict
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	id, err := s.attendanceRepo.CheckIn(ctx, userID, d.Note)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user checked in", zap.Uint64("user_id", userID), zap.Uint64("record_id", id))

	rec, err := s.attendanceRepo.FindOpen(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.AttendanceDTO{
		ID:        rec.ID,
		UserID:    rec.UserID,
		CheckInAt: rec.CheckInAt.Format(time.RFC3339),
		Note:      rec.Note,
	}, nil
}

func (s *AttendanceService) CheckOut(ctx context.Context, userID uint64) error {
	rec, err := s.attendanceRepo.FindOpen(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrConflict
		}
		return err
	}
	if err := s.attendanceRepo.CheckOut(ctx, rec.ID); err != nil {
		return err
	}
	s.logger.Info("user checked out", zap.Uint64("user_id", userID), zap.Uint64("record_id", rec.ID))
	return nil
}
