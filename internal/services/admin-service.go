package services

import (
	"context"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AdminServiceInterface interface {
	// WipeOperationalData removes all equipment, requests, parts, orders and
	// attendance records in one transaction. Admin only.
	WipeOperationalData(ctx context.Context, actorID uint64, actorRole authz.Role) error
}

type AdminService struct {
	adminRepo repositories.AdminRepositoryInterface
	txManager repositories.TxManagerInterface
	logger    *zap.Logger
}

func NewAdminService(
	adminRepo repositories.AdminRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) AdminServiceInterface {
	return &AdminService{adminRepo: adminRepo, txManager: txManager, logger: logger}
}

func (s *AdminService) WipeOperationalData(ctx context.Context, actorID uint64, actorRole authz.Role) error {
	if !actorRole.CanAdminister() {
		return apperrors.ErrForbidden
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return s.adminRepo.WipeOperationalDataTx(ctx, tx)
	})
	if err != nil {
		return err
	}

	s.logger.Warn("operational data wiped", zap.Uint64("actor_id", actorID))
	return nil
}
