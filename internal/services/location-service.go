package services

import (
	"context"
	"fmt"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/apperrors"
	"maintenance-system/pkg/types"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

type LocationServiceInterface interface {
	List(ctx context.Context, filter types.Filter) ([]dto.LocationDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.LocationDTO, error)
	Create(ctx context.Context, d dto.CreateLocationDTO) (*dto.LocationDTO, error)
	Update(ctx context.Context, id uint64, d dto.UpdateLocationDTO) (*dto.LocationDTO, error)
	Delete(ctx context.Context, id uint64) error
}

type LocationService struct {
	locationRepo  repositories.LocationRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	cache         repositories.CacheRepositoryInterface
	cacheTTL      time.Duration
	logger        *zap.Logger
}

func NewLocationService(
	locationRepo repositories.LocationRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) LocationServiceInterface {
	return &LocationService{
		locationRepo:  locationRepo,
		equipmentRepo: equipmentRepo,
		cache:         cache,
		cacheTTL:      cacheTTL,
		logger:        logger,
	}
}

func locationCacheKey(id uint64) string {
	return fmt.Sprintf("location:%d", id)
}

func buildLocationDTO(l entities.Location) dto.LocationDTO {
	return dto.LocationDTO{
		ID:        l.ID,
		Campus:    l.Campus,
		Name:      l.Name,
		NameAr:    null.StringFromPtr(l.NameAr),
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
	}
}

func (s *LocationService) List(ctx context.Context, filter types.Filter) ([]dto.LocationDTO, uint64, error) {
	locations, total, err := s.locationRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.LocationDTO, 0, len(locations))
	for _, l := range locations {
		result = append(result, buildLocationDTO(l))
	}
	return result, total, nil
}

// Find serves single-location reads through the cache. A cache failure is
// logged and falls back to the database.
func (s *LocationService) Find(ctx context.Context, id uint64) (*dto.LocationDTO, error) {
	key := locationCacheKey(id)

	var cached dto.LocationDTO
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	l, err := s.locationRepo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := buildLocationDTO(*l)

	if err := s.cache.Set(ctx, key, out, s.cacheTTL); err != nil {
		s.logger.Warn("location cache set failed", zap.Uint64("id", id), zap.Error(err))
	}
	return &out, nil
}

func (s *LocationService) Create(ctx context.Context, d dto.CreateLocationDTO) (*dto.LocationDTO, error) {
	id, err := s.locationRepo.Create(ctx, d)
	if err != nil {
		return nil, err
	}
	s.logger.Info("location created", zap.Uint64("id", id), zap.String("campus", d.Campus), zap.String("name", d.Name))
	return s.Find(ctx, id)
}

func (s *LocationService) Update(ctx context.Context, id uint64, d dto.UpdateLocationDTO) (*dto.LocationDTO, error) {
	if err := s.locationRepo.Update(ctx, id, d); err != nil {
		return nil, err
	}
	if err := s.cache.Delete(ctx, locationCacheKey(id)); err != nil {
		s.logger.Warn("location cache invalidation failed", zap.Uint64("id", id), zap.Error(err))
	}
	return s.Find(ctx, id)
}

// Delete refuses to remove a location that still has equipment assigned, so
// inventory rows never silently lose their placement.
func (s *LocationService) Delete(ctx context.Context, id uint64) error {
	occupants, err := s.equipmentRepo.ListByLocation(ctx, id)
	if err != nil {
		return err
	}
	if len(occupants) > 0 {
		return fmt.Errorf("location still has %d equipment item(s): %w", len(occupants), apperrors.ErrConflict)
	}

	if err := s.locationRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, locationCacheKey(id)); err != nil {
		s.logger.Warn("location cache invalidation failed", zap.Uint64("id", id), zap.Error(err))
	}
	return nil
}
