package services

import (
	"context"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/apperrors"
	"maintenance-system/pkg/types"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceInterface interface {
	List(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.UserDTO, error)
	Create(ctx context.Context, d dto.CreateUserDTO) (*dto.UserDTO, error)
	Update(ctx context.Context, id uint64, d dto.UpdateUserDTO) (*dto.UserDTO, error)
	Delete(ctx context.Context, id uint64) error
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewUserService(userRepo repositories.UserRepositoryInterface, logger *zap.Logger) UserServiceInterface {
	return &UserService{userRepo: userRepo, logger: logger}
}

func buildUserDTO(u entities.User) dto.UserDTO {
	return dto.UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func (s *UserService) List(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error) {
	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.UserDTO, 0, len(users))
	for _, u := range users {
		result = append(result, buildUserDTO(u))
	}
	return result, total, nil
}

func (s *UserService) Find(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	u, err := s.userRepo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := buildUserDTO(*u)
	return &out, nil
}

func (s *UserService) Create(ctx context.Context, d dto.CreateUserDTO) (*dto.UserDTO, error) {
	if _, err := s.userRepo.FindByEmail(ctx, d.Email); err == nil {
		return nil, apperrors.NewValidationError("email %q is already registered", d.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(d.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	id, err := s.userRepo.Create(ctx, entities.User{
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		Role:         d.Role,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.Uint64("id", id), zap.String("role", d.Role))
	return s.Find(ctx, id)
}

func (s *UserService) Update(ctx context.Context, id uint64, d dto.UpdateUserDTO) (*dto.UserDTO, error) {
	set := make(map[string]interface{})
	if d.Name != nil {
		set["name"] = *d.Name
	}
	if d.Email != nil {
		if existing, err := s.userRepo.FindByEmail(ctx, *d.Email); err == nil && existing.ID != id {
			return nil, apperrors.NewValidationError("email %q is already registered", *d.Email)
		}
		set["email"] = *d.Email
	}
	if d.Phone != nil {
		set["phone"] = *d.Phone
	}
	if d.Role != nil {
		set["role"] = *d.Role
	}
	if d.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*d.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		set["password_hash"] = string(hash)
	}

	if err := s.userRepo.Update(ctx, id, set); err != nil {
		return nil, err
	}
	return s.Find(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id uint64) error {
	return s.userRepo.SoftDelete(ctx, id)
}
