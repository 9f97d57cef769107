package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/evrim/opphub/internal/app/models"
	"github.com/evrim/opphub/internal/app/models/dto"
	"github.com/evrim/opphub/internal/app/repositories"
	"github.com/evrim/opphub/internal/pkg/apperrors"
	"github.com/evrim/opphub/internal/pkg/auth"
	"github.com/evrim/opphub/internal/pkg/helpers"
	"github.com/evrim/opphub/internal/pkg/logger"
)

// UserService defines the interface for user administration
type UserService interface {
	GetAll(ctx context.Context, admin models.UserContext, page, size int) (*dto.UserListResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.UserResponse, error)
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, id int64) error
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo *repositories.UserRepository
	roleRepo *repositories.RoleRepository
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo *repositories.UserRepository, roleRepo *repositories.RoleRepository) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		roleRepo: roleRepo,
		logger:   logger.WithComponent("user_service"),
	}
}

// GetAll retrieves users. Admins scoped to a school see only their own
// school's users; unscoped admins see everyone.
func (s *userServiceImpl) GetAll(ctx context.Context, admin models.UserContext, page, size int) (*dto.UserListResponse, error) {
	var schoolScope *int64
	if !admin.Role.CanEditAllOpportunities {
		schoolScope = admin.SchoolID
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	users, total, err := s.userRepo.GetAll(ctx, schoolScope, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error getting users: %w", err)
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.FromUser(user))
	}

	return &dto.UserListResponse{
		Users:      responses,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// GetByID retrieves a user by ID
func (s *userServiceImpl) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	resp := dto.FromUser(user)
	return &resp, nil
}

// Create provisions a new user with a seeded role
func (s *userServiceImpl) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	role, err := s.roleRepo.GetByName(ctx, req.RoleName)
	if err != nil {
		return nil, fmt.Errorf("error finding role: %w", err)
	}
	if role == nil {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown role: %s", req.RoleName))
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:     req.Email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleID:    role.ID,
		SchoolID:  req.SchoolID,
		IsActive:  true,
	}

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info().Int64("userId", id).Str("role", role.Name).Msg("User created")
	return s.GetByID(ctx, id)
}

// Update modifies a user's profile, role and status
func (s *userServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	role, err := s.roleRepo.GetByName(ctx, req.RoleName)
	if err != nil {
		return nil, fmt.Errorf("error finding role: %w", err)
	}
	if role == nil {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown role: %s", req.RoleName))
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.RoleID = role.ID
	user.SchoolID = req.SchoolID
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	s.logger.Info().Int64("userId", id).Msg("User updated")
	return s.GetByID(ctx, id)
}

// Delete removes a user
func (s *userServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error deleting user: %w", err)
	}

	s.logger.Info().Int64("userId", id).Msg("User deleted")
	return nil
}
