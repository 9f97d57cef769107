package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/evrim/opphub/internal/app/models"
	"github.com/evrim/opphub/internal/app/models/dto"
	"github.com/evrim/opphub/internal/app/repositories"
	"github.com/evrim/opphub/internal/pkg/apperrors"
	"github.com/evrim/opphub/internal/pkg/auth"
	"github.com/evrim/opphub/internal/pkg/helpers"
	"github.com/evrim/opphub/internal/pkg/logger"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo   *repositories.UserRepository
	tokenRepo  *repositories.TokenRepository
	jwtService *auth.JWTService
	clock      helpers.Clock
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repositories.UserRepository,
	tokenRepo *repositories.TokenRepository,
	jwtService *auth.JWTService,
	clock helpers.Clock,
) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
		clock:      clock,
		logger:     logger.WithComponent("auth_service"),
	}
}

// Login authenticates a user and issues a token pair
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userId", user.ID).Msg("Failed to record last login")
	}

	s.logger.Info().Int64("userId", user.ID).Msg("User logged in")
	return pair, nil
}

// RefreshToken exchanges a valid refresh token for a new pair. Tokens
// rotate: the presented token is deleted whether or not a new one is
// issued, so a stolen token works at most once.
func (s *authServiceImpl) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	stored, err := s.tokenRepo.FindByToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("error finding refresh token: %w", err)
	}
	if stored == nil {
		return nil, apperrors.ErrTokenNotFound
	}

	if err := s.tokenRepo.Delete(ctx, req.RefreshToken); err != nil {
		return nil, fmt.Errorf("error rotating refresh token: %w", err)
	}

	if stored.Expired(s.clock.Now()) {
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	return s.issueTokens(ctx, user)
}

// Logout invalidates a refresh token. Unknown tokens are ignored so the
// call is safe to repeat.
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokenRepo.Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

func (s *authServiceImpl) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}

	err = s.tokenRepo.Create(ctx, &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: s.jwtService.GetRefreshTokenExpiry(),
	})
	if err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
		TokenType:        "Bearer",
	}, nil
}
