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
	"github.com/evrim/opphub/internal/pkg/helpers"
	"github.com/evrim/opphub/internal/pkg/logger"
)

// NewsService defines the interface for the school news board
type NewsService interface {
	List(ctx context.Context, user models.UserContext, page, size int) (*dto.NewsListResponse, error)
	Create(ctx context.Context, user models.UserContext, req *dto.CreateNewsRequest) (*dto.NewsResponse, error)
	Delete(ctx context.Context, user models.UserContext, id int64) error
}

// newsServiceImpl implements NewsService
type newsServiceImpl struct {
	newsRepo *repositories.NewsRepository
	logger   zerolog.Logger
}

// NewNewsService creates a new NewsService
func NewNewsService(newsRepo *repositories.NewsRepository) NewsService {
	return &newsServiceImpl{
		newsRepo: newsRepo,
		logger:   logger.WithComponent("news_service"),
	}
}

// List retrieves news posts scoped to the user's school. Users without a
// school see only platform-wide announcements; news managers without a
// school see everything.
func (s *newsServiceImpl) List(ctx context.Context, user models.UserContext, page, size int) (*dto.NewsListResponse, error) {
	scope := user.SchoolID
	if user.SchoolID == nil && !user.Role.CanManageNews {
		// Global-only window. A zero school matches no rows, so the
		// scoped query degenerates to platform-wide posts.
		var none int64
		scope = &none
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	posts, total, err := s.newsRepo.List(ctx, scope, int(offset), limit)
	if err != nil {
		return nil, fmt.Errorf("error listing news: %w", err)
	}

	responses := make([]dto.NewsResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, dto.FromNewsPost(post))
	}

	return &dto.NewsListResponse{
		Posts:      responses,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// Create posts news on behalf of a news manager. Managers attached to a
// school post to that school; unattached managers post platform-wide.
func (s *newsServiceImpl) Create(ctx context.Context, user models.UserContext, req *dto.CreateNewsRequest) (*dto.NewsResponse, error) {
	if !user.Role.Has(models.CapManageNews) {
		return nil, apperrors.ErrPermissionDenied
	}

	post := &models.NewsPost{
		Title:       req.Title,
		Body:        req.Body,
		SchoolID:    user.SchoolID,
		CreatedByID: user.ID,
	}

	id, err := s.newsRepo.Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("error creating news post: %w", err)
	}

	created, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting created news post: %w", err)
	}

	s.logger.Info().Int64("newsId", id).Int64("userId", user.ID).Msg("News post created")

	resp := dto.FromNewsPost(created)
	return &resp, nil
}

// Delete removes a news post. News managers may remove their school's
// posts; a manager from another school may not.
func (s *newsServiceImpl) Delete(ctx context.Context, user models.UserContext, id int64) error {
	if !user.Role.Has(models.CapManageNews) {
		return apperrors.ErrPermissionDenied
	}

	post, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting news post: %w", err)
	}
	if post == nil {
		return apperrors.ErrNewsPostNotFound
	}

	if post.SchoolID != nil {
		if user.SchoolID == nil || *user.SchoolID != *post.SchoolID {
			return apperrors.ErrPermissionDenied
		}
	} else if user.SchoolID != nil {
		// Platform-wide posts belong to unattached managers.
		return apperrors.ErrPermissionDenied
	}

	if err := s.newsRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNewsPostNotFound
		}
		return fmt.Errorf("error deleting news post: %w", err)
	}

	s.logger.Info().Int64("newsId", id).Int64("userId", user.ID).Msg("News post deleted")
	return nil
}
