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
	"github.com/evrim/opphub/internal/pkg/dberrors"
	"github.com/evrim/opphub/internal/pkg/helpers"
	"github.com/evrim/opphub/internal/pkg/logger"
)

// SchoolService defines the interface for school administration
type SchoolService interface {
	GetAll(ctx context.Context, search string, page, size int) (*dto.SchoolListResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.SchoolResponse, error)
	Create(ctx context.Context, req *dto.CreateSchoolRequest) (*dto.SchoolResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateSchoolRequest) (*dto.SchoolResponse, error)
	Delete(ctx context.Context, id int64) error
}

// schoolServiceImpl implements SchoolService
type schoolServiceImpl struct {
	schoolRepo *repositories.SchoolRepository
	logger     zerolog.Logger
}

// NewSchoolService creates a new SchoolService
func NewSchoolService(schoolRepo *repositories.SchoolRepository) SchoolService {
	return &schoolServiceImpl{
		schoolRepo: schoolRepo,
		logger:     logger.WithComponent("school_service"),
	}
}

// GetAll retrieves schools with optional name search and pagination
func (s *schoolServiceImpl) GetAll(ctx context.Context, search string, page, size int) (*dto.SchoolListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	schools, total, err := s.schoolRepo.GetAll(ctx, search, int(offset), limit)
	if err != nil {
		return nil, fmt.Errorf("error getting schools: %w", err)
	}

	responses := make([]dto.SchoolResponse, 0, len(schools))
	for _, school := range schools {
		responses = append(responses, dto.FromSchool(school))
	}

	return &dto.SchoolListResponse{
		Schools:    responses,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// GetByID retrieves a school by ID
func (s *schoolServiceImpl) GetByID(ctx context.Context, id int64) (*dto.SchoolResponse, error) {
	school, err := s.schoolRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting school: %w", err)
	}
	if school == nil {
		return nil, apperrors.ErrSchoolNotFound
	}

	resp := dto.FromSchool(school)
	return &resp, nil
}

// Create registers a new school
func (s *schoolServiceImpl) Create(ctx context.Context, req *dto.CreateSchoolRequest) (*dto.SchoolResponse, error) {
	school := &models.School{
		Name:    req.Name,
		LogoURL: req.LogoURL,
	}

	id, err := s.schoolRepo.Create(ctx, school)
	if err != nil {
		return nil, fmt.Errorf("error creating school: %w", err)
	}

	s.logger.Info().Int64("schoolId", id).Str("name", req.Name).Msg("School created")
	return s.GetByID(ctx, id)
}

// Update modifies a school
func (s *schoolServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateSchoolRequest) (*dto.SchoolResponse, error) {
	school, err := s.schoolRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting school: %w", err)
	}
	if school == nil {
		return nil, apperrors.ErrSchoolNotFound
	}

	school.Name = req.Name
	school.LogoURL = req.LogoURL

	if err := s.schoolRepo.Update(ctx, school); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSchoolNotFound
		}
		return nil, fmt.Errorf("error updating school: %w", err)
	}

	s.logger.Info().Int64("schoolId", id).Msg("School updated")
	return s.GetByID(ctx, id)
}

// Delete removes a school. A school still referenced by users or
// opportunities cannot be removed.
func (s *schoolServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.schoolRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrSchoolNotFound
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrSchoolHasRelations
		}
		return fmt.Errorf("error deleting school: %w", err)
	}

	s.logger.Info().Int64("schoolId", id).Msg("School deleted")
	return nil
}
