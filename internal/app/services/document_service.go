package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"

	"github.com/rs/zerolog"

	"github.com/evrim/opphub/internal/app/access"
	"github.com/evrim/opphub/internal/app/models"
	"github.com/evrim/opphub/internal/app/models/dto"
	"github.com/evrim/opphub/internal/app/repositories"
	"github.com/evrim/opphub/internal/pkg/apperrors"
	"github.com/evrim/opphub/internal/pkg/filestorage"
	"github.com/evrim/opphub/internal/pkg/logger"
)

// maxDocumentSize caps uploads at 20 MB
const maxDocumentSize = 20 << 20

// DocumentService handles opportunity document attachments
type DocumentService interface {
	Attach(ctx context.Context, user models.UserContext, opportunityID int64, fileHeader *multipart.FileHeader) (*dto.FileResponse, error)
	Detach(ctx context.Context, user models.UserContext, opportunityID, fileID int64) error
}

// documentServiceImpl implements DocumentService
type documentServiceImpl struct {
	fileRepo      *repositories.FileRepository
	opportunities OpportunityGetter
	storage       filestorage.Storage
	logger        zerolog.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	fileRepo *repositories.FileRepository,
	opportunities OpportunityGetter,
	storage filestorage.Storage,
) DocumentService {
	return &documentServiceImpl{
		fileRepo:      fileRepo,
		opportunities: opportunities,
		storage:       storage,
		logger:        logger.WithComponent("document_service"),
	}
}

// Attach stores an uploaded document against an opportunity. The uploader
// needs the upload capability and the right to mutate the opportunity.
func (s *documentServiceImpl) Attach(ctx context.Context, user models.UserContext, opportunityID int64, fileHeader *multipart.FileHeader) (*dto.FileResponse, error) {
	if !user.Role.Has(models.CapUploadDocuments) {
		return nil, apperrors.ErrPermissionDenied
	}
	if fileHeader == nil {
		return nil, apperrors.NewBadRequestError("no file provided")
	}
	if fileHeader.Size > maxDocumentSize {
		return nil, apperrors.NewBadRequestError("file exceeds the 20 MB limit")
	}

	opp, err := s.opportunities.GetByID(ctx, opportunityID)
	if err != nil {
		return nil, fmt.Errorf("error getting opportunity: %w", err)
	}
	if opp == nil {
		return nil, apperrors.ErrOpportunityNotFound
	}
	if !access.CanMutate(user, opp) {
		return nil, apperrors.ErrPermissionDenied
	}

	storedPath, err := s.storage.Save(fileHeader, "opportunities")
	if err != nil {
		return nil, fmt.Errorf("error storing file: %w", err)
	}

	file := &models.File{
		FileName:     fileHeader.Filename,
		FilePath:     storedPath,
		FileURL:      path.Join("/uploads", storedPath),
		FileSize:     fileHeader.Size,
		FileType:     fileHeader.Header.Get("Content-Type"),
		ResourceType: models.FileTypeOpportunityDocument,
		ResourceID:   opportunityID,
		UploadedBy:   user.ID,
	}

	id, err := s.fileRepo.Create(ctx, file)
	if err != nil {
		// Keep storage and metadata consistent when the insert fails.
		if delErr := s.storage.Delete(storedPath); delErr != nil {
			s.logger.Error().Err(delErr).Str("path", storedPath).Msg("Failed to clean up orphaned file")
		}
		return nil, fmt.Errorf("error recording file: %w", err)
	}

	s.logger.Info().
		Int64("fileId", id).
		Int64("opportunityId", opportunityID).
		Int64("userId", user.ID).
		Msg("Document attached")

	return &dto.FileResponse{
		ID:       id,
		FileName: file.FileName,
		FileURL:  file.FileURL,
		FileSize: file.FileSize,
		FileType: file.FileType,
	}, nil
}

// Detach removes a document from an opportunity, deleting both the record
// and the stored file.
func (s *documentServiceImpl) Detach(ctx context.Context, user models.UserContext, opportunityID, fileID int64) error {
	if !user.Role.Has(models.CapUploadDocuments) {
		return apperrors.ErrPermissionDenied
	}

	opp, err := s.opportunities.GetByID(ctx, opportunityID)
	if err != nil {
		return fmt.Errorf("error getting opportunity: %w", err)
	}
	if opp == nil {
		return apperrors.ErrOpportunityNotFound
	}
	if !access.CanMutate(user, opp) {
		return apperrors.ErrPermissionDenied
	}

	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return fmt.Errorf("error getting file: %w", err)
	}
	if file == nil || file.ResourceType != models.FileTypeOpportunityDocument || file.ResourceID != opportunityID {
		return apperrors.ErrResourceNotFound
	}

	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		return fmt.Errorf("error deleting file record: %w", err)
	}

	if err := s.storage.Delete(file.FilePath); err != nil {
		s.logger.Error().Err(err).Str("path", file.FilePath).Msg("Failed to delete stored file")
	}

	s.logger.Info().
		Int64("fileId", fileID).
		Int64("opportunityId", opportunityID).
		Msg("Document detached")
	return nil
}
