package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/evrim/opphub/internal/app/access"
	"github.com/evrim/opphub/internal/app/models"
	"github.com/evrim/opphub/internal/app/models/dto"
	"github.com/evrim/opphub/internal/pkg/apperrors"
	"github.com/evrim/opphub/internal/pkg/helpers"
	"github.com/evrim/opphub/internal/pkg/logger"
)

// OpportunityStore is the persistence surface the opportunity service needs.
// Satisfied by repositories.OpportunityRepository; tests substitute fakes.
type OpportunityStore interface {
	GetByID(ctx context.Context, id int64) (*models.Opportunity, error)
	GetAll(ctx context.Context, search, oppType, industry *string) ([]*models.Opportunity, error)
	Create(ctx context.Context, opp *models.Opportunity) (int64, error)
	Update(ctx context.Context, opp *models.Opportunity) error
	Delete(ctx context.Context, id int64) error
}

// InterestCounter exposes the registration counts the opportunity service
// needs to derive free spaces.
type InterestCounter interface {
	CountByOpportunityID(ctx context.Context, opportunityID int64) (int, error)
	CountsByOpportunityIDs(ctx context.Context, opportunityIDs []int64) (map[int64]int, error)
}

// AttachmentLister exposes the stored documents of an opportunity
type AttachmentLister interface {
	ListByResource(ctx context.Context, resourceType models.FileType, resourceID int64) ([]*models.File, error)
}

// PreferencesStore is the persistence surface for student preferences
type PreferencesStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.StudentPreferences, error)
	Upsert(ctx context.Context, prefs *models.StudentPreferences) (*models.StudentPreferences, error)
}

// OpportunityService defines the interface for opportunity operations
type OpportunityService interface {
	ListForUser(ctx context.Context, user models.UserContext, filter *dto.OpportunityFilterRequest) (*dto.OpportunityListResponse, error)
	GetByID(ctx context.Context, user models.UserContext, id int64) (*dto.OpportunityResponse, error)
	Create(ctx context.Context, user models.UserContext, req *dto.CreateOpportunityRequest) (*dto.OpportunityResponse, error)
	Update(ctx context.Context, user models.UserContext, id int64, req *dto.UpdateOpportunityRequest) (*dto.OpportunityResponse, error)
	Delete(ctx context.Context, user models.UserContext, id int64) error
}

// opportunityServiceImpl implements OpportunityService
type opportunityServiceImpl struct {
	opportunities OpportunityStore
	interests     InterestCounter
	preferences   PreferencesStore
	attachments   AttachmentLister
	clock         helpers.Clock
	logger        zerolog.Logger
}

// NewOpportunityService creates a new OpportunityService
func NewOpportunityService(
	opportunities OpportunityStore,
	interests InterestCounter,
	preferences PreferencesStore,
	attachments AttachmentLister,
	clock helpers.Clock,
) OpportunityService {
	return &opportunityServiceImpl{
		opportunities: opportunities,
		interests:     interests,
		preferences:   preferences,
		attachments:   attachments,
		clock:         clock,
		logger:        logger.WithComponent("opportunity_service"),
	}
}

// ListForUser retrieves the opportunities the user is allowed to see.
// Roles that edit everything see the full universe. Everyone else sees the
// visibility-filtered set, and users with neither a creation nor a
// school-editing capability (plain students) additionally get their saved
// preferences applied. Pagination happens after filtering so page numbers
// count visible items only.
func (s *opportunityServiceImpl) ListForUser(ctx context.Context, user models.UserContext, filter *dto.OpportunityFilterRequest) (*dto.OpportunityListResponse, error) {
	opps, err := s.opportunities.GetAll(ctx, filter.Search, filter.Type, filter.Industry)
	if err != nil {
		return nil, fmt.Errorf("error getting opportunities: %w", err)
	}

	if !user.Role.CanEditAllOpportunities {
		opps = access.FilterVisible(user, opps)
	}

	if !user.Role.CanCreateOpportunities && !user.Role.CanEditSchoolOpportunities {
		prefs, err := s.preferences.GetByUserID(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("error getting preferences: %w", err)
		}
		opps = access.ApplyPreferences(prefs, opps)
	}

	total := int64(len(opps))
	start, end := helpers.CalculateSliceIndices(filter.Page, filter.PageSize, len(opps))
	page := opps[start:end]

	responses, err := s.toResponses(ctx, page)
	if err != nil {
		return nil, err
	}

	return &dto.OpportunityListResponse{
		Opportunities: responses,
		Pagination:    helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}, nil
}

// GetByID retrieves a single opportunity the user is allowed to see.
// Opportunities outside the user's visibility report not found rather than
// forbidden so their existence is not leaked.
func (s *opportunityServiceImpl) GetByID(ctx context.Context, user models.UserContext, id int64) (*dto.OpportunityResponse, error) {
	opp, err := s.opportunities.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting opportunity: %w", err)
	}
	if opp == nil {
		return nil, apperrors.ErrOpportunityNotFound
	}

	if !user.Role.CanEditAllOpportunities && !access.IsVisible(user, opp) && !access.CanMutate(user, opp) {
		return nil, apperrors.ErrOpportunityNotFound
	}

	files, err := s.attachments.ListByResource(ctx, models.FileTypeOpportunityDocument, opp.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing attachments: %w", err)
	}
	opp.Attachments = files

	resp, err := s.toResponse(ctx, opp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Create stores a new opportunity on behalf of the user
func (s *opportunityServiceImpl) Create(ctx context.Context, user models.UserContext, req *dto.CreateOpportunityRequest) (*dto.OpportunityResponse, error) {
	if !access.CanCreate(user) {
		return nil, apperrors.ErrPermissionDenied
	}

	opp := &models.Opportunity{
		Title:               req.Title,
		Description:         req.Description,
		Industry:            req.Industry,
		Type:                models.OpportunityType(req.Type),
		AgeGroup:            req.AgeGroup,
		Location:            req.Location,
		SchoolID:            req.SchoolID,
		IsGlobal:            req.IsGlobal,
		VisibleToSchools:    req.VisibleToSchools,
		NumberOfSpaces:      req.NumberOfSpaces,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		ApplicationDeadline: req.ApplicationDeadline,
	}

	access.SanitizeCreate(user, opp)

	id, err := s.opportunities.Create(ctx, opp)
	if err != nil {
		return nil, fmt.Errorf("error creating opportunity: %w", err)
	}

	s.logger.Info().Int64("opportunityId", id).Int64("userId", user.ID).Msg("Opportunity created")

	created, err := s.opportunities.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting created opportunity: %w", err)
	}

	resp, err := s.toResponse(ctx, created)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Update modifies an opportunity the user is allowed to mutate
func (s *opportunityServiceImpl) Update(ctx context.Context, user models.UserContext, id int64, req *dto.UpdateOpportunityRequest) (*dto.OpportunityResponse, error) {
	existing, err := s.opportunities.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting opportunity: %w", err)
	}
	if existing == nil {
		return nil, apperrors.ErrOpportunityNotFound
	}

	if !access.CanMutate(user, existing) {
		return nil, apperrors.ErrPermissionDenied
	}

	isGlobal := existing.IsGlobal
	if req.IsGlobal != nil {
		isGlobal = *req.IsGlobal
	}

	updated := &models.Opportunity{
		ID:                  existing.ID,
		Title:               req.Title,
		Description:         req.Description,
		Industry:            req.Industry,
		Type:                models.OpportunityType(req.Type),
		AgeGroup:            req.AgeGroup,
		Location:            req.Location,
		SchoolID:            req.SchoolID,
		IsGlobal:            isGlobal,
		VisibleToSchools:    req.VisibleToSchools,
		NumberOfSpaces:      req.NumberOfSpaces,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		ApplicationDeadline: req.ApplicationDeadline,
	}

	access.SanitizeUpdate(user, existing, updated)

	if err := s.opportunities.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("error updating opportunity: %w", err)
	}

	s.logger.Info().Int64("opportunityId", id).Int64("userId", user.ID).Msg("Opportunity updated")

	fresh, err := s.opportunities.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting updated opportunity: %w", err)
	}

	resp, err := s.toResponse(ctx, fresh)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes an opportunity the user is allowed to mutate
func (s *opportunityServiceImpl) Delete(ctx context.Context, user models.UserContext, id int64) error {
	existing, err := s.opportunities.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting opportunity: %w", err)
	}
	if existing == nil {
		return apperrors.ErrOpportunityNotFound
	}

	if !access.CanMutate(user, existing) {
		return apperrors.ErrPermissionDenied
	}

	if err := s.opportunities.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting opportunity: %w", err)
	}

	s.logger.Info().Int64("opportunityId", id).Int64("userId", user.ID).Msg("Opportunity deleted")
	return nil
}

func (s *opportunityServiceImpl) toResponse(ctx context.Context, opp *models.Opportunity) (dto.OpportunityResponse, error) {
	var left *int
	if opp.NumberOfSpaces != nil {
		taken, err := s.interests.CountByOpportunityID(ctx, opp.ID)
		if err != nil {
			return dto.OpportunityResponse{}, fmt.Errorf("error counting registrations: %w", err)
		}
		left = spacesLeft(opp.NumberOfSpaces, taken)
	}
	return dto.FromOpportunity(opp, left, opp.DeadlinePassed(s.clock.Now())), nil
}

func (s *opportunityServiceImpl) toResponses(ctx context.Context, opps []*models.Opportunity) ([]dto.OpportunityResponse, error) {
	var capped []int64
	for _, opp := range opps {
		if opp.NumberOfSpaces != nil {
			capped = append(capped, opp.ID)
		}
	}

	counts := map[int64]int{}
	if len(capped) > 0 {
		var err error
		counts, err = s.interests.CountsByOpportunityIDs(ctx, capped)
		if err != nil {
			return nil, fmt.Errorf("error counting registrations: %w", err)
		}
	}

	now := s.clock.Now()
	responses := make([]dto.OpportunityResponse, 0, len(opps))
	for _, opp := range opps {
		left := spacesLeft(opp.NumberOfSpaces, counts[opp.ID])
		responses = append(responses, dto.FromOpportunity(opp, left, opp.DeadlinePassed(now)))
	}
	return responses, nil
}
