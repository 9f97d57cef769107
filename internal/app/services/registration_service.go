package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/evrim/opphub/internal/app/access"
	"github.com/evrim/opphub/internal/app/models"
	"github.com/evrim/opphub/internal/app/models/dto"
	"github.com/evrim/opphub/internal/pkg/apperrors"
	"github.com/evrim/opphub/internal/pkg/logger"
)

// InterestStore is the persistence surface the registration service needs.
// Register must be atomic: the capacity check and the insert happen under
// the same lock on the opportunity row, so that two concurrent calls for
// the last space cannot both succeed. Satisfied by
// repositories.InterestRepository; tests substitute a mutex-guarded fake.
type InterestStore interface {
	Register(ctx context.Context, studentID, opportunityID int64) (*models.StudentInterest, error)
	Unregister(ctx context.Context, studentID, opportunityID int64) error
	CountByOpportunityID(ctx context.Context, opportunityID int64) (int, error)
	ListByOpportunityID(ctx context.Context, opportunityID int64) ([]*models.StudentInterest, error)
}

// OpportunityGetter is the read surface the registration service needs
type OpportunityGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Opportunity, error)
}

// RegistrationService handles students claiming and releasing opportunity
// spaces.
type RegistrationService interface {
	Register(ctx context.Context, user models.UserContext, opportunityID int64) (*dto.InterestResponse, error)
	Unregister(ctx context.Context, user models.UserContext, opportunityID int64) error
	ListAttendees(ctx context.Context, user models.UserContext, opportunityID int64) (*dto.AttendeeListResponse, error)
}

// registrationServiceImpl implements RegistrationService
type registrationServiceImpl struct {
	interests     InterestStore
	opportunities OpportunityGetter
	logger        zerolog.Logger
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(interests InterestStore, opportunities OpportunityGetter) RegistrationService {
	return &registrationServiceImpl{
		interests:     interests,
		opportunities: opportunities,
		logger:        logger.WithComponent("registration_service"),
	}
}

// Register claims a space on an opportunity for the user. The call is
// idempotent: registering twice returns the existing registration with no
// second write. An opportunity the user cannot see is forbidden even when
// the ID is guessed correctly. When all spaces are taken the call fails
// with apperrors.ErrCapacityExceeded and nothing is written.
func (s *registrationServiceImpl) Register(ctx context.Context, user models.UserContext, opportunityID int64) (*dto.InterestResponse, error) {
	opp, err := s.opportunities.GetByID(ctx, opportunityID)
	if err != nil {
		return nil, fmt.Errorf("error getting opportunity: %w", err)
	}
	if opp == nil {
		return nil, apperrors.ErrOpportunityNotFound
	}

	if !access.IsVisible(user, opp) {
		return nil, apperrors.ErrPermissionDenied
	}

	interest, err := s.interests.Register(ctx, user.ID, opportunityID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("userId", user.ID).
		Int64("opportunityId", opportunityID).
		Msg("Student registered for opportunity")

	left, err := s.spacesLeftFor(ctx, opp)
	if err != nil {
		return nil, err
	}

	return &dto.InterestResponse{
		ID:               interest.ID,
		StudentID:        interest.StudentID,
		OpportunityID:    interest.OpportunityID,
		RegistrationDate: interest.RegistrationDate,
		SpacesLeft:       left,
	}, nil
}

// Unregister releases the user's space on an opportunity. Unregistering
// when not registered is a no-op, and the freed space becomes claimable
// again immediately.
func (s *registrationServiceImpl) Unregister(ctx context.Context, user models.UserContext, opportunityID int64) error {
	opp, err := s.opportunities.GetByID(ctx, opportunityID)
	if err != nil {
		return fmt.Errorf("error getting opportunity: %w", err)
	}
	if opp == nil {
		return apperrors.ErrOpportunityNotFound
	}

	if err := s.interests.Unregister(ctx, user.ID, opportunityID); err != nil {
		return err
	}

	s.logger.Info().
		Int64("userId", user.ID).
		Int64("opportunityId", opportunityID).
		Msg("Student unregistered from opportunity")

	return nil
}

// ListAttendees retrieves the registered students of an opportunity for
// users holding the attendee-viewing capability.
func (s *registrationServiceImpl) ListAttendees(ctx context.Context, user models.UserContext, opportunityID int64) (*dto.AttendeeListResponse, error) {
	if !user.Role.Has(models.CapViewAttendees) {
		return nil, apperrors.ErrPermissionDenied
	}

	opp, err := s.opportunities.GetByID(ctx, opportunityID)
	if err != nil {
		return nil, fmt.Errorf("error getting opportunity: %w", err)
	}
	if opp == nil {
		return nil, apperrors.ErrOpportunityNotFound
	}

	if !user.Role.CanEditAllOpportunities && !access.IsVisible(user, opp) && !access.CanMutate(user, opp) {
		return nil, apperrors.ErrOpportunityNotFound
	}

	interests, err := s.interests.ListByOpportunityID(ctx, opportunityID)
	if err != nil {
		return nil, fmt.Errorf("error listing registrations: %w", err)
	}

	attendees := make([]dto.AttendeeResponse, 0, len(interests))
	for _, interest := range interests {
		attendee := dto.AttendeeResponse{
			StudentID:        interest.StudentID,
			RegistrationDate: interest.RegistrationDate,
		}
		if interest.Student != nil {
			attendee.FirstName = interest.Student.FirstName
			attendee.LastName = interest.Student.LastName
			attendee.Email = interest.Student.Email
		}
		attendees = append(attendees, attendee)
	}

	var left *int
	if opp.NumberOfSpaces != nil {
		left = spacesLeft(opp.NumberOfSpaces, len(interests))
	}

	return &dto.AttendeeListResponse{
		OpportunityID: opportunityID,
		Attendees:     attendees,
		SpacesLeft:    left,
	}, nil
}

func (s *registrationServiceImpl) spacesLeftFor(ctx context.Context, opp *models.Opportunity) (*int, error) {
	if opp.NumberOfSpaces == nil {
		return nil, nil
	}
	taken, err := s.interests.CountByOpportunityID(ctx, opp.ID)
	if err != nil {
		return nil, fmt.Errorf("error counting registrations: %w", err)
	}
	return spacesLeft(opp.NumberOfSpaces, taken), nil
}

// spacesLeft derives the number of free spaces. A nil capacity means the
// opportunity is unbounded; overshoot from legacy data clamps to zero
// rather than going negative.
func spacesLeft(numberOfSpaces *int, taken int) *int {
	if numberOfSpaces == nil {
		return nil
	}
	left := *numberOfSpaces - taken
	if left < 0 {
		left = 0
	}
	return &left
}
