package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/evrim/opphub/internal/app/models"
	"github.com/evrim/opphub/internal/app/models/dto"
	"github.com/evrim/opphub/internal/pkg/logger"
)

// PreferenceService handles a student's saved listing filters. There is no
// delete operation: saving an empty set is how a student clears their
// filters, since empty preferences leave the listing untouched.
type PreferenceService interface {
	Get(ctx context.Context, user models.UserContext) (*dto.PreferencesResponse, error)
	Upsert(ctx context.Context, user models.UserContext, req *dto.UpsertPreferencesRequest) (*dto.PreferencesResponse, error)
}

// preferenceServiceImpl implements PreferenceService
type preferenceServiceImpl struct {
	preferences PreferencesStore
	logger      zerolog.Logger
}

// NewPreferenceService creates a new PreferenceService
func NewPreferenceService(preferences PreferencesStore) PreferenceService {
	return &preferenceServiceImpl{
		preferences: preferences,
		logger:      logger.WithComponent("preference_service"),
	}
}

// Get retrieves the user's saved preferences. A student who never saved
// any gets an empty set, not an error; the listing treats both the same.
func (s *preferenceServiceImpl) Get(ctx context.Context, user models.UserContext) (*dto.PreferencesResponse, error) {
	prefs, err := s.preferences.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("error getting preferences: %w", err)
	}
	if prefs == nil {
		return &dto.PreferencesResponse{UserID: user.ID}, nil
	}

	resp := dto.FromPreferences(prefs)
	return &resp, nil
}

// Upsert replaces the user's preferences whole. There is no partial merge;
// the request is the new state.
func (s *preferenceServiceImpl) Upsert(ctx context.Context, user models.UserContext, req *dto.UpsertPreferencesRequest) (*dto.PreferencesResponse, error) {
	prefs := &models.StudentPreferences{
		UserID:           user.ID,
		Industries:       req.Industries,
		AgeGroups:        req.AgeGroups,
		OpportunityTypes: req.OpportunityTypes,
		Locations:        req.Locations,
	}

	saved, err := s.preferences.Upsert(ctx, prefs)
	if err != nil {
		return nil, fmt.Errorf("error saving preferences: %w", err)
	}

	s.logger.Info().Int64("userId", user.ID).Msg("Preferences saved")

	resp := dto.FromPreferences(saved)
	return &resp, nil
}
