package dto

import (
	"time"

	"github.com/evrim/opphub/internal/app/models"
)

// UpsertPreferencesRequest represents the payload for saving a student's
// filter preferences. The write is an upsert: at most one preference row
// exists per user and saving overwrites it whole.
type UpsertPreferencesRequest struct {
	Industries       []string `json:"industries"`
	AgeGroups        []string `json:"ageGroups"`
	OpportunityTypes []string `json:"opportunityTypes" binding:"omitempty,dive,oneof=INTERNSHIP WORKSHOP SCHOLARSHIP"`
	Locations        []string `json:"locations"`
}

// PreferencesResponse represents saved preferences in API replies
type PreferencesResponse struct {
	UserID           int64     `json:"userId"`
	Industries       []string  `json:"industries"`
	AgeGroups        []string  `json:"ageGroups"`
	OpportunityTypes []string  `json:"opportunityTypes"`
	Locations        []string  `json:"locations"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// FromPreferences converts the model to its response form
func FromPreferences(p *models.StudentPreferences) PreferencesResponse {
	if p == nil {
		return PreferencesResponse{}
	}
	return PreferencesResponse{
		UserID:           p.UserID,
		Industries:       p.Industries,
		AgeGroups:        p.AgeGroups,
		OpportunityTypes: p.OpportunityTypes,
		Locations:        p.Locations,
		UpdatedAt:        p.UpdatedAt,
	}
}
