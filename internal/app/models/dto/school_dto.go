package dto

import (
	"time"

	"github.com/evrim/opphub/internal/app/models"
)

// CreateSchoolRequest represents the payload for creating a school
type CreateSchoolRequest struct {
	Name    string  `json:"name" binding:"required,max=200"`
	LogoURL *string `json:"logoUrl,omitempty" binding:"omitempty,url"`
}

// UpdateSchoolRequest represents the payload for updating a school
type UpdateSchoolRequest struct {
	Name    string  `json:"name" binding:"required,max=200"`
	LogoURL *string `json:"logoUrl,omitempty" binding:"omitempty,url"`
}

// SchoolResponse represents a school in API replies
type SchoolResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	LogoURL   *string   `json:"logoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SchoolListResponse represents the response for a school listing
type SchoolListResponse struct {
	Schools    []SchoolResponse `json:"schools"`
	Pagination PaginationInfo   `json:"pagination"`
}

// FromSchool converts the model to its response form
func FromSchool(s *models.School) SchoolResponse {
	if s == nil {
		return SchoolResponse{}
	}
	return SchoolResponse{
		ID:        s.ID,
		Name:      s.Name,
		LogoURL:   s.LogoURL,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
