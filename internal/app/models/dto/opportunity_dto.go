package dto

import (
	"time"

	"github.com/evrim/opphub/internal/app/models"
)

// CreateOpportunityRequest represents the payload for creating an opportunity.
// SchoolID and IsGlobal are honored only for roles that may edit all
// opportunities; for everyone else they are overwritten server-side.
type CreateOpportunityRequest struct {
	Title               string     `json:"title" binding:"required,max=200"`
	Description         string     `json:"description" binding:"required"`
	Industry            string     `json:"industry" binding:"required,max=100"`
	Type                string     `json:"type" binding:"required,oneof=INTERNSHIP WORKSHOP SCHOLARSHIP"`
	AgeGroup            string     `json:"ageGroup" binding:"max=50"`
	Location            string     `json:"location" binding:"max=200"`
	SchoolID            *int64     `json:"schoolId,omitempty"`
	IsGlobal            bool       `json:"isGlobal"`
	VisibleToSchools    []int64    `json:"visibleToSchools"`
	NumberOfSpaces      *int       `json:"numberOfSpaces,omitempty" binding:"omitempty,min=1"`
	StartDate           *time.Time `json:"startDate,omitempty"`
	EndDate             *time.Time `json:"endDate,omitempty"`
	ApplicationDeadline *time.Time `json:"applicationDeadline,omitempty"`
}

// UpdateOpportunityRequest represents the payload for updating an opportunity
type UpdateOpportunityRequest struct {
	Title               string     `json:"title" binding:"required,max=200"`
	Description         string     `json:"description" binding:"required"`
	Industry            string     `json:"industry" binding:"required,max=100"`
	Type                string     `json:"type" binding:"required,oneof=INTERNSHIP WORKSHOP SCHOLARSHIP"`
	AgeGroup            string     `json:"ageGroup" binding:"max=50"`
	Location            string     `json:"location" binding:"max=200"`
	SchoolID            *int64     `json:"schoolId,omitempty"`
	IsGlobal            *bool      `json:"isGlobal,omitempty"`
	VisibleToSchools    []int64    `json:"visibleToSchools"`
	NumberOfSpaces      *int       `json:"numberOfSpaces,omitempty" binding:"omitempty,min=1"`
	StartDate           *time.Time `json:"startDate,omitempty"`
	EndDate             *time.Time `json:"endDate,omitempty"`
	ApplicationDeadline *time.Time `json:"applicationDeadline,omitempty"`
}

// OpportunityFilterRequest represents listing filter parameters
type OpportunityFilterRequest struct {
	Search   *string `form:"search,omitempty"`
	Type     *string `form:"type,omitempty"`
	Industry *string `form:"industry,omitempty"`
	Page     int     `form:"page,default=1" binding:"min=1"`
	PageSize int     `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// OpportunityResponse represents an opportunity in API replies
type OpportunityResponse struct {
	ID                  int64          `json:"id"`
	Title               string         `json:"title"`
	Description         string         `json:"description"`
	Industry            string         `json:"industry"`
	Type                string         `json:"type"`
	AgeGroup            string         `json:"ageGroup,omitempty"`
	Location            string         `json:"location,omitempty"`
	CreatedByID         int64          `json:"createdById"`
	SchoolID            *int64         `json:"schoolId,omitempty"`
	SchoolName          string         `json:"schoolName,omitempty"`
	IsGlobal            bool           `json:"isGlobal"`
	VisibleToSchools    []int64        `json:"visibleToSchools,omitempty"`
	NumberOfSpaces      *int           `json:"numberOfSpaces,omitempty"` // null means unlimited
	SpacesLeft          *int           `json:"spacesLeft,omitempty"`     // null means unbounded
	DeadlinePassed      bool           `json:"deadlinePassed"`
	StartDate           *time.Time     `json:"startDate,omitempty"`
	EndDate             *time.Time     `json:"endDate,omitempty"`
	ApplicationDeadline *time.Time     `json:"applicationDeadline,omitempty"`
	Attachments         []FileResponse `json:"attachments,omitempty"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

// OpportunityListResponse represents the response for an opportunity listing
type OpportunityListResponse struct {
	Opportunities []OpportunityResponse `json:"opportunities"`
	Pagination    PaginationInfo        `json:"pagination"`
}

// FileResponse represents an attached document
type FileResponse struct {
	ID       int64  `json:"id"`
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
	FileSize int64  `json:"fileSize"`
	FileType string `json:"fileType"`
}

// FromOpportunity converts a model to its response form. spacesLeft and
// deadlinePassed are derived by the service and passed in.
func FromOpportunity(opp *models.Opportunity, spacesLeft *int, deadlinePassed bool) OpportunityResponse {
	if opp == nil {
		return OpportunityResponse{}
	}

	resp := OpportunityResponse{
		ID:                  opp.ID,
		Title:               opp.Title,
		Description:         opp.Description,
		Industry:            opp.Industry,
		Type:                string(opp.Type),
		AgeGroup:            opp.AgeGroup,
		Location:            opp.Location,
		CreatedByID:         opp.CreatedByID,
		SchoolID:            opp.SchoolID,
		IsGlobal:            opp.IsGlobal,
		VisibleToSchools:    opp.VisibleToSchools,
		NumberOfSpaces:      opp.NumberOfSpaces,
		SpacesLeft:          spacesLeft,
		DeadlinePassed:      deadlinePassed,
		StartDate:           opp.StartDate,
		EndDate:             opp.EndDate,
		ApplicationDeadline: opp.ApplicationDeadline,
		CreatedAt:           opp.CreatedAt,
		UpdatedAt:           opp.UpdatedAt,
	}

	if opp.School != nil {
		resp.SchoolName = opp.School.Name
	}

	for _, f := range opp.Attachments {
		resp.Attachments = append(resp.Attachments, FileResponse{
			ID:       f.ID,
			FileName: f.FileName,
			FileURL:  f.FileURL,
			FileSize: f.FileSize,
			FileType: f.FileType,
		})
	}

	return resp
}
