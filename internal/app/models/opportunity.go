package models

import "time"

// OpportunityType categorizes what kind of opening an opportunity is.
type OpportunityType string

const (
	OpportunityInternship  OpportunityType = "INTERNSHIP"
	OpportunityWorkshop    OpportunityType = "WORKSHOP"
	OpportunityScholarship OpportunityType = "SCHOLARSHIP"
)

// Opportunity defines the opportunity model based on the 'opportunities'
// table. An opportunity is owned by a school unless it is global; explicit
// cross-tenant visibility is granted through VisibleToSchools.
type Opportunity struct {
	ID                  int64           `json:"id" db:"id"`
	Title               string          `json:"title" db:"title" example:"Summer Robotics Internship"`
	Description         string          `json:"description" db:"description"`
	Industry            string          `json:"industry" db:"industry" example:"tech"`
	Type                OpportunityType `json:"type" db:"opportunity_type" example:"INTERNSHIP"`
	AgeGroup            string          `json:"ageGroup" db:"age_group" example:"16-18"`
	Location            string          `json:"location" db:"location" example:"Leeds"`
	CreatedByID         int64           `json:"createdById" db:"created_by_id"`        // Weak reference; the creator may be deleted later
	SchoolID            *int64          `json:"schoolId,omitempty" db:"school_id"`     // Owning school; nil only when the opportunity is global
	IsGlobal            bool            `json:"isGlobal" db:"is_global"`               // Visible to every school; settable only by superadmins
	VisibleToSchools    []int64         `json:"visibleToSchools" db:"visible_to_schools"`
	NumberOfSpaces      *int            `json:"numberOfSpaces,omitempty" db:"number_of_spaces"` // nil means unlimited capacity
	StartDate           *time.Time      `json:"startDate,omitempty" db:"start_date"`
	EndDate             *time.Time      `json:"endDate,omitempty" db:"end_date"`
	ApplicationDeadline *time.Time      `json:"applicationDeadline,omitempty" db:"application_deadline"`
	CreatedAt           time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time       `json:"updatedAt" db:"updated_at"`

	// Related entities
	School      *School `json:"school,omitempty"`
	Attachments []*File `json:"attachments,omitempty"`
}

// DeadlinePassed reports whether the application deadline is behind the given
// instant. Opportunities without a deadline never expire.
func (o *Opportunity) DeadlinePassed(now time.Time) bool {
	return o.ApplicationDeadline != nil && o.ApplicationDeadline.Before(now)
}
