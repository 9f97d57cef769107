package dto

import (
	"time"
)

// InterestResponse represents a student's registration on an opportunity
type InterestResponse struct {
	ID               int64     `json:"id"`
	StudentID        int64     `json:"studentId"`
	OpportunityID    int64     `json:"opportunityId"`
	RegistrationDate time.Time `json:"registrationDate"`
	SpacesLeft       *int      `json:"spacesLeft,omitempty"` // null means unbounded
}

// AttendeeResponse represents one registered student on an attendee listing
type AttendeeResponse struct {
	StudentID        int64     `json:"studentId"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Email            string    `json:"email"`
	RegistrationDate time.Time `json:"registrationDate"`
}

// AttendeeListResponse represents the attendees of a single opportunity
type AttendeeListResponse struct {
	OpportunityID int64              `json:"opportunityId"`
	Attendees     []AttendeeResponse `json:"attendees"`
	SpacesLeft    *int               `json:"spacesLeft,omitempty"`
}
