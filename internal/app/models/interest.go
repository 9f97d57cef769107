package models

import "time"

// StudentInterest represents a student's claim on one of an opportunity's
// spaces, based on the 'student_interests' table. The (student, opportunity)
// pair is unique; rows are only ever created or deleted, never updated.
type StudentInterest struct {
	ID               int64     `json:"id" db:"id"`
	StudentID        int64     `json:"studentId" db:"student_id"`
	OpportunityID    int64     `json:"opportunityId" db:"opportunity_id"`
	RegistrationDate time.Time `json:"registrationDate" db:"registration_date"`

	// Related entities
	Student *User `json:"student,omitempty"`
}
