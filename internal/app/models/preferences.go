package models

import "time"

// StudentPreferences holds a student's saved filter criteria, based on the
// 'student_preferences' table. At most one row exists per user; writes are
// upserts keyed on UserID and rows are never deleted explicitly.
type StudentPreferences struct {
	ID               int64     `json:"id" db:"id"`
	UserID           int64     `json:"userId" db:"user_id"`
	Industries       []string  `json:"industries" db:"industries"`
	AgeGroups        []string  `json:"ageGroups" db:"age_groups"`
	OpportunityTypes []string  `json:"opportunityTypes" db:"opportunity_types"`
	Locations        []string  `json:"locations" db:"locations"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// IsEmpty reports whether no preference category has any saved value, in
// which case filtering is a no-op.
func (p *StudentPreferences) IsEmpty() bool {
	return len(p.Industries) == 0 && len(p.AgeGroups) == 0 && len(p.OpportunityTypes) == 0
}
