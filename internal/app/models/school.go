package models

import "time"

// School defines the school model based on the 'schools' table. A school is
// the tenant boundary: it owns users and opportunities, and default
// visibility never crosses it.
type School struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" example:"Northfield High"`
	LogoURL   *string   `json:"logoUrl,omitempty" db:"logo_url"` // Optional branding (nullable)
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
