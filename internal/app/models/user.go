package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`                                                  // Unique identifier for the user
	Email       string     `json:"email" db:"email" example:"user@school.edu"`                              // User's email address
	Password    string     `json:"-" db:"password"`                                                         // User's hashed password (excluded from JSON)
	FirstName   string     `json:"firstName" db:"first_name" example:"John"`                                // User's first name
	LastName    string     `json:"lastName" db:"last_name" example:"Doe"`                                   // User's last name
	RoleID      int64      `json:"roleId" db:"role_id" example:"2"`                                         // Reference to the user's role
	SchoolID    *int64     `json:"schoolId,omitempty" db:"school_id" example:"3"`                           // Owning school; nil only for platform-level superadmins
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`                                  // Whether the user account is active
	CreatedAt   time.Time  `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`                // Timestamp when the user was created
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`                // Timestamp when the user was last updated
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at" example:"2024-04-20T18:00:00Z"` // Timestamp of the last login (nullable)

	// Related entities
	Role   *Role   `json:"role,omitempty"`
	School *School `json:"school,omitempty"`
}

// UserContext is the resolved identity a request carries into the access and
// registration layers: who the caller is, which school they belong to and
// which capabilities their role grants.
type UserContext struct {
	ID       int64
	SchoolID *int64
	Role     RoleCapabilities
}

// Context returns the UserContext for this user. The role must have been
// loaded alongside the user; a missing role grants nothing.
func (u *User) Context() UserContext {
	ctx := UserContext{ID: u.ID, SchoolID: u.SchoolID}
	if u.Role != nil {
		ctx.Role = u.Role.RoleCapabilities
	}
	return ctx
}
