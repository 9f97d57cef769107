package dto

import (
	"time"

	"github.com/evrim/opphub/internal/app/models"
)

// CreateUserRequest represents the payload for creating a platform user
type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	RoleName  string `json:"roleName" binding:"required,oneof=STUDENT TEACHER MODERATOR ADMIN SUPERADMIN"`
	SchoolID  *int64 `json:"schoolId,omitempty"`
}

// UpdateUserRequest represents the payload for updating a user
type UpdateUserRequest struct {
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	RoleName  string `json:"roleName" binding:"required,oneof=STUDENT TEACHER MODERATOR ADMIN SUPERADMIN"`
	SchoolID  *int64 `json:"schoolId,omitempty"`
	IsActive  *bool  `json:"isActive,omitempty"`
}

// UserResponse represents a user in API replies
type UserResponse struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	RoleName    string     `json:"roleName,omitempty"`
	SchoolID    *int64     `json:"schoolId,omitempty"`
	SchoolName  string     `json:"schoolName,omitempty"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// UserListResponse represents the response for a user listing
type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination PaginationInfo `json:"pagination"`
}

// FromUser converts the model to its response form
func FromUser(u *models.User) UserResponse {
	if u == nil {
		return UserResponse{}
	}

	resp := UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		SchoolID:    u.SchoolID,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}

	if u.Role != nil {
		resp.RoleName = u.Role.Name
	}
	if u.School != nil {
		resp.SchoolName = u.School.Name
	}

	return resp
}
