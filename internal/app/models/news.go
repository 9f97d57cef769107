package models

import "time"

// NewsPost defines the news model based on the 'news_posts' table. Posts are
// scoped to a school; a nil SchoolID marks a platform-wide announcement.
type NewsPost struct {
	ID          int64     `json:"id" db:"id"`
	SchoolID    *int64    `json:"schoolId,omitempty" db:"school_id"`
	Title       string    `json:"title" db:"title"`
	Body        string    `json:"body" db:"body"`
	CreatedByID int64     `json:"createdById" db:"created_by_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
