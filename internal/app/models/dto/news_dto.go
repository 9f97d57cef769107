package dto

import (
	"time"

	"github.com/evrim/opphub/internal/app/models"
)

// CreateNewsRequest represents the payload for posting news
type CreateNewsRequest struct {
	Title string `json:"title" binding:"required,max=200"`
	Body  string `json:"body" binding:"required"`
}

// NewsResponse represents a news post in API replies
type NewsResponse struct {
	ID          int64     `json:"id"`
	SchoolID    *int64    `json:"schoolId,omitempty"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	CreatedByID int64     `json:"createdById"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewsListResponse represents the response for a news listing
type NewsListResponse struct {
	Posts      []NewsResponse `json:"posts"`
	Pagination PaginationInfo `json:"pagination"`
}

// FromNewsPost converts the model to its response form
func FromNewsPost(n *models.NewsPost) NewsResponse {
	if n == nil {
		return NewsResponse{}
	}
	return NewsResponse{
		ID:          n.ID,
		SchoolID:    n.SchoolID,
		Title:       n.Title,
		Body:        n.Body,
		CreatedByID: n.CreatedByID,
		CreatedAt:   n.CreatedAt,
	}
}
