package models

import "time"

// FileType represents what resource a stored file belongs to
type FileType string

const (
	FileTypeOpportunityDocument FileType = "OPPORTUNITY_DOCUMENT"
	FileTypeSchoolLogo          FileType = "SCHOOL_LOGO"
)

// File represents a stored document in the system
type File struct {
	ID           int64     `json:"id" db:"id"`
	FileName     string    `json:"fileName" db:"file_name"`
	FilePath     string    `json:"filePath" db:"file_path"`
	FileURL      string    `json:"fileUrl" db:"file_url"`
	FileSize     int64     `json:"fileSize" db:"file_size"`
	FileType     string    `json:"fileType" db:"file_type"` // MIME type
	ResourceType FileType  `json:"resourceType" db:"resource_type"`
	ResourceID   int64     `json:"resourceId" db:"resource_id"`
	UploadedBy   int64     `json:"uploadedBy" db:"uploaded_by"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
