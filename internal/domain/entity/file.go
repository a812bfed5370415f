package entity

import "time"

// Folder groups files in the agency file browser
type Folder struct {
	ID         string    `json:"id"`
	AgencyID   string    `json:"agency_id"`
	Name       string    `json:"name"`
	FileCount  int       `json:"file_count"`
	TotalBytes int64     `json:"total_bytes"`
	CreatedAt  time.Time `json:"created_at"`
}

// File is an uploaded document or image
type File struct {
	ID            string    `json:"id"`
	AgencyID      string    `json:"agency_id"`
	FolderID      string    `json:"folder_id,omitempty"`
	FolderName    string    `json:"folder"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	SizeBytes     int64     `json:"size_bytes"`
	Size          string    `json:"size"`
	StoragePath   string    `json:"-"`
	ThumbnailPath string    `json:"-"`
	ThumbnailURL  string    `json:"thumbnail_url,omitempty"`
	UploadedBy    string    `json:"uploaded_by"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

// FileShare is a tokenized share link for a file
type FileShare struct {
	ID         string     `json:"id"`
	FileID     string     `json:"file_id"`
	AgencyID   string     `json:"-"`
	Token      string     `json:"token"`
	Recipients []string   `json:"recipients"`
	Permission string     `json:"permission"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// StorageUsage reports bytes used against the plan limit
type StorageUsage struct {
	UsedBytes  int64   `json:"used_bytes"`
	LimitBytes int64   `json:"limit_bytes"`
	Percent    float64 `json:"percent"`
	FileCount  int     `json:"file_count"`
}
