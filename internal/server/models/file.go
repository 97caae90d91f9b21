package models

import "time"

// File is uploaded-asset metadata. FileKey and FileURL are set together
// from a successful object-store write; both are nil for metadata-only
// records. UserID is a weak reference to the owning user and may be nil
// (orphaned files are permitted).
type File struct {
	ID              string    `json:"id"`
	FileName        string    `json:"fileName"`
	FileContentType string    `json:"fileContentType"`
	FileDescription string    `json:"fileDescription"`
	FileKey         *string   `json:"fileKey"`
	FileURL         *string   `json:"fileUrl"`
	UserID          *string   `json:"-"`
	Owner           *User     `json:"user,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
