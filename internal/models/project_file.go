package models

import "time"

// ProjectFile is immutable once attached; rows are appended at project
// creation and check-in only.
type ProjectFile struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	ProjectID    uint64    `gorm:"not null;index" json:"project_id"`
	OriginalName string    `gorm:"type:varchar(255);not null" json:"original_name"`
	StoredName   string    `gorm:"type:varchar(255);not null" json:"stored_name"`
	MimeType     string    `gorm:"type:varchar(127)" json:"mime_type"`
	Size         int64     `gorm:"not null" json:"size"`
	UploaderID   uint64    `gorm:"not null" json:"uploader_id"`
	Path         string    `gorm:"type:varchar(512);not null" json:"path"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Uploader User `gorm:"foreignKey:UploaderID" json:"uploader,omitempty"`
}
