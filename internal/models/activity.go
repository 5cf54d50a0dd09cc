package models

import "time"

const (
	ActionCheckedOut = "checked-out"
	ActionCheckedIn  = "checked-in"
	ActionMessage    = "message"
	ActionUnlocked   = "force-unlocked"
)

// Activity is an append-only log entry; entries are never edited or deleted
// except when their project is deleted.
type Activity struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	ProjectID uint64    `gorm:"not null;index" json:"project_id"`
	UserID    uint64    `gorm:"not null" json:"user_id"`
	Action    string    `gorm:"type:varchar(50);not null" json:"action"`
	Message   string    `gorm:"type:text" json:"message"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
