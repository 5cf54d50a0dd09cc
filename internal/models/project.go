package models

import (
	"time"

	"gorm.io/gorm"
)

type CheckoutStatus string

const (
	CheckoutStatusCheckedIn  CheckoutStatus = "checked-in"
	CheckoutStatusCheckedOut CheckoutStatus = "checked-out"
)

type Project struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	Description    string         `gorm:"type:text;not null" json:"description"`
	Type           string         `gorm:"type:varchar(50);not null" json:"type"`
	Version        string         `gorm:"type:varchar(50)" json:"version"`
	Tags           []string       `gorm:"serializer:json;type:text" json:"tags"`
	OwnerID        uint64         `gorm:"not null" json:"owner_id"`
	CheckoutStatus CheckoutStatus `gorm:"type:varchar(20);not null;default:'checked-in'" json:"checkout_status"`
	CheckedOutBy   *uint64        `json:"checked_out_by"`
	Downloads      uint64         `gorm:"not null;default:0" json:"downloads"`
	ImagePath      string         `gorm:"type:varchar(512)" json:"image_path"`
	LastActivityAt time.Time      `json:"last_activity_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner      User            `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members    []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Files      []ProjectFile   `gorm:"foreignKey:ProjectID" json:"files,omitempty"`
	Activities []Activity      `gorm:"foreignKey:ProjectID" json:"activities,omitempty"`
}
