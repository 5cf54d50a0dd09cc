package repository

import (
	"github.com/retrohub/retrohub-api/internal/models"
	"gorm.io/gorm"
)

// GormActivityRepository is a GORM implementation of ActivityRepository
type GormActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: db}
}

// Create appends a new activity entry
func (r *GormActivityRepository) Create(activity *models.Activity) error {
	return r.db.Create(activity).Error
}

// ListByProject returns entries for a project, newest first
func (r *GormActivityRepository) ListByProject(projectID uint64) ([]models.Activity, error) {
	var activities []models.Activity
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at DESC, id DESC").
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// Search returns entries whose action or message matches the term
func (r *GormActivityRepository) Search(term string) ([]models.Activity, error) {
	var activities []models.Activity
	pattern := "%" + term + "%"
	if err := r.db.Preload("User").
		Where("action LIKE ? OR message LIKE ?", pattern, pattern).
		Order("created_at DESC, id DESC").
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}
