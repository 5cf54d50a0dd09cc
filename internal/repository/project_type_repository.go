package repository

import (
	"github.com/retrohub/retrohub-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectTypeRepository is a GORM implementation of ProjectTypeRepository
type GormProjectTypeRepository struct {
	db *gorm.DB
}

// NewProjectTypeRepository creates a new ProjectTypeRepository
func NewProjectTypeRepository(db *gorm.DB) ProjectTypeRepository {
	return &GormProjectTypeRepository{db: db}
}

func (r *GormProjectTypeRepository) Create(pt *models.ProjectType) error {
	return r.db.Create(pt).Error
}

func (r *GormProjectTypeRepository) FindByID(id uint64) (*models.ProjectType, error) {
	var pt models.ProjectType
	if err := r.db.First(&pt, id).Error; err != nil {
		return nil, err
	}
	return &pt, nil
}

func (r *GormProjectTypeRepository) FindByName(name string) (*models.ProjectType, error) {
	var pt models.ProjectType
	if err := r.db.Where("name = ?", name).First(&pt).Error; err != nil {
		return nil, err
	}
	return &pt, nil
}

func (r *GormProjectTypeRepository) List() ([]models.ProjectType, error) {
	var types []models.ProjectType
	if err := r.db.Order("name ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *GormProjectTypeRepository) Update(pt *models.ProjectType) error {
	return r.db.Save(pt).Error
}

func (r *GormProjectTypeRepository) Delete(id uint64) error {
	return r.db.Delete(&models.ProjectType{}, id).Error
}

// CountProjectsUsing counts live projects referencing a type name
func (r *GormProjectTypeRepository) CountProjectsUsing(name string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Where("type = ?", name).Count(&count).Error
	return count, err
}
