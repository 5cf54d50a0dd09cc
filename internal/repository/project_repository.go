package repository

import (
	"time"

	"github.com/retrohub/retrohub-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create persists a project, its owner membership, and any initial files
// in one transaction
func (r *GormProjectRepository) Create(project *models.Project, files []models.ProjectFile) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		member := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    project.OwnerID,
			JoinedAt:  time.Now(),
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		for i := range files {
			files[i].ProjectID = project.ID
		}
		if len(files) > 0 {
			if err := tx.Create(&files).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes a project and all related data in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Activity{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectFile{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// List retrieves projects with filtering and pagination
func (r *GormProjectRepository) List(filter ProjectFilter) ([]models.Project, int64, error) {
	var projects []models.Project

	query := r.db.Model(&models.Project{})

	if filter.OwnerIDs != nil {
		if len(filter.OwnerIDs) == 0 {
			return []models.Project{}, 0, nil
		}
		query = query.Where("projects.owner_id IN ?", filter.OwnerIDs)
	}
	if filter.Term != "" {
		pattern := "%" + filter.Term + "%"
		query = query.Where("projects.name LIKE ? OR projects.description LIKE ?", pattern, pattern)
	}
	if filter.Tag != "" {
		// Tags are stored as a JSON array; a quoted LIKE matches whole tags.
		query = query.Where("projects.tags LIKE ?", "%\""+filter.Tag+"\"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query
	if filter.SortByDownloads {
		listQuery = listQuery.Order("projects.downloads DESC")
	} else {
		listQuery = listQuery.Order("projects.last_activity_at DESC")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	if err := listQuery.Preload("Owner").Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// AddFiles appends file records to a project
func (r *GormProjectRepository) AddFiles(projectID uint64, files []models.ProjectFile) error {
	if len(files) == 0 {
		return nil
	}
	for i := range files {
		files[i].ProjectID = projectID
	}
	return r.db.Create(&files).Error
}

// AddMember adds a member to a project
func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.Create(member).Error
}

// RemoveMember removes a member from a project
func (r *GormProjectRepository) RemoveMember(projectID, userID uint64) error {
	return r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{}).Error
}

// FindMember finds a specific project member
func (r *GormProjectRepository) FindMember(projectID, userID uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of a project
func (r *GormProjectRepository) ListMembers(projectID uint64) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// TransferOwnership sets a new owner on the project
func (r *GormProjectRepository) TransferOwnership(projectID, newOwnerID uint64) error {
	return r.db.Model(&models.Project{}).
		Where("id = ?", projectID).
		Update("owner_id", newOwnerID).Error
}

// IncrementDownloads bumps the download counter unconditionally
func (r *GormProjectRepository) IncrementDownloads(projectID uint64) error {
	res := r.db.Model(&models.Project{}).
		Where("id = ?", projectID).
		Update("downloads", gorm.Expr("downloads + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Checkout transitions checked-in -> checked-out(actor). The state check and
// the transition are a single conditional UPDATE so two concurrent callers
// serialize at the storage layer and exactly one wins.
func (r *GormProjectRepository) Checkout(projectID, actorID uint64) (bool, error) {
	transitioned := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Project{}).
			Where("id = ? AND checkout_status = ?", projectID, models.CheckoutStatusCheckedIn).
			Updates(map[string]interface{}{
				"checkout_status":  models.CheckoutStatusCheckedOut,
				"checked_out_by":   actorID,
				"last_activity_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		activity := models.Activity{
			ProjectID: projectID,
			UserID:    actorID,
			Action:    models.ActionCheckedOut,
		}
		if err := tx.Create(&activity).Error; err != nil {
			return err
		}

		transitioned = true
		return nil
	})

	return transitioned, err
}

// Checkin transitions checked-out(actor) -> checked-in. The holder check is
// part of the conditional UPDATE, so a non-holder can never flip the state.
func (r *GormProjectRepository) Checkin(projectID, actorID uint64, version, message string, files []models.ProjectFile) (bool, error) {
	transitioned := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Project{}).
			Where("id = ? AND checkout_status = ? AND checked_out_by = ?",
				projectID, models.CheckoutStatusCheckedOut, actorID).
			Updates(map[string]interface{}{
				"checkout_status":  models.CheckoutStatusCheckedIn,
				"checked_out_by":   nil,
				"version":          version,
				"last_activity_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		for i := range files {
			files[i].ProjectID = projectID
		}
		if len(files) > 0 {
			if err := tx.Create(&files).Error; err != nil {
				return err
			}
		}

		activity := models.Activity{
			ProjectID: projectID,
			UserID:    actorID,
			Action:    models.ActionCheckedIn,
			Message:   message,
		}
		if err := tx.Create(&activity).Error; err != nil {
			return err
		}

		transitioned = true
		return nil
	})

	return transitioned, err
}

// ForceUnlock clears a checkout regardless of holder (admin action)
func (r *GormProjectRepository) ForceUnlock(projectID, adminID uint64) (bool, error) {
	transitioned := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Project{}).
			Where("id = ? AND checkout_status = ?", projectID, models.CheckoutStatusCheckedOut).
			Updates(map[string]interface{}{
				"checkout_status":  models.CheckoutStatusCheckedIn,
				"checked_out_by":   nil,
				"last_activity_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		activity := models.Activity{
			ProjectID: projectID,
			UserID:    adminID,
			Action:    models.ActionUnlocked,
		}
		if err := tx.Create(&activity).Error; err != nil {
			return err
		}

		transitioned = true
		return nil
	})

	return transitioned, err
}
