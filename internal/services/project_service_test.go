package services

import (
	"testing"
	"time"

	"github.com/retrohub/retrohub-api/internal/models"
	"github.com/retrohub/retrohub-api/internal/repository"
	"github.com/retrohub/retrohub-api/internal/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProjectServiceTest(t *testing.T) (*gorm.DB, *storage.FileStore) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Friendship{},
		&models.ProjectType{},
		&models.Project{},
		&models.ProjectMember{},
		&models.ProjectFile{},
		&models.Activity{},
	)
	require.NoError(t, err)

	fileStore, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, fileStore
}

// unlockingProjectRepo clears the lock right before delegating the check-in,
// standing in for an admin unlock that lands while the request is in flight.
type unlockingProjectRepo struct {
	repository.ProjectRepository
	db *gorm.DB
}

func (r *unlockingProjectRepo) Checkin(projectID, actorID uint64, version, message string, files []models.ProjectFile) (bool, error) {
	r.db.Model(&models.Project{}).
		Where("id = ?", projectID).
		Updates(map[string]interface{}{
			"checkout_status": models.CheckoutStatusCheckedIn,
			"checked_out_by":  nil,
		})
	return r.ProjectRepository.Checkin(projectID, actorID, version, message, files)
}

// TestCheckin_LockClearedMidRequest covers a rejected check-in racing a
// concurrent transition: the error must reflect the row's state at decision
// time, not the copy loaded at the start of the request.
func TestCheckin_LockClearedMidRequest(t *testing.T) {
	db, fileStore := setupProjectServiceTest(t)

	holder := &models.User{Username: "holder", Email: "holder@example.com", PasswordHash: "hashedpassword"}
	require.NoError(t, db.Create(holder).Error)
	member := &models.User{Username: "member", Email: "member@example.com", PasswordHash: "hashedpassword"}
	require.NoError(t, db.Create(member).Error)

	project := &models.Project{
		Name:           "Space Raiders",
		Description:    "A retro space shooter",
		Type:           "game",
		OwnerID:        holder.ID,
		CheckoutStatus: models.CheckoutStatusCheckedOut,
		CheckedOutBy:   &holder.ID,
		LastActivityAt: time.Now(),
	}
	require.NoError(t, db.Create(project).Error)
	require.NoError(t, db.Create(&models.ProjectMember{ProjectID: project.ID, UserID: holder.ID, JoinedAt: time.Now()}).Error)
	require.NoError(t, db.Create(&models.ProjectMember{ProjectID: project.ID, UserID: member.ID, JoinedAt: time.Now()}).Error)

	projectRepo := &unlockingProjectRepo{
		ProjectRepository: repository.NewProjectRepository(db),
		db:                db,
	}
	service := NewProjectService(
		projectRepo,
		repository.NewProjectTypeRepository(db),
		repository.NewFriendshipRepository(db),
		repository.NewUserRepository(db),
		fileStore,
		nil,
	)

	// The member saw the project checked out to someone else, but by the
	// time the transition runs the lock is gone. The row is checked in, so
	// the rejection must say "not checked out" rather than blame the holder.
	_, err := service.Checkin(CheckinInput{
		ProjectID: project.ID,
		ActorID:   member.ID,
		Version:   "1.1.0",
	})
	require.ErrorIs(t, err, ErrProjectNotCheckedOut)
}
