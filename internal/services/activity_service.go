package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/retrohub/retrohub-api/internal/models"
	"github.com/retrohub/retrohub-api/internal/repository"
	"gorm.io/gorm"
)

var ErrMessageRequired = errors.New("message is required")

// ActivityService exposes the append-only project activity log.
type ActivityService struct {
	activityRepo repository.ActivityRepository
	projectRepo  repository.ProjectRepository
}

// NewActivityService creates a new ActivityService.
func NewActivityService(activityRepo repository.ActivityRepository, projectRepo repository.ProjectRepository) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		projectRepo:  projectRepo,
	}
}

// ListForProject returns a project's activity entries, newest first.
func (s *ActivityService) ListForProject(projectID uint64) ([]models.Activity, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	activities, err := s.activityRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return activities, nil
}

// PostMessage appends a free-text message to a project's log. Member only.
func (s *ActivityService) PostMessage(actorID, projectID uint64, message string) (*models.Activity, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrMessageRequired
	}

	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if _, err := s.projectRepo.FindMember(projectID, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotProjectMember
		}
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	activity := &models.Activity{
		ProjectID: projectID,
		UserID:    actorID,
		Action:    models.ActionMessage,
		Message:   message,
	}
	if err := s.activityRepo.Create(activity); err != nil {
		return nil, fmt.Errorf("failed to post message: %w", err)
	}

	return activity, nil
}
