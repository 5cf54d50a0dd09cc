package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/retrohub/retrohub-api/internal/constants"
	"github.com/retrohub/retrohub-api/internal/models"
	"github.com/retrohub/retrohub-api/internal/repository"
	"github.com/retrohub/retrohub-api/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrProjectTypeNotFound = errors.New("project type not found")
	ErrProjectTypeTaken    = errors.New("project type already exists")
	ErrProjectTypeInUse    = errors.New("project type is still used by existing projects")
	ErrInvalidUserRole     = errors.New("role must be user or admin")
)

// AdminService provides the admin-only management operations.
type AdminService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	typeRepo    repository.ProjectTypeRepository
	fileStore   *storage.FileStore
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	userRepo repository.UserRepository,
	projectRepo repository.ProjectRepository,
	typeRepo repository.ProjectTypeRepository,
	fileStore *storage.FileStore,
) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		typeRepo:    typeRepo,
		fileStore:   fileStore,
	}
}

// ListUsers returns users with optional term filtering.
func (s *AdminService) ListUsers(term string, page, pageSize int) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(repository.UserFilter{
		Term:     term,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// UpdateUserInput holds the admin-editable user fields.
type UpdateUserInput struct {
	FullName *string
	Bio      *string
	Role     *string
}

// UpdateUser edits a user's profile or role.
func (s *AdminService) UpdateUser(userID uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Role != nil {
		role := models.UserRole(*input.Role)
		if role != models.RoleUser && role != models.RoleAdmin {
			return nil, ErrInvalidUserRole
		}
		user.Role = role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes a user along with memberships and friendships.
func (s *AdminService) DeleteUser(userID uint64) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// ListProjects returns all projects with optional term filtering.
func (s *AdminService) ListProjects(term string, page, pageSize int) ([]models.Project, int64, error) {
	projects, total, err := s.projectRepo.List(repository.ProjectFilter{
		Term:     term,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// UpdateProjectInput holds the admin-editable project fields.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Type        *string
	Version     *string
	Tags        []string
}

// UpdateProject edits project metadata regardless of ownership. Checkout
// state, membership, and files are untouched.
func (s *AdminService) UpdateProject(projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if len(name) < constants.MinProjectNameLength {
			return nil, ErrProjectNameTooShort
		}
		project.Name = name
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if len(description) < constants.MinProjectDescriptionLength {
			return nil, ErrProjectDescTooShort
		}
		project.Description = description
	}
	if input.Type != nil {
		if _, err := s.typeRepo.FindByName(*input.Type); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnknownProjectType
			}
			return nil, fmt.Errorf("failed to check project type: %w", err)
		}
		project.Type = *input.Type
	}
	if input.Version != nil {
		project.Version = *input.Version
	}
	if input.Tags != nil {
		project.Tags = input.Tags
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes any project regardless of ownership.
func (s *AdminService) DeleteProject(projectID uint64) error {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if err := s.fileStore.RemoveProject(projectID); err != nil {
		return fmt.Errorf("failed to remove stored files: %w", err)
	}

	return nil
}

// ForceUnlock clears a stuck checkout. The unlock is logged as an activity
// entry so members can see who cleared it.
func (s *AdminService) ForceUnlock(adminID, projectID uint64) (*models.Project, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	ok, err := s.projectRepo.ForceUnlock(projectID, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to unlock project: %w", err)
	}
	if !ok {
		return nil, ErrProjectNotCheckedOut
	}

	return s.projectRepo.FindByID(projectID, "Owner")
}

// ListProjectTypes returns the managed type list.
func (s *AdminService) ListProjectTypes() ([]models.ProjectType, error) {
	types, err := s.typeRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list project types: %w", err)
	}
	return types, nil
}

// CreateProjectType adds a new type to the list.
func (s *AdminService) CreateProjectType(name, description string) (*models.ProjectType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("project type name is required")
	}

	if _, err := s.typeRepo.FindByName(name); err == nil {
		return nil, ErrProjectTypeTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check project type: %w", err)
	}

	pt := &models.ProjectType{
		Name:        name,
		Description: description,
	}
	if err := s.typeRepo.Create(pt); err != nil {
		return nil, fmt.Errorf("failed to create project type: %w", err)
	}

	return pt, nil
}

// UpdateProjectType edits a type's description. The name is immutable since
// projects reference types by name.
func (s *AdminService) UpdateProjectType(typeID uint64, description string) (*models.ProjectType, error) {
	pt, err := s.typeRepo.FindByID(typeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectTypeNotFound
		}
		return nil, fmt.Errorf("failed to find project type: %w", err)
	}

	pt.Description = description
	if err := s.typeRepo.Update(pt); err != nil {
		return nil, fmt.Errorf("failed to update project type: %w", err)
	}

	return pt, nil
}

// DeleteProjectType removes a type that no live project uses.
func (s *AdminService) DeleteProjectType(typeID uint64) error {
	pt, err := s.typeRepo.FindByID(typeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectTypeNotFound
		}
		return fmt.Errorf("failed to find project type: %w", err)
	}

	count, err := s.typeRepo.CountProjectsUsing(pt.Name)
	if err != nil {
		return fmt.Errorf("failed to count projects using type: %w", err)
	}
	if count > 0 {
		return ErrProjectTypeInUse
	}

	if err := s.typeRepo.Delete(typeID); err != nil {
		return fmt.Errorf("failed to delete project type: %w", err)
	}

	return nil
}
