package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/retrohub/retrohub-api/internal/constants"
	"github.com/retrohub/retrohub-api/internal/models"
	"github.com/retrohub/retrohub-api/internal/repository"
	"github.com/retrohub/retrohub-api/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound        = errors.New("project not found")
	ErrProjectNameTooShort    = fmt.Errorf("project name must be at least %d characters", constants.MinProjectNameLength)
	ErrProjectDescTooShort    = fmt.Errorf("project description must be at least %d characters", constants.MinProjectDescriptionLength)
	ErrUnknownProjectType     = errors.New("unknown project type")
	ErrNotProjectOwner        = errors.New("only the project owner can perform this action")
	ErrNotProjectMember       = errors.New("user is not a member of the project")
	ErrAlreadyCheckedOut      = errors.New("project is already checked out")
	ErrProjectNotCheckedOut   = errors.New("project is not checked out")
	ErrNotCheckoutHolder      = errors.New("only the user who checked the project out can check it in")
	ErrVersionRequired        = errors.New("version is required")
	ErrNotFriends             = errors.New("users can only add their friends as members")
	ErrAlreadyProjectMember   = errors.New("user is already a member of this project")
	ErrMemberNotFound         = errors.New("project member not found")
	ErrCannotRemoveOwner      = errors.New("the owner cannot be removed from the project")
	ErrNewOwnerNotMember      = errors.New("ownership can only be transferred to an existing member")
	ErrInvalidFeedScope       = errors.New("feedType must be local or global")
	ErrInvalidFeedSort        = errors.New("sortBy must be recency or popularity")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
)

// ProjectService is the project lifecycle manager: creation, membership,
// ownership transfer, and the checkout/check-in state machine.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	typeRepo    repository.ProjectTypeRepository
	friendRepo  repository.FriendshipRepository
	userRepo    repository.UserRepository
	fileStore   *storage.FileStore
	aiService   *AIService
}

// NewProjectService creates a new ProjectService.
func NewProjectService(
	projectRepo repository.ProjectRepository,
	typeRepo repository.ProjectTypeRepository,
	friendRepo repository.FriendshipRepository,
	userRepo repository.UserRepository,
	fileStore *storage.FileStore,
	aiService *AIService,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		typeRepo:    typeRepo,
		friendRepo:  friendRepo,
		userRepo:    userRepo,
		fileStore:   fileStore,
		aiService:   aiService,
	}
}

// CreateProjectInput represents input for creating a project.
type CreateProjectInput struct {
	OwnerID     uint64
	Name        string
	Description string
	Type        string
	Version     string
	Tags        []string
	Image       *multipart.FileHeader
	Files       []*multipart.FileHeader
}

// CreateProject validates input, persists the project with the owner as sole
// member and checkout state checked-in, and attaches any initial files.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)

	if len(name) < constants.MinProjectNameLength {
		return nil, ErrProjectNameTooShort
	}
	if len(description) < constants.MinProjectDescriptionLength {
		return nil, ErrProjectDescTooShort
	}
	if err := s.ensureTypeExists(input.Type); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:           name,
		Description:    description,
		Type:           input.Type,
		Version:        input.Version,
		Tags:           input.Tags,
		OwnerID:        input.OwnerID,
		CheckoutStatus: models.CheckoutStatusCheckedIn,
	}

	if err := s.projectRepo.Create(project, nil); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	project.LastActivityAt = project.CreatedAt

	if err := s.attachUploads(project, input.OwnerID, input.Image, input.Files); err != nil {
		// Creation is all-or-nothing: roll the project back if uploads fail.
		_ = s.projectRepo.Delete(project.ID)
		_ = s.fileStore.RemoveProject(project.ID)
		return nil, err
	}

	return s.projectRepo.FindByID(project.ID, "Owner", "Members", "Members.User", "Files")
}

func (s *ProjectService) attachUploads(project *models.Project, uploaderID uint64, image *multipart.FileHeader, files []*multipart.FileHeader) error {
	if image != nil {
		path, err := s.fileStore.SaveImage(project.ID, image)
		if err != nil {
			return fmt.Errorf("failed to store project image: %w", err)
		}
		project.ImagePath = path
		if err := s.projectRepo.Update(project); err != nil {
			return fmt.Errorf("failed to save project image path: %w", err)
		}
	}

	records, err := s.storeFiles(project.ID, uploaderID, files)
	if err != nil {
		return err
	}
	if err := s.projectRepo.AddFiles(project.ID, records); err != nil {
		return fmt.Errorf("failed to save project files: %w", err)
	}
	return nil
}

func (s *ProjectService) storeFiles(projectID, uploaderID uint64, files []*multipart.FileHeader) ([]models.ProjectFile, error) {
	records := make([]models.ProjectFile, 0, len(files))
	for _, header := range files {
		record, err := s.fileStore.Save(projectID, uploaderID, header)
		if err != nil {
			for _, saved := range records {
				_ = s.fileStore.Remove(saved.Path)
			}
			return nil, fmt.Errorf("failed to store file %q: %w", header.Filename, err)
		}
		records = append(records, *record)
	}
	return records, nil
}

// GetProject returns a project with its relations.
func (s *ProjectService) GetProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID, "Owner", "Members", "Members.User", "Files", "Files.Uploader")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// EditProjectInput holds the owner-editable fields. Membership, files, and
// checkout state are never touched here.
type EditProjectInput struct {
	Name        *string
	Description *string
	Type        *string
	Version     *string
	Tags        []string
	Image       *multipart.FileHeader
}

// EditProject updates project metadata. Owner only.
func (s *ProjectService) EditProject(actorID, projectID uint64, input EditProjectInput) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if project.OwnerID != actorID {
		return nil, ErrNotProjectOwner
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
		if err := s.ensureTypeExists(*input.Type); err != nil {
			return nil, err
		}
		project.Type = *input.Type
	}
	if input.Version != nil {
		project.Version = *input.Version
	}
	if input.Tags != nil {
		project.Tags = input.Tags
	}
	if input.Image != nil {
		path, err := s.fileStore.SaveImage(project.ID, input.Image)
		if err != nil {
			return nil, fmt.Errorf("failed to store project image: %w", err)
		}
		project.ImagePath = path
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project, its activity log, and its stored files.
// Owner only.
func (s *ProjectService) DeleteProject(actorID, projectID uint64) error {
	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}

	if project.OwnerID != actorID {
		return ErrNotProjectOwner
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if err := s.fileStore.RemoveProject(projectID); err != nil {
		return fmt.Errorf("failed to remove stored files: %w", err)
	}

	return nil
}

// Checkout transitions the project to checked-out(actor). Member only; fails
// when the project is already checked out.
func (s *ProjectService) Checkout(actorID, projectID uint64) (*models.Project, error) {
	if _, err := s.findProject(projectID); err != nil {
		return nil, err
	}

	if err := s.ensureMember(projectID, actorID); err != nil {
		return nil, err
	}

	ok, err := s.projectRepo.Checkout(projectID, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check out project: %w", err)
	}
	if !ok {
		return nil, ErrAlreadyCheckedOut
	}

	return s.projectRepo.FindByID(projectID, "Owner")
}

// CheckinInput represents input for checking a project back in.
type CheckinInput struct {
	ProjectID uint64
	ActorID   uint64
	Message   string
	Version   string
	Files     []*multipart.FileHeader
}

// Checkin transitions the project back to checked-in, updating the version
// and appending any new files. Only the current lock holder may check in.
func (s *ProjectService) Checkin(input CheckinInput) (*models.Project, error) {
	if _, err := s.findProject(input.ProjectID); err != nil {
		return nil, err
	}

	if err := s.ensureMember(input.ProjectID, input.ActorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Version) == "" {
		return nil, ErrVersionRequired
	}

	records, err := s.storeFiles(input.ProjectID, input.ActorID, input.Files)
	if err != nil {
		return nil, err
	}

	ok, err := s.projectRepo.Checkin(input.ProjectID, input.ActorID, input.Version, input.Message, records)
	if err != nil {
		return nil, fmt.Errorf("failed to check in project: %w", err)
	}
	if !ok {
		for _, saved := range records {
			_ = s.fileStore.Remove(saved.Path)
		}
		// Decide the error from the row as it is now, not the pre-transition
		// read; the lock may have changed hands or been cleared in between.
		current, err := s.findProject(input.ProjectID)
		if err != nil {
			return nil, err
		}
		if current.CheckoutStatus != models.CheckoutStatusCheckedOut {
			return nil, ErrProjectNotCheckedOut
		}
		return nil, ErrNotCheckoutHolder
	}

	return s.projectRepo.FindByID(input.ProjectID, "Owner", "Files")
}

// AddMember adds a friend of the requester to the project. The requester
// must already be a member.
func (s *ProjectService) AddMember(actorID, projectID, friendID uint64) error {
	if _, err := s.findProject(projectID); err != nil {
		return err
	}

	if err := s.ensureMember(projectID, actorID); err != nil {
		return err
	}

	if _, err := s.userRepo.FindByID(friendID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	friends, err := s.friendRepo.AreFriends(actorID, friendID)
	if err != nil {
		return fmt.Errorf("failed to check friendship: %w", err)
	}
	if !friends {
		return ErrNotFriends
	}

	if _, err := s.projectRepo.FindMember(projectID, friendID); err == nil {
		return ErrAlreadyProjectMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check membership: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    friendID,
		JoinedAt:  time.Now(),
	}
	if err := s.projectRepo.AddMember(member); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	return nil
}

// RemoveMember removes a member from the project. Owner only; the owner
// itself can never be removed.
func (s *ProjectService) RemoveMember(actorID, projectID, memberID uint64) error {
	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}

	if project.OwnerID != actorID {
		return ErrNotProjectOwner
	}
	if memberID == project.OwnerID {
		return ErrCannotRemoveOwner
	}

	if _, err := s.projectRepo.FindMember(projectID, memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find member: %w", err)
	}

	if err := s.projectRepo.RemoveMember(projectID, memberID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// TransferOwnership hands the project to an existing member. The old owner
// stays a member with member-level rights.
func (s *ProjectService) TransferOwnership(actorID, projectID, newOwnerID uint64) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if project.OwnerID != actorID {
		return nil, ErrNotProjectOwner
	}

	if _, err := s.projectRepo.FindMember(projectID, newOwnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNewOwnerNotMember
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	if err := s.projectRepo.TransferOwnership(projectID, newOwnerID); err != nil {
		return nil, fmt.Errorf("failed to transfer ownership: %w", err)
	}

	return s.projectRepo.FindByID(projectID, "Owner", "Members", "Members.User")
}

// RecordDownload increments the download counter. No authorization required.
func (s *ProjectService) RecordDownload(projectID uint64) error {
	if err := s.projectRepo.IncrementDownloads(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to record download: %w", err)
	}
	return nil
}

// FeedScope selects which projects appear in a feed.
type FeedScope string

const (
	FeedScopeLocal  FeedScope = "local"
	FeedScopeGlobal FeedScope = "global"
)

// FeedSort selects feed ordering.
type FeedSort string

const (
	FeedSortRecency    FeedSort = "recency"
	FeedSortPopularity FeedSort = "popularity"
)

// FeedInput represents parameters for the project feed.
type FeedInput struct {
	UserID   uint64
	Scope    FeedScope
	SortBy   FeedSort
	Page     int
	PageSize int
}

// ListFeed returns projects for the feed. Local scope is the union of
// projects owned by the user and by any accepted friend; global is all.
func (s *ProjectService) ListFeed(input FeedInput) ([]models.Project, int64, error) {
	if input.Scope != FeedScopeLocal && input.Scope != FeedScopeGlobal {
		return nil, 0, ErrInvalidFeedScope
	}
	if input.SortBy != FeedSortRecency && input.SortBy != FeedSortPopularity {
		return nil, 0, ErrInvalidFeedSort
	}

	filter := repository.ProjectFilter{
		SortByDownloads: input.SortBy == FeedSortPopularity,
		Page:            input.Page,
		PageSize:        input.PageSize,
	}

	if input.Scope == FeedScopeLocal {
		friends, err := s.friendRepo.ListFriends(input.UserID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list friends: %w", err)
		}
		ownerIDs := make([]uint64, 0, len(friends)+1)
		ownerIDs = append(ownerIDs, input.UserID)
		for _, friend := range friends {
			ownerIDs = append(ownerIDs, friend.ID)
		}
		filter.OwnerIDs = ownerIDs
	}

	projects, total, err := s.projectRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list feed: %w", err)
	}

	return projects, total, nil
}

// SuggestTags proposes tags for a project from its name and description.
// Member only; requires the AI service to be configured.
func (s *ProjectService) SuggestTags(ctx context.Context, actorID, projectID uint64) ([]string, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureMember(projectID, actorID); err != nil {
		return nil, err
	}

	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	tags, err := s.aiService.SuggestTags(ctx, project.Name, project.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest tags: %w", err)
	}
	if len(tags) > constants.MaxSuggestedTags {
		tags = tags[:constants.MaxSuggestedTags]
	}

	return tags, nil
}

func (s *ProjectService) findProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// ensureMember verifies that a user belongs to a project
func (s *ProjectService) ensureMember(projectID, userID uint64) error {
	_, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotProjectMember
		}
		return fmt.Errorf("failed to verify membership: %w", err)
	}
	return nil
}

func (s *ProjectService) ensureTypeExists(typeName string) error {
	if strings.TrimSpace(typeName) == "" {
		return ErrUnknownProjectType
	}
	if _, err := s.typeRepo.FindByName(typeName); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownProjectType
		}
		return fmt.Errorf("failed to check project type: %w", err)
	}
	return nil
}
