package repository

import (
	"github.com/retrohub/retrohub-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// Delete removes a user along with memberships and friendships
	Delete(id uint64) error

	// List retrieves users with optional term filtering and pagination
	List(filter UserFilter) ([]models.User, int64, error)
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Term     string
	Page     int
	PageSize int
}

// FriendshipRepository defines the interface for friendship data access
type FriendshipRepository interface {
	// Create creates a new friend request
	Create(friendship *models.Friendship) error

	// FindByID finds a friendship by ID
	FindByID(id uint64) (*models.Friendship, error)

	// FindBetween finds a friendship between two users in either direction
	FindBetween(userA, userB uint64) (*models.Friendship, error)

	// Update updates a friendship
	Update(friendship *models.Friendship) error

	// ListFriends returns the accepted friends of a user
	ListFriends(userID uint64) ([]models.User, error)

	// ListPendingFor returns pending incoming requests for a user
	ListPendingFor(userID uint64) ([]models.Friendship, error)

	// AreFriends reports whether two users have an accepted friendship
	AreFriends(userA, userB uint64) (bool, error)
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	// OwnerIDs restricts to projects owned by these users; nil means all.
	OwnerIDs []uint64

	// SortByDownloads orders by download count instead of last activity.
	SortByDownloads bool

	// Term filters on name/description when set.
	Term string

	// Tag filters on the serialized tag list when set.
	Tag string

	Page     int
	PageSize int
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create persists a project, its owner membership, and any initial files
	// in one transaction
	Create(project *models.Project, files []models.ProjectFile) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete removes a project and cascades activities, files, and members
	Delete(id uint64) error

	// List retrieves projects with filtering and pagination
	List(filter ProjectFilter) ([]models.Project, int64, error)

	// AddFiles appends file records to a project
	AddFiles(projectID uint64, files []models.ProjectFile) error

	// AddMember adds a member to a project
	AddMember(member *models.ProjectMember) error

	// RemoveMember removes a member from a project
	RemoveMember(projectID, userID uint64) error

	// FindMember finds a specific project member
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// ListMembers lists all members of a project
	ListMembers(projectID uint64) ([]models.ProjectMember, error)

	// TransferOwnership sets a new owner on the project
	TransferOwnership(projectID, newOwnerID uint64) error

	// IncrementDownloads bumps the download counter unconditionally
	IncrementDownloads(projectID uint64) error

	// Checkout transitions checked-in -> checked-out(actor) with a
	// conditional update and appends the activity entry in one transaction.
	// Returns false when the project was not checked in.
	Checkout(projectID, actorID uint64) (bool, error)

	// Checkin transitions checked-out(actor) -> checked-in, updates the
	// version, appends files and the activity entry in one transaction.
	// Returns false when the actor does not hold the checkout.
	Checkin(projectID, actorID uint64, version, message string, files []models.ProjectFile) (bool, error)

	// ForceUnlock clears a checkout regardless of holder (admin action).
	// Returns false when the project was not checked out.
	ForceUnlock(projectID, adminID uint64) (bool, error)
}

// ActivityRepository defines the interface for the append-only activity log
type ActivityRepository interface {
	// Create appends a new activity entry
	Create(activity *models.Activity) error

	// ListByProject returns entries for a project, newest first
	ListByProject(projectID uint64) ([]models.Activity, error)

	// Search returns entries whose action or message matches the term
	Search(term string) ([]models.Activity, error)
}

// ProjectTypeRepository defines the interface for the admin-managed type list
type ProjectTypeRepository interface {
	Create(pt *models.ProjectType) error
	FindByID(id uint64) (*models.ProjectType, error)
	FindByName(name string) (*models.ProjectType, error)
	List() ([]models.ProjectType, error)
	Update(pt *models.ProjectType) error
	Delete(id uint64) error

	// CountProjectsUsing counts live projects referencing a type name
	CountProjectsUsing(name string) (int64, error)
}
