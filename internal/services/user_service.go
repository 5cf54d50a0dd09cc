package services

import (
	"errors"
	"fmt"

	"github.com/retrohub/retrohub-api/internal/models"
	"github.com/retrohub/retrohub-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNotProfileOwner        = errors.New("profile can only be edited by its owner")
	ErrFriendRequestToSelf    = errors.New("cannot send a friend request to yourself")
	ErrFriendshipExists       = errors.New("friendship or pending request already exists")
	ErrFriendRequestNotFound  = errors.New("friend request not found")
	ErrNotRequestAddressee    = errors.New("only the addressee can accept a friend request")
	ErrFriendRequestNotOpen   = errors.New("friend request is not pending")
)

// UserService provides business logic for profiles and friendships.
type UserService struct {
	userRepo   repository.UserRepository
	friendRepo repository.FriendshipRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, friendRepo repository.FriendshipRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		friendRepo: friendRepo,
	}
}

// GetProfile retrieves a user's public profile.
func (s *UserService) GetProfile(userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfileInput holds the editable profile fields.
type UpdateProfileInput struct {
	FullName  *string
	Bio       *string
	Location  *string
	Company   *string
	Website   *string
	Languages []string
}

// UpdateProfile updates the actor's own profile.
func (s *UserService) UpdateProfile(actorID, targetID uint64, input UpdateProfileInput) (*models.User, error) {
	if actorID != targetID {
		return nil, ErrNotProfileOwner
	}

	user, err := s.userRepo.FindByID(targetID)
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
	if input.Location != nil {
		user.Location = *input.Location
	}
	if input.Company != nil {
		user.Company = *input.Company
	}
	if input.Website != nil {
		user.Website = *input.Website
	}
	if input.Languages != nil {
		user.Languages = input.Languages
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// SendFriendRequest creates a pending friendship from actor to target.
func (s *UserService) SendFriendRequest(actorID, targetID uint64) (*models.Friendship, error) {
	if actorID == targetID {
		return nil, ErrFriendRequestToSelf
	}

	if _, err := s.userRepo.FindByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.friendRepo.FindBetween(actorID, targetID); err == nil {
		return nil, ErrFriendshipExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check friendship: %w", err)
	}

	friendship := &models.Friendship{
		RequesterID: actorID,
		AddresseeID: targetID,
		Status:      models.FriendshipPending,
	}
	if err := s.friendRepo.Create(friendship); err != nil {
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}

	return friendship, nil
}

// AcceptFriendRequest marks a pending request as accepted. Only the
// addressee may accept.
func (s *UserService) AcceptFriendRequest(actorID, requestID uint64) (*models.Friendship, error) {
	friendship, err := s.friendRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFriendRequestNotFound
		}
		return nil, fmt.Errorf("failed to find friend request: %w", err)
	}

	if friendship.AddresseeID != actorID {
		return nil, ErrNotRequestAddressee
	}
	if friendship.Status != models.FriendshipPending {
		return nil, ErrFriendRequestNotOpen
	}

	friendship.Status = models.FriendshipAccepted
	if err := s.friendRepo.Update(friendship); err != nil {
		return nil, fmt.Errorf("failed to accept friend request: %w", err)
	}

	return friendship, nil
}

// ListFriends returns the accepted friends of a user.
func (s *UserService) ListFriends(userID uint64) ([]models.User, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	friends, err := s.friendRepo.ListFriends(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	return friends, nil
}

// ListFriendRequests returns pending incoming requests for a user.
func (s *UserService) ListFriendRequests(userID uint64) ([]models.Friendship, error) {
	requests, err := s.friendRepo.ListPendingFor(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}
	return requests, nil
}
