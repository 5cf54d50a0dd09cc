package repository

import (
	"errors"

	"github.com/retrohub/retrohub-api/internal/models"
	"gorm.io/gorm"
)

// GormFriendshipRepository is a GORM implementation of FriendshipRepository
type GormFriendshipRepository struct {
	db *gorm.DB
}

// NewFriendshipRepository creates a new FriendshipRepository
func NewFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &GormFriendshipRepository{db: db}
}

// Create creates a new friend request
func (r *GormFriendshipRepository) Create(friendship *models.Friendship) error {
	return r.db.Create(friendship).Error
}

// FindByID finds a friendship by ID
func (r *GormFriendshipRepository) FindByID(id uint64) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.First(&friendship, id).Error; err != nil {
		return nil, err
	}
	return &friendship, nil
}

// FindBetween finds a friendship between two users in either direction
func (r *GormFriendshipRepository) FindBetween(userA, userB uint64) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.Where(
		"(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
		userA, userB, userB, userA,
	).First(&friendship).Error
	if err != nil {
		return nil, err
	}
	return &friendship, nil
}

// Update updates a friendship
func (r *GormFriendshipRepository) Update(friendship *models.Friendship) error {
	return r.db.Save(friendship).Error
}

// ListFriends returns the accepted friends of a user
func (r *GormFriendshipRepository) ListFriends(userID uint64) ([]models.User, error) {
	var friendships []models.Friendship
	err := r.db.Where(
		"(requester_id = ? OR addressee_id = ?) AND status = ?",
		userID, userID, models.FriendshipAccepted,
	).Find(&friendships).Error
	if err != nil {
		return nil, err
	}

	friendIDs := make([]uint64, 0, len(friendships))
	for _, f := range friendships {
		if f.RequesterID == userID {
			friendIDs = append(friendIDs, f.AddresseeID)
		} else {
			friendIDs = append(friendIDs, f.RequesterID)
		}
	}

	if len(friendIDs) == 0 {
		return []models.User{}, nil
	}

	var friends []models.User
	if err := r.db.Where("id IN ?", friendIDs).Find(&friends).Error; err != nil {
		return nil, err
	}
	return friends, nil
}

// ListPendingFor returns pending incoming requests for a user
func (r *GormFriendshipRepository) ListPendingFor(userID uint64) ([]models.Friendship, error) {
	var requests []models.Friendship
	err := r.db.Preload("Requester").
		Where("addressee_id = ? AND status = ?", userID, models.FriendshipPending).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// AreFriends reports whether two users have an accepted friendship
func (r *GormFriendshipRepository) AreFriends(userA, userB uint64) (bool, error) {
	friendship, err := r.FindBetween(userA, userB)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return friendship.Status == models.FriendshipAccepted, nil
}
