package dto

import (
	"time"

	"github.com/retrohub/retrohub-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// ProfileDTO represents a full public profile
type ProfileDTO struct {
	ID        uint64          `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	FullName  string          `json:"full_name"`
	Bio       string          `json:"bio"`
	Location  string          `json:"location"`
	Company   string          `json:"company"`
	Website   string          `json:"website"`
	Languages []string        `json:"languages"`
	JoinedAt  time.Time       `json:"joined_at"`
}

// FriendRequestDTO represents a pending friend request
type FriendRequestDTO struct {
	ID        uint64                  `json:"id"`
	Requester UserDTO                 `json:"requester"`
	Status    models.FriendshipStatus `json:"status"`
	CreatedAt time.Time               `json:"created_at"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

// ToProfileDTO converts a User model to ProfileDTO
func ToProfileDTO(user models.User) ProfileDTO {
	return ProfileDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		FullName:  user.FullName,
		Bio:       user.Bio,
		Location:  user.Location,
		Company:   user.Company,
		Website:   user.Website,
		Languages: user.Languages,
		JoinedAt:  user.CreatedAt,
	}
}

// ToFriendRequestDTO converts a Friendship model to FriendRequestDTO
func ToFriendRequestDTO(friendship models.Friendship) FriendRequestDTO {
	return FriendRequestDTO{
		ID:        friendship.ID,
		Requester: ToUserDTO(friendship.Requester),
		Status:    friendship.Status,
		CreatedAt: friendship.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}
