package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/retrohub/retrohub-api/internal/dto"
	apierrors "github.com/retrohub/retrohub-api/internal/errors"
	"github.com/retrohub/retrohub-api/internal/middleware"
	"github.com/retrohub/retrohub-api/internal/services"
)

// UserHandler coordinates profile and friendship HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetProfile returns a user's public profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(userID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    dto.ToProfileDTO(*user),
	})
}

// UpdateProfile updates the authenticated user's own profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateProfileRequest struct {
		FullName  *string  `json:"full_name"`
		Bio       *string  `json:"bio"`
		Location  *string  `json:"location"`
		Company   *string  `json:"company"`
		Website   *string  `json:"website"`
		Languages []string `json:"languages"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(actorID, targetID, services.UpdateProfileInput{
		FullName:  req.FullName,
		Bio:       req.Bio,
		Location:  req.Location,
		Company:   req.Company,
		Website:   req.Website,
		Languages: req.Languages,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    dto.ToProfileDTO(*user),
	})
}

// SendFriendRequest sends a friend request to the user in the path.
func (h *UserHandler) SendFriendRequest(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	friendship, err := h.userService.SendFriendRequest(actorID, targetID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"request_id": friendship.ID,
		"status":     friendship.Status,
	})
}

// ListFriends returns the accepted friends of the user in the path.
func (h *UserHandler) ListFriends(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	friends, err := h.userService.ListFriends(userID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"friends": dto.ToUserDTOs(friends),
	})
}

// ListFriendRequests returns pending incoming requests for the session user.
func (h *UserHandler) ListFriendRequests(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	requests, err := h.userService.ListFriendRequests(userID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	requestDTOs := make([]dto.FriendRequestDTO, len(requests))
	for i, request := range requests {
		requestDTOs[i] = dto.ToFriendRequestDTO(request)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"requests": requestDTOs,
	})
}

// AcceptFriendRequest accepts a pending friend request.
func (h *UserHandler) AcceptFriendRequest(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	friendship, err := h.userService.AcceptFriendRequest(actorID, requestID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  friendship.Status,
	})
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid ID")
		return 0, false
	}
	return id, true
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrFriendRequestNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotProfileOwner),
		errors.Is(err, services.ErrNotRequestAddressee):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrFriendRequestToSelf):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrFriendshipExists),
		errors.Is(err, services.ErrFriendRequestNotOpen):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
