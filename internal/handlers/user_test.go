package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/retrohub/retrohub-api/internal/constants"
	"github.com/retrohub/retrohub-api/internal/database"
	"github.com/retrohub/retrohub-api/internal/dto"
	"github.com/retrohub/retrohub-api/internal/models"
	"github.com/retrohub/retrohub-api/internal/repository"
	"github.com/retrohub/retrohub-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type userTestEnv struct {
	db      *gorm.DB
	handler *UserHandler
}

func setupUserTestEnv(t *testing.T) userTestEnv {
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

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendshipRepository(db)
	userService := services.NewUserService(userRepo, friendRepo)
	handler := NewUserHandler(userService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return userTestEnv{
		db:      db,
		handler: handler,
	}
}

func (env userTestEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func userTestContext(userID uint64, paramID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(constants.ContextKeyUserID, userID)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(paramID, 10)}}
	return c, w
}

func TestUserHandler_FriendRequestLifecycle(t *testing.T) {
	env := setupUserTestEnv(t)

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	// Alice sends a request to Bob.
	c, w := userTestContext(alice.ID, bob.ID)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	env.handler.SendFriendRequest(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var sendResponse struct {
		Success   bool                    `json:"success"`
		RequestID uint64                  `json:"request_id"`
		Status    models.FriendshipStatus `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sendResponse))
	require.Equal(t, models.FriendshipPending, sendResponse.Status)

	// Bob sees the pending request.
	c, w = userTestContext(bob.ID, bob.ID)
	env.handler.ListFriendRequests(c)

	require.Equal(t, http.StatusOK, w.Code)

	var listResponse struct {
		Success  bool                   `json:"success"`
		Requests []dto.FriendRequestDTO `json:"requests"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResponse))
	require.Len(t, listResponse.Requests, 1)
	require.Equal(t, "alice", listResponse.Requests[0].Requester.Username)

	// Bob accepts.
	c, w = userTestContext(bob.ID, sendResponse.RequestID)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	env.handler.AcceptFriendRequest(c)

	require.Equal(t, http.StatusOK, w.Code)

	// Both friend lists now contain the counterpart.
	c, w = userTestContext(alice.ID, alice.ID)
	env.handler.ListFriends(c)

	require.Equal(t, http.StatusOK, w.Code)

	var friendsResponse struct {
		Success bool          `json:"success"`
		Friends []dto.UserDTO `json:"friends"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &friendsResponse))
	require.Len(t, friendsResponse.Friends, 1)
	require.Equal(t, "bob", friendsResponse.Friends[0].Username)
}

func TestUserHandler_SendFriendRequest_ToSelf(t *testing.T) {
	env := setupUserTestEnv(t)

	alice := env.createUser(t, "alice")

	c, w := userTestContext(alice.ID, alice.ID)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	env.handler.SendFriendRequest(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_SendFriendRequest_Duplicate(t *testing.T) {
	env := setupUserTestEnv(t)

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	require.NoError(t, env.db.Create(&models.Friendship{
		RequesterID: alice.ID,
		AddresseeID: bob.ID,
		Status:      models.FriendshipPending,
	}).Error)

	// A reverse-direction request still counts as a duplicate.
	c, w := userTestContext(bob.ID, alice.ID)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	env.handler.SendFriendRequest(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestUserHandler_AcceptFriendRequest_NotAddressee(t *testing.T) {
	env := setupUserTestEnv(t)

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	friendship := &models.Friendship{
		RequesterID: alice.ID,
		AddresseeID: bob.ID,
		Status:      models.FriendshipPending,
	}
	require.NoError(t, env.db.Create(friendship).Error)

	// The requester cannot accept their own request.
	c, w := userTestContext(alice.ID, friendship.ID)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	env.handler.AcceptFriendRequest(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserHandler_UpdateProfile_NotOwner(t *testing.T) {
	env := setupUserTestEnv(t)

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	body, err := json.Marshal(map[string]string{"bio": "new bio"})
	require.NoError(t, err)

	c, w := userTestContext(alice.ID, bob.ID)
	c.Request = httptest.NewRequest(http.MethodPut, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	env.handler.UpdateProfile(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}
