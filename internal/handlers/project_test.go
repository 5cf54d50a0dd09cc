package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/retrohub/retrohub-api/internal/constants"
	"github.com/retrohub/retrohub-api/internal/database"
	"github.com/retrohub/retrohub-api/internal/dto"
	"github.com/retrohub/retrohub-api/internal/models"
	"github.com/retrohub/retrohub-api/internal/repository"
	"github.com/retrohub/retrohub-api/internal/services"
	"github.com/retrohub/retrohub-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ProjectHandlerTestSuite defines the test suite for ProjectHandler
type ProjectHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *ProjectHandler
}

type projectResponse struct {
	Success  bool              `json:"success"`
	Project  dto.ProjectDTO    `json:"project"`
	Activity []dto.ActivityDTO `json:"activity"`
}

// SetupTest runs before each test
func (suite *ProjectHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Friendship{},
		&models.ProjectType{},
		&models.Project{},
		&models.ProjectMember{},
		&models.ProjectFile{},
		&models.Activity{},
	)
	suite.Require().NoError(err)

	// Set the test DB as the default database
	database.SetDB(suite.db)

	fileStore, err := storage.NewFileStore(suite.T().TempDir())
	suite.Require().NoError(err)

	userRepo := repository.NewUserRepository(suite.db)
	friendRepo := repository.NewFriendshipRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)
	activityRepo := repository.NewActivityRepository(suite.db)
	typeRepo := repository.NewProjectTypeRepository(suite.db)

	// No AI service in tests
	projectService := services.NewProjectService(projectRepo, typeRepo, friendRepo, userRepo, fileStore, nil)
	activityService := services.NewActivityService(activityRepo, projectRepo)
	suite.handler = NewProjectHandler(projectService, activityService)

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *ProjectHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper function to create test data
func (suite *ProjectHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *ProjectHandlerTestSuite) createTestProjectType(name string) *models.ProjectType {
	pt := &models.ProjectType{Name: name}
	suite.db.Create(pt)
	return pt
}

func (suite *ProjectHandlerTestSuite) createTestProject(name string, ownerID uint64) *models.Project {
	project := &models.Project{
		Name:           name,
		Description:    "A test project description",
		Type:           "game",
		Version:        "1.0.0",
		OwnerID:        ownerID,
		CheckoutStatus: models.CheckoutStatusCheckedIn,
		LastActivityAt: time.Now(),
	}
	suite.db.Create(project)
	suite.addMember(project.ID, ownerID)
	return project
}

func (suite *ProjectHandlerTestSuite) addMember(projectID, userID uint64) {
	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		JoinedAt:  time.Now(),
	}
	suite.db.Create(member)
}

func (suite *ProjectHandlerTestSuite) makeFriends(userA, userB uint64) {
	friendship := &models.Friendship{
		RequesterID: userA,
		AddresseeID: userB,
		Status:      models.FriendshipAccepted,
	}
	suite.db.Create(friendship)
}

func (suite *ProjectHandlerTestSuite) checkOutRow(projectID, holderID uint64) {
	suite.db.Model(&models.Project{}).
		Where("id = ?", projectID).
		Updates(map[string]interface{}{
			"checkout_status": models.CheckoutStatusCheckedOut,
			"checked_out_by":  holderID,
		})
}

// Helper function to create authenticated context
func (suite *ProjectHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

// Helper function to create an authenticated multipart context
func (suite *ProjectHandlerTestSuite) createMultipartContext(url string, fields map[string]string, fileNames []string, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		suite.Require().NoError(writer.WriteField(key, value))
	}
	for _, name := range fileNames {
		part, err := writer.CreateFormFile("projectFiles", name)
		suite.Require().NoError(err)
		_, err = part.Write([]byte("file contents"))
		suite.Require().NoError(err)
	}
	suite.Require().NoError(writer.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func (suite *ProjectHandlerTestSuite) setIDParam(c *gin.Context, id uint64) {
	c.Params = append(c.Params, gin.Param{Key: "id", Value: strconv.FormatUint(id, 10)})
}

// TestCreateProject_Success tests project creation with initial files
func (suite *ProjectHandlerTestSuite) TestCreateProject_Success() {
	user := suite.createTestUser("owner")
	suite.createTestProjectType("game")

	c, w := suite.createMultipartContext("/api/projects", map[string]string{
		"name":        "Space Raiders",
		"description": "A retro space shooter with CRT shaders",
		"type":        "game",
		"version":     "0.1.0",
		"tags":        "shooter, retro",
	}, []string{"main.bas"}, user.ID)

	suite.handler.CreateProject(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response projectResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Space Raiders", response.Project.Name)
	assert.Equal(suite.T(), models.CheckoutStatusCheckedIn, response.Project.CheckoutStatus)
	assert.Equal(suite.T(), []string{"shooter", "retro"}, response.Project.Tags)
	assert.Len(suite.T(), response.Project.Members, 1)
	assert.Equal(suite.T(), "owner", response.Project.Members[0].User.Username)
	assert.Len(suite.T(), response.Project.Files, 1)
	assert.Equal(suite.T(), "main.bas", response.Project.Files[0].OriginalName)
}

// TestCreateProject_UnknownType tests creation with a type not in the list
func (suite *ProjectHandlerTestSuite) TestCreateProject_UnknownType() {
	user := suite.createTestUser("owner")

	c, w := suite.createMultipartContext("/api/projects", map[string]string{
		"name":        "Space Raiders",
		"description": "A retro space shooter with CRT shaders",
		"type":        "demo",
	}, nil, user.ID)

	suite.handler.CreateProject(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateProject_ShortName tests creation with a too-short name
func (suite *ProjectHandlerTestSuite) TestCreateProject_ShortName() {
	user := suite.createTestUser("owner")
	suite.createTestProjectType("game")

	c, w := suite.createMultipartContext("/api/projects", map[string]string{
		"name":        "SR",
		"description": "A retro space shooter with CRT shaders",
		"type":        "game",
	}, nil, user.ID)

	suite.handler.CreateProject(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestGetProject_ActivityNewestFirst tests that the activity log comes back
// in reverse chronological order
func (suite *ProjectHandlerTestSuite) TestGetProject_ActivityNewestFirst() {
	user := suite.createTestUser("owner")
	suite.createTestProjectType("game")
	project := suite.createTestProject("Space Raiders", user.ID)

	now := time.Now()
	suite.db.Create(&models.Activity{
		ProjectID: project.ID,
		UserID:    user.ID,
		Action:    models.ActionMessage,
		Message:   "older entry",
		CreatedAt: now.Add(-time.Hour),
	})
	suite.db.Create(&models.Activity{
		ProjectID: project.ID,
		UserID:    user.ID,
		Action:    models.ActionCheckedOut,
		CreatedAt: now,
	})

	c, w := suite.createAuthContext("GET", "/api/projects/1", nil, user.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.GetProject(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response projectResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response.Activity, 2)
	assert.Equal(suite.T(), models.ActionCheckedOut, response.Activity[0].Action)
	assert.Equal(suite.T(), "older entry", response.Activity[1].Message)
}

// TestGetProject_NotFound tests retrieval of a missing project
func (suite *ProjectHandlerTestSuite) TestGetProject_NotFound() {
	user := suite.createTestUser("owner")

	c, w := suite.createAuthContext("GET", "/api/projects/999", nil, user.ID)
	suite.setIDParam(c, 999)

	suite.handler.GetProject(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestCheckout_Success tests a member checking out a checked-in project
func (suite *ProjectHandlerTestSuite) TestCheckout_Success() {
	user := suite.createTestUser("owner")
	suite.createTestProjectType("game")
	project := suite.createTestProject("Space Raiders", user.ID)

	c, w := suite.createAuthContext("POST", "/api/projects/1/checkout", nil, user.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.Checkout(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response projectResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.CheckoutStatusCheckedOut, response.Project.CheckoutStatus)
	assert.NotNil(suite.T(), response.Project.CheckedOutBy)
	assert.Equal(suite.T(), user.ID, *response.Project.CheckedOutBy)

	// The checkout is logged
	var activity models.Activity
	err = suite.db.Where("project_id = ? AND action = ?", project.ID, models.ActionCheckedOut).
		First(&activity).Error
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, activity.UserID)
}

// TestCheckout_AlreadyCheckedOut tests that a second checkout is rejected
func (suite *ProjectHandlerTestSuite) TestCheckout_AlreadyCheckedOut() {
	owner := suite.createTestUser("owner")
	member := suite.createTestUser("member")
	suite.createTestProjectType("game")
	project := suite.createTestProject("Space Raiders", owner.ID)
	suite.addMember(project.ID, member.ID)
	suite.checkOutRow(project.ID, owner.ID)

	c, w := suite.createAuthContext("POST", "/api/projects/1/checkout", nil, member.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.Checkout(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	// The holder is unchanged
	var reloaded models.Project
	suite.db.First(&reloaded, project.ID)
	assert.Equal(suite.T(), owner.ID, *reloaded.CheckedOutBy)
}

// TestCheckout_NotMember tests checkout by a non-member
func (suite *ProjectHandlerTestSuite) TestCheckout_NotMember() {
	owner := suite.createTestUser("owner")
	stranger := suite.createTestUser("stranger")
	suite.createTestProjectType("game")
	project := suite.createTestProject("Space Raiders", owner.ID)

	c, w := suite.createAuthContext("POST", "/api/projects/1/checkout", nil, stranger.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.Checkout(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestCheckin_Success tests the holder checking the project back in
func (suite *ProjectHandlerTestSuite) TestCheckin_Success() {
	user := suite.createTestUser("owner")
	suite.createTestProjectType("game")
	project := suite.createTestProject("Space Raiders", user.ID)
	suite.checkOutRow(project.ID, user.ID)

	c, w := suite.createMultipartContext("/api/projects/1/checkin", map[string]string{
		"version": "1.1.0",
		"message": "Fixed the sprite flicker",
	}, []string{"sprites.bin"}, user.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.Checkin(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response projectResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.CheckoutStatusCheckedIn, response.Project.CheckoutStatus)
	assert.Nil(suite.T(), response.Project.CheckedOutBy)
	assert.Equal(suite.T(), "1.1.0", response.Project.Version)
	assert.Len(suite.T(), response.Project.Files, 1)

	// The check-in is logged with the message
	var activity models.Activity
	err = suite.db.Where("project_id = ? AND action = ?", project.ID, models.ActionCheckedIn).
		First(&activity).Error
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Fixed the sprite flicker", activity.Message)
}

// TestCheckin_NotCheckedOut tests check-in of a project that is not locked
func (suite *ProjectHandlerTestSuite) TestCheckin_NotCheckedOut() {
	user := suite.createTestUser("owner")
	suite.createTestProjectType("game")
	project := suite.createTestProject("Space Raiders", user.ID)

	c, w := suite.createMultipartContext("/api/projects/1/checkin", map[string]string{
		"version": "1.1.0",
	}, nil, user.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.Checkin(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestCheckin_NotHolder tests check-in by a member who does not hold the lock
func (suite *ProjectHandlerTestSuite) TestCheckin_NotHolder() {
	owner := suite.createTestUser("owner")
	member := suite.createTestUser("member")
	suite.createTestProjectType("game")
	project := suite.createTestProject("Space Raiders", owner.ID)
	suite.addMember(project.ID, member.ID)
	suite.checkOutRow(project.ID, owner.ID)

	c, w := suite.createMultipartContext("/api/projects/1/checkin", map[string]string{
		"version": "1.1.0",
	}, nil, member.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.Checkin(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	// The lock is untouched
	var reloaded models.Project
	suite.db.First(&reloaded, project.ID)
	assert.Equal(suite.T(), models.CheckoutStatusCheckedOut, reloaded.CheckoutStatus)
	assert.Equal(suite.T(), owner.ID, *reloaded.CheckedOutBy)
}

// TestCheckin_MissingVersion tests check-in without a version
func (suite *ProjectHandlerTestSuite) TestCheckin_MissingVersion() {
	user := suite.createTestUser("owner")
	suite.createTestProjectType("game")
	project := suite.createTestProject("Space Raiders", user.ID)
	suite.checkOutRow(project.ID, user.ID)

	c, w := suite.createMultipartContext("/api/projects/1/checkin", map[string]string{
		"message": "no version given",
	}, nil, user.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.Checkin(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestAddMember_Success tests adding a friend as a member
func (suite *ProjectHandlerTestSuite) TestAddMember_Success() {
	owner := suite.createTestUser("owner")
	friend := suite.createTestUser("friend")
	suite.createTestProjectType("game")
	project := suite.createTestProject("Space Raiders", owner.ID)
	suite.makeFriends(owner.ID, friend.ID)

	body, _ := json.Marshal(map[string]uint64{"friend_id": friend.ID})
	c, w := suite.createAuthContext("POST", "/api/projects/1/members", body, owner.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.AddMember(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var member models.ProjectMember
	err := suite.db.Where("project_id = ? AND user_id = ?", project.ID, friend.ID).
		First(&member).Error
	assert.NoError(suite.T(), err)

	// The join time must be a real timestamp; MySQL DATETIME rejects the
	// zero value outright.
	assert.False(suite.T(), member.JoinedAt.IsZero())
}

// TestAddMember_NotFriends tests that non-friends cannot be added
func (suite *ProjectHandlerTestSuite) TestAddMember_NotFriends() {
	owner := suite.createTestUser("owner")
	stranger := suite.createTestUser("stranger")
	suite.createTestProjectType("game")
	project := suite.createTestProject("Space Raiders", owner.ID)

	body, _ := json.Marshal(map[string]uint64{"friend_id": stranger.ID})
	c, w := suite.createAuthContext("POST", "/api/projects/1/members", body, owner.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.AddMember(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestAddMember_AlreadyMember tests adding someone twice
func (suite *ProjectHandlerTestSuite) TestAddMember_AlreadyMember() {
	owner := suite.createTestUser("owner")
	friend := suite.createTestUser("friend")
	suite.createTestProjectType("game")
	project := suite.createTestProject("Space Raiders", owner.ID)
	suite.makeFriends(owner.ID, friend.ID)
	suite.addMember(project.ID, friend.ID)

	body, _ := json.Marshal(map[string]uint64{"friend_id": friend.ID})
	c, w := suite.createAuthContext("POST", "/api/projects/1/members", body, owner.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.AddMember(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestMemberCanCheckout tests that a newly added member can use the lock
func (suite *ProjectHandlerTestSuite) TestMemberCanCheckout() {
	owner := suite.createTestUser("owner")
	friend := suite.createTestUser("friend")
	suite.createTestProjectType("game")
	project := suite.createTestProject("Space Raiders", owner.ID)
	suite.makeFriends(owner.ID, friend.ID)
	suite.addMember(project.ID, friend.ID)

	c, w := suite.createAuthContext("POST", "/api/projects/1/checkout", nil, friend.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.Checkout(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var reloaded models.Project
	suite.db.First(&reloaded, project.ID)
	assert.Equal(suite.T(), friend.ID, *reloaded.CheckedOutBy)
}

// TestRemoveMember_Success tests the owner removing a member
func (suite *ProjectHandlerTestSuite) TestRemoveMember_Success() {
	owner := suite.createTestUser("owner")
	member := suite.createTestUser("member")
	suite.createTestProjectType("game")
	project := suite.createTestProject("Space Raiders", owner.ID)
	suite.addMember(project.ID, member.ID)

	c, w := suite.createAuthContext("DELETE", "/api/projects/1/members/2", nil, owner.ID)
	suite.setIDParam(c, project.ID)
	c.Params = append(c.Params, gin.Param{Key: "member_id", Value: strconv.FormatUint(member.ID, 10)})

	suite.handler.RemoveMember(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var gone models.ProjectMember
	err := suite.db.Where("project_id = ? AND user_id = ?", project.ID, member.ID).
		First(&gone).Error
	assert.Error(suite.T(), err)
}

// TestRemoveMember_OwnerTarget tests that the owner can never be removed
func (suite *ProjectHandlerTestSuite) TestRemoveMember_OwnerTarget() {
	owner := suite.createTestUser("owner")
	suite.createTestProjectType("game")
	project := suite.createTestProject("Space Raiders", owner.ID)

	c, w := suite.createAuthContext("DELETE", "/api/projects/1/members/1", nil, owner.ID)
	suite.setIDParam(c, project.ID)
	c.Params = append(c.Params, gin.Param{Key: "member_id", Value: strconv.FormatUint(owner.ID, 10)})

	suite.handler.RemoveMember(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestRemoveMember_NotOwner tests removal by a regular member
func (suite *ProjectHandlerTestSuite) TestRemoveMember_NotOwner() {
	owner := suite.createTestUser("owner")
	member := suite.createTestUser("member")
	suite.createTestProjectType("game")
	project := suite.createTestProject("Space Raiders", owner.ID)
	suite.addMember(project.ID, member.ID)

	c, w := suite.createAuthContext("DELETE", "/api/projects/1/members/1", nil, member.ID)
	suite.setIDParam(c, project.ID)
	c.Params = append(c.Params, gin.Param{Key: "member_id", Value: strconv.FormatUint(owner.ID, 10)})

	suite.handler.RemoveMember(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestTransferOwnership tests handing the project to a member, after which
// the old owner loses owner-level rights
func (suite *ProjectHandlerTestSuite) TestTransferOwnership() {
	owner := suite.createTestUser("owner")
	member := suite.createTestUser("member")
	suite.createTestProjectType("game")
	project := suite.createTestProject("Space Raiders", owner.ID)
	suite.addMember(project.ID, member.ID)

	body, _ := json.Marshal(map[string]uint64{"new_owner_id": member.ID})
	c, w := suite.createAuthContext("POST", "/api/projects/1/transfer-ownership", body, owner.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.TransferOwnership(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response projectResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), member.ID, response.Project.OwnerID)

	// The old owner stays a member
	var stillMember models.ProjectMember
	err = suite.db.Where("project_id = ? AND user_id = ?", project.ID, owner.ID).
		First(&stillMember).Error
	assert.NoError(suite.T(), err)

	// But can no longer delete the project
	c, w = suite.createAuthContext("DELETE", "/api/projects/1", nil, owner.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.DeleteProject(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestTransferOwnership_NotMember tests transfer to a non-member
func (suite *ProjectHandlerTestSuite) TestTransferOwnership_NotMember() {
	owner := suite.createTestUser("owner")
	stranger := suite.createTestUser("stranger")
	suite.createTestProjectType("game")
	project := suite.createTestProject("Space Raiders", owner.ID)

	body, _ := json.Marshal(map[string]uint64{"new_owner_id": stranger.ID})
	c, w := suite.createAuthContext("POST", "/api/projects/1/transfer-ownership", body, owner.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.TransferOwnership(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestRecordDownload tests the download counter
func (suite *ProjectHandlerTestSuite) TestRecordDownload() {
	owner := suite.createTestUser("owner")
	suite.createTestProjectType("game")
	project := suite.createTestProject("Space Raiders", owner.ID)

	for i := 0; i < 2; i++ {
		c, w := suite.createAuthContext("POST", "/api/projects/1/download", nil, owner.ID)
		suite.setIDParam(c, project.ID)
		suite.handler.RecordDownload(c)
		assert.Equal(suite.T(), http.StatusOK, w.Code)
	}

	var reloaded models.Project
	suite.db.First(&reloaded, project.ID)
	assert.Equal(suite.T(), uint64(2), reloaded.Downloads)
}

// TestListFeed_LocalScope tests that the local feed is limited to the user
// and their accepted friends
func (suite *ProjectHandlerTestSuite) TestListFeed_LocalScope() {
	user := suite.createTestUser("user")
	friend := suite.createTestUser("friend")
	stranger := suite.createTestUser("stranger")
	suite.createTestProjectType("game")
	suite.createTestProject("Mine", user.ID)
	suite.createTestProject("Friends", friend.ID)
	suite.createTestProject("Strangers", stranger.ID)
	suite.makeFriends(user.ID, friend.ID)

	c, w := suite.createAuthContext("GET", "/api/projects/feed?feedType=local&sortBy=recency", nil, user.ID)

	suite.handler.ListFeed(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Success  bool                     `json:"success"`
		Projects []dto.ProjectListItemDTO `json:"projects"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response.Projects, 2)
	for _, project := range response.Projects {
		assert.NotEqual(suite.T(), "Strangers", project.Name)
	}
}

// TestListFeed_GlobalScope tests that the global feed includes everything
func (suite *ProjectHandlerTestSuite) TestListFeed_GlobalScope() {
	user := suite.createTestUser("user")
	stranger := suite.createTestUser("stranger")
	suite.createTestProjectType("game")
	suite.createTestProject("Mine", user.ID)
	suite.createTestProject("Strangers", stranger.ID)

	c, w := suite.createAuthContext("GET", "/api/projects/feed?feedType=global&sortBy=recency", nil, user.ID)

	suite.handler.ListFeed(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Success  bool                     `json:"success"`
		Projects []dto.ProjectListItemDTO `json:"projects"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response.Projects, 2)
}

// TestListFeed_PopularitySort tests ordering by downloads
func (suite *ProjectHandlerTestSuite) TestListFeed_PopularitySort() {
	user := suite.createTestUser("user")
	suite.createTestProjectType("game")
	quiet := suite.createTestProject("Quiet", user.ID)
	popular := suite.createTestProject("Popular", user.ID)
	suite.db.Model(&models.Project{}).Where("id = ?", quiet.ID).Update("downloads", 1)
	suite.db.Model(&models.Project{}).Where("id = ?", popular.ID).Update("downloads", 5)

	c, w := suite.createAuthContext("GET", "/api/projects/feed?feedType=global&sortBy=popularity", nil, user.ID)

	suite.handler.ListFeed(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Success  bool                     `json:"success"`
		Projects []dto.ProjectListItemDTO `json:"projects"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response.Projects, 2)
	assert.Equal(suite.T(), "Popular", response.Projects[0].Name)
}

// TestListFeed_InvalidScope tests an unknown feedType
func (suite *ProjectHandlerTestSuite) TestListFeed_InvalidScope() {
	user := suite.createTestUser("user")

	c, w := suite.createAuthContext("GET", "/api/projects/feed?feedType=everything", nil, user.ID)

	suite.handler.ListFeed(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestPostMessage_Success tests a member posting to the activity log
func (suite *ProjectHandlerTestSuite) TestPostMessage_Success() {
	user := suite.createTestUser("owner")
	suite.createTestProjectType("game")
	project := suite.createTestProject("Space Raiders", user.ID)

	body, _ := json.Marshal(map[string]string{"message": "Anyone up for a jam this weekend?"})
	c, w := suite.createAuthContext("POST", "/api/projects/1/messages", body, user.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.PostMessage(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var activity models.Activity
	err := suite.db.Where("project_id = ? AND action = ?", project.ID, models.ActionMessage).
		First(&activity).Error
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Anyone up for a jam this weekend?", activity.Message)
}

// TestPostMessage_NotMember tests posting by a non-member
func (suite *ProjectHandlerTestSuite) TestPostMessage_NotMember() {
	owner := suite.createTestUser("owner")
	stranger := suite.createTestUser("stranger")
	suite.createTestProjectType("game")
	project := suite.createTestProject("Space Raiders", owner.ID)

	body, _ := json.Marshal(map[string]string{"message": "hello"})
	c, w := suite.createAuthContext("POST", "/api/projects/1/messages", body, stranger.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.PostMessage(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestSuggestTags_NotConfigured tests the 503 when no AI service is wired
func (suite *ProjectHandlerTestSuite) TestSuggestTags_NotConfigured() {
	user := suite.createTestUser("owner")
	suite.createTestProjectType("game")
	project := suite.createTestProject("Space Raiders", user.ID)

	c, w := suite.createAuthContext("POST", "/api/projects/1/suggest-tags", nil, user.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.SuggestTags(c)

	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
}

// TestSuite runs the test suite
func TestProjectHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectHandlerTestSuite))
}
