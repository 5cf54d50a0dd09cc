package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/retrohub/retrohub-api/internal/dto"
	apierrors "github.com/retrohub/retrohub-api/internal/errors"
	"github.com/retrohub/retrohub-api/internal/middleware"
	"github.com/retrohub/retrohub-api/internal/services"
	"github.com/retrohub/retrohub-api/internal/utils"
)

// ProjectHandler coordinates project lifecycle HTTP handlers.
type ProjectHandler struct {
	projectService  *services.ProjectService
	activityService *services.ActivityService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, activityService *services.ActivityService) *ProjectHandler {
	return &ProjectHandler{
		projectService:  projectService,
		activityService: activityService,
	}
}

// CreateProject creates a new project from a multipart form.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apierrors.BadRequest(c, "Invalid multipart form")
		return
	}

	input := services.CreateProjectInput{
		OwnerID:     userID,
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Type:        c.PostForm("type"),
		Version:     c.PostForm("version"),
		Tags:        splitTags(c.PostForm("tags")),
		Files:       form.File["projectFiles"],
	}
	if images := form.File["projectImage"]; len(images) > 0 {
		input.Image = images[0]
	}

	project, err := h.projectService.CreateProject(input)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"project": dto.ToProjectDTO(*project),
	})
}

// GetProject returns a project with members, files, and activity log.
// Projects are publicly readable.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(projectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	activities, err := h.activityService.ListForProject(projectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"project":  dto.ToProjectDTO(*project),
		"activity": dto.ToActivityDTOs(activities),
	})
}

// EditProject updates project metadata. Owner only.
func (h *ProjectHandler) EditProject(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	input := services.EditProjectInput{}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		form, err := c.MultipartForm()
		if err != nil {
			apierrors.BadRequest(c, "Invalid multipart form")
			return
		}
		assignFormField(form, "name", &input.Name)
		assignFormField(form, "description", &input.Description)
		assignFormField(form, "type", &input.Type)
		assignFormField(form, "version", &input.Version)
		if values, found := form.Value["tags"]; found && len(values) > 0 {
			input.Tags = splitTags(values[0])
		}
		if images := form.File["projectImage"]; len(images) > 0 {
			input.Image = images[0]
		}
	} else {
		type EditProjectRequest struct {
			Name        *string  `json:"name"`
			Description *string  `json:"description"`
			Type        *string  `json:"type"`
			Version     *string  `json:"version"`
			Tags        []string `json:"tags"`
		}
		var req EditProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
		input.Name = req.Name
		input.Description = req.Description
		input.Type = req.Type
		input.Version = req.Version
		input.Tags = req.Tags
	}

	project, err := h.projectService.EditProject(userID, projectID, input)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"project": dto.ToProjectDTO(*project),
	})
}

// DeleteProject removes a project. Owner only.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(userID, projectID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Project deleted successfully",
	})
}

// Checkout checks the project out to the session user.
func (h *ProjectHandler) Checkout(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.Checkout(userID, projectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"project": dto.ToProjectDTO(*project),
	})
}

// Checkin checks the project back in with a new version and optional files.
func (h *ProjectHandler) Checkin(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apierrors.BadRequest(c, "Invalid multipart form")
		return
	}

	project, err := h.projectService.Checkin(services.CheckinInput{
		ProjectID: projectID,
		ActorID:   userID,
		Message:   c.PostForm("message"),
		Version:   c.PostForm("version"),
		Files:     form.File["projectFiles"],
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"project": dto.ToProjectDTO(*project),
	})
}

// AddMember adds a friend of the requester as a project member.
func (h *ProjectHandler) AddMember(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type AddMemberRequest struct {
		FriendID uint64 `json:"friend_id" binding:"required"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.projectService.AddMember(userID, projectID, req.FriendID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Member added successfully",
	})
}

// RemoveMember removes a member from the project. Owner only.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "member_id")
	if !ok {
		return
	}

	if err := h.projectService.RemoveMember(userID, projectID, memberID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Member removed successfully",
	})
}

// TransferOwnership hands the project to an existing member. Owner only.
func (h *ProjectHandler) TransferOwnership(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type TransferRequest struct {
		NewOwnerID uint64 `json:"new_owner_id" binding:"required"`
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.TransferOwnership(userID, projectID, req.NewOwnerID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"project": dto.ToProjectDTO(*project),
	})
}

// PostMessage appends a free-text message to the project activity log.
func (h *ProjectHandler) PostMessage(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type MessageRequest struct {
		Message string `json:"message" binding:"required"`
	}

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	activity, err := h.activityService.PostMessage(userID, projectID, req.Message)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"activity": dto.ToActivityDTO(*activity),
	})
}

// RecordDownload increments the download counter. Public.
func (h *ProjectHandler) RecordDownload(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.RecordDownload(projectID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// ListFeed returns the project feed for the session user.
func (h *ProjectHandler) ListFeed(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	params := utils.GetPaginationParams(c)

	projects, total, err := h.projectService.ListFeed(services.FeedInput{
		UserID:   userID,
		Scope:    services.FeedScope(c.DefaultQuery("feedType", string(services.FeedScopeGlobal))),
		SortBy:   services.FeedSort(c.DefaultQuery("sortBy", string(services.FeedSortRecency))),
		Page:     params.Page,
		PageSize: params.Limit,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"projects": dto.ToProjectListItemDTOs(projects),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// SuggestTags proposes tags for the project. Member only; 503 when the AI
// service is not configured.
func (h *ProjectHandler) SuggestTags(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tags, err := h.projectService.SuggestTags(c.Request.Context(), userID, projectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tags":    tags,
	})
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func assignFormField(form *multipart.Form, key string, target **string) {
	if values, found := form.Value[key]; found && len(values) > 0 {
		value := values[0]
		*target = &value
	}
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotProjectOwner),
		errors.Is(err, services.ErrNotProjectMember),
		errors.Is(err, services.ErrNotCheckoutHolder):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAlreadyCheckedOut),
		errors.Is(err, services.ErrProjectNotCheckedOut),
		errors.Is(err, services.ErrAlreadyProjectMember),
		errors.Is(err, services.ErrCannotRemoveOwner),
		errors.Is(err, services.ErrNewOwnerNotMember),
		errors.Is(err, services.ErrNotFriends):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrProjectNameTooShort),
		errors.Is(err, services.ErrProjectDescTooShort),
		errors.Is(err, services.ErrUnknownProjectType),
		errors.Is(err, services.ErrVersionRequired),
		errors.Is(err, services.ErrMessageRequired),
		errors.Is(err, services.ErrInvalidFeedScope),
		errors.Is(err, services.ErrInvalidFeedSort):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
