package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/retrohub/retrohub-api/internal/dto"
	apierrors "github.com/retrohub/retrohub-api/internal/errors"
	"github.com/retrohub/retrohub-api/internal/middleware"
	"github.com/retrohub/retrohub-api/internal/services"
	"github.com/retrohub/retrohub-api/internal/utils"
)

// AdminHandler serves the admin management endpoints. All routes are behind
// the RequireAdmin middleware.
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// ListUsers returns all users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.adminService.ListUsers(c.Query("term"), params.Page, params.Limit)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	userDTOs := make([]dto.ProfileDTO, len(users))
	for i, user := range users {
		userDTOs[i] = dto.ToProfileDTO(user)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   userDTOs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// UpdateUser edits a user's profile or role.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		FullName *string `json:"full_name"`
		Bio      *string `json:"bio"`
		Role     *string `json:"role"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.adminService.UpdateUser(userID, services.UpdateUserInput{
		FullName: req.FullName,
		Bio:      req.Bio,
		Role:     req.Role,
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    dto.ToProfileDTO(*user),
	})
}

// DeleteUser removes a user.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(userID); err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
	})
}

// ListProjects returns all projects.
func (h *AdminHandler) ListProjects(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	projects, total, err := h.adminService.ListProjects(c.Query("term"), params.Page, params.Limit)
	if err != nil {
		respondAdminError(c, err)
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

// UpdateProject edits project metadata regardless of ownership.
func (h *AdminHandler) UpdateProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateProjectRequest struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Type        *string  `json:"type"`
		Version     *string  `json:"version"`
		Tags        []string `json:"tags"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.adminService.UpdateProject(projectID, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Version:     req.Version,
		Tags:        req.Tags,
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"project": dto.ToProjectDTO(*project),
	})
}

// DeleteProject removes any project regardless of ownership.
func (h *AdminHandler) DeleteProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteProject(projectID); err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Project deleted successfully",
	})
}

// UnlockProject clears a stuck checkout.
func (h *AdminHandler) UnlockProject(c *gin.Context) {
	adminID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.adminService.ForceUnlock(adminID, projectID)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"project": dto.ToProjectDTO(*project),
	})
}

// ListProjectTypes returns the managed type list.
func (h *AdminHandler) ListProjectTypes(c *gin.Context) {
	types, err := h.adminService.ListProjectTypes()
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"types":   types,
	})
}

// CreateProjectType adds a new type to the list.
func (h *AdminHandler) CreateProjectType(c *gin.Context) {
	type CreateTypeRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req CreateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	pt, err := h.adminService.CreateProjectType(req.Name, req.Description)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"type":    pt,
	})
}

// UpdateProjectType edits a type's description.
func (h *AdminHandler) UpdateProjectType(c *gin.Context) {
	typeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateTypeRequest struct {
		Description string `json:"description"`
	}

	var req UpdateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	pt, err := h.adminService.UpdateProjectType(typeID, req.Description)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"type":    pt,
	})
}

// DeleteProjectType removes an unused type.
func (h *AdminHandler) DeleteProjectType(c *gin.Context) {
	typeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteProjectType(typeID); err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Project type deleted successfully",
	})
}

func respondAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrProjectTypeNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProjectTypeTaken),
		errors.Is(err, services.ErrProjectTypeInUse),
		errors.Is(err, services.ErrProjectNotCheckedOut):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidUserRole),
		errors.Is(err, services.ErrProjectNameTooShort),
		errors.Is(err, services.ErrProjectDescTooShort),
		errors.Is(err, services.ErrUnknownProjectType):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
