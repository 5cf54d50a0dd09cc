package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/retrohub/retrohub-api/internal/dto"
	apierrors "github.com/retrohub/retrohub-api/internal/errors"
	"github.com/retrohub/retrohub-api/internal/services"
	"github.com/retrohub/retrohub-api/internal/utils"
)

// SearchHandler serves term searches over projects, users, tags, and activity.
type SearchHandler struct {
	searchService *services.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// Search runs a search of the requested type.
func (h *SearchHandler) Search(c *gin.Context) {
	term := c.Query("term")
	searchType := services.SearchType(c.DefaultQuery("type", string(services.SearchTypeProjects)))
	params := utils.GetPaginationParams(c)

	result, err := h.searchService.Search(term, searchType, params.Page, params.Limit)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSearchTermRequired),
			errors.Is(err, services.ErrInvalidSearchType):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Internal server error")
		}
		return
	}

	response := gin.H{"success": true, "type": searchType}
	switch searchType {
	case services.SearchTypeProjects, services.SearchTypeTags:
		response["projects"] = dto.ToProjectListItemDTOs(result.Projects)
	case services.SearchTypeUsers:
		response["users"] = dto.ToUserDTOs(result.Users)
	case services.SearchTypeActivity:
		response["activity"] = dto.ToActivityDTOs(result.Activities)
	}

	c.JSON(http.StatusOK, response)
}
