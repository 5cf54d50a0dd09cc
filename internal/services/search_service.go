package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/retrohub/retrohub-api/internal/models"
	"github.com/retrohub/retrohub-api/internal/repository"
)

var (
	ErrSearchTermRequired = errors.New("search term is required")
	ErrInvalidSearchType  = errors.New("type must be one of projects, users, tags, activity")
)

// SearchType selects which collection a search runs against.
type SearchType string

const (
	SearchTypeProjects SearchType = "projects"
	SearchTypeUsers    SearchType = "users"
	SearchTypeTags     SearchType = "tags"
	SearchTypeActivity SearchType = "activity"
)

// SearchResult holds one populated slice depending on the requested type.
type SearchResult struct {
	Projects   []models.Project
	Users      []models.User
	Activities []models.Activity
}

// SearchService runs term searches over projects, users, tags, and activity.
type SearchService struct {
	projectRepo  repository.ProjectRepository
	userRepo     repository.UserRepository
	activityRepo repository.ActivityRepository
}

// NewSearchService creates a new SearchService.
func NewSearchService(
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	activityRepo repository.ActivityRepository,
) *SearchService {
	return &SearchService{
		projectRepo:  projectRepo,
		userRepo:     userRepo,
		activityRepo: activityRepo,
	}
}

// Search executes a term search of the given type.
func (s *SearchService) Search(term string, searchType SearchType, page, pageSize int) (*SearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrSearchTermRequired
	}

	result := &SearchResult{}

	switch searchType {
	case SearchTypeProjects:
		projects, _, err := s.projectRepo.List(repository.ProjectFilter{
			Term:     term,
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to search projects: %w", err)
		}
		result.Projects = projects

	case SearchTypeTags:
		projects, _, err := s.projectRepo.List(repository.ProjectFilter{
			Tag:      term,
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to search tags: %w", err)
		}
		result.Projects = projects

	case SearchTypeUsers:
		users, _, err := s.userRepo.List(repository.UserFilter{
			Term:     term,
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to search users: %w", err)
		}
		result.Users = users

	case SearchTypeActivity:
		activities, err := s.activityRepo.Search(term)
		if err != nil {
			return nil, fmt.Errorf("failed to search activity: %w", err)
		}
		result.Activities = activities

	default:
		return nil, ErrInvalidSearchType
	}

	return result, nil
}
