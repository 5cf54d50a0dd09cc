package dto

import (
	"time"

	"github.com/retrohub/retrohub-api/internal/models"
)

// ProjectFileDTO represents a project file in API responses
type ProjectFileDTO struct {
	ID           uint64    `json:"id"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	UploaderID   uint64    `json:"uploader_id"`
	Uploader     *UserDTO  `json:"uploader,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// ProjectMemberDTO represents a member in API responses
type ProjectMemberDTO struct {
	User     UserDTO   `json:"user"`
	JoinedAt time.Time `json:"joined_at"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID             uint64                `json:"id"`
	Name           string                `json:"name"`
	Description    string                `json:"description"`
	Type           string                `json:"type"`
	Version        string                `json:"version"`
	Tags           []string              `json:"tags"`
	OwnerID        uint64                `json:"owner_id"`
	Owner          *UserDTO              `json:"owner,omitempty"`
	CheckoutStatus models.CheckoutStatus `json:"checkout_status"`
	CheckedOutBy   *uint64               `json:"checked_out_by"`
	Downloads      uint64                `json:"downloads"`
	ImagePath      string                `json:"image_path,omitempty"`
	LastActivityAt time.Time             `json:"last_activity_at"`
	CreatedAt      time.Time             `json:"created_at"`
	Members        []ProjectMemberDTO    `json:"members,omitempty"`
	Files          []ProjectFileDTO      `json:"files,omitempty"`
}

// ProjectListItemDTO represents a project in feed and list responses
type ProjectListItemDTO struct {
	ID             uint64                `json:"id"`
	Name           string                `json:"name"`
	Description    string                `json:"description"`
	Type           string                `json:"type"`
	Version        string                `json:"version"`
	Tags           []string              `json:"tags"`
	OwnerID        uint64                `json:"owner_id"`
	Owner          *UserDTO              `json:"owner,omitempty"`
	CheckoutStatus models.CheckoutStatus `json:"checkout_status"`
	Downloads      uint64                `json:"downloads"`
	LastActivityAt time.Time             `json:"last_activity_at"`
}

// ActivityDTO represents an activity log entry in API responses
type ActivityDTO struct {
	ID        uint64    `json:"id"`
	ProjectID uint64    `json:"project_id"`
	UserID    uint64    `json:"user_id"`
	User      *UserDTO  `json:"user,omitempty"`
	Action    string    `json:"action"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToProjectFileDTO converts a ProjectFile model to ProjectFileDTO
func ToProjectFileDTO(file models.ProjectFile) ProjectFileDTO {
	dto := ProjectFileDTO{
		ID:           file.ID,
		OriginalName: file.OriginalName,
		MimeType:     file.MimeType,
		Size:         file.Size,
		UploaderID:   file.UploaderID,
		UploadedAt:   file.CreatedAt,
	}
	if file.Uploader.ID != 0 {
		uploader := ToUserDTO(file.Uploader)
		dto.Uploader = &uploader
	}
	return dto
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:             project.ID,
		Name:           project.Name,
		Description:    project.Description,
		Type:           project.Type,
		Version:        project.Version,
		Tags:           project.Tags,
		OwnerID:        project.OwnerID,
		CheckoutStatus: project.CheckoutStatus,
		CheckedOutBy:   project.CheckedOutBy,
		Downloads:      project.Downloads,
		ImagePath:      project.ImagePath,
		LastActivityAt: project.LastActivityAt,
		CreatedAt:      project.CreatedAt,
	}

	// Include owner if preloaded
	if project.Owner.ID != 0 {
		owner := ToUserDTO(project.Owner)
		dto.Owner = &owner
	}

	// Include members if preloaded
	if len(project.Members) > 0 {
		dto.Members = make([]ProjectMemberDTO, len(project.Members))
		for i, member := range project.Members {
			dto.Members[i] = ProjectMemberDTO{
				User:     ToUserDTO(member.User),
				JoinedAt: member.JoinedAt,
			}
		}
	}

	// Include files if preloaded
	if len(project.Files) > 0 {
		dto.Files = make([]ProjectFileDTO, len(project.Files))
		for i, file := range project.Files {
			dto.Files[i] = ToProjectFileDTO(file)
		}
	}

	return dto
}

// ToProjectListItemDTO converts a Project model to ProjectListItemDTO
func ToProjectListItemDTO(project models.Project) ProjectListItemDTO {
	dto := ProjectListItemDTO{
		ID:             project.ID,
		Name:           project.Name,
		Description:    project.Description,
		Type:           project.Type,
		Version:        project.Version,
		Tags:           project.Tags,
		OwnerID:        project.OwnerID,
		CheckoutStatus: project.CheckoutStatus,
		Downloads:      project.Downloads,
		LastActivityAt: project.LastActivityAt,
	}
	if project.Owner.ID != 0 {
		owner := ToUserDTO(project.Owner)
		dto.Owner = &owner
	}
	return dto
}

// ToProjectListItemDTOs converts a slice of projects
func ToProjectListItemDTOs(projects []models.Project) []ProjectListItemDTO {
	items := make([]ProjectListItemDTO, len(projects))
	for i, project := range projects {
		items[i] = ToProjectListItemDTO(project)
	}
	return items
}

// ToActivityDTO converts an Activity model to ActivityDTO
func ToActivityDTO(activity models.Activity) ActivityDTO {
	dto := ActivityDTO{
		ID:        activity.ID,
		ProjectID: activity.ProjectID,
		UserID:    activity.UserID,
		Action:    activity.Action,
		Message:   activity.Message,
		CreatedAt: activity.CreatedAt,
	}
	if activity.User.ID != 0 {
		user := ToUserDTO(activity.User)
		dto.User = &user
	}
	return dto
}

// ToActivityDTOs converts a slice of activities
func ToActivityDTOs(activities []models.Activity) []ActivityDTO {
	dtos := make([]ActivityDTO, len(activities))
	for i, activity := range activities {
		dtos[i] = ToActivityDTO(activity)
	}
	return dtos
}
