package dto

import "github.com/nexusnu/webclient/internal/app/models"

// UserListResponse is returned by GET /users
type UserListResponse struct {
	Users []models.User `json:"users"`
}

// UserResponse wraps a single user
type UserResponse struct {
	User models.User `json:"user"`
}

// ProfileResponse is returned by GET /users/:id
type ProfileResponse struct {
	User   models.User    `json:"user"`
	Posts  []models.Post  `json:"posts"`
	Events []models.Event `json:"events"`
}

// UpdateProfileRequest is the editable part of a profile
type UpdateProfileRequest struct {
	Name           string                 `json:"name" form:"name" binding:"required"`
	Bio            string                 `json:"bio" form:"bio"`
	Major          string                 `json:"major,omitempty" form:"major"`
	Department     string                 `json:"department,omitempty" form:"department"`
	Skills         []string               `json:"skills" form:"skills"`
	Certifications []models.Certification `json:"certifications" form:"-"`
}

// SkillSearchResponse is returned by GET /skills/search
type SkillSearchResponse struct {
	Skills []models.Skill `json:"skills"`
}

// CropArea is the pixel rectangle chosen in the cropper
type CropArea struct {
	X      int `form:"crop_x"`
	Y      int `form:"crop_y"`
	Width  int `form:"crop_width"`
	Height int `form:"crop_height"`
}
