package repositories

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/models/dto"
	"github.com/nexusnu/webclient/internal/pkg/apiclient"
)

// UserRepository handles the /users endpoints
type UserRepository struct {
	api *apiclient.Client
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(api *apiclient.Client) *UserRepository {
	return &UserRepository{api: api}
}

// List returns every user
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var resp dto.UserListResponse
	if err := r.api.Get(ctx, "/users", nil, &resp); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return resp.Users, nil
}

// Get returns a profile: the user with their posts and events
func (r *UserRepository) Get(ctx context.Context, id string) (*dto.ProfileResponse, error) {
	var resp dto.ProfileResponse
	if err := r.api.Get(ctx, "/users/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &resp, nil
}

// UpdateProfile saves the current user's editable fields
func (r *UserRepository) UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*models.User, error) {
	var resp dto.UserResponse
	if err := r.api.Put(ctx, "/users/profile", req, &resp); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &resp.User, nil
}

// UploadProfilePicture sends a cropped JPEG as the current user's picture
func (r *UserRepository) UploadProfilePicture(ctx context.Context, jpeg []byte) (*models.User, error) {
	file := apiclient.File{
		Field:       "profilePicture",
		Name:        "profile.jpg",
		ContentType: "image/jpeg",
		Data:        jpeg,
	}
	var resp dto.UserResponse
	if err := r.api.PostMultipart(ctx, "/users/profile/picture", nil, []apiclient.File{file}, &resp); err != nil {
		return nil, fmt.Errorf("upload profile picture: %w", err)
	}
	return &resp.User, nil
}

// Follow makes the current user follow id
func (r *UserRepository) Follow(ctx context.Context, id string) error {
	if err := r.api.Post(ctx, "/users/"+url.PathEscape(id)+"/follow", nil, nil); err != nil {
		return fmt.Errorf("follow %s: %w", id, err)
	}
	return nil
}

// Unfollow reverses Follow
func (r *UserRepository) Unfollow(ctx context.Context, id string) error {
	if err := r.api.Delete(ctx, "/users/"+url.PathEscape(id)+"/unfollow", nil); err != nil {
		return fmt.Errorf("unfollow %s: %w", id, err)
	}
	return nil
}

// Delete removes a user account (admin only on the backend)
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if err := r.api.Delete(ctx, "/users/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return nil
}

// SkillRepository handles skill lookups
type SkillRepository struct {
	api *apiclient.Client
}

// NewSkillRepository creates a new SkillRepository
func NewSkillRepository(api *apiclient.Client) *SkillRepository {
	return &SkillRepository{api: api}
}

// Search returns skills matching q
func (r *SkillRepository) Search(ctx context.Context, q string) ([]models.Skill, error) {
	var resp dto.SkillSearchResponse
	if err := r.api.Get(ctx, "/skills/search", url.Values{"q": {q}}, &resp); err != nil {
		return nil, fmt.Errorf("search skills: %w", err)
	}
	return resp.Skills, nil
}

// CertificationRepository resolves credentials on learning platforms
type CertificationRepository struct {
	api *apiclient.Client
}

// NewCertificationRepository creates a new CertificationRepository
func NewCertificationRepository(api *apiclient.Client) *CertificationRepository {
	return &CertificationRepository{api: api}
}

// Fetch looks a credential up through the backend
func (r *CertificationRepository) Fetch(ctx context.Context, platform, credentialID string) (*models.Certification, error) {
	var cert models.Certification
	query := url.Values{"platform": {platform}, "id": {credentialID}}
	if err := r.api.Get(ctx, "/certifications/fetch", query, &cert); err != nil {
		return nil, fmt.Errorf("fetch certification: %w", err)
	}
	return &cert, nil
}
