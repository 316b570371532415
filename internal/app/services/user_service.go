package services

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/app/auth"
	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/models/dto"
	"github.com/nexusnu/webclient/internal/app/repositories"
	"github.com/nexusnu/webclient/internal/pkg/apperrors"
	"github.com/nexusnu/webclient/internal/pkg/imaging"
	"github.com/nexusnu/webclient/internal/pkg/validation"
)

// Profile is a user page: the user, their content and the viewer's relation
type Profile struct {
	User        models.User
	Posts       []models.Post
	Events      []models.Event
	IsFollowing bool
	IsSelf      bool
}

// ProfilePicture is an uploaded picture and the area picked in the cropper
type ProfilePicture struct {
	Data        io.Reader
	ContentType string
	Size        int64
	Area        imaging.Area
}

// UserService defines the interface for user-related operations
type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Profile(ctx context.Context, viewer *models.User, id string) (*Profile, error)
	ToggleFollow(ctx context.Context, viewer *models.User, id string) (bool, error)
	UpdateProfile(ctx context.Context, viewer *models.User, req *dto.UpdateProfileRequest, picture *ProfilePicture) (*models.User, error)
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	userRepo  *repositories.UserRepository
	maxSkills int
	logger    zerolog.Logger
}

// NewUserService creates a new user service instance
func NewUserService(userRepo *repositories.UserRepository, maxSkills int, logger zerolog.Logger) UserService {
	if maxSkills <= 0 {
		maxSkills = validation.DefaultMaxSkills
	}
	return &userServiceImpl{
		userRepo:  userRepo,
		maxSkills: maxSkills,
		logger:    logger,
	}
}

// List returns the user directory
func (s *userServiceImpl) List(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load users")
		return nil, err
	}
	return users, nil
}

// Profile returns the profile page of id as seen by viewer
func (s *userServiceImpl) Profile(ctx context.Context, viewer *models.User, id string) (*Profile, error) {
	resp, err := s.userRepo.Get(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("userID", id).Msg("Failed to load profile")
		return nil, err
	}

	p := &Profile{
		User:   resp.User,
		Posts:  resp.Posts,
		Events: resp.Events,
	}
	if viewer != nil {
		p.IsSelf = viewer.ID == resp.User.ID
		p.IsFollowing = resp.User.FollowedBy(viewer.ID)
	}
	return p, nil
}

// ToggleFollow follows or unfollows id and returns the new state
func (s *userServiceImpl) ToggleFollow(ctx context.Context, viewer *models.User, id string) (bool, error) {
	if viewer == nil {
		return false, apperrors.ErrUnauthorized
	}
	if err := auth.ValidateNotSelf(viewer, id); err != nil {
		return false, err
	}

	resp, err := s.userRepo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if resp.User.FollowedBy(viewer.ID) {
		if err := s.userRepo.Unfollow(ctx, id); err != nil {
			s.logger.Error().Err(err).Str("userID", id).Msg("Failed to unfollow")
			return true, err
		}
		return false, nil
	}
	if err := s.userRepo.Follow(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("userID", id).Msg("Failed to follow")
		return false, err
	}
	return true, nil
}

// UpdateProfile saves the edit form. A picture is cropped and uploaded
// first; the profile update only runs once the upload succeeded.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, viewer *models.User, req *dto.UpdateProfileRequest, picture *ProfilePicture) (*models.User, error) {
	if viewer == nil {
		return nil, apperrors.ErrUnauthorized
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Bio = strings.TrimSpace(req.Bio)
	if err := validation.Profile(req.Name, req.Bio); err != nil {
		return nil, err
	}
	if len(req.Skills) > s.maxSkills {
		return nil, apperrors.NewValidationError("skills", "Too many skills selected")
	}

	// Students carry a major, professors a department
	switch viewer.Role {
	case models.RoleStudent:
		req.Department = ""
	case models.RoleProfessor:
		req.Major = ""
	}

	if picture != nil {
		if err := validation.ImageUpload(picture.ContentType, picture.Size); err != nil {
			return nil, err
		}
		jpeg, err := imaging.Crop(picture.Data, picture.Area, imaging.DefaultMaxSide)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Failed to crop profile picture")
			return nil, apperrors.NewValidationError("picture", "Failed to process image")
		}
		if _, err := s.userRepo.UploadProfilePicture(ctx, jpeg); err != nil {
			s.logger.Error().Err(err).Str("userID", viewer.ID).Msg("Failed to upload profile picture")
			return nil, err
		}
	}

	user, err := s.userRepo.UpdateProfile(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Str("userID", viewer.ID).Msg("Failed to update profile")
		return nil, err
	}
	s.logger.Info().Str("userID", viewer.ID).Msg("Profile updated")
	return user, nil
}
