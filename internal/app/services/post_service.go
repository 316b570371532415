package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/app/auth"
	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/models/dto"
	"github.com/nexusnu/webclient/internal/app/repositories"
	"github.com/nexusnu/webclient/internal/pkg/apiclient"
	"github.com/nexusnu/webclient/internal/pkg/apperrors"
	"github.com/nexusnu/webclient/internal/pkg/validation"
)

// PostService defines the interface for post-related operations
type PostService interface {
	List(ctx context.Context, limit int) ([]models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, req *dto.PostRequest, images []apiclient.File) (*models.Post, error)
	Update(ctx context.Context, viewer *models.User, id string, req *dto.PostRequest, images []apiclient.File) (*models.Post, error)
	Delete(ctx context.Context, viewer *models.User, id string, confirmed bool) error
	ToggleLike(ctx context.Context, id string) (*models.Post, error)
	AddComment(ctx context.Context, postID string, req *dto.CommentRequest) (*models.Post, error)
	DeleteComment(ctx context.Context, viewer *models.User, postID, commentID string, confirmed bool) (*models.Post, error)
}

// postServiceImpl implements the PostService interface
type postServiceImpl struct {
	postRepo *repositories.PostRepository
	logger   zerolog.Logger
}

// NewPostService creates a new post service instance
func NewPostService(postRepo *repositories.PostRepository, logger zerolog.Logger) PostService {
	return &postServiceImpl{
		postRepo: postRepo,
		logger:   logger,
	}
}

// List returns recent posts
func (s *postServiceImpl) List(ctx context.Context, limit int) ([]models.Post, error) {
	posts, err := s.postRepo.List(ctx, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load posts")
		return nil, err
	}
	return posts, nil
}

// Get returns one post with its comments
func (s *postServiceImpl) Get(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.postRepo.Get(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("postID", id).Msg("Failed to load post")
		return nil, err
	}
	return post, nil
}

// Create validates the form and publishes the post
func (s *postServiceImpl) Create(ctx context.Context, req *dto.PostRequest, images []apiclient.File) (*models.Post, error) {
	if err := s.prepare(req, images); err != nil {
		return nil, err
	}
	post, err := s.postRepo.Create(ctx, req, images)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create post")
		return nil, err
	}
	s.logger.Info().Str("postID", post.ID).Msg("Post created")
	return post, nil
}

// Update edits a post owned by viewer, or any post for an admin
func (s *postServiceImpl) Update(ctx context.Context, viewer *models.User, id string, req *dto.PostRequest, images []apiclient.File) (*models.Post, error) {
	if err := s.prepare(req, images); err != nil {
		return nil, err
	}
	current, err := s.postRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.ValidateModifyPost(viewer, current); err != nil {
		return nil, err
	}

	post, err := s.postRepo.Update(ctx, id, req, images)
	if err != nil {
		s.logger.Error().Err(err).Str("postID", id).Msg("Failed to update post")
		return nil, err
	}
	return post, nil
}

func (s *postServiceImpl) prepare(req *dto.PostRequest, images []apiclient.File) error {
	if len(req.Tags) == 0 {
		req.Tags = validation.SplitTags(req.TagsText)
	}
	return validation.Post(req.Title, req.Content, len(images))
}

// Delete removes a post after confirmation
func (s *postServiceImpl) Delete(ctx context.Context, viewer *models.User, id string, confirmed bool) error {
	if !confirmed {
		return apperrors.ErrConfirmationRequired
	}
	post, err := s.postRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.ValidateModifyPost(viewer, post); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("postID", id).Msg("Failed to delete post")
		return err
	}
	return nil
}

// ToggleLike flips the viewer's like and returns the post as the backend
// now sees it.
func (s *postServiceImpl) ToggleLike(ctx context.Context, id string) (*models.Post, error) {
	if err := s.postRepo.ToggleLike(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("postID", id).Msg("Failed to toggle like")
		return nil, err
	}
	return s.postRepo.Get(ctx, id)
}

// AddComment adds a comment or a reply to a top-level comment
func (s *postServiceImpl) AddComment(ctx context.Context, postID string, req *dto.CommentRequest) (*models.Post, error) {
	text, err := validation.CommentText(req.Text)
	if err != nil {
		return nil, err
	}
	req.Text = text

	if req.ParentCommentID != "" {
		post, err := s.postRepo.Get(ctx, postID)
		if err != nil {
			return nil, err
		}
		parent, ok := post.FindComment(req.ParentCommentID)
		if !ok {
			return nil, fmt.Errorf("%w: parent comment", apperrors.ErrResourceNotFound)
		}
		if parent.IsReply() {
			return nil, apperrors.NewValidationError("parentCommentId", "Replies cannot be nested")
		}
	}

	if err := s.postRepo.AddComment(ctx, postID, req); err != nil {
		s.logger.Error().Err(err).Str("postID", postID).Msg("Failed to add comment")
		return nil, err
	}
	return s.postRepo.Get(ctx, postID)
}

// DeleteComment removes a comment after confirmation
func (s *postServiceImpl) DeleteComment(ctx context.Context, viewer *models.User, postID, commentID string, confirmed bool) (*models.Post, error) {
	if !confirmed {
		return nil, apperrors.ErrConfirmationRequired
	}
	post, err := s.postRepo.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	comment, ok := post.FindComment(commentID)
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	if !auth.CanDeleteComment(viewer, post, comment) {
		return nil, apperrors.ErrPermissionDenied
	}

	if err := s.postRepo.DeleteComment(ctx, postID, commentID); err != nil {
		s.logger.Error().Err(err).Str("commentID", commentID).Msg("Failed to delete comment")
		return nil, err
	}
	return s.postRepo.Get(ctx, postID)
}
