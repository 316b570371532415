package repositories

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/models/dto"
	"github.com/nexusnu/webclient/internal/pkg/apiclient"
)

// PostRepository handles the /posts endpoints
type PostRepository struct {
	api *apiclient.Client
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(api *apiclient.Client) *PostRepository {
	return &PostRepository{api: api}
}

// List returns recent posts; limit <= 0 means the backend default
func (r *PostRepository) List(ctx context.Context, limit int) ([]models.Post, error) {
	var resp dto.PostListResponse
	if err := r.api.Get(ctx, "/posts", limitQuery(limit), &resp); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return resp.Posts, nil
}

// Get returns a post with its comments
func (r *PostRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	var resp dto.PostResponse
	if err := r.api.Get(ctx, "/posts/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	return &resp.Post, nil
}

// ListByUser returns the posts authored by userID
func (r *PostRepository) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	var resp dto.PostListResponse
	if err := r.api.Get(ctx, "/posts/user/"+url.PathEscape(userID), nil, &resp); err != nil {
		return nil, fmt.Errorf("list posts of %s: %w", userID, err)
	}
	return resp.Posts, nil
}

// Create publishes a post. Attached images switch the body to multipart.
func (r *PostRepository) Create(ctx context.Context, req *dto.PostRequest, images []apiclient.File) (*models.Post, error) {
	var resp dto.PostResponse
	var err error
	if len(images) > 0 {
		err = r.api.PostMultipart(ctx, "/posts", postFields(req), images, &resp)
	} else {
		err = r.api.Post(ctx, "/posts", req, &resp)
	}
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &resp.Post, nil
}

// Update edits a post the caller owns
func (r *PostRepository) Update(ctx context.Context, id string, req *dto.PostRequest, images []apiclient.File) (*models.Post, error) {
	path := "/posts/" + url.PathEscape(id)
	var resp dto.PostResponse
	var err error
	if len(images) > 0 {
		err = r.api.PutMultipart(ctx, path, postFields(req), images, &resp)
	} else {
		err = r.api.Put(ctx, path, req, &resp)
	}
	if err != nil {
		return nil, fmt.Errorf("update post %s: %w", id, err)
	}
	return &resp.Post, nil
}

// Delete removes a post
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	if err := r.api.Delete(ctx, "/posts/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}

// ToggleLike likes or unlikes a post for the current user
func (r *PostRepository) ToggleLike(ctx context.Context, id string) error {
	if err := r.api.Post(ctx, "/posts/"+url.PathEscape(id)+"/like", nil, nil); err != nil {
		return fmt.Errorf("toggle like on %s: %w", id, err)
	}
	return nil
}

// AddComment comments on a post, or replies when ParentCommentID is set
func (r *PostRepository) AddComment(ctx context.Context, postID string, req *dto.CommentRequest) error {
	if err := r.api.Post(ctx, "/posts/"+url.PathEscape(postID)+"/comment", req, nil); err != nil {
		return fmt.Errorf("comment on %s: %w", postID, err)
	}
	return nil
}

// DeleteComment removes a comment from a post
func (r *PostRepository) DeleteComment(ctx context.Context, postID, commentID string) error {
	path := "/posts/" + url.PathEscape(postID) + "/comment/" + url.PathEscape(commentID)
	if err := r.api.Delete(ctx, path, nil); err != nil {
		return fmt.Errorf("delete comment %s: %w", commentID, err)
	}
	return nil
}

func postFields(req *dto.PostRequest) map[string][]string {
	fields := map[string][]string{
		"title":   {req.Title},
		"content": {req.Content},
	}
	if len(req.Tags) > 0 {
		fields["tags"] = req.Tags
	}
	if req.ImageURL != "" {
		fields["imageUrl"] = []string{req.ImageURL}
	}
	return fields
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}
