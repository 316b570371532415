package dto

import "github.com/nexusnu/webclient/internal/app/models"

// PostListResponse is returned by GET /posts
type PostListResponse struct {
	Posts []models.Post `json:"posts"`
}

// PostResponse wraps a single post
type PostResponse struct {
	Post models.Post `json:"post"`
}

// PostRequest is the create/edit post form
type PostRequest struct {
	Title    string   `json:"title" form:"title"`
	Content  string   `json:"content" form:"content"`
	Tags     []string `json:"tags,omitempty" form:"-"`
	TagsText string   `json:"-" form:"tags"`
	ImageURL string   `json:"imageUrl,omitempty" form:"imageUrl"`
}

// CommentRequest adds a comment or a one-level reply
type CommentRequest struct {
	Text            string `json:"text" form:"text"`
	ParentCommentID string `json:"parentCommentId,omitempty" form:"parentCommentId"`
}
