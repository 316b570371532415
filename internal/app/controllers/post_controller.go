package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/app/auth"
	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/models/dto"
	"github.com/nexusnu/webclient/internal/app/services"
	"github.com/nexusnu/webclient/internal/middleware"
)

// PostController handles post pages and their actions
type PostController struct {
	postService services.PostService
	logger      zerolog.Logger
}

// NewPostController creates a new PostController
func NewPostController(postService services.PostService, logger zerolog.Logger) *PostController {
	return &PostController{
		postService: postService,
		logger:      logger,
	}
}

// List renders all posts
func (c *PostController) List(ctx *gin.Context) {
	posts, err := c.postService.List(requestContext(ctx), listLimit)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list posts")
		render(ctx, "posts", gin.H{"LoadError": "Failed to load posts."})
		return
	}
	render(ctx, "posts", gin.H{"Posts": posts})
}

// Detail renders one post with its comments
func (c *PostController) Detail(ctx *gin.Context) {
	post, err := c.postService.Get(requestContext(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandlePageError(ctx, err)
		return
	}
	c.renderDetail(ctx, post)
}

func (c *PostController) renderDetail(ctx *gin.Context, post *models.Post) {
	user := viewer(ctx)
	liked := false
	if user != nil {
		liked = post.LikedBy(user.ID)
	}
	render(ctx, "post_detail", gin.H{
		"Post":      post,
		"Liked":     liked,
		"CanModify": auth.CanModifyPost(user, post),
	})
}

// CreatePage renders an empty post form
func (c *PostController) CreatePage(ctx *gin.Context) {
	render(ctx, "post_form", gin.H{
		"Form":   dto.PostRequest{},
		"Action": "/posts/create",
		"Cancel": "/posts",
	})
}

// Create publishes a post
func (c *PostController) Create(ctx *gin.Context) {
	var req dto.PostRequest
	formData := gin.H{"Form": &req, "Action": "/posts/create", "Cancel": "/posts"}
	if err := middleware.BindForm(ctx, &req); err != nil {
		renderForm(ctx, "post_form", err, formData)
		return
	}
	images, err := readImages(ctx, "images")
	if err != nil {
		renderForm(ctx, "post_form", err, formData)
		return
	}

	post, err := c.postService.Create(requestContext(ctx), &req, images)
	if err != nil {
		renderForm(ctx, "post_form", err, formData)
		return
	}
	redirectWithFlash(ctx, middleware.FlashSuccess, "Post published", "/posts/"+post.ID)
}

// EditPage renders the post form filled with the post
func (c *PostController) EditPage(ctx *gin.Context) {
	post, err := c.postService.Get(requestContext(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandlePageError(ctx, err)
		return
	}
	if !auth.CanModifyPost(viewer(ctx), post) {
		redirectWithFlash(ctx, middleware.FlashError, "You can only edit your own posts", "/posts/"+post.ID)
		return
	}
	render(ctx, "post_form", gin.H{
		"Form": dto.PostRequest{
			Title:    post.Title,
			Content:  post.Content,
			TagsText: strings.Join(post.Tags, ", "),
			ImageURL: post.ImageURL,
		},
		"Editing": true,
		"Action":  "/posts/" + post.ID + "/edit",
		"Cancel":  "/posts/" + post.ID,
	})
}

// Update saves an edited post
func (c *PostController) Update(ctx *gin.Context) {
	id := ctx.Param("id")
	var req dto.PostRequest
	formData := gin.H{"Form": &req, "Editing": true, "Action": "/posts/" + id + "/edit", "Cancel": "/posts/" + id}
	if err := middleware.BindForm(ctx, &req); err != nil {
		renderForm(ctx, "post_form", err, formData)
		return
	}
	images, err := readImages(ctx, "images")
	if err != nil {
		renderForm(ctx, "post_form", err, formData)
		return
	}

	if _, err := c.postService.Update(requestContext(ctx), viewer(ctx), id, &req, images); err != nil {
		renderForm(ctx, "post_form", err, formData)
		return
	}
	redirectWithFlash(ctx, middleware.FlashSuccess, "Post updated", "/posts/"+id)
}

// Delete removes a post after confirmation
func (c *PostController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := c.postService.Delete(requestContext(ctx), viewer(ctx), id, confirmed(ctx)); err != nil {
		redirectWithError(ctx, err, "Failed to delete post", "/posts/"+id)
		return
	}
	redirectWithFlash(ctx, middleware.FlashSuccess, "Post deleted", "/posts")
}

// ToggleLike likes or unlikes a post
func (c *PostController) ToggleLike(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, err := c.postService.ToggleLike(requestContext(ctx), id); err != nil {
		redirectWithError(ctx, err, "Failed to update like", "/posts/"+id)
		return
	}
	ctx.Redirect(http.StatusSeeOther, "/posts/"+id)
}

// AddComment posts a comment or a reply
func (c *PostController) AddComment(ctx *gin.Context) {
	id := ctx.Param("id")
	var req dto.CommentRequest
	if err := middleware.BindForm(ctx, &req); err != nil {
		redirectWithError(ctx, err, "", "/posts/"+id)
		return
	}
	if _, err := c.postService.AddComment(requestContext(ctx), id, &req); err != nil {
		redirectWithError(ctx, err, "Failed to add comment", "/posts/"+id)
		return
	}
	ctx.Redirect(http.StatusSeeOther, "/posts/"+id)
}

// DeleteComment removes a comment after confirmation
func (c *PostController) DeleteComment(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, err := c.postService.DeleteComment(requestContext(ctx), viewer(ctx), id, ctx.Param("commentId"), confirmed(ctx)); err != nil {
		redirectWithError(ctx, err, "Failed to delete comment", "/posts/"+id)
		return
	}
	redirectWithFlash(ctx, middleware.FlashSuccess, "Comment deleted", "/posts/"+id)
}
