package controllers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/middleware"
	"github.com/nexusnu/webclient/internal/pkg/apiclient"
	"github.com/nexusnu/webclient/internal/pkg/apperrors"
	"github.com/nexusnu/webclient/internal/pkg/validation"
)

// listLimit is the page size of the post and event lists
const listLimit = 50

// viewer returns the signed-in user, nil for anonymous visitors
func viewer(ctx *gin.Context) *models.User {
	if s := middleware.CurrentSession(ctx); s != nil {
		return s.User()
	}
	return nil
}

// requestContext carries the session token to the repositories
func requestContext(ctx *gin.Context) context.Context {
	if s := middleware.CurrentSession(ctx); s != nil {
		return s.Context(ctx.Request.Context())
	}
	return ctx.Request.Context()
}

func render(ctx *gin.Context, page string, data gin.H) {
	ctx.HTML(http.StatusOK, page, middleware.PageData(ctx, data))
}

// renderForm re-renders a form with the error that rejected it
func renderForm(ctx *gin.Context, page string, err error, data gin.H) {
	status, _, _ := middleware.ErrorStatus(err)
	if data == nil {
		data = gin.H{}
	}
	data["Error"] = userMessage(err, "")
	ctx.HTML(status, page, middleware.PageData(ctx, data))
}

func redirectWithFlash(ctx *gin.Context, kind, message, location string) {
	middleware.AddFlash(ctx, kind, message)
	ctx.Redirect(http.StatusSeeOther, location)
}

// redirectWithError flashes err in user terms and goes back to location
func redirectWithError(ctx *gin.Context, err error, fallback, location string) {
	_ = ctx.Error(err)
	redirectWithFlash(ctx, middleware.FlashError, userMessage(err, fallback), location)
}

// userMessage prefers the backend's message, then the client-side reason
// for 4xx errors, then fallback.
func userMessage(err error, fallback string) string {
	if msg := apperrors.UserMessage(err, ""); msg != "" {
		return msg
	}
	status, _, generic := middleware.ErrorStatus(err)
	if status < http.StatusInternalServerError || fallback == "" {
		return generic
	}
	return fallback
}

// confirmed reports whether the user accepted the delete prompt
func confirmed(ctx *gin.Context) bool {
	return ctx.PostForm("confirm") == "yes"
}

// readImages collects the uploaded images of a multipart form field
func readImages(ctx *gin.Context, field string) ([]apiclient.File, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, validationError("images", "Invalid upload")
	}

	var files []apiclient.File
	for _, fh := range form.File[field] {
		if fh.Size == 0 {
			continue
		}
		f, err := readUpload(fh, field)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	if len(files) > validation.PostMaxImages {
		return nil, validationError("images", "You can upload at most 4 images")
	}
	return files, nil
}

func readUpload(fh *multipart.FileHeader, field string) (apiclient.File, error) {
	contentType := fh.Header.Get("Content-Type")
	if err := validation.ImageUpload(contentType, fh.Size); err != nil {
		return apiclient.File{}, err
	}
	src, err := fh.Open()
	if err != nil {
		return apiclient.File{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return apiclient.File{}, err
	}
	return apiclient.File{Field: field, Name: fh.Filename, ContentType: contentType, Data: data}, nil
}

func validationError(field, message string) error {
	return apperrors.NewValidationError(field, message)
}
