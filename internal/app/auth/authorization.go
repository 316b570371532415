package auth

import (
	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/pkg/apperrors"
)

// The backend is the authority on every permission; these checks only decide
// which controls a page shows and stop obviously refused requests early.

// IsAdmin checks if the viewer has the admin role
func IsAdmin(viewer *models.User) bool {
	return viewer.IsAdmin()
}

// CanModifyPost checks if the viewer may edit or delete a post
func CanModifyPost(viewer *models.User, post *models.Post) bool {
	if viewer == nil || post == nil {
		return false
	}
	return viewer.IsAdmin() || post.Author.ID == viewer.ID
}

// CanDeleteComment checks if the viewer may delete a comment on post.
// Admins, the post author and the comment author qualify.
func CanDeleteComment(viewer *models.User, post *models.Post, comment models.Comment) bool {
	if viewer == nil || post == nil {
		return false
	}
	return viewer.IsAdmin() || post.Author.ID == viewer.ID || comment.User.ID == viewer.ID
}

// CanModifyEvent checks if the viewer may edit or delete an event
func CanModifyEvent(viewer *models.User, event *models.Event) bool {
	if viewer == nil || event == nil {
		return false
	}
	return viewer.IsAdmin() || event.Organizer.ID == viewer.ID
}

// CanDeleteJobComment checks if the viewer may remove a job comment
func CanDeleteJobComment(viewer *models.User, comment models.JobComment) bool {
	if viewer == nil {
		return false
	}
	return viewer.IsAdmin() || comment.User.ID == viewer.ID
}

// CanDeleteMessage checks if the viewer sent the message
func CanDeleteMessage(viewer *models.User, message models.Message) bool {
	return viewer != nil && message.Sender.ID == viewer.ID
}

// ValidateNotSelf returns ErrSelfAction when targetID is the viewer
func ValidateNotSelf(viewer *models.User, targetID string) error {
	if viewer != nil && viewer.ID == targetID {
		return apperrors.ErrSelfAction
	}
	return nil
}

// ValidateModifyPost returns ErrPermissionDenied unless CanModifyPost
func ValidateModifyPost(viewer *models.User, post *models.Post) error {
	if !CanModifyPost(viewer, post) {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// ValidateModifyEvent returns ErrPermissionDenied unless CanModifyEvent
func ValidateModifyEvent(viewer *models.User, event *models.Event) error {
	if !CanModifyEvent(viewer, event) {
		return apperrors.ErrPermissionDenied
	}
	return nil
}
