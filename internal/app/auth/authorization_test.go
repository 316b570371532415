package auth

import (
	"errors"
	"testing"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/pkg/apperrors"
)

func TestCommentPermissions(t *testing.T) {
	author := &models.User{ID: "author"}
	commenter := &models.User{ID: "commenter"}
	stranger := &models.User{ID: "stranger"}
	admin := &models.User{ID: "admin", Role: models.RoleAdmin}

	post := &models.Post{ID: "p1", Author: *author}
	comment := models.Comment{ID: "c1", User: models.UserRef{ID: commenter.ID}}

	cases := []struct {
		viewer *models.User
		want   bool
	}{
		{author, true},
		{commenter, true},
		{admin, true},
		{stranger, false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := CanDeleteComment(tc.viewer, post, comment); got != tc.want {
			t.Errorf("viewer %+v: got %v", tc.viewer, got)
		}
	}
}

func TestModifyPermissions(t *testing.T) {
	owner := &models.User{ID: "o"}
	other := &models.User{ID: "x"}
	admin := &models.User{ID: "a", Role: models.RoleAdmin}

	post := &models.Post{Author: *owner}
	event := &models.Event{Organizer: *owner}

	if !CanModifyPost(owner, post) || !CanModifyPost(admin, post) || CanModifyPost(other, post) {
		t.Error("post permissions")
	}
	if !CanModifyEvent(owner, event) || !CanModifyEvent(admin, event) || CanModifyEvent(other, event) {
		t.Error("event permissions")
	}
	if err := ValidateModifyPost(other, post); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("got %v", err)
	}
}

func TestValidateNotSelf(t *testing.T) {
	me := &models.User{ID: "me"}
	if err := ValidateNotSelf(me, "me"); !errors.Is(err, apperrors.ErrSelfAction) {
		t.Fatalf("got %v", err)
	}
	if err := ValidateNotSelf(me, "you"); err != nil {
		t.Fatalf("got %v", err)
	}
}
