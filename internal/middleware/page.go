package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/pkg/apperrors"
)

// PageData adds what every page needs (viewer, unread badge, flashes) to data
func PageData(c *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	var viewer *models.User
	unread := 0
	if session := CurrentSession(c); session != nil {
		viewer = session.User()
		unread = session.UnreadCount()
	}
	data["Viewer"] = viewer
	data["Unread"] = unread
	data["FlashSuccess"] = Flashes(c, FlashSuccess)
	data["FlashError"] = Flashes(c, FlashError)
	return data
}

// HandlePageError renders the error page for err
func HandlePageError(c *gin.Context, err error) {
	status, _, fallback := ErrorStatus(err)
	_ = c.Error(err)
	c.HTML(status, "error", PageData(c, gin.H{
		"Status":  status,
		"Message": apperrors.UserMessage(err, fallback),
	}))
}
