package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nexusnu/webclient/internal/app/models/dto"
)

// RequireAuth sends anonymous visitors to the login page. JSON endpoints
// get a 401 envelope instead of a redirect.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := CurrentSession(c)
		if session != nil && session.IsAuthenticated() {
			c.Next()
			return
		}

		if wantsJSON(c) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}

// RequireAdmin sends non-admins back to the home page
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := CurrentSession(c)
		if session == nil || !session.IsAdmin() {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectAuthenticated keeps signed-in users away from login and register
func RedirectAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if session := CurrentSession(c); session != nil && session.IsAuthenticated() {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// LeaveChat tears down the chat screen once the user navigates elsewhere,
// which stops its message poll.
func LeaveChat() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method == http.MethodGet && !strings.HasPrefix(path, "/chat") && !strings.HasPrefix(path, "/static") {
			if session := CurrentSession(c); session != nil {
				session.LeaveChat()
			}
		}
		c.Next()
	}
}

func wantsJSON(c *gin.Context) bool {
	if strings.HasSuffix(c.Request.URL.Path, "/state") || strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
