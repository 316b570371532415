package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/app/services"
)

const (
	cookieKeySessionID = "sid"
	cookieKeyToken     = "token"
	contextKeySession  = "session"

	// FlashSuccess and FlashError are the flash message kinds
	FlashSuccess = "success"
	FlashError   = "error"
)

// SessionMiddleware binds each request to its in-process client session
type SessionMiddleware struct {
	store  *services.SessionStore
	logger zerolog.Logger
}

// NewSessionMiddleware creates a new SessionMiddleware
func NewSessionMiddleware(store *services.SessionStore, logger zerolog.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		store:  store,
		logger: logger,
	}
}

// LoadSession resolves the client session before any page renders. The
// cookie carries the session id and the backend token so that a restart
// of this process only costs one /auth/me round trip.
func (m *SessionMiddleware) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie := sessions.Default(c)
		id, _ := cookie.Get(cookieKeySessionID).(string)
		token, _ := cookie.Get(cookieKeyToken).(string)

		session := m.store.Get(id, token)
		if err := session.Resolve(c.Request.Context()); err != nil {
			m.logger.Warn().Err(err).Str("session", session.ID()).Msg("Session resolution failed, continuing anonymous")
		}

		dirty := false
		if id != session.ID() {
			cookie.Set(cookieKeySessionID, session.ID())
			dirty = true
		}
		if token != session.Token() {
			setToken(cookie, session.Token())
			dirty = true
		}
		if dirty {
			if err := cookie.Save(); err != nil {
				m.logger.Error().Err(err).Msg("Failed to save session cookie")
			}
		}

		c.Set(contextKeySession, session)
		c.Next()
	}
}

// CurrentSession returns the session bound by LoadSession
func CurrentSession(c *gin.Context) *services.Session {
	if v, ok := c.Get(contextKeySession); ok {
		if s, ok := v.(*services.Session); ok {
			return s
		}
	}
	return nil
}

// PersistToken writes the session's current token to the cookie, after a
// login, registration or logout changed it.
func PersistToken(c *gin.Context) error {
	session := CurrentSession(c)
	if session == nil {
		return nil
	}
	cookie := sessions.Default(c)
	setToken(cookie, session.Token())
	return cookie.Save()
}

func setToken(cookie sessions.Session, token string) {
	if token == "" {
		cookie.Delete(cookieKeyToken)
		return
	}
	cookie.Set(cookieKeyToken, token)
}

// AddFlash queues a one-shot message for the next rendered page
func AddFlash(c *gin.Context, kind, message string) {
	cookie := sessions.Default(c)
	cookie.AddFlash(message, kind)
	_ = cookie.Save()
}

// Flashes pops the queued messages of a kind
func Flashes(c *gin.Context, kind string) []string {
	cookie := sessions.Default(c)
	raw := cookie.Flashes(kind)
	if len(raw) == 0 {
		return nil
	}
	_ = cookie.Save()

	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
