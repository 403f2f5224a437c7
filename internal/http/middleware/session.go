package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marecop/YAweb/domain"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "sessionToken"

// Context keys set by the session middleware.
const (
	CtxUserKey     = "user"
	CtxUserIDKey   = "user_id"
	CtxUserRoleKey = "user_role"
)

// SessionMW resolves the session cookie to a user on every guarded request.
type SessionMW struct {
	authSvc domain.AuthService
}

// NewSessionMW creates the session middleware.
func NewSessionMW(authSvc domain.AuthService) *SessionMW {
	return &SessionMW{authSvc: authSvc}
}

// RequireSession rejects requests without a valid session. A missing or
// invalid token is 401; a store outage is 503, never a credential failure.
func (mw *SessionMW) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			c.Abort()
			return
		}

		user, err := mw.authSvc.CheckSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrSessionExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			} else {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
			}
			c.Abort()
			return
		}

		c.Set(CtxUserKey, user)
		c.Set(CtxUserIDKey, user.ID)
		c.Set(CtxUserRoleKey, user.Role)
		c.Next()
	}
}

// sessionToken extracts the token from the session cookie, falling back to a
// bearer Authorization header for non-browser clients.
func sessionToken(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookieName); err == nil && token != "" {
		return token
	}
	const prefix = "Bearer "
	header := c.GetHeader("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}

// CurrentUser returns the session user placed in the context by
// RequireSession.
func CurrentUser(c *gin.Context) (*domain.SafeUser, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.SafeUser)
	return user, ok
}
