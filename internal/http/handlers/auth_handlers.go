package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/marecop/YAweb/domain"
	"github.com/marecop/YAweb/internal/http/middleware"
	"github.com/marecop/YAweb/pkg/metrics"
)

// AuthHandlers handles authentication HTTP requests.
type AuthHandlers struct {
	authSvc       domain.AuthService
	sessionMaxAge time.Duration
	cookieSecure  bool
	metrics       *metrics.Metrics
}

// NewAuthHandlers creates the auth handlers. m may be nil in tests.
func NewAuthHandlers(authSvc domain.AuthService, sessionMaxAge time.Duration, cookieSecure bool, m *metrics.Metrics) *AuthHandlers {
	return &AuthHandlers{
		authSvc:       authSvc,
		sessionMaxAge: sessionMaxAge,
		cookieSecure:  cookieSecure,
		metrics:       m,
	}
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /auth/register. Success sets the session cookie so
// the new account is logged in immediately.
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authSvc.Register(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
		case errors.Is(err, domain.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
		case errors.Is(err, domain.ErrUserAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		default:
			h.storeError("register")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		}
		return
	}

	if h.metrics != nil {
		h.metrics.Registrations.Inc()
	}
	h.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login handles POST /auth/login.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			if h.metrics != nil {
				h.metrics.LoginFailures.Inc()
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		h.storeError("login")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}

	if h.metrics != nil {
		h.metrics.Logins.Inc()
	}
	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Check handles GET /auth/check. It never fails on auth grounds: an absent
// or invalid session answers authenticated=false with 200.
func (h *AuthHandlers) Check(c *gin.Context) {
	token, _ := c.Cookie(middleware.SessionCookieName)
	if token == "" {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	user, err := h.authSvc.CheckSession(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrSessionExpired) {
			c.JSON(http.StatusOK, gin.H{"authenticated": false})
			return
		}
		h.storeError("check")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": user})
}

// Logout handles POST /auth/logout. Always succeeds and clears the cookie,
// even when the token was already dead.
func (h *AuthHandlers) Logout(c *gin.Context) {
	if token, _ := c.Cookie(middleware.SessionCookieName); token != "" {
		if err := h.authSvc.Logout(c.Request.Context(), token); err != nil {
			h.storeError("logout")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
			return
		}
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me handles GET /auth/me.
func (h *AuthHandlers) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile handles PATCH /profile. Only the allow-listed profile
// fields can change through this path.
func (h *AuthHandlers) UpdateProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var update domain.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.authSvc.UpdateProfile(c.Request.Context(), user.ID, update)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.storeError("update_profile")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": updated})
}

func (h *AuthHandlers) storeError(operation string) {
	if h.metrics != nil {
		h.metrics.StoreErrors.WithLabelValues(operation).Inc()
	}
}

func (h *AuthHandlers) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(middleware.SessionCookieName, token, int(h.sessionMaxAge.Seconds()), "/", "", h.cookieSecure, true)
}

func (h *AuthHandlers) clearSessionCookie(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.cookieSecure, true)
}
