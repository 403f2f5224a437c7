package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marecop/YAweb/domain"
	"github.com/marecop/YAweb/internal/mocks"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func sessionRouter(svc domain.AuthService) *gin.Engine {
	r := gin.New()
	r.GET("/guarded", NewSessionMW(svc).RequireSession(), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "user missing from context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "role": user.Role})
	})
	return r
}

func TestRequireSession(t *testing.T) {
	tests := []struct {
		name     string
		cookie   string
		bearer   string
		check    func(ctx context.Context, token string) (*domain.SafeUser, error)
		wantCode int
	}{
		{
			name:     "missing token",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "valid cookie",
			cookie: "tok1",
			check: func(ctx context.Context, token string) (*domain.SafeUser, error) {
				return &domain.SafeUser{ID: "u1", Role: domain.RoleUser}, nil
			},
			wantCode: http.StatusOK,
		},
		{
			name:   "bearer header fallback",
			bearer: "tok1",
			check: func(ctx context.Context, token string) (*domain.SafeUser, error) {
				if token != "tok1" {
					return nil, domain.ErrSessionNotFound
				}
				return &domain.SafeUser{ID: "u1", Role: domain.RoleUser}, nil
			},
			wantCode: http.StatusOK,
		},
		{
			name:   "unknown token",
			cookie: "dead",
			check: func(ctx context.Context, token string) (*domain.SafeUser, error) {
				return nil, domain.ErrSessionNotFound
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "expired token",
			cookie: "old",
			check: func(ctx context.Context, token string) (*domain.SafeUser, error) {
				return nil, domain.ErrSessionExpired
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "store outage is 503 not 401",
			cookie: "tok1",
			check: func(ctx context.Context, token string) (*domain.SafeUser, error) {
				return nil, errors.New("redis: connection refused")
			},
			wantCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockAuthService()
			svc.CheckSessionFunc = tt.check

			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			w := httptest.NewRecorder()
			sessionRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestRequireSessionPopulatesContext(t *testing.T) {
	svc := mocks.NewMockAuthService()
	svc.CheckSessionFunc = func(ctx context.Context, token string) (*domain.SafeUser, error) {
		return &domain.SafeUser{ID: "u7", Role: domain.RoleAdmin}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok"})
	w := httptest.NewRecorder()
	sessionRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"u7"`)
	assert.Contains(t, w.Body.String(), `"admin"`)
}
