package auth

import (
	"github.com/casbin/casbin/v2"
)

// CasbinService wraps the enforcer gating the HTTP surface by role.
type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService builds an enforcer from the RBAC model file and seeds the
// portal's static role grants. Policies are role-to-route grants fixed at
// boot; there is no runtime policy management surface, so no persistence
// adapter is attached.
func NewCasbinService(modelPath string) (*CasbinService, error) {
	e, err := casbin.NewEnforcer(modelPath)
	if err != nil {
		return nil, err
	}
	seedPolicies(e)
	return &CasbinService{E: e}, nil
}

func seedPolicies(e *casbin.Enforcer) {
	// Admins hold the whole surface, including the ownership-unfiltered
	// /admin routes. Regular users hold only the owner-scoped portal routes.
	e.AddPolicy("role_admin", "/admin/*", "(GET|POST|PUT|PATCH|DELETE)")
	e.AddPolicy("role_admin", "/auth/*", "(GET|POST)")
	e.AddPolicy("role_admin", "/profile", "PATCH")
	e.AddPolicy("role_admin", "/bookings*", "(GET|POST|PATCH)")
	e.AddPolicy("role_admin", "/mileage*", "GET")
	e.AddPolicy("role_user", "/auth/me", "GET")
	e.AddPolicy("role_user", "/auth/logout", "POST")
	e.AddPolicy("role_user", "/profile", "PATCH")
	e.AddPolicy("role_user", "/bookings*", "(GET|POST|PATCH)")
	e.AddPolicy("role_user", "/mileage*", "GET")
}
