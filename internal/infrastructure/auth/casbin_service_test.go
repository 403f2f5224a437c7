package auth

import (
	"testing"
)

func TestSeededPolicies(t *testing.T) {
	svc, err := NewCasbinService("../../../casbin/model.conf")
	if err != nil {
		t.Fatalf("NewCasbinService() error = %v", err)
	}

	tests := []struct {
		name string
		sub  string
		obj  string
		act  string
		want bool
	}{
		{name: "user lists own bookings", sub: "role_user", obj: "/bookings", act: "GET", want: true},
		{name: "user creates booking", sub: "role_user", obj: "/bookings", act: "POST", want: true},
		{name: "user cancels booking", sub: "role_user", obj: "/bookings/:id/cancel", act: "PATCH", want: true},
		{name: "user reads mileage summary", sub: "role_user", obj: "/mileage/summary", act: "GET", want: true},
		{name: "user updates profile", sub: "role_user", obj: "/profile", act: "PATCH", want: true},
		{name: "user reads own identity", sub: "role_user", obj: "/auth/me", act: "GET", want: true},
		{name: "user denied admin bookings", sub: "role_user", obj: "/admin/bookings", act: "GET", want: false},
		{name: "user denied booking confirm", sub: "role_user", obj: "/admin/bookings/:id/confirm", act: "PATCH", want: false},
		{name: "user denied user deletion", sub: "role_user", obj: "/admin/users/:id", act: "DELETE", want: false},
		{name: "admin confirms booking", sub: "role_admin", obj: "/admin/bookings/:id/confirm", act: "PATCH", want: true},
		{name: "admin deletes user", sub: "role_admin", obj: "/admin/users/:id", act: "DELETE", want: true},
		{name: "admin holds portal surface too", sub: "role_admin", obj: "/bookings/:id", act: "GET", want: true},
		{name: "admin reads mileage", sub: "role_admin", obj: "/mileage", act: "GET", want: true},
		{name: "unknown role denied everywhere", sub: "role_ghost", obj: "/bookings", act: "GET", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.E.Enforce(tt.sub, tt.obj, tt.act)
			if err != nil {
				t.Fatalf("Enforce() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce(%s, %s, %s) = %v, want %v", tt.sub, tt.obj, tt.act, got, tt.want)
			}
		})
	}
}
