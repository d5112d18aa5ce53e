package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finconnect/portal/internal/access"
	"github.com/finconnect/portal/internal/models"
)

func developer() *models.User {
	return &models.User{ID: "user-123", Email: "user@example.com", Role: models.RoleDeveloper}
}

func admin() *models.User {
	return &models.User{ID: "admin-123", Email: "admin@example.com", Role: models.RoleAdmin}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name  string
		state access.State
		req   access.Requirement
		want  access.Decision
	}{
		{
			name:  "public view always allowed",
			state: access.State{SessionLoading: true},
			req:   access.Requirement{},
			want:  access.Decision{Outcome: access.Allowed},
		},
		{
			name:  "session loading defers decision",
			state: access.State{SessionLoading: true},
			req:   access.Requirement{Authenticated: true},
			want:  access.Decision{Outcome: access.Deferred},
		},
		{
			name:  "entitlement loading defers decision",
			state: access.State{EntitlementLoading: true, User: developer()},
			req:   access.Requirement{Authenticated: true, Subscription: true},
			want:  access.Decision{Outcome: access.Deferred},
		},
		{
			name:  "unauthenticated redirects to login remembering origin",
			state: access.State{},
			req:   access.Requirement{Authenticated: true},
			want: access.Decision{
				Outcome:        access.Redirected,
				RedirectTo:     access.RouteLogin,
				RememberOrigin: true,
			},
		},
		{
			name:  "auth check precedes subscription check",
			state: access.State{},
			req:   access.Requirement{Authenticated: true, Subscription: true},
			want: access.Decision{
				Outcome:        access.Redirected,
				RedirectTo:     access.RouteLogin,
				RememberOrigin: true,
			},
		},
		{
			name:  "auth check precedes admin check",
			state: access.State{},
			req:   access.Requirement{Authenticated: true, Admin: true},
			want: access.Decision{
				Outcome:        access.Redirected,
				RedirectTo:     access.RouteLogin,
				RememberOrigin: true,
			},
		},
		{
			name:  "non-admin redirects to dashboard without remembering origin",
			state: access.State{User: developer()},
			req:   access.Requirement{Authenticated: true, Admin: true},
			want: access.Decision{
				Outcome:    access.Redirected,
				RedirectTo: access.RouteDashboard,
			},
		},
		{
			name:  "admin allowed into admin area",
			state: access.State{User: admin()},
			req:   access.Requirement{Authenticated: true, Admin: true},
			want:  access.Decision{Outcome: access.Allowed},
		},
		{
			name:  "authenticated without subscription redirects to pricing",
			state: access.State{User: developer()},
			req:   access.Requirement{Authenticated: true, Subscription: true},
			want: access.Decision{
				Outcome:        access.Redirected,
				RedirectTo:     access.RoutePricing,
				RememberOrigin: true,
			},
		},
		{
			name:  "authenticated with subscription allowed",
			state: access.State{User: developer(), IsSubscribed: true},
			req:   access.Requirement{Authenticated: true, Subscription: true},
			want:  access.Decision{Outcome: access.Allowed},
		},
		{
			name:  "authenticated without requirements allowed",
			state: access.State{User: developer()},
			req:   access.Requirement{Authenticated: true},
			want:  access.Decision{Outcome: access.Allowed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := access.Decide(tt.state, tt.req)
			assert.Equal(t, tt.want, got)
		})
	}
}
