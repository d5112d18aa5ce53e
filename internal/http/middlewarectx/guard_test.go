package middlewarectx_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finconnect/portal/internal/http/middlewarectx"
	"github.com/finconnect/portal/internal/models"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

// sessionStub подменяет стор сессии в тестах охраны маршрутов.
type sessionStub struct {
	loading bool
	user    *models.User
}

func (s *sessionStub) Loading() bool      { return s.loading }
func (s *sessionStub) User() *models.User { return s.user }

// entStub подменяет стор подписки.
type entStub struct {
	loading    bool
	subscribed bool
}

func (e *entStub) Loading() bool      { return e.loading }
func (e *entStub) IsSubscribed() bool { return e.subscribed }

func developer() *models.User {
	return &models.User{ID: "user-123", Role: models.RoleDeveloper}
}

func admin() *models.User {
	return &models.User{ID: "admin-123", Role: models.RoleAdmin}
}

func TestGuard(t *testing.T) {
	tests := []struct {
		name         string
		session      *sessionStub
		ent          *entStub
		wrap         func(g *middlewarectx.Guard, next http.Handler) http.Handler
		path         string
		wantStatus   int
		wantLocation string
		wantCalled   bool
	}{
		{
			name:    "loading session defers with 503",
			session: &sessionStub{loading: true},
			ent:     &entStub{},
			wrap: func(g *middlewarectx.Guard, next http.Handler) http.Handler {
				return g.RequireAuth(next)
			},
			path:       "/dashboard",
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:    "loading entitlement defers with 503",
			session: &sessionStub{user: developer()},
			ent:     &entStub{loading: true},
			wrap: func(g *middlewarectx.Guard, next http.Handler) http.Handler {
				return g.RequireSubscription(next)
			},
			path:       "/dashboard",
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:    "unauthenticated redirects to login with origin",
			session: &sessionStub{},
			ent:     &entStub{},
			wrap: func(g *middlewarectx.Guard, next http.Handler) http.Handler {
				return g.RequireAuth(next)
			},
			path:         "/dashboard",
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/login?from=%2Fdashboard",
		},
		{
			name:    "unauthenticated hits auth check before subscription check",
			session: &sessionStub{},
			ent:     &entStub{},
			wrap: func(g *middlewarectx.Guard, next http.Handler) http.Handler {
				return g.RequireAuth(g.RequireSubscription(next))
			},
			path:         "/dashboard",
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/login?from=%2Fdashboard",
		},
		{
			name:    "authenticated without subscription redirects to pricing",
			session: &sessionStub{user: developer()},
			ent:     &entStub{},
			wrap: func(g *middlewarectx.Guard, next http.Handler) http.Handler {
				return g.RequireAuth(g.RequireSubscription(next))
			},
			path:         "/dashboard",
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/pricing?from=%2Fdashboard",
		},
		{
			name:    "authenticated with subscription is allowed",
			session: &sessionStub{user: developer()},
			ent:     &entStub{subscribed: true},
			wrap: func(g *middlewarectx.Guard, next http.Handler) http.Handler {
				return g.RequireAuth(g.RequireSubscription(next))
			},
			path:       "/dashboard",
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:    "non-admin redirects to dashboard without origin",
			session: &sessionStub{user: developer()},
			ent:     &entStub{subscribed: true},
			wrap: func(g *middlewarectx.Guard, next http.Handler) http.Handler {
				return g.RequireAdmin(next)
			},
			path:         "/admin/users",
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/dashboard",
		},
		{
			name:    "admin is allowed into admin area",
			session: &sessionStub{user: admin()},
			ent:     &entStub{},
			wrap: func(g *middlewarectx.Guard, next http.Handler) http.Handler {
				return g.RequireAdmin(next)
			},
			path:       "/admin/users",
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			guard := middlewarectx.NewGuard(tt.session, tt.ent, newNoopLogger())
			handler := tt.wrap(guard, next)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			}
		})
	}
}
