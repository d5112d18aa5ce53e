// Package middlewarectx содержит HTTP middleware, охраняющие защищённые
// разделы портала. Каждая попытка навигации оценивается политикой доступа
// по снимку состояния сторов сессии и подписки: пока сторы загружаются,
// решение откладывается; при отказе выдаётся перенаправление, при
// необходимости — с запоминанием исходного маршрута в параметре from.
package middlewarectx

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/finconnect/portal/internal/access"
	"github.com/finconnect/portal/internal/http/response"
	"github.com/finconnect/portal/internal/models"
)

// SessionState — срез стора сессии, нужный охране маршрутов.
type SessionState interface {
	Loading() bool
	User() *models.User
}

// EntitlementState — срез стора подписки, нужный охране маршрутов.
type EntitlementState interface {
	Loading() bool
	IsSubscribed() bool
}

// Guard применяет политику доступа к HTTP-маршрутам.
type Guard struct {
	session SessionState
	ent     EntitlementState
	log     *slog.Logger
}

// NewGuard создает охрану маршрутов поверх сторов сессии и подписки.
func NewGuard(session SessionState, ent EntitlementState, log *slog.Logger) *Guard {
	return &Guard{
		session: session,
		ent:     ent,
		log:     log,
	}
}

// RequireAuth пропускает только аутентифицированных пользователей.
func (g *Guard) RequireAuth(next http.Handler) http.Handler {
	return g.guard(access.Requirement{Authenticated: true}, next)
}

// RequireAdmin пропускает только администраторов. Аутентификация
// проверяется первой.
func (g *Guard) RequireAdmin(next http.Handler) http.Handler {
	return g.guard(access.Requirement{Authenticated: true, Admin: true}, next)
}

// RequireSubscription пропускает только пользователей с действующей подпиской.
// Аутентификация проверяется первой.
func (g *Guard) RequireSubscription(next http.Handler) http.Handler {
	return g.guard(access.Requirement{Authenticated: true, Subscription: true}, next)
}

func (g *Guard) guard(req access.Requirement, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const op = "middlewarectx.guard"

		log := g.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("path", r.URL.Path),
		)

		state := access.State{
			SessionLoading:     g.session.Loading(),
			EntitlementLoading: g.ent.Loading(),
			User:               g.session.User(),
			IsSubscribed:       g.ent.IsSubscribed(),
		}

		decision := access.Decide(state, req)
		switch decision.Outcome {
		case access.Deferred:
			log.Info("stores are loading, deferring access decision")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("loading, try again"))
		case access.Redirected:
			target := decision.RedirectTo
			if decision.RememberOrigin {
				target += "?from=" + url.QueryEscape(r.URL.Path)
			}
			log.Info("access denied, redirecting", slog.String("target", target))
			http.Redirect(w, r, target, http.StatusSeeOther)
		default:
			next.ServeHTTP(w, r)
		}
	})
}
