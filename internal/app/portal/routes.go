// Package portal предоставляет маршруты для приложения портала.
package portal

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/finconnect/portal/internal/http/handlers/admin/cancelsub"
	adminlogs "github.com/finconnect/portal/internal/http/handlers/admin/logs"
	adminusers "github.com/finconnect/portal/internal/http/handlers/admin/users"
	"github.com/finconnect/portal/internal/http/handlers/auth/login"
	"github.com/finconnect/portal/internal/http/handlers/auth/logout"
	"github.com/finconnect/portal/internal/http/handlers/auth/register"
	"github.com/finconnect/portal/internal/http/handlers/auth/sessioninfo"
	"github.com/finconnect/portal/internal/http/handlers/dashboard/balance"
	"github.com/finconnect/portal/internal/http/handlers/dashboard/invoice"
	"github.com/finconnect/portal/internal/http/handlers/dashboard/transactions"
	"github.com/finconnect/portal/internal/http/handlers/dashboard/transfer"
	"github.com/finconnect/portal/internal/http/handlers/notifications"
	"github.com/finconnect/portal/internal/http/handlers/subscription/cancel"
	subinfo "github.com/finconnect/portal/internal/http/handlers/subscription/info"
	"github.com/finconnect/portal/internal/http/handlers/subscription/plans"
	"github.com/finconnect/portal/internal/http/handlers/subscription/subscribe"
	"github.com/finconnect/portal/internal/http/middlewarectx"
	"github.com/finconnect/portal/internal/mockapi"
	"github.com/finconnect/portal/internal/notify"
	entitlementservice "github.com/finconnect/portal/internal/services/entitlement"
	sessionservice "github.com/finconnect/portal/internal/services/session"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, sessionStore *sessionservice.SessionStore, entitlementStore *entitlementservice.EntitlementStore, api *mockapi.Client, feed *notify.Feed) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	guard := middlewarectx.NewGuard(sessionStore, entitlementStore, logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, sessionStore).ServeHTTP)
		r.Post("/login", login.New(logger, sessionStore).ServeHTTP)
		r.Get("/plans", plans.New(logger).ServeHTTP)

		// Группа, требующая аутентифицированной сессии
		r.Group(func(r chi.Router) {
			r.Use(guard.RequireAuth)
			r.Post("/logout", logout.New(logger, sessionStore).ServeHTTP)
			r.Get("/session", sessioninfo.New(logger, sessionStore).ServeHTTP)
			r.Get("/notifications", notifications.New(logger, feed).ServeHTTP)
			r.Post("/subscription", subscribe.New(logger, entitlementStore).ServeHTTP)
			r.Delete("/subscription", cancel.New(logger, entitlementStore).ServeHTTP)
			r.Get("/subscription", subinfo.New(logger, entitlementStore).ServeHTTP)
		})

		// Раздел дашборда, требует активной подписки
		r.Group(func(r chi.Router) {
			r.Use(guard.RequireSubscription)
			r.Get("/dashboard/balance", balance.New(logger, api).ServeHTTP)
			r.Post("/dashboard/transfer", transfer.New(logger, api).ServeHTTP)
			r.Get("/dashboard/transactions", transactions.New(logger, api).ServeHTTP)
			r.Get("/dashboard/invoice", invoice.New(logger, api).ServeHTTP)
		})

		// Административный раздел
		r.Group(func(r chi.Router) {
			r.Use(guard.RequireAdmin)
			r.Get("/admin/users", adminusers.New(logger, api).ServeHTTP)
			r.Get("/admin/logs", adminlogs.New(logger, api).ServeHTTP)
			r.Delete("/admin/users/{id}/subscription", cancelsub.New(logger, api).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
