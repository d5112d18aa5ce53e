// Package portal собирает приложение портала разработчиков: хранилище
// сессионных данных, сторы сессии и подписки, имитируемый финансовый API
// и HTTP-сервер с маршрутами.
package portal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/finconnect/portal/internal/config"
	"github.com/finconnect/portal/internal/lib/jwt"
	"github.com/finconnect/portal/internal/mockapi"
	"github.com/finconnect/portal/internal/notify"
	entitlementservice "github.com/finconnect/portal/internal/services/entitlement"
	sessionservice "github.com/finconnect/portal/internal/services/session"
	"github.com/finconnect/portal/internal/storage"
)

// Размер ленты уведомлений, старые записи вытесняются.
const notificationFeedLimit = 50

type App struct {
	server *http.Server
	logger *slog.Logger
	store  storage.Store
	closer io.Closer
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	var (
		store  storage.Store
		closer io.Closer
	)
	switch cfg.Storage.Backend {
	case "redis":
		rds, err := storage.NewRedis(ctx, cfg.Storage.Redis)
		if err != nil {
			return nil, fmt.Errorf("app.portal: init redis storage: %w", err)
		}
		store, closer = rds, rds
	case "memory", "":
		store = storage.NewMemory()
	default:
		return nil, fmt.Errorf("app.portal: unknown storage backend %q", cfg.Storage.Backend)
	}

	feed := notify.NewFeed(logger, notificationFeedLimit)
	tokens := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)

	sessionStore, err := sessionservice.NewSessionStore(store, tokens, feed, logger, cfg.Simulation.Latency)
	if err != nil {
		return nil, fmt.Errorf("app.portal: init session store: %w", err)
	}
	entitlementStore := entitlementservice.NewEntitlementStore(store, feed, logger, cfg.Simulation.Latency)

	// Подписка следует за личностью: вход загружает подписку,
	// выход сбрасывает её. Подписаться нужно до восстановления сессии.
	sessionStore.OnIdentityChange(entitlementStore.HandleIdentityChange)
	sessionStore.Initialize(ctx)

	api := mockapi.New(sessionStore, entitlementStore, logger, cfg.Simulation.Latency)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, sessionStore, entitlementStore, api, feed)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		store:  store,
		closer: closer,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.closer != nil {
			if cerr := a.closer.Close(); cerr != nil {
				a.logger.Error("failed to close storage", slog.Any("err", cerr))
			}
		}
		return err
	}
}
