// Package cancelsub реализует HTTP-обработчик отмены подписки указанного
// пользователя из административной панели.
package cancelsub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/finconnect/portal/internal/http/response"
	"github.com/finconnect/portal/internal/lib/sl"
	"github.com/finconnect/portal/internal/mockapi"
)

// Service описывает срез имитируемого API, нужный обработчику.
type Service interface {
	CancelUserSubscription(ctx context.Context, userID string) error
}

// Handler обрабатывает HTTP-запросы отмены подписки пользователя.
type Handler struct {
	log *slog.Logger
	api Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, api Service) *Handler {
	return &Handler{log: log, api: api}
}

// ServeHTTP godoc
// @Summary Отмена подписки пользователя
// @Tags Admin
// @Produce json
// @Param id path string true "Идентификатор пользователя"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response "Требуется роль администратора"
// @Failure 404 {object} response.Response "У пользователя нет действующей подписки"
// @Router /admin/users/{id}/subscription [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.cancelsub"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID := chi.URLParam(r, "id")
	if userID == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("user id is required"))
		return
	}

	err := h.api.CancelUserSubscription(r.Context(), userID)
	switch {
	case errors.Is(err, mockapi.ErrForbidden):
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("admin role required"))
		return
	case errors.Is(err, mockapi.ErrNoSubscriptionForUser):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user has no active subscription"))
		return
	case errors.Is(err, mockapi.ErrUnauthorized):
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("not authenticated"))
		return
	case err != nil:
		log.Error("failed to cancel user subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("user subscription cancelled", slog.String("user_id", userID))
	render.JSON(w, r, response.OK())
}
