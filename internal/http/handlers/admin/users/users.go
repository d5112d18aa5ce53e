// Package users реализует HTTP-обработчик списка пользователей портала
// для административной панели.
package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/finconnect/portal/internal/http/response"
	"github.com/finconnect/portal/internal/lib/sl"
	"github.com/finconnect/portal/internal/mockapi"
	"github.com/finconnect/portal/internal/models"
)

// Service описывает срез имитируемого API, нужный обработчику.
type Service interface {
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Handler обрабатывает HTTP-запросы списка пользователей.
type Handler struct {
	log *slog.Logger
	api Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, api Service) *Handler {
	return &Handler{log: log, api: api}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response "Требуется роль администратора"
// @Router /admin/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.users"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	list, err := h.api.ListUsers(r.Context())
	switch {
	case errors.Is(err, mockapi.ErrForbidden):
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("admin role required"))
		return
	case errors.Is(err, mockapi.ErrUnauthorized):
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("not authenticated"))
		return
	case err != nil:
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"users": list,
	}))
}
