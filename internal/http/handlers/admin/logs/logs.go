// Package logs реализует HTTP-обработчик постраничного чтения журнала
// обращений к API для административной панели.
package logs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/finconnect/portal/internal/http/response"
	"github.com/finconnect/portal/internal/lib/sl"
	"github.com/finconnect/portal/internal/mockapi"
	"github.com/finconnect/portal/internal/models"
)

// Service описывает срез имитируемого API, нужный обработчику.
type Service interface {
	ListRequestLogs(ctx context.Context, page, pageSize int) ([]models.RequestLog, int, error)
}

// Handler обрабатывает HTTP-запросы чтения журнала.
type Handler struct {
	log *slog.Logger
	api Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, api Service) *Handler {
	return &Handler{log: log, api: api}
}

// ServeHTTP godoc
// @Summary Журнал обращений к API
// @Tags Admin
// @Produce json
// @Param page query int false "Номер страницы, с единицы"
// @Param page_size query int false "Размер страницы, по умолчанию 10"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response "Требуется роль администратора"
// @Router /admin/logs [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.logs"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 10)

	entries, total, err := h.api.ListRequestLogs(r.Context(), page, pageSize)
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
		log.Error("failed to list request logs", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"logs":      entries,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}))
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 1 {
		return def
	}
	return val
}
