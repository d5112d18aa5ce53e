// Package transactions реализует HTTP-обработчик постраничного чтения
// истории операций через имитируемый финансовый API.
package transactions

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
	ListTransactions(ctx context.Context, page, pageSize int) ([]models.Transaction, int, error)
}

// Handler обрабатывает HTTP-запросы чтения истории операций.
type Handler struct {
	log *slog.Logger
	api Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, api Service) *Handler {
	return &Handler{log: log, api: api}
}

// ServeHTTP godoc
// @Summary История операций
// @Tags Dashboard
// @Produce json
// @Param page query int false "Номер страницы, с единицы"
// @Param page_size query int false "Размер страницы, по умолчанию 10"
// @Success 200 {object} response.Response
// @Failure 429 {object} response.Response "Превышен лимит запросов плана"
// @Router /dashboard/transactions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.transactions"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 10)

	txs, total, err := h.api.ListTransactions(r.Context(), page, pageSize)
	switch {
	case errors.Is(err, mockapi.ErrRateLimited):
		w.WriteHeader(http.StatusTooManyRequests)
		render.JSON(w, r, response.Error("rate limit exceeded"))
		return
	case errors.Is(err, mockapi.ErrUnauthorized):
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("not authenticated"))
		return
	case err != nil:
		log.Error("failed to list transactions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"transactions": txs,
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
	}))
}

// queryInt читает целочисленный параметр запроса с значением по умолчанию.
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
