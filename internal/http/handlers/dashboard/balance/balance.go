// Package balance реализует HTTP-обработчик чтения баланса счёта
// через имитируемый финансовый API.
package balance

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
	GetBalance(ctx context.Context) (*models.Balance, error)
}

// Handler обрабатывает HTTP-запросы чтения баланса.
type Handler struct {
	log *slog.Logger
	api Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, api Service) *Handler {
	return &Handler{log: log, api: api}
}

// ServeHTTP godoc
// @Summary Баланс счёта
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Response
// @Failure 429 {object} response.Response "Превышен лимит запросов плана"
// @Router /dashboard/balance [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.balance"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	balance, err := h.api.GetBalance(r.Context())
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
		log.Error("failed to get balance", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"balance": balance,
	}))
}
