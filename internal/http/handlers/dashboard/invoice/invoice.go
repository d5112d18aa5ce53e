// Package invoice реализует HTTP-обработчик сводки по операциям
// за отчётный период через имитируемый финансовый API.
package invoice

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
	GetInvoiceSummary(ctx context.Context) (*models.InvoiceSummary, error)
}

// Handler обрабатывает HTTP-запросы сводки по операциям.
type Handler struct {
	log *slog.Logger
	api Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, api Service) *Handler {
	return &Handler{log: log, api: api}
}

// ServeHTTP godoc
// @Summary Сводка по операциям
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Response
// @Failure 429 {object} response.Response "Превышен лимит запросов плана"
// @Router /dashboard/invoice [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.invoice"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	summary, err := h.api.GetInvoiceSummary(r.Context())
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
		log.Error("failed to get invoice summary", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"invoice": summary,
	}))
}
