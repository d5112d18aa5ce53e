// Package transfer реализует HTTP-обработчик перевода средств
// через имитируемый финансовый API.
package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/finconnect/portal/internal/http/response"
	"github.com/finconnect/portal/internal/lib/sl"
	"github.com/finconnect/portal/internal/mockapi"
	"github.com/finconnect/portal/internal/models"
)

// Service описывает срез имитируемого API, нужный обработчику.
type Service interface {
	Transfer(ctx context.Context, req models.TransferRequest) (*models.Transaction, error)
}

// Handler обрабатывает HTTP-запросы перевода средств.
type Handler struct {
	log      *slog.Logger
	api      Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, api Service) *Handler {
	return &Handler{
		log:      log,
		api:      api,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Перевод средств
// @Tags Dashboard
// @Accept json
// @Produce json
// @Param request body models.TransferRequest true "Параметры перевода"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response "Некорректный JSON"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 429 {object} response.Response "Превышен лимит запросов плана"
// @Router /dashboard/transfer [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.transfer"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	tx, err := h.api.Transfer(r.Context(), req)
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
		log.Error("transfer failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("transfer completed", slog.String("transaction_id", tx.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"transaction": tx,
	}))
}
