// Package subscribe реализует HTTP-обработчик оформления подписки на план.
package subscribe

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
	"github.com/finconnect/portal/internal/models"
	entitlementservice "github.com/finconnect/portal/internal/services/entitlement"
)

// Request — структура входных данных для оформления подписки.
// Идентификатор плана не сверяется с каталогом: неизвестный план допустим.
type Request struct {
	PlanID string `json:"plan_id" validate:"required"`
}

// Service описывает срез стора подписки, нужный обработчику.
type Service interface {
	Subscribe(ctx context.Context, planID string) (*models.Subscription, error)
}

// Handler обрабатывает HTTP-запросы оформления подписки.
type Handler struct {
	log      *slog.Logger
	ent      Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, ent Service) *Handler {
	return &Handler{
		log:      log,
		ent:      ent,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Оформление подписки
// @Description Оформляет подписку текущего пользователя на указанный план, замещая предыдущую.
// @Tags Subscription
// @Accept json
// @Produce json
// @Param request body Request true "Идентификатор плана"
// @Success 200 {object} response.Response "Подписка оформлена"
// @Failure 400 {object} response.Response "Некорректный JSON"
// @Failure 401 {object} response.Response "Нет аутентифицированного пользователя"
// @Failure 409 {object} response.Response "Операция уже выполняется"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Router /subscription [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.subscribe"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	sub, err := h.ent.Subscribe(r.Context(), req.PlanID)
	switch {
	case errors.Is(err, entitlementservice.ErrNotAuthenticated):
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("you must be logged in to subscribe"))
		return
	case errors.Is(err, entitlementservice.ErrEmptyPlanID):
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("plan id must not be empty"))
		return
	case errors.Is(err, entitlementservice.ErrOperationInFlight):
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("another operation is in progress"))
		return
	case err != nil:
		log.Error("subscribe failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("subscription activated",
		slog.String("subscription_id", sub.ID),
		slog.String("plan_id", sub.PlanID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": sub,
	}))
}
