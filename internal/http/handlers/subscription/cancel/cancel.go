// Package cancel реализует HTTP-обработчик отмены текущей подписки.
package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/finconnect/portal/internal/http/response"
	"github.com/finconnect/portal/internal/lib/sl"
	"github.com/finconnect/portal/internal/models"
	entitlementservice "github.com/finconnect/portal/internal/services/entitlement"
)

// Service описывает срез стора подписки, нужный обработчику.
type Service interface {
	CancelSubscription(ctx context.Context) (*models.Subscription, error)
}

// Handler обрабатывает HTTP-запросы отмены подписки.
type Handler struct {
	log *slog.Logger
	ent Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, ent Service) *Handler {
	return &Handler{log: log, ent: ent}
}

// ServeHTTP godoc
// @Summary Отмена подписки
// @Description Переводит подписку в статус cancelled. Доступ гаснет сразу, EndDate записывается информационно.
// @Tags Subscription
// @Produce json
// @Success 200 {object} response.Response "Подписка отменена"
// @Failure 404 {object} response.Response "Отменять нечего"
// @Failure 409 {object} response.Response "Операция уже выполняется"
// @Router /subscription [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sub, err := h.ent.CancelSubscription(r.Context())
	switch {
	case errors.Is(err, entitlementservice.ErrNoActiveSubscription):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("no active subscription to cancel"))
		return
	case errors.Is(err, entitlementservice.ErrOperationInFlight):
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("another operation is in progress"))
		return
	case err != nil:
		log.Error("cancel failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("subscription cancelled", slog.String("subscription_id", sub.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": sub,
	}))
}
