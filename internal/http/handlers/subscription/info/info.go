// Package info реализует HTTP-обработчик чтения текущей подписки
// и производных от неё значений.
package info

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/finconnect/portal/internal/http/response"
	"github.com/finconnect/portal/internal/models"
	entitlementservice "github.com/finconnect/portal/internal/services/entitlement"
)

// Service описывает срез стора подписки, нужный обработчику.
type Service interface {
	Subscription() *models.Subscription
	Current() entitlementservice.Entitlement
}

// Handler обрабатывает HTTP-запросы чтения подписки.
type Handler struct {
	log *slog.Logger
	ent Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, ent Service) *Handler {
	return &Handler{log: log, ent: ent}
}

// ServeHTTP godoc
// @Summary Текущая подписка
// @Description Возвращает подписку и производные значения: действует ли она и какой план резолвится.
// @Tags Subscription
// @Produce json
// @Success 200 {object} response.Response
// @Router /subscription [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.info"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	log.Info("subscription read")

	current := h.ent.Current()
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription":  h.ent.Subscription(),
		"is_subscribed": current.IsSubscribed,
		"current_plan":  current.CurrentPlan,
	}))
}
