// Package plans реализует HTTP-обработчик чтения каталога тарифных планов.
package plans

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/finconnect/portal/internal/http/response"
	"github.com/finconnect/portal/internal/models"
)

// Handler обрабатывает HTTP-запросы чтения каталога планов.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Каталог планов
// @Description Возвращает статический каталог тарифных планов портала.
// @Tags Subscription
// @Produce json
// @Success 200 {object} response.Response
// @Router /plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.plans"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	log.Info("plan catalog read")

	render.JSON(w, r, response.OKWithData(map[string]any{
		"plans": models.Plans,
	}))
}
