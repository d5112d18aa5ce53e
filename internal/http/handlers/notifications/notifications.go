// Package notifications реализует HTTP-обработчик чтения ленты
// пользовательских уведомлений.
package notifications

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/finconnect/portal/internal/http/response"
	"github.com/finconnect/portal/internal/notify"
)

// Service описывает срез ленты уведомлений, нужный обработчику.
type Service interface {
	List() []notify.Notification
}

// Handler обрабатывает HTTP-запросы чтения уведомлений.
type Handler struct {
	log  *slog.Logger
	feed Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, feed Service) *Handler {
	return &Handler{log: log, feed: feed}
}

// ServeHTTP godoc
// @Summary Лента уведомлений
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Response
// @Router /notifications [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notifications"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	log.Info("notifications read")

	render.JSON(w, r, response.OKWithData(map[string]any{
		"notifications": h.feed.List(),
	}))
}
