// Package logout реализует HTTP-обработчик выхода из сессии.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/finconnect/portal/internal/http/response"
)

// Service описывает срез стора сессии, нужный обработчику.
type Service interface {
	Logout()
}

// Handler обрабатывает HTTP-запросы выхода.
type Handler struct {
	log     *slog.Logger
	session Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, session Service) *Handler {
	return &Handler{log: log, session: session}
}

// ServeHTTP godoc
// @Summary Выход из сессии
// @Description Завершает сессию: профиль, токен и подписка очищаются. Повторный вызов — no-op.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	h.session.Logout()

	log.Info("logout complete")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"destination": "/login",
	}))
}
