// Package sessioninfo реализует HTTP-обработчик чтения текущей сессии.
package sessioninfo

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/finconnect/portal/internal/http/response"
	"github.com/finconnect/portal/internal/models"
)

// Service описывает срез стора сессии, нужный обработчику.
type Service interface {
	User() *models.User
	IsAuthenticated() bool
}

// Handler обрабатывает HTTP-запросы чтения сессии.
type Handler struct {
	log     *slog.Logger
	session Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, session Service) *Handler {
	return &Handler{log: log, session: session}
}

// ServeHTTP godoc
// @Summary Текущая сессия
// @Description Возвращает профиль аутентифицированного пользователя.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /session [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.sessioninfo"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	log.Info("session read")

	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":             h.session.User(),
		"is_authenticated": h.session.IsAuthenticated(),
	}))
}
