// Package register реализует HTTP-обработчик регистрации нового пользователя.
//
// Регистрация всегда успешна: уникальность email не проверяется, создаётся
// профиль с ролью developer и свежим токеном сессии.
package register

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
	sessionservice "github.com/finconnect/portal/internal/services/session"
)

// Request — структура входных данных для регистрации.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}

// Service описывает срез стора сессии, нужный обработчику.
type Service interface {
	Register(ctx context.Context, email, password, name string) (string, error)
	User() *models.User
	Token() string
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log      *slog.Logger
	session  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, session Service) *Handler {
	return &Handler{
		log:      log,
		session:  session,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создаёт учётную запись разработчика и открывает сессию.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Данные новой учётной записи"
// @Success 200 {object} response.Response "Успешная регистрация"
// @Failure 400 {object} response.Response "Некорректный JSON"
// @Failure 409 {object} response.Response "Операция уже выполняется"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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

	destination, err := h.session.Register(r.Context(), req.Email, req.Password, req.Name)
	switch {
	case errors.Is(err, sessionservice.ErrOperationInFlight):
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("another operation is in progress"))
		return
	case err != nil:
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("registration success", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":        h.session.User(),
		"token":       h.session.Token(),
		"destination": destination,
	}))
}
