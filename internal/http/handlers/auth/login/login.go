// Package login реализует HTTP-обработчик для входа по локальным
// учетным данным.
//
// При успешном входе токен сессии записывается в HttpOnly cookie;
// remember_me выбирает длинный срок жизни сессии вместо короткого.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/account-onboarding/internal/http/response"
	"github.com/magabrotheeeer/account-onboarding/internal/http/sessioncookie"
	"github.com/magabrotheeeer/account-onboarding/internal/lib/sl"
	"github.com/magabrotheeeer/account-onboarding/internal/lib/validation"
	"github.com/magabrotheeeer/account-onboarding/internal/models"
	"github.com/magabrotheeeer/account-onboarding/internal/services/auth"
)

// Request — структура входных данных для входа.
type Request struct {
	Email      string `json:"email" validate:"max=254"`
	Password   string `json:"password" validate:"max=128"`
	RememberMe bool   `json:"remember_me"`
}

// Handler обрабатывает HTTP-запросы входа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики входа.
type Service interface {
	Login(ctx context.Context, email, password string, rememberMe bool) (models.Session, *models.Account, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход по email и паролю
// @Description Аутентифицирует пользователя и записывает токен сессии в cookie.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные"
// @Success 200 {object} map[string]any "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации поля"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	sess, account, err := h.service.Login(r.Context(), req.Email, req.Password, req.RememberMe)
	switch {
	case err == nil:
	case errors.Is(err, validation.ErrEmailRequired), errors.Is(err, validation.ErrEmailFormat):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.FieldError("email", err.Error()))
		return
	case errors.Is(err, validation.ErrPasswordRequired):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.FieldError("password", err.Error()))
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(auth.ErrInvalidCredentials.Error()))
		return
	default:
		log.Error("login failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to login"))
		return
	}

	sessioncookie.Set(w, sess)
	log.Info("login success", slog.String("uid", account.UID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"uid":      account.UID,
		"username": account.Username,
		"email":    account.Email,
	}))
}
