// Package googlelogin реализует HTTP-обработчик федеративного входа
// через Google.
//
// Профиль приходит от фронтенда после прохождения Google Sign-In.
// Учетная запись создается при первом входе и обновляется при повторных,
// подтверждение email не требуется.
package googlelogin

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
)

// Request — структура профиля Google.
type Request struct {
	Email      string `json:"email" validate:"required,max=254"`
	Username   string `json:"username" validate:"max=128"`
	ImageURL   string `json:"imageUrl" validate:"max=512"`
	GoogleID   string `json:"googleId" validate:"required,max=64"`
	RememberMe bool   `json:"remember_me"`
}

// Handler обрабатывает HTTP-запросы федеративного входа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики федеративного входа.
type Service interface {
	LoginWithGoogle(ctx context.Context, profile models.GoogleProfile, rememberMe bool) (models.Session, *models.Account, error)
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
// @Summary Вход через Google
// @Description Создает или обновляет учетную запись по профилю Google и записывает токен сессии в cookie.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Профиль Google"
// @Success 200 {object} map[string]any "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login/google [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.googlelogin"

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

	profile := models.GoogleProfile{
		Email:       req.Email,
		DisplayName: req.Username,
		ImageURL:    req.ImageURL,
		GoogleID:    req.GoogleID,
	}

	sess, account, err := h.service.LoginWithGoogle(r.Context(), profile, req.RememberMe)
	switch {
	case err == nil:
	case errors.Is(err, validation.ErrEmailRequired), errors.Is(err, validation.ErrEmailFormat):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.FieldError("email", err.Error()))
		return
	default:
		log.Error("google login failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to login"))
		return
	}

	sessioncookie.Set(w, sess)
	log.Info("google login success", slog.String("uid", account.UID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"uid":      account.UID,
		"username": account.Username,
		"email":    account.Email,
	}))
}
