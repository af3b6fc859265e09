// Package confirm реализует HTTP-обработчик перехода по ссылке из письма
// подтверждения. Токен приходит частью пути, после успешной проверки
// регистрация превращается в учетную запись.
package confirm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/account-onboarding/internal/http/response"
	"github.com/magabrotheeeer/account-onboarding/internal/lib/sl"
	"github.com/magabrotheeeer/account-onboarding/internal/models"
	"github.com/magabrotheeeer/account-onboarding/internal/services/registration"
)

// Handler обрабатывает HTTP-запросы подтверждения регистрации.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс подтверждения регистрации.
type Service interface {
	Confirm(ctx context.Context, token string) (*models.Account, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Подтверждение регистрации
// @Description Проверяет токен из письма и активирует учетную запись.
// @Tags Auth
// @Produce  json
// @Param token path string true "Токен подтверждения"
// @Success 200 {object} map[string]any "Учетная запись активирована"
// @Failure 400 {object} response.ErrorResponse "Токен не прошел проверку"
// @Failure 404 {object} response.ErrorResponse "Регистрация не найдена или уже подтверждена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /confirm/{token} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.confirm"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := chi.URLParam(r, "token")
	if token == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing confirmation token"))
		return
	}

	account, err := h.service.Confirm(r.Context(), token)
	switch {
	case err == nil:
	case errors.Is(err, registration.ErrInvalidConfirmToken):
		log.Info("confirmation token rejected")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("confirmation link is not valid"))
		return
	case errors.Is(err, registration.ErrNoPendingRegistration):
		log.Info("no pending registration for token")
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("registration not found or already confirmed"))
		return
	default:
		log.Error("confirmation failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to confirm registration"))
		return
	}

	log.Info("registration confirmed", slog.String("uid", account.UID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"username": account.Username,
		"message":  "account confirmed, you can now log in",
	}))
}
