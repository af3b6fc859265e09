// Package resend реализует HTTP-обработчик повторной отправки письма
// подтверждения. Операция идемпотентна: старые ссылки остаются
// действительными до истечения своего срока.
package resend

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
	"github.com/magabrotheeeer/account-onboarding/internal/lib/sl"
	"github.com/magabrotheeeer/account-onboarding/internal/services/registration"
)

// Request — структура входных данных для повторной отправки.
type Request struct {
	Email string `json:"email" validate:"required,max=254"`
}

// Handler обрабатывает HTTP-запросы повторной отправки письма.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс повторной отправки письма подтверждения.
type Service interface {
	ResendConfirmation(ctx context.Context, email string) error
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
// @Summary Повторная отправка письма подтверждения
// @Description Ставит новое письмо подтверждения в очередь для живой регистрации.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Email регистрации"
// @Success 200 {object} map[string]any "Письмо поставлено в очередь"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Регистрация не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /resend-confirmation [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resend"

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

	err := h.service.ResendConfirmation(r.Context(), req.Email)
	switch {
	case err == nil:
	case errors.Is(err, registration.ErrNoPendingRegistration):
		log.Info("no pending registration for email")
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("registration not found"))
		return
	default:
		log.Error("resend failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to resend confirmation email"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "confirmation email sent",
	}))
}
