// Package register реализует HTTP-обработчик для запросов регистрации.
//
// В нём определяется структура Request для входных данных, выполняется
// декодирование JSON, грубая проверка размеров полей, а также делегирование
// операции регистрации сервису. Решение о пригодности каждого поля принимает
// сам процесс регистрации, обработчик только транслирует его результат.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/account-onboarding/internal/http/response"
	"github.com/magabrotheeeer/account-onboarding/internal/lib/sl"
	"github.com/magabrotheeeer/account-onboarding/internal/services/registration"
)

// Request — структура входных данных для регистрации.
type Request struct {
	Username       string `json:"username" validate:"max=64"`
	Email          string `json:"email" validate:"max=254"`
	Password       string `json:"password" validate:"max=128"`
	RepeatPassword string `json:"repeat_password" validate:"max=128"`
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс процесса регистрации.
type Service interface {
	Run(ctx context.Context, input registration.Input) registration.Result
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
// @Summary Регистрация учетной записи
// @Description Создает неподтвержденную регистрацию и отправляет письмо со ссылкой подтверждения.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные регистрации"
// @Success 200 {object} map[string]any "Регистрация создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации поля"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
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
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("username", req.Username))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result := h.service.Run(r.Context(), registration.Input{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		RepeatPassword: req.RepeatPassword,
	})

	switch {
	case result.State == registration.StateSucceeded:
		log.Info("registration created")
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"message": "confirmation email sent",
		}))
	case result.State == registration.StateSucceededEmailPending:
		log.Info("registration created, confirmation email delayed")
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"message": "registration created, confirmation email will be sent later",
		}))
	case result.Field != "":
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.FieldError(result.Field, result.Message))
	default:
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(result.Message))
	}
}
