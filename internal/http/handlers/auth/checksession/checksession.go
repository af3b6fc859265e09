// Package checksession реализует HTTP-обработчик предварительной проверки
// сессии. Фронтенд вызывает его при загрузке страницы входа, чтобы
// пропустить форму для уже аутентифицированного пользователя.
package checksession

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/account-onboarding/internal/http/response"
	"github.com/magabrotheeeer/account-onboarding/internal/http/sessioncookie"
)

// Handler обрабатывает HTTP-запросы проверки сессии.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс проверки токена сессии.
type Service interface {
	CheckSession(ctx context.Context, token string) (string, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверка сессии
// @Description Возвращает идентификатор учетной записи для живого токена сессии из cookie.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Сессия живая"
// @Failure 401 {object} response.ErrorResponse "Сессия отсутствует или истекла"
// @Router /session [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.checksession"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := sessioncookie.Token(r)
	if token == "" {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("missing session"))
		return
	}

	accountUID, err := h.service.CheckSession(r.Context(), token)
	if err != nil {
		log.Info("session check failed")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid or expired session"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"uid": accountUID,
	}))
}
