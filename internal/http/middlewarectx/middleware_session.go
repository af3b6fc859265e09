// Package middlewarectx содержит HTTP middleware для проверки сессии
// и ограничения частоты запросов.
//
// SessionMiddleware проверяет токен сессии из cookie через менеджер сессий
// и в случае успеха добавляет в контекст идентификатор учетной записи
// для дальнейшего использования в обработчиках.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с сообщением об ошибке.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/account-onboarding/internal/http/response"
	"github.com/magabrotheeeer/account-onboarding/internal/http/sessioncookie"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// AccountUID — ключ для идентификатора учетной записи в контексте
	AccountUID Key = "account_uid"
	// SessionToken — ключ для токена сессии в контексте
	SessionToken Key = "session_token"
)

// SessionChecker описывает интерфейс проверки токена сессии.
type SessionChecker interface {
	CheckSession(ctx context.Context, token string) (string, error)
}

// SessionMiddleware возвращает HTTP middleware, который проверяет токен
// сессии из cookie.
//
// Если токен живой, добавляет идентификатор учетной записи и сам токен
// в контекст запроса, иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func SessionMiddleware(sessions SessionChecker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token := sessioncookie.Token(r)
			if token == "" {
				log.Info("missing session cookie")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing session"))
				return
			}

			accountUID, err := sessions.CheckSession(r.Context(), token)
			if err != nil {
				log.Info("invalid or expired session")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired session"))
				return
			}

			ctx := context.WithValue(r.Context(), AccountUID, accountUID)
			ctx = context.WithValue(ctx, SessionToken, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
