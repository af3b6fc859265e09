// Package sessioncookie содержит работу с cookie сессии. Токен хранится
// в HttpOnly cookie, срок жизни cookie совпадает со сроком сессии.
package sessioncookie

import (
	"net/http"

	"github.com/magabrotheeeer/account-onboarding/internal/models"
)

// Name — имя cookie с токеном сессии.
const Name = "token"

// Set записывает токен сессии в cookie ответа. MaxAge берется из полного
// срока жизни сессии, а не из остатка до ExpiresAt, чтобы cookie жила
// ровно столько же, сколько ключ в хранилище.
func Set(w http.ResponseWriter, session models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(session.TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear удаляет cookie сессии.
func Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Token возвращает токен сессии из cookie запроса. Пустая строка,
// если cookie отсутствует.
func Token(r *http.Request) string {
	cookie, err := r.Cookie(Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
