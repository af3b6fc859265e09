package models

import "time"

// Session — время‑ограниченное подтверждение аутентификации.
// Token непрозрачен для клиента и передается в cookie.
type Session struct {
	Token      string        // Случайный токен сессии
	AccountUID string        // Идентификатор учетной записи
	TTL        time.Duration // Полный срок жизни сессии
	ExpiresAt  time.Time     // Момент истечения сессии
}
