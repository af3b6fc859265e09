package models

import "time"

// PendingRegistration — неподтвержденная регистрация, ожидающая перехода
// по ссылке из письма. Превращается в Account после подтверждения email.
type PendingRegistration struct {
	Username     string    // Имя пользователя в канонической форме
	Email        string    // Электронная почта
	PasswordHash string    // bcrypt‑хэш пароля
	CreatedAt    time.Time // Время создания записи
}

// ConfirmationEmailJob — сообщение для очереди отправки писем подтверждения.
// Token — подписанная ссылка подтверждения, для воркера она непрозрачна.
type ConfirmationEmailJob struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}
