// Package models содержит доменные модели сервиса онбординга:
// учетные записи, неподтвержденные регистрации и сессии.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Провайдеры аутентификации учетной записи.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// Account представляет подтвержденную учетную запись.
// Email уникален среди всех учетных записей, Username уникален
// среди записей с провайдером local.
type Account struct {
	UID          string    // Уникальный идентификатор учетной записи
	Username     string    // Имя пользователя (каноническая форма — нижний регистр)
	Email        string    // Электронная почта
	PasswordHash string    // Хэш пароля, пустой для федеративных записей
	AuthProvider string    // local или google
	GoogleID     *string   // Идентификатор Google, только для провайдера google
	ImageURL     *string   // Ссылка на аватар из профиля Google
	CreatedAt    time.Time // Дата создания записи
}

// GoogleProfile — профиль, полученный от Google после внешней проверки.
// Сервис доверяет этим данным и повторно их не верифицирует.
type GoogleProfile struct {
	Email       string
	DisplayName string
	ImageURL    string
	GoogleID    string
}
