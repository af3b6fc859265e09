// Package confirmtoken реализует генерацию и парсинг подписанных ссылок
// подтверждения email при регистрации.
//
// Maker определяет интерфейс для создания и проверки токена подтверждения.
// MakerImpl — конкретная реализация с использованием секретного ключа и срока.
package confirmtoken

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга токенов подтверждения.
//
// Токен непрозрачен для получателя письма и несет внутри email,
// который требуется подтвердить.
type Maker interface {
	// GenerateToken создает подписанный токен подтверждения для email.
	GenerateToken(email string) (string, error)
	// ParseToken проверяет подпись и срок токена и возвращает email из него.
	ParseToken(tokenStr string) (string, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
