package confirmtoken

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ConfirmClaims описывает данные, хранящиеся в токене подтверждения.
type ConfirmClaims struct {
	Email                string `json:"email"` // Подтверждаемый адрес
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// GenerateToken создает JWT токен с email, подписывая его секретным ключом.
//
// Время жизни токена определяется полем tokenTTL.
func (m *MakerImpl) GenerateToken(email string) (string, error) {
	claims := ConfirmClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// ParseToken парсит токен подтверждения, проверяет его подпись и срок,
// возвращает email, если токен корректен.
func (m *MakerImpl) ParseToken(tokenStr string) (string, error) {
	const op = "confirmtoken.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &ConfirmClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*ConfirmClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("%s: invalid token", op)
	}
	return claims.Email, nil
}
