// Package session реализует менеджер сессий поверх Redis.
//
// Токен сессии — 32 случайных байта в URL‑safe base64. Время жизни ключа
// в Redis совпадает со сроком сессии, поэтому истечение, отзыв и неизвестный
// токен неразличимы для вызывающего кода.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/account-onboarding/internal/config"
	"github.com/magabrotheeeer/account-onboarding/internal/models"
)

// ErrInvalidSession — токен не существует, истек или был отозван.
var ErrInvalidSession = errors.New("invalid session")

const keyPrefix = "session:"

// Manager выпускает, проверяет и отзывает сессии.
type Manager struct {
	rdb         *redis.Client
	rememberTTL time.Duration
	shortTTL    time.Duration
	now         func() time.Time
}

// New подключается к Redis и создает менеджер сессий.
func New(ctx context.Context, cfg config.RedisConnection, ttl config.SessionTTL) (*Manager, error) {
	const op = "session.New"
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return NewWithClient(rdb, ttl), nil
}

// NewWithClient создает менеджер поверх готового клиента Redis.
// Используется в тестах с miniredis.
func NewWithClient(rdb *redis.Client, ttl config.SessionTTL) *Manager {
	return &Manager{
		rdb:         rdb,
		rememberTTL: ttl.RememberMe,
		shortTTL:    ttl.Short,
		now:         time.Now,
	}
}

// Issue выпускает новую сессию для учетной записи.
// rememberMe выбирает длинный срок жизни вместо короткого.
func (m *Manager) Issue(ctx context.Context, accountUID string, rememberMe bool) (models.Session, error) {
	const op = "session.Issue"

	token, err := generateToken()
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	ttl := m.shortTTL
	if rememberMe {
		ttl = m.rememberTTL
	}

	if err := m.rdb.Set(ctx, keyPrefix+token, accountUID, ttl).Err(); err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.Session{
		Token:      token,
		AccountUID: accountUID,
		TTL:        ttl,
		ExpiresAt:  m.now().Add(ttl),
	}, nil
}

// Validate возвращает идентификатор учетной записи для живого токена.
// Проверка идемпотентна и не продлевает срок жизни сессии.
func (m *Manager) Validate(ctx context.Context, token string) (string, error) {
	const op = "session.Validate"

	if token == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidSession)
	}
	accountUID, err := m.rdb.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidSession)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return accountUID, nil
}

// Revoke отзывает сессию. Отзыв несуществующего токена не является ошибкой.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	const op = "session.Revoke"
	if err := m.rdb.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
