// Package auth содержит логику бизнес-уровня для входа в систему:
// локальные учетные данные, федеративный вход через Google и работа
// с сессиями.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/account-onboarding/internal/lib/sl"
	"github.com/magabrotheeeer/account-onboarding/internal/lib/validation"
	"github.com/magabrotheeeer/account-onboarding/internal/models"
	"github.com/magabrotheeeer/account-onboarding/internal/session"
	"github.com/magabrotheeeer/account-onboarding/internal/storage"
)

// ErrInvalidCredentials — email и пароль не подошли. Текст одинаковый
// для несуществующего email и неверного пароля.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Repository описывает контракт хранилища для аутентификации.
type Repository interface {
	// VerifyLocalCredentials сверяет email и пароль с учетной записью.
	VerifyLocalCredentials(ctx context.Context, email, rawPassword string) (*models.Account, error)

	// UpsertGoogleAccount создает или обновляет учетную запись по профилю Google.
	UpsertGoogleAccount(ctx context.Context, profile models.GoogleProfile) (*models.Account, error)
}

// SessionManager выпускает, проверяет и отзывает сессии.
type SessionManager interface {
	Issue(ctx context.Context, accountUID string, rememberMe bool) (models.Session, error)
	Validate(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// Service отвечает за вход, проверку сессии и выход.
type Service struct {
	repo     Repository
	sessions SessionManager
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, sessions SessionManager, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		log:      log,
	}
}

// Login выполняет вход по локальным учетным данным и выпускает сессию.
// Ошибки формата полей возвращаются как есть; неверные учетные данные
// сворачиваются в ErrInvalidCredentials без уточнения причины.
func (s *Service) Login(ctx context.Context, email, password string, rememberMe bool) (models.Session, *models.Account, error) {
	const op = "auth.Login"
	log := s.log.With(slog.String("op", op))

	email = strings.ToLower(strings.TrimSpace(email))
	if err := validation.EmailFormat(email); err != nil {
		return models.Session{}, nil, err
	}
	if err := validation.PasswordPresence(password); err != nil {
		return models.Session{}, nil, err
	}

	account, err := s.repo.VerifyLocalCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidCredentials) {
			log.Info("login rejected", slog.String("email", email))
			return models.Session{}, nil, ErrInvalidCredentials
		}
		log.Error("failed to verify credentials", sl.Err(err))
		return models.Session{}, nil, err
	}

	sess, err := s.sessions.Issue(ctx, account.UID, rememberMe)
	if err != nil {
		log.Error("failed to issue session", sl.Err(err))
		return models.Session{}, nil, err
	}

	log.Info("login succeeded", slog.String("uid", account.UID))
	return sess, account, nil
}

// LoginWithGoogle выполняет федеративный вход: профиль Google приводит
// к созданию или обновлению учетной записи, после чего выпускается
// обычная сессия. Подтверждение email не требуется, адрес уже
// проверен провайдером.
func (s *Service) LoginWithGoogle(ctx context.Context, profile models.GoogleProfile, rememberMe bool) (models.Session, *models.Account, error) {
	const op = "auth.LoginWithGoogle"
	log := s.log.With(slog.String("op", op))

	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	if err := validation.EmailFormat(profile.Email); err != nil {
		return models.Session{}, nil, err
	}

	account, err := s.repo.UpsertGoogleAccount(ctx, profile)
	if err != nil {
		log.Error("failed to upsert google account", sl.Err(err))
		return models.Session{}, nil, err
	}

	sess, err := s.sessions.Issue(ctx, account.UID, rememberMe)
	if err != nil {
		log.Error("failed to issue session", sl.Err(err))
		return models.Session{}, nil, err
	}

	log.Info("google login succeeded", slog.String("uid", account.UID))
	return sess, account, nil
}

// CheckSession возвращает идентификатор учетной записи для живого токена.
func (s *Service) CheckSession(ctx context.Context, token string) (string, error) {
	const op = "auth.CheckSession"

	accountUID, err := s.sessions.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrInvalidSession) {
			return "", session.ErrInvalidSession
		}
		s.log.Error("failed to validate session", slog.String("op", op), sl.Err(err))
		return "", err
	}
	return accountUID, nil
}

// Logout отзывает сессию. Выход с уже мертвым токеном не является ошибкой.
func (s *Service) Logout(ctx context.Context, token string) error {
	const op = "auth.Logout"

	if token == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, token); err != nil {
		s.log.Error("failed to revoke session", slog.String("op", op), sl.Err(err))
		return err
	}
	return nil
}
