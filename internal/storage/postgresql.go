// Package storage реализует хранилище данных на основе PostgreSQL
// для управления учетными записями и неподтвержденными регистрациями.
// Уникальные индексы на email и username являются источником истины
// при гонках между проверкой занятости и записью.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/account-onboarding/internal/lib/password"
	"github.com/magabrotheeeer/account-onboarding/internal/models"
)

// Ошибки хранилища.
var (
	// ErrAccountNotFound — учетная запись не найдена.
	ErrAccountNotFound = errors.New("account not found")
	// ErrPendingNotFound — неподтвержденная регистрация не найдена.
	ErrPendingNotFound = errors.New("pending registration not found")
	// ErrEmailTaken — email уже занят учетной записью или регистрацией.
	ErrEmailTaken = errors.New("email already taken")
	// ErrUsernameTaken — имя пользователя уже занято.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials — пара email/пароль не подошла.
	// Не раскрывает, существует ли учетная запись.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const uniqueViolationCode = "23505"

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с учетными записями и регистрациями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'accounts'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table accounts missing or query error: %w", err)
	}
	return nil
}

// ===== ACCOUNT METHODS =====

// FindAccountByEmail возвращает учетную запись по email.
func (s *Storage) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.FindAccountByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, email, password_hash, auth_provider, google_id, image_url, created_at
			  FROM accounts WHERE email = $1`
	return s.scanAccount(s.DB.QueryRowContext(ctx, query, email), op)
}

// FindAccountByUsername возвращает локальную учетную запись по имени пользователя.
func (s *Storage) FindAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	const op = "storage.FindAccountByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, email, password_hash, auth_provider, google_id, image_url, created_at
			  FROM accounts WHERE username = $1 AND auth_provider = $2`
	return s.scanAccount(s.DB.QueryRowContext(ctx, query, username, models.ProviderLocal), op)
}

func (s *Storage) scanAccount(row *sql.Row, op string) (*models.Account, error) {
	var account models.Account
	err := row.Scan(&account.UID, &account.Username, &account.Email, &account.PasswordHash,
		&account.AuthProvider, &account.GoogleID, &account.ImageURL, &account.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &account, nil
}

// VerifyLocalCredentials проверяет пару email/пароль для локальной учетной записи.
// Любое несовпадение, включая отсутствие записи, возвращает ErrInvalidCredentials.
func (s *Storage) VerifyLocalCredentials(ctx context.Context, email, rawPassword string) (*models.Account, error) {
	const op = "storage.VerifyLocalCredentials"

	account, err := s.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if account.AuthProvider != models.ProviderLocal || account.PasswordHash == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err := password.CompareHash(account.PasswordHash, rawPassword); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	return account, nil
}

// UpsertGoogleAccount находит или создает учетную запись для профиля Google.
// Повторный вход обновляет идентификатор Google и аватар существующей записи.
func (s *Storage) UpsertGoogleAccount(ctx context.Context, profile models.GoogleProfile) (*models.Account, error) {
	const op = "storage.UpsertGoogleAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO accounts (uid, username, email, auth_provider, google_id, image_url)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (email) DO UPDATE
			      SET google_id = EXCLUDED.google_id,
			          image_url = EXCLUDED.image_url
			  RETURNING uid, username, email, password_hash, auth_provider, google_id, image_url, created_at`
	row := s.DB.QueryRowContext(ctx, query,
		uuid.New().String(), profile.DisplayName, profile.Email,
		models.ProviderGoogle, profile.GoogleID, profile.ImageURL)

	var account models.Account
	err := row.Scan(&account.UID, &account.Username, &account.Email, &account.PasswordHash,
		&account.AuthProvider, &account.GoogleID, &account.ImageURL, &account.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &account, nil
}

// ===== UNIQUENESS PROBES =====

// IsEmailTaken сообщает, занят ли email подтвержденной учетной записью
// или живой неподтвержденной регистрацией. Проверка вспомогательная,
// гонку окончательно разрешают уникальные индексы при записи.
func (s *Storage) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	const op = "storage.IsEmailTaken"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)
			      OR EXISTS (SELECT 1 FROM pending_registrations WHERE email = $1)`
	var taken bool
	if err := s.DB.QueryRowContext(ctx, query, email).Scan(&taken); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return taken, nil
}

// IsUsernameTaken сообщает, занято ли имя пользователя локальной учетной
// записью или живой неподтвержденной регистрацией.
func (s *Storage) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	const op = "storage.IsUsernameTaken"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1 AND auth_provider = $2)
			      OR EXISTS (SELECT 1 FROM pending_registrations WHERE username = $1)`
	var taken bool
	if err := s.DB.QueryRowContext(ctx, query, username, models.ProviderLocal).Scan(&taken); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return taken, nil
}

// ===== PENDING REGISTRATION METHODS =====

// CreatePendingRegistration вставляет неподтвержденную регистрацию.
// Нарушение уникальности отображается в ErrEmailTaken или ErrUsernameTaken.
func (s *Storage) CreatePendingRegistration(ctx context.Context, pending models.PendingRegistration) error {
	const op = "storage.CreatePendingRegistration"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO pending_registrations (username, email, password_hash)
			  VALUES ($1, $2, $3)`
	_, err := s.DB.ExecContext(ctx, query, pending.Username, pending.Email, pending.PasswordHash)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapUniqueViolation(err))
	}
	return nil
}

// FindPendingByEmail возвращает неподтвержденную регистрацию по email.
func (s *Storage) FindPendingByEmail(ctx context.Context, email string) (*models.PendingRegistration, error) {
	const op = "storage.FindPendingByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT username, email, password_hash, created_at
			  FROM pending_registrations WHERE email = $1`
	var pending models.PendingRegistration
	err := s.DB.QueryRowContext(ctx, query, email).Scan(
		&pending.Username, &pending.Email, &pending.PasswordHash, &pending.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrPendingNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &pending, nil
}

// PromotePendingToAccount атомарно превращает неподтвержденную регистрацию
// в учетную запись: вставляет запись в accounts и удаляет исходную строку.
func (s *Storage) PromotePendingToAccount(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.PromotePendingToAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var pending models.PendingRegistration
	err = tx.QueryRowContext(ctx,
		`SELECT username, email, password_hash FROM pending_registrations WHERE email = $1 FOR UPDATE`,
		email).Scan(&pending.Username, &pending.Email, &pending.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrPendingNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var account models.Account
	err = tx.QueryRowContext(ctx,
		`INSERT INTO accounts (uid, username, email, password_hash, auth_provider)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING uid, username, email, password_hash, auth_provider, google_id, image_url, created_at`,
		uuid.New().String(), pending.Username, pending.Email, pending.PasswordHash, models.ProviderLocal).
		Scan(&account.UID, &account.Username, &account.Email, &account.PasswordHash,
			&account.AuthProvider, &account.GoogleID, &account.ImageURL, &account.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapUniqueViolation(err))
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM pending_registrations WHERE email = $1`, email); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &account, nil
}

// mapUniqueViolation превращает нарушение уникального индекса в доменную ошибку.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return err
	}
	switch pgErr.ConstraintName {
	case "pending_registrations_username_key", "accounts_local_username_key":
		return ErrUsernameTaken
	case "pending_registrations_email_key", "accounts_email_key":
		return ErrEmailTaken
	default:
		return err
	}
}
