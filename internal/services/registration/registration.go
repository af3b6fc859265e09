// Package registration содержит логику бизнес-уровня для регистрации
// новой учетной записи с подтверждением по email.
//
// Проверки выполняются строго последовательно, как явный конечный автомат:
// каждое состояние соответствует одному шагу валидации, первый провал
// останавливает процесс и возвращает ровно одну ошибку с привязкой к полю.
package registration

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/account-onboarding/internal/lib/confirmtoken"
	"github.com/magabrotheeeer/account-onboarding/internal/lib/password"
	"github.com/magabrotheeeer/account-onboarding/internal/lib/passtrength"
	"github.com/magabrotheeeer/account-onboarding/internal/lib/sl"
	"github.com/magabrotheeeer/account-onboarding/internal/lib/validation"
	"github.com/magabrotheeeer/account-onboarding/internal/models"
	"github.com/magabrotheeeer/account-onboarding/internal/storage"
)

// State — состояние конечного автомата регистрации.
type State int

// Состояния в порядке прохождения.
const (
	StateIdle State = iota
	StateValidatingUsername
	StateValidatingEmail
	StateValidatingPassword
	StateValidatingRepeat
	StateSubmitting
	StateSucceeded
	// StateSucceededEmailPending — регистрация записана, но письмо
	// подтверждения не удалось поставить в очередь. Пользователь может
	// запросить повторную отправку.
	StateSucceededEmailPending
	StateFailed
)

// Имена полей формы для привязки ошибок.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldRepeat   = "repeat_password"
)

// Сообщения, показываемые пользователю. Тексты фиксированные:
// подробности ошибок коллабораторов остаются в логе.
const (
	msgUsernameTaken   = "this username is taken"
	msgEmailTaken      = "this email is taken"
	msgPasswordTooWeak = "password is too weak"
	msgTryAgain        = "something went wrong, please try again"
)

// Ошибки операций подтверждения.
var (
	// ErrInvalidConfirmToken — ссылка подтверждения не прошла проверку.
	ErrInvalidConfirmToken = errors.New("invalid confirmation token")
	// ErrNoPendingRegistration — для email нет живой регистрации.
	ErrNoPendingRegistration = errors.New("no pending registration for email")
)

// Input — входные данные одной попытки регистрации. Пароль используется
// только в течение вызова и наружу не возвращается.
type Input struct {
	Username       string
	Email          string
	Password       string
	RepeatPassword string
}

// Result — дискриминированный результат попытки регистрации.
// Stage — стадия, на которой процесс завершился; State — терминальное
// состояние. При неуспехе Field указывает на поле формы; для ошибок
// коллабораторов Field пустой, а Message — общий текст без деталей бэкенда.
type Result struct {
	Stage   State
	State   State
	Field   string
	Message string
}

// Succeeded сообщает, создана ли регистрация (включая случай,
// когда письмо подтверждения еще не отправлено).
func (r Result) Succeeded() bool {
	return r.State == StateSucceeded || r.State == StateSucceededEmailPending
}

// Repository описывает контракт хранилища для регистрации.
type Repository interface {
	// IsUsernameTaken проверяет занятость имени среди учетных записей и регистраций.
	IsUsernameTaken(ctx context.Context, username string) (bool, error)

	// IsEmailTaken проверяет занятость email среди учетных записей и регистраций.
	IsEmailTaken(ctx context.Context, email string) (bool, error)

	// CreatePendingRegistration сохраняет неподтвержденную регистрацию.
	CreatePendingRegistration(ctx context.Context, pending models.PendingRegistration) error

	// FindPendingByEmail возвращает живую регистрацию для email.
	FindPendingByEmail(ctx context.Context, email string) (*models.PendingRegistration, error)

	// PromotePendingToAccount превращает регистрацию в учетную запись.
	PromotePendingToAccount(ctx context.Context, email string) (*models.Account, error)
}

// Dispatcher ставит письмо подтверждения в очередь отправки.
type Dispatcher interface {
	DispatchConfirmation(job models.ConfirmationEmailJob) error
}

// Service отвечает за регистрацию, подтверждение и повторную отправку писем.
type Service struct {
	repo       Repository
	dispatcher Dispatcher
	tokens     confirmtoken.Maker
	log        *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, dispatcher Dispatcher, tokens confirmtoken.Maker, log *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		dispatcher: dispatcher,
		tokens:     tokens,
		log:        log,
	}
}

// Run выполняет одну попытку регистрации от Idle до терминального состояния.
func (s *Service) Run(ctx context.Context, input Input) Result {
	const op = "registration.Run"
	log := s.log.With(slog.String("op", op))

	// ValidatingUsername
	username := validation.NormalizeUsername(input.Username)
	if err := validation.Username(username); err != nil {
		return fail(StateValidatingUsername, FieldUsername, err.Error())
	}
	taken, err := s.repo.IsUsernameTaken(ctx, username)
	if err != nil {
		log.Error("username uniqueness check failed", sl.Err(err))
		return collaboratorFailure(StateValidatingUsername)
	}
	if taken {
		return fail(StateValidatingUsername, FieldUsername, msgUsernameTaken)
	}

	// ValidatingEmail
	email := normalizeEmail(input.Email)
	if err := validation.EmailFormat(email); err != nil {
		return fail(StateValidatingEmail, FieldEmail, err.Error())
	}
	taken, err = s.repo.IsEmailTaken(ctx, email)
	if err != nil {
		log.Error("email uniqueness check failed", sl.Err(err))
		return collaboratorFailure(StateValidatingEmail)
	}
	if taken {
		return fail(StateValidatingEmail, FieldEmail, msgEmailTaken)
	}

	// ValidatingPassword: пустой пароль отсекается до оценки устойчивости
	if err := validation.PasswordPresence(input.Password); err != nil {
		return fail(StateValidatingPassword, FieldPassword, err.Error())
	}
	if score := passtrength.Evaluate(input.Password); score < passtrength.RegistrationMinScore {
		log.Info("password rejected by strength gate", slog.String("score", score.String()))
		return fail(StateValidatingPassword, FieldPassword, msgPasswordTooWeak)
	}

	// ValidatingRepeat
	if err := validation.Repeat(input.Password, input.RepeatPassword); err != nil {
		return fail(StateValidatingRepeat, FieldRepeat, err.Error())
	}

	// Submitting
	hash, err := password.GetHash(input.Password)
	if err != nil {
		log.Error("failed to hash password", sl.Err(err))
		return collaboratorFailure(StateSubmitting)
	}
	pending := models.PendingRegistration{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.CreatePendingRegistration(ctx, pending); err != nil {
		// Уникальный индекс — источник истины при гонке двух регистраций
		switch {
		case errors.Is(err, storage.ErrEmailTaken):
			return fail(StateSubmitting, FieldEmail, msgEmailTaken)
		case errors.Is(err, storage.ErrUsernameTaken):
			return fail(StateSubmitting, FieldUsername, msgUsernameTaken)
		default:
			log.Error("failed to create pending registration", sl.Err(err))
			return collaboratorFailure(StateSubmitting)
		}
	}
	log.Info("pending registration created", slog.String("email", email))

	// Регистрация записана; провал отправки письма не откатывает ее,
	// а возвращается отдельным состоянием с возможностью resend.
	if err := s.dispatchConfirmation(username, email); err != nil {
		log.Error("failed to dispatch confirmation email", sl.Err(err))
		return Result{Stage: StateSubmitting, State: StateSucceededEmailPending}
	}
	log.Info("confirmation email dispatched", slog.String("email", email))

	return Result{Stage: StateSubmitting, State: StateSucceeded}
}

// Confirm обрабатывает переход по ссылке из письма: проверяет токен
// и превращает регистрацию в учетную запись.
func (s *Service) Confirm(ctx context.Context, token string) (*models.Account, error) {
	const op = "registration.Confirm"
	log := s.log.With(slog.String("op", op))

	email, err := s.tokens.ParseToken(token)
	if err != nil {
		log.Info("confirmation token rejected", sl.Err(err))
		return nil, ErrInvalidConfirmToken
	}

	account, err := s.repo.PromotePendingToAccount(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrPendingNotFound) {
			return nil, ErrNoPendingRegistration
		}
		log.Error("failed to promote pending registration", sl.Err(err))
		return nil, err
	}

	log.Info("registration confirmed", slog.String("email", email))
	return account, nil
}

// ResendConfirmation повторно ставит письмо подтверждения в очередь.
// Операция идемпотентна по email: живая регистрация одна, а старые
// ссылки остаются действительными до истечения своего срока.
func (s *Service) ResendConfirmation(ctx context.Context, email string) error {
	const op = "registration.ResendConfirmation"
	log := s.log.With(slog.String("op", op))

	normalized := normalizeEmail(email)
	pending, err := s.repo.FindPendingByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, storage.ErrPendingNotFound) {
			return ErrNoPendingRegistration
		}
		log.Error("failed to look up pending registration", sl.Err(err))
		return err
	}

	if err := s.dispatchConfirmation(pending.Username, pending.Email); err != nil {
		log.Error("failed to dispatch confirmation email", sl.Err(err))
		return err
	}
	log.Info("confirmation email re-dispatched", slog.String("email", pending.Email))
	return nil
}

func (s *Service) dispatchConfirmation(username, email string) error {
	token, err := s.tokens.GenerateToken(email)
	if err != nil {
		return err
	}
	return s.dispatcher.DispatchConfirmation(models.ConfirmationEmailJob{
		Username: username,
		Email:    email,
		Token:    token,
	})
}

func fail(stage State, field, message string) Result {
	return Result{Stage: stage, State: StateFailed, Field: field, Message: message}
}

func collaboratorFailure(stage State) Result {
	return fail(stage, "", msgTryAgain)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
