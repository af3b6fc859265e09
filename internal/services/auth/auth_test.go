package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/account-onboarding/internal/lib/validation"
	"github.com/magabrotheeeer/account-onboarding/internal/models"
	"github.com/magabrotheeeer/account-onboarding/internal/session"
	"github.com/magabrotheeeer/account-onboarding/internal/storage"
)

// Мок для Repository
type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) VerifyLocalCredentials(ctx context.Context, email, rawPassword string) (*models.Account, error) {
	args := m.Called(ctx, email, rawPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *RepoMock) UpsertGoogleAccount(ctx context.Context, profile models.GoogleProfile) (*models.Account, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

// Мок для SessionManager
type SessionManagerMock struct {
	mock.Mock
}

func (m *SessionManagerMock) Issue(ctx context.Context, accountUID string, rememberMe bool) (models.Session, error) {
	args := m.Called(ctx, accountUID, rememberMe)
	return args.Get(0).(models.Session), args.Error(1)
}

func (m *SessionManagerMock) Validate(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *SessionManagerMock) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Login(t *testing.T) {
	account := &models.Account{UID: "uid-1", Email: "user@site.com", Username: "user"}
	issued := models.Session{Token: "tok", AccountUID: "uid-1", ExpiresAt: time.Now().Add(time.Hour)}

	t.Run("happy path", func(t *testing.T) {
		repo := new(RepoMock)
		sessions := new(SessionManagerMock)
		repo.On("VerifyLocalCredentials", mock.Anything, "user@site.com", "Str0ng!Pass99").
			Return(account, nil).Once()
		sessions.On("Issue", mock.Anything, "uid-1", false).Return(issued, nil).Once()

		service := New(repo, sessions, newNoopLogger())
		sess, got, err := service.Login(context.Background(), "User@Site.COM ", "Str0ng!Pass99", false)

		require.NoError(t, err)
		assert.Equal(t, "tok", sess.Token)
		assert.Equal(t, "uid-1", got.UID)
		repo.AssertExpectations(t)
		sessions.AssertExpectations(t)
	})

	t.Run("remember me picks long session", func(t *testing.T) {
		repo := new(RepoMock)
		sessions := new(SessionManagerMock)
		repo.On("VerifyLocalCredentials", mock.Anything, "user@site.com", "Str0ng!Pass99").
			Return(account, nil).Once()
		sessions.On("Issue", mock.Anything, "uid-1", true).Return(issued, nil).Once()

		service := New(repo, sessions, newNoopLogger())
		_, _, err := service.Login(context.Background(), "user@site.com", "Str0ng!Pass99", true)

		require.NoError(t, err)
		sessions.AssertExpectations(t)
	})

	t.Run("malformed email fails before storage", func(t *testing.T) {
		repo := new(RepoMock)
		sessions := new(SessionManagerMock)

		service := New(repo, sessions, newNoopLogger())
		_, _, err := service.Login(context.Background(), "not-an-email", "Str0ng!Pass99", false)

		assert.ErrorIs(t, err, validation.ErrEmailFormat)
		repo.AssertNotCalled(t, "VerifyLocalCredentials", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty password fails before storage", func(t *testing.T) {
		service := New(new(RepoMock), new(SessionManagerMock), newNoopLogger())
		_, _, err := service.Login(context.Background(), "user@site.com", "", false)

		assert.ErrorIs(t, err, validation.ErrPasswordRequired)
	})

	t.Run("wrong password and unknown email look alike", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("VerifyLocalCredentials", mock.Anything, "user@site.com", "wrong").
			Return(nil, storage.ErrInvalidCredentials).Once()
		repo.On("VerifyLocalCredentials", mock.Anything, "ghost@site.com", "whatever").
			Return(nil, storage.ErrInvalidCredentials).Once()

		service := New(repo, new(SessionManagerMock), newNoopLogger())
		_, _, errWrong := service.Login(context.Background(), "user@site.com", "wrong", false)
		_, _, errGhost := service.Login(context.Background(), "ghost@site.com", "whatever", false)

		assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
		assert.ErrorIs(t, errGhost, ErrInvalidCredentials)
		assert.Equal(t, errWrong.Error(), errGhost.Error())
	})

	t.Run("storage failure is not invalid credentials", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("VerifyLocalCredentials", mock.Anything, "user@site.com", "Str0ng!Pass99").
			Return(nil, errors.New("pq: connection refused")).Once()

		service := New(repo, new(SessionManagerMock), newNoopLogger())
		_, _, err := service.Login(context.Background(), "user@site.com", "Str0ng!Pass99", false)

		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_LoginWithGoogle(t *testing.T) {
	profile := models.GoogleProfile{
		Email:       "user@gmail.com",
		DisplayName: "User Name",
		ImageURL:    "https://lh3.example/photo.jpg",
		GoogleID:    "google-sub-1",
	}
	account := &models.Account{UID: "uid-2", Email: "user@gmail.com", AuthProvider: models.ProviderGoogle}
	issued := models.Session{Token: "tok-g", AccountUID: "uid-2"}

	t.Run("happy path", func(t *testing.T) {
		repo := new(RepoMock)
		sessions := new(SessionManagerMock)
		repo.On("UpsertGoogleAccount", mock.Anything, profile).Return(account, nil).Once()
		sessions.On("Issue", mock.Anything, "uid-2", true).Return(issued, nil).Once()

		service := New(repo, sessions, newNoopLogger())
		sess, got, err := service.LoginWithGoogle(context.Background(), profile, true)

		require.NoError(t, err)
		assert.Equal(t, "tok-g", sess.Token)
		assert.Equal(t, models.ProviderGoogle, got.AuthProvider)
		repo.AssertExpectations(t)
	})

	t.Run("email is normalized before upsert", func(t *testing.T) {
		repo := new(RepoMock)
		sessions := new(SessionManagerMock)
		repo.On("UpsertGoogleAccount", mock.Anything, mock.MatchedBy(func(p models.GoogleProfile) bool {
			return p.Email == "user@gmail.com"
		})).Return(account, nil).Once()
		sessions.On("Issue", mock.Anything, "uid-2", false).Return(issued, nil).Once()

		mixed := profile
		mixed.Email = " User@Gmail.COM"

		service := New(repo, sessions, newNoopLogger())
		_, _, err := service.LoginWithGoogle(context.Background(), mixed, false)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("profile without email is rejected", func(t *testing.T) {
		service := New(new(RepoMock), new(SessionManagerMock), newNoopLogger())
		_, _, err := service.LoginWithGoogle(context.Background(), models.GoogleProfile{GoogleID: "x"}, false)

		assert.ErrorIs(t, err, validation.ErrEmailRequired)
	})
}

func TestService_CheckSession(t *testing.T) {
	t.Run("live token", func(t *testing.T) {
		sessions := new(SessionManagerMock)
		sessions.On("Validate", mock.Anything, "tok").Return("uid-1", nil).Once()

		service := New(new(RepoMock), sessions, newNoopLogger())
		uid, err := service.CheckSession(context.Background(), "tok")

		require.NoError(t, err)
		assert.Equal(t, "uid-1", uid)
	})

	t.Run("dead token", func(t *testing.T) {
		sessions := new(SessionManagerMock)
		sessions.On("Validate", mock.Anything, "tok").Return("", session.ErrInvalidSession).Once()

		service := New(new(RepoMock), sessions, newNoopLogger())
		_, err := service.CheckSession(context.Background(), "tok")

		assert.ErrorIs(t, err, session.ErrInvalidSession)
	})
}

func TestService_Logout(t *testing.T) {
	t.Run("revokes the token", func(t *testing.T) {
		sessions := new(SessionManagerMock)
		sessions.On("Revoke", mock.Anything, "tok").Return(nil).Once()

		service := New(new(RepoMock), sessions, newNoopLogger())
		require.NoError(t, service.Logout(context.Background(), "tok"))
		sessions.AssertExpectations(t)
	})

	t.Run("empty token is a no-op", func(t *testing.T) {
		sessions := new(SessionManagerMock)

		service := New(new(RepoMock), sessions, newNoopLogger())
		require.NoError(t, service.Logout(context.Background(), ""))
		sessions.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
	})
}
