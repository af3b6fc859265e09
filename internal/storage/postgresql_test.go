package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/account-onboarding/internal/lib/password"
	"github.com/magabrotheeeer/account-onboarding/internal/models"
)

func TestStorage_PendingRegistrationLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	verify := NewTestVerification(storage)
	ctx := context.Background()
	pending := GetTestPending()

	require.NoError(t, storage.CreatePendingRegistration(ctx, pending))

	t.Run("duplicate email is rejected", func(t *testing.T) {
		dup := pending
		dup.Username = "otheruser"
		err := storage.CreatePendingRegistration(ctx, dup)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		dup := pending
		dup.Email = "other@example.com"
		err := storage.CreatePendingRegistration(ctx, dup)
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("uniqueness probes see pending rows", func(t *testing.T) {
		taken, err := storage.IsEmailTaken(ctx, pending.Email)
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = storage.IsUsernameTaken(ctx, pending.Username)
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = storage.IsEmailTaken(ctx, "free@example.com")
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("promote moves pending to accounts", func(t *testing.T) {
		account, err := storage.PromotePendingToAccount(ctx, pending.Email)
		require.NoError(t, err)
		assert.Equal(t, pending.Username, account.Username)
		assert.Equal(t, pending.Email, account.Email)
		assert.Equal(t, models.ProviderLocal, account.AuthProvider)
		assert.NotEmpty(t, account.UID)

		verify.VerifyAccountExists(t, pending.Email)
		verify.VerifyPendingDeleted(t, pending.Email)
	})

	t.Run("promote is not repeatable", func(t *testing.T) {
		_, err := storage.PromotePendingToAccount(ctx, pending.Email)
		assert.ErrorIs(t, err, ErrPendingNotFound)
	})
}

func TestStorage_VerifyLocalCredentials(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	hash, err := password.GetHash("Str0ng!Pass99")
	require.NoError(t, err)
	uid := factory.CreateAccount(t, "validuser", "user@example.com", hash, models.ProviderLocal)

	t.Run("correct credentials", func(t *testing.T) {
		account, err := storage.VerifyLocalCredentials(ctx, "user@example.com", "Str0ng!Pass99")
		require.NoError(t, err)
		assert.Equal(t, uid, account.UID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := storage.VerifyLocalCredentials(ctx, "user@example.com", "wrongpass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email yields the same error", func(t *testing.T) {
		_, err := storage.VerifyLocalCredentials(ctx, "ghost@example.com", "Str0ng!Pass99")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestStorage_UpsertGoogleAccount(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	profile := models.GoogleProfile{
		Email:       "g@example.com",
		DisplayName: "Google User",
		ImageURL:    "https://example.com/avatar.png",
		GoogleID:    "google-id-1",
	}

	created, err := storage.UpsertGoogleAccount(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, models.ProviderGoogle, created.AuthProvider)
	require.NotNil(t, created.GoogleID)
	assert.Equal(t, "google-id-1", *created.GoogleID)

	// Повторный вход не создает вторую запись с тем же email
	profile.ImageURL = "https://example.com/avatar2.png"
	updated, err := storage.UpsertGoogleAccount(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, created.UID, updated.UID)
	require.NotNil(t, updated.ImageURL)
	assert.Equal(t, "https://example.com/avatar2.png", *updated.ImageURL)

	var count int
	require.NoError(t, storage.DB.QueryRow(
		"SELECT COUNT(*) FROM accounts WHERE email = $1", profile.Email).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestStorage_FindAccount(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()
	factory.CreateAccount(t, "findme", "findme@example.com", "hash", models.ProviderLocal)

	account, err := storage.FindAccountByEmail(ctx, "findme@example.com")
	require.NoError(t, err)
	assert.Equal(t, "findme", account.Username)

	account, err = storage.FindAccountByUsername(ctx, "findme")
	require.NoError(t, err)
	assert.Equal(t, "findme@example.com", account.Email)

	_, err = storage.FindAccountByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
