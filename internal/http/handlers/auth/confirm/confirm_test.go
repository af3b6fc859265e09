package confirm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/account-onboarding/internal/models"
	"github.com/magabrotheeeer/account-onboarding/internal/services/registration"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Confirm(ctx context.Context, token string) (*models.Account, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRouter(serviceMock *ServiceMock) http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/api/v1/confirm/{token}", New(newNoopLogger(), serviceMock))
	return r
}

func TestConfirmHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		token          string
		mockAccount    *models.Account
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "valid token activates the account",
			token:          "good-token",
			mockAccount:    &models.Account{UID: "uid-1", Username: "validuser"},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "rejected token",
			token:          "bad-token",
			mockErr:        registration.ErrInvalidConfirmToken,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "confirmation link is not valid",
		},
		{
			name:           "already confirmed",
			token:          "stale-token",
			mockErr:        registration.ErrNoPendingRegistration,
			wantStatusCode: http.StatusNotFound,
			wantError:      "registration not found or already confirmed",
		},
		{
			name:           "backend failure",
			token:          "good-token",
			mockErr:        errors.New("storage is down"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to confirm registration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			serviceMock.On("Confirm", mock.Anything, tt.token).
				Return(tt.mockAccount, tt.mockErr).Once()

			req := httptest.NewRequest(http.MethodGet, "/api/v1/confirm/"+tt.token, nil)
			rec := httptest.NewRecorder()

			newRouter(serviceMock).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
			}
			serviceMock.AssertExpectations(t)
		})
	}
}
