package logout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLogoutHandler_ServeHTTP(t *testing.T) {
	t.Run("logout revokes session and clears cookie", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("Logout", mock.Anything, "live-token").Return(nil).Once()

		handler := New(newNoopLogger(), serviceMock)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/logout", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: "live-token"})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "token", cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
		serviceMock.AssertExpectations(t)
	})

	t.Run("logout without cookie still succeeds", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("Logout", mock.Anything, "").Return(nil).Once()

		handler := New(newNoopLogger(), serviceMock)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/logout", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("backend failure", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("Logout", mock.Anything, "live-token").
			Return(errors.New("redis is down")).Once()

		handler := New(newNoopLogger(), serviceMock)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/logout", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: "live-token"})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
