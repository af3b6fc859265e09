// Package accountonboarding предоставляет маршруты для основного приложения.
package accountonboarding

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/account-onboarding/internal/http/handlers/auth/checksession"
	"github.com/magabrotheeeer/account-onboarding/internal/http/handlers/auth/confirm"
	"github.com/magabrotheeeer/account-onboarding/internal/http/handlers/auth/googlelogin"
	"github.com/magabrotheeeer/account-onboarding/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/account-onboarding/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/account-onboarding/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/account-onboarding/internal/http/handlers/auth/resend"
	"github.com/magabrotheeeer/account-onboarding/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/account-onboarding/internal/services/auth"
	registrationservice "github.com/magabrotheeeer/account-onboarding/internal/services/registration"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, registrationService *registrationservice.Service, authService *authservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/register", register.New(logger, registrationService).ServeHTTP)
			r.Post("/login", login.New(logger, authService).ServeHTTP)
			r.Post("/login/google", googlelogin.New(logger, authService).ServeHTTP)
			r.Get("/confirm/{token}", confirm.New(logger, registrationService).ServeHTTP)
			r.Post("/resend-confirmation", resend.New(logger, registrationService).ServeHTTP)
			r.Get("/session", checksession.New(logger, authService).ServeHTTP)
		})

		// Группа с проверкой сессии
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(authService, logger))
			r.Post("/logout", logout.New(logger, authService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
