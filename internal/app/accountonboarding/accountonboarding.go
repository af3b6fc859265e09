// Package accountonboarding собирает основное приложение: хранилище,
// миграции, менеджер сессий, очередь писем, сервисы и HTTP-сервер.
package accountonboarding

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/account-onboarding/internal/config"
	"github.com/magabrotheeeer/account-onboarding/internal/lib/confirmtoken"
	"github.com/magabrotheeeer/account-onboarding/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/account-onboarding/internal/migrations"
	authservice "github.com/magabrotheeeer/account-onboarding/internal/services/auth"
	registrationservice "github.com/magabrotheeeer/account-onboarding/internal/services/registration"
	"github.com/magabrotheeeer/account-onboarding/internal/session"
	"github.com/magabrotheeeer/account-onboarding/internal/storage"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	sessions, err := session.New(ctx, cfg.RedisConnection, cfg.Session)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.Rabbit.ConnectionString, cfg.Rabbit.Retries, cfg.Rabbit.RetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	tokens := confirmtoken.NewMaker(cfg.ConfirmToken.SecretKey, cfg.ConfirmToken.TTL)
	publisher := rabbitmq.NewMailerPublisher(ch)

	registrationService := registrationservice.New(db, publisher, tokens, logger)
	authService := authservice.New(db, sessions, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, registrationService, authService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.ch.Close(); closeErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", closeErr))
		}
		if closeErr := a.conn.Close(); closeErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		a.db.DB.Close()
		return err
	}
}
