// Package sender собирает приложение отправки писем: подключение к
// RabbitMQ, SMTP транспорт и потребитель очереди подтверждений.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/account-onboarding/internal/config"
	"github.com/magabrotheeeer/account-onboarding/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/account-onboarding/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/account-onboarding/internal/services/sender"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.Rabbit.ConnectionString, cfg.Rabbit.Retries, cfg.Rabbit.RetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	senderService := senderservice.New(transport, cfg.PublicBaseURL, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.ConfirmationQueue, a.senderService.SendConfirmationEmail)
	if err != nil {
		a.logger.Error("failed to start confirmation queue consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
