// Package sender отвечает за отправку писем подтверждения регистрации
// по заданиям из очереди.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/account-onboarding/internal/lib/sl"
	"github.com/magabrotheeeer/account-onboarding/internal/lib/smtp"
	"github.com/magabrotheeeer/account-onboarding/internal/models"
)

// Service собирает письмо подтверждения и отправляет его через SMTP.
type Service struct {
	transport     smtp.TransportInterface
	publicBaseURL string
	log           *slog.Logger
}

// New создает новый экземпляр Service. publicBaseURL — внешний адрес
// сервиса, из него строится ссылка подтверждения.
func New(transport smtp.TransportInterface, publicBaseURL string, log *slog.Logger) *Service {
	return &Service{
		transport:     transport,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		log:           log,
	}
}

// SendConfirmationEmail обрабатывает задание из очереди: разбирает его
// и отправляет письмо со ссылкой подтверждения.
func (s *Service) SendConfirmationEmail(body []byte) error {
	var job models.ConfirmationEmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	link := s.ConfirmationLink(job.Token)
	to := []string{job.Email}
	subject := "Подтверждение регистрации"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nДля завершения регистрации перейдите по ссылке:\n%s\n\nЕсли вы не регистрировались, просто проигнорируйте это письмо.",
		job.Username, link)

	return s.sendEmail(to, subject, bodyText)
}

// ConfirmationLink строит ссылку подтверждения для токена.
func (s *Service) ConfirmationLink(token string) string {
	return s.publicBaseURL + "/api/v1/confirm/" + token
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("confirmation email sent", "to", to)
	return nil
}
