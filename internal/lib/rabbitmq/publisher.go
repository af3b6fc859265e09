package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/account-onboarding/internal/models"
)

// PublishMessage публикует сообщение в RabbitMQ.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MailerPublisher публикует почтовые задания в обменник mailer.
type MailerPublisher struct {
	ch *amqp.Channel
}

// NewMailerPublisher создает публикатора поверх открытого канала.
func NewMailerPublisher(ch *amqp.Channel) *MailerPublisher {
	return &MailerPublisher{ch: ch}
}

// DispatchConfirmation ставит в очередь письмо подтверждения регистрации.
func (p *MailerPublisher) DispatchConfirmation(job models.ConfirmationEmailJob) error {
	return PublishMessage(p.ch, MailerExchange, ConfirmationRoutedKey, job)
}
