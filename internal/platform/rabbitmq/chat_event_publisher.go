package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"pdfchat/internal/app"
)

// ChatEventPublisher pushes answered-question events onto a durable queue
// for out-of-process consumers.
type ChatEventPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewChatEventPublisher(conn *amqp.Connection, queueName string) *ChatEventPublisher {
	return &ChatEventPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *ChatEventPublisher) Publish(ctx context.Context, ev app.ChatEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal chat event failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish chat event failed: %w", err)
	}
	return nil
}
