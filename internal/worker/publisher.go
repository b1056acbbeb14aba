package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rabbitmq/amqp091-go"
)

// Publisher публикует результаты задач.
type Publisher interface {
	Publish(ctx context.Context, payload any, correlationID string) error
}

var _ Publisher = (*RabbitMQPublisher)(nil)

// RabbitMQPublisher публикует JSON сообщения напрямую в очередь через default exchange.
type RabbitMQPublisher struct {
	mu    sync.Mutex
	ch    *amqp091.Channel
	queue string
}

// NewRabbitMQPublisher открывает канал и объявляет durable очередь результатов.
func NewRabbitMQPublisher(conn *amqp091.Connection, queue string) (*RabbitMQPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel for publisher: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare result queue %s: %w", queue, err)
	}
	return &RabbitMQPublisher{ch: ch, queue: queue}, nil
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, payload any, correlationID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		return errors.New("publisher channel is closed")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp091.Publishing{
		ContentType:   "application/json",
		CorrelationId: correlationID,
		Body:          body,
		DeliveryMode:  amqp091.Persistent,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Close закрывает канал. Повторный вызов безопасен.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return nil
	}
	err := p.ch.Close()
	p.ch = nil
	return err
}
