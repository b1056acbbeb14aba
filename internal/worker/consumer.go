package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"content-generator/internal/config"
)

const (
	reconnectDelay       = 5 * time.Second
	maxReconnectAttempts = 10
)

// Consumer держит соединение с RabbitMQ и передает задачи в Handler.
// При разрыве соединения переподключается.
type Consumer struct {
	cfg        config.RabbitMQConfig
	newHandler func(Publisher) *Handler
	logger     *zap.Logger
}

// NewConsumer. newHandler вызывается на каждое подключение с новым паблишером.
func NewConsumer(cfg config.RabbitMQConfig, newHandler func(Publisher) *Handler, logger *zap.Logger) *Consumer {
	return &Consumer{cfg: cfg, newHandler: newHandler, logger: logger.Named("Consumer")}
}

// Run блокируется до отмены ctx или исчерпания попыток переподключения.
func (c *Consumer) Run(ctx context.Context) error {
	if c.cfg.URL == "" {
		return errors.New("RABBITMQ_URL is not configured")
	}
	for {
		conn, err := c.dial(ctx)
		if err != nil {
			return err
		}
		err = c.consume(ctx, conn)
		conn.Close()
		if ctx.Err() != nil {
			c.logger.Info("Consumer stopped")
			return nil
		}
		c.logger.Warn("Consumer interrupted, reconnecting", zap.Error(err))
	}
}

func (c *Consumer) dial(ctx context.Context) (*amqp091.Connection, error) {
	for attempt := 1; ; attempt++ {
		conn, err := amqp091.Dial(c.cfg.URL)
		if err == nil {
			c.logger.Info("RabbitMQ connected")
			return conn, nil
		}
		c.logger.Error("Failed to connect to RabbitMQ", zap.Int("attempt", attempt), zap.Error(err))
		if attempt >= maxReconnectAttempts {
			return nil, fmt.Errorf("rabbitmq: max reconnect attempts reached: %w", err)
		}
		select {
		case <-time.After(reconnectDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp091.Connection) error {
	publisher, err := NewRabbitMQPublisher(conn, c.cfg.ResultQueue)
	if err != nil {
		return err
	}
	defer publisher.Close()
	handler := c.newHandler(publisher)

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open consumer channel: %w", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(c.cfg.TaskQueue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare task queue %s: %w", c.cfg.TaskQueue, err)
	}
	prefetch := c.cfg.PrefetchCount
	if prefetch < 1 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}
	msgs, err := ch.Consume(q.Name, c.cfg.ConsumerName, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}
	c.logger.Info("Consumer started", zap.String("queue", q.Name), zap.Int("messages", q.Messages))

	closed := conn.NotifyClose(make(chan *amqp091.Error, 1))
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			if handler.HandleDelivery(ctx, msg) {
				if err := msg.Ack(false); err != nil {
					c.logger.Error("Failed to ack message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(err))
				}
			} else if err := msg.Nack(false, true); err != nil {
				c.logger.Error("Failed to nack message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(err))
			}
		case amqpErr := <-closed:
			return fmt.Errorf("connection closed: %v", amqpErr)
		case <-ctx.Done():
			return nil
		}
	}
}
