package brokers

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQ отправка сообщений в очередь RabbitMQ
type RabbitMQ struct {
	config  Config
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewRabbitMQ создает брокер RabbitMQ
func NewRabbitMQ(cfg Config) (*RabbitMQ, error) {
	if cfg.Queue == "" {
		return nil, fmt.Errorf("queue name is required for RabbitMQ")
	}
	if cfg.URI == "" {
		return nil, fmt.Errorf("connection uri is required for RabbitMQ")
	}
	if _, err := amqp.ParseURI(cfg.URI); err != nil {
		return nil, fmt.Errorf("invalid RabbitMQ uri: %w", err)
	}
	if cfg.RoutingKey == "" {
		cfg.RoutingKey = cfg.Queue
	}
	return &RabbitMQ{config: cfg}, nil
}

// Connect подключается и объявляет очередь (идемпотентно)
func (r *RabbitMQ) Connect(ctx context.Context) error {
	var err error
	if r.config.UseTLS {
		r.conn, err = amqp.DialTLS(r.config.URI, &tls.Config{
			ServerName: r.config.Host,
			MinVersion: tls.VersionTLS12,
		})
	} else {
		r.conn, err = amqp.Dial(r.config.URI)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	r.channel, err = r.conn.Channel()
	if err != nil {
		r.conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if r.config.Exchange == "" {
		_, err = r.channel.QueueDeclare(r.config.Queue, r.config.Durable, false, false, false, nil)
		if err != nil {
			r.channel.Close()
			r.conn.Close()
			return fmt.Errorf("failed to declare queue: %w", err)
		}
	}
	return nil
}

// Close закрывает канал и соединение
func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			return fmt.Errorf("failed to close channel: %w", err)
		}
		r.channel = nil
	}
	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
		r.conn = nil
	}
	return nil
}

// Send публикует сообщение. Метаданные пакета уходят в заголовки AMQP.
func (r *RabbitMQ) Send(ctx context.Context, msg Message) error {
	if r.channel == nil {
		return ErrNotConnected
	}

	var headers amqp.Table
	if len(msg.Headers) > 0 {
		headers = make(amqp.Table, len(msg.Headers))
		for name, value := range msg.Headers {
			headers[name] = value
		}
	}

	err := r.channel.PublishWithContext(ctx,
		r.config.Exchange,
		r.config.RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  contentType,
			MessageId:    msg.ID,
			Headers:      headers,
			Body:         msg.Body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message to queue %s: %w", r.config.Queue, err)
	}
	return nil
}

// Ping проверяет, что соединение открыто
func (r *RabbitMQ) Ping(ctx context.Context) error {
	if r.conn == nil || r.conn.IsClosed() || r.channel == nil {
		return ErrNotConnected
	}
	return nil
}

// GetBrokerType возвращает "rabbitmq"
func (r *RabbitMQ) GetBrokerType() string {
	return TypeRabbitMQ
}
