// Package brokers отправляет TDTP сообщения в очереди Kafka и RabbitMQ.
package brokers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Типы брокеров
const (
	TypeKafka    = "kafka"
	TypeRabbitMQ = "rabbitmq"
)

const contentType = "application/xml"

// ErrNotConnected Send или Ping до Connect
var ErrNotConnected = errors.New("broker is not connected")

// MessageBroker очередь, в которую выгружаются таблицы
type MessageBroker interface {
	// Connect устанавливает соединение с брокером
	Connect(ctx context.Context) error

	// Close закрывает соединение
	Close() error

	// Send отправляет одно сообщение
	Send(ctx context.Context, msg Message) error

	// Ping проверяет доступность брокера
	Ping(ctx context.Context) error

	// GetBrokerType возвращает тип брокера (kafka, rabbitmq)
	GetBrokerType() string
}

// Message TDTP пакет, подготовленный к отправке
type Message struct {
	// ID идентификатор пакета (Header.MessageID), ключ сообщения
	ID string

	// Body XML пакета
	Body []byte

	// Headers метаданные: таблица, номер части
	Headers map[string]string
}

// Config параметры подключения
type Config struct {
	Type string

	// RabbitMQ
	URI        string // amqp[s]://user:pass@host:port/vhost без параметров
	Host       string
	UseTLS     bool
	Queue      string
	Exchange   string // пусто = default exchange
	RoutingKey string // пусто = имя очереди
	Durable    bool   // должен совпадать с существующей очередью

	// Kafka
	Brokers []string
	Topic   string
}

// New создает брокер по конфигурации
func New(cfg Config) (MessageBroker, error) {
	switch cfg.Type {
	case TypeRabbitMQ:
		return NewRabbitMQ(cfg)
	case TypeKafka:
		return NewKafka(cfg)
	default:
		return nil, fmt.Errorf("unsupported broker type: %s (supported: %s, %s)", cfg.Type, TypeKafka, TypeRabbitMQ)
	}
}

// IsURL проверяет, что адрес назначения это очередь
func IsURL(dest string) bool {
	lower := strings.ToLower(dest)
	return strings.HasPrefix(lower, "kafka://") ||
		strings.HasPrefix(lower, "amqp://") ||
		strings.HasPrefix(lower, "amqps://")
}

// ParseURL разбирает адрес назначения:
//
//	kafka://host:9092[,host2:9092]/topic
//	amqp[s]://user:pass@host:5672/vhost?queue=name[&durable=true][&exchange=x]
func ParseURL(dest string) (Config, error) {
	scheme, rest, ok := strings.Cut(dest, "://")
	if !ok {
		return Config{}, fmt.Errorf("invalid broker url %q: missing scheme", dest)
	}

	switch strings.ToLower(scheme) {
	case "kafka":
		return parseKafkaURL(dest, rest)
	case "amqp", "amqps":
		return parseAMQPURL(dest)
	default:
		return Config{}, fmt.Errorf("invalid broker url %q: unsupported scheme %s", dest, scheme)
	}
}

func parseKafkaURL(dest, rest string) (Config, error) {
	hosts, topic, _ := strings.Cut(rest, "/")
	topic = strings.Trim(topic, "/")
	if topic == "" {
		return Config{}, fmt.Errorf("invalid kafka url %q: topic is required", dest)
	}

	var brokers []string
	for _, h := range strings.Split(hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			brokers = append(brokers, h)
		}
	}
	if len(brokers) == 0 {
		return Config{}, fmt.Errorf("invalid kafka url %q: at least one broker is required", dest)
	}

	return Config{Type: TypeKafka, Brokers: brokers, Topic: topic}, nil
}

func parseAMQPURL(dest string) (Config, error) {
	u, err := url.Parse(dest)
	if err != nil {
		return Config{}, fmt.Errorf("invalid amqp url %q: %w", dest, err)
	}

	q := u.Query()
	cfg := Config{
		Type:       TypeRabbitMQ,
		Host:       u.Hostname(),
		UseTLS:     strings.EqualFold(u.Scheme, "amqps"),
		Queue:      q.Get("queue"),
		Exchange:   q.Get("exchange"),
		RoutingKey: q.Get("routing_key"),
	}
	if cfg.Queue == "" {
		return Config{}, fmt.Errorf("invalid amqp url %q: queue parameter is required", dest)
	}
	if v := q.Get("durable"); v != "" {
		if cfg.Durable, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("invalid amqp url %q: durable: %w", dest, err)
		}
	}

	u.RawQuery = ""
	cfg.URI = u.String()
	return cfg, nil
}
