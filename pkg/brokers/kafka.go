package brokers

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Kafka отправка сообщений в топик Kafka
type Kafka struct {
	config Config
	writer *kafka.Writer
}

// NewKafka создает брокер Kafka
func NewKafka(cfg Config) (*Kafka, error) {
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic name is required for Kafka")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker address is required for Kafka")
	}
	return &Kafka{config: cfg}, nil
}

// Connect проверяет доступность топика и создает writer
func (k *Kafka) Connect(ctx context.Context) error {
	if err := k.ping(ctx); err != nil {
		return err
	}

	k.writer = &kafka.Writer{
		Addr:         kafka.TCP(k.config.Brokers...),
		Topic:        k.config.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
	}
	return nil
}

// Close закрывает writer
func (k *Kafka) Close() error {
	if k.writer == nil {
		return nil
	}
	err := k.writer.Close()
	k.writer = nil
	if err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return nil
}

// Send пишет сообщение. Ключ это ID пакета, части одной выгрузки
// получают разные ключи и распределяются по партициям.
func (k *Kafka) Send(ctx context.Context, msg Message) error {
	if k.writer == nil {
		return ErrNotConnected
	}

	key := msg.ID
	if key == "" {
		key = uuid.NewString()
	}

	if err := k.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(key),
		Value:   msg.Body,
		Time:    time.Now(),
		Headers: kafkaHeaders(msg.Headers),
	}); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

// kafkaHeaders content-type и метаданные пакета в порядке имен
func kafkaHeaders(meta map[string]string) []kafka.Header {
	headers := []kafka.Header{
		{Key: "content-type", Value: []byte(contentType)},
		{Key: "protocol", Value: []byte("tdtp")},
	}
	for _, name := range slices.Sorted(maps.Keys(meta)) {
		headers = append(headers, kafka.Header{Key: name, Value: []byte(meta[name])})
	}
	return headers
}

// Ping проверяет, что брокер отвечает и топик существует
func (k *Kafka) Ping(ctx context.Context) error {
	if k.writer == nil {
		return ErrNotConnected
	}
	return k.ping(ctx)
}

func (k *Kafka) ping(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", k.config.Brokers[0])
	if err != nil {
		return fmt.Errorf("failed to dial Kafka broker: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ReadPartitions(k.config.Topic); err != nil {
		return fmt.Errorf("failed to read topic partitions: %w", err)
	}
	return nil
}

// GetBrokerType возвращает "kafka"
func (k *Kafka) GetBrokerType() string {
	return TypeKafka
}
