// Package resultlog публикует итог выполнения задания в Redis.
//
// Ключи:
//
//	SET     dt:job:<name>:state <JSON> EX <ttl>  последнее состояние для опроса
//	PUBLISH dt:job:<name>       <JSON>           событие для подписчиков
package resultlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Статусы выполнения
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// DefaultTTL время жизни ключа состояния
const DefaultTTL = 24 * time.Hour

// Config параметры публикации. Пустой Type отключает публикацию.
type Config struct {
	Type     string `yaml:"type"` // "redis"
	Address  string `yaml:"address" env:"DT_REDIS_ADDRESS"`
	Password string `yaml:"password" env:"DT_REDIS_PASSWORD"`
	DB       int    `yaml:"db"`
	TTL      int    `yaml:"ttl"` // секунды, 0 = DefaultTTL
}

// Enabled включена ли публикация
func (c Config) Enabled() bool {
	return c.Type != ""
}

// Result итог выполнения задания
type Result struct {
	Job          string    `json:"job"`
	RunID        string    `json:"run_id"`
	Status       string    `json:"status"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	DurationMs   int64     `json:"duration_ms"`
	RowsLoaded   int       `json:"rows_loaded"`
	RowsExported int       `json:"rows_exported"`
	Error        *string   `json:"error,omitempty"`
}

// SetError выставляет статус по ошибке выполнения. nil означает успех.
func (r *Result) SetError(err error) {
	if err == nil {
		r.Status = StatusSuccess
		r.Error = nil
		return
	}
	r.Status = StatusFailed
	msg := err.Error()
	r.Error = &msg
}

// StateKey ключ состояния задания
func StateKey(job string) string {
	return fmt.Sprintf("dt:job:%s:state", job)
}

// Channel канал событий задания
func Channel(job string) string {
	return fmt.Sprintf("dt:job:%s", job)
}

// RedisPublisher публикует результаты в Redis
type RedisPublisher struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPublisher создает publisher. Подключение устанавливается при первой публикации.
func NewRedisPublisher(cfg Config) (*RedisPublisher, error) {
	if cfg.Type != "redis" {
		return nil, fmt.Errorf("unsupported result log type: %s (supported: redis)", cfg.Type)
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("result log address is required")
	}

	ttl := time.Duration(cfg.TTL) * time.Second
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisPublisher{client: client, ttl: ttl}, nil
}

// Publish записывает состояние и публикует событие.
// Вызывается и после успешного, и после неудачного выполнения.
func (p *RedisPublisher) Publish(ctx context.Context, result Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := p.client.Set(ctx, StateKey(result.Job), payload, p.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET failed: %w", err)
	}
	if err := p.client.Publish(ctx, Channel(result.Job), payload).Err(); err != nil {
		return fmt.Errorf("redis PUBLISH failed: %w", err)
	}
	return nil
}

// Close закрывает соединение
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
