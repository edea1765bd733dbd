// Package retry повторяет операции с удаленными получателями (S3, брокеры, Redis)
// с экспоненциальной задержкой.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// Func операция, которую можно повторить
type Func func(ctx context.Context) error

// Config настройки повторов
type Config struct {
	// MaxAttempts число попыток, включая первую. 0 или 1 = без повторов.
	MaxAttempts int `yaml:"max_attempts,omitempty"`

	InitialDelay time.Duration `yaml:"initial_delay,omitempty"`
	MaxDelay     time.Duration `yaml:"max_delay,omitempty"`

	// Multiplier рост задержки между попытками, 0 = 2.0
	Multiplier float64 `yaml:"multiplier,omitempty"`

	// Jitter случайное отклонение задержки (0.0 - 1.0)
	Jitter float64 `yaml:"jitter,omitempty"`
}

// DefaultConfig три попытки, от 500ms до 10s
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// Validate проверяет настройки
func (c Config) Validate() error {
	if c.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must be >= 0, got %d", c.MaxAttempts)
	}
	if c.InitialDelay < 0 {
		return fmt.Errorf("initial_delay must be >= 0")
	}
	if c.MaxDelay > 0 && c.MaxDelay < c.InitialDelay {
		return fmt.Errorf("max_delay (%v) must be >= initial_delay (%v)", c.MaxDelay, c.InitialDelay)
	}
	if c.Jitter < 0 || c.Jitter > 1.0 {
		return fmt.Errorf("jitter must be between 0.0 and 1.0, got %f", c.Jitter)
	}
	return nil
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent помечает ошибку, после которой повторять бессмысленно
// (неверный адрес, неподдерживаемый формат).
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent сообщает, помечена ли ошибка через Permanent
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Do выполняет fn, пока она не вернет nil, постоянную ошибку или не кончатся попытки.
// Возвращается последняя ошибка fn без обертки.
func Do(ctx context.Context, cfg Config, op string, fn Func) error {
	attempts := max(cfg.MaxAttempts, 1)

	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}

		var p *permanentError
		if errors.As(err, &p) {
			return p.err
		}
		if attempt >= attempts {
			return err
		}

		delay := cfg.delay(attempt)
		slog.Warn("operation failed, retrying",
			"op", op, "attempt", attempt, "max_attempts", attempts, "delay", delay, "error", err)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w (cancelled after %d attempt(s): %v)", err, attempt, ctx.Err())
		}
	}
}

// delay задержка перед попыткой attempt+1
func (c Config) delay(attempt int) time.Duration {
	multiplier := c.Multiplier
	if multiplier <= 0 {
		multiplier = 2.0
	}

	d := time.Duration(float64(c.InitialDelay) * math.Pow(multiplier, float64(attempt-1)))
	if c.MaxDelay > 0 && d > c.MaxDelay {
		d = c.MaxDelay
	}

	if c.Jitter > 0 {
		d += time.Duration(float64(d) * c.Jitter * (rand.Float64()*2 - 1))
		if d < 0 {
			d = c.InitialDelay
		}
	}
	return d
}
