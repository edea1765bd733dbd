// Package logging настраивает глобальный log/slog.
//
// Формат "text" выводит читаемые цветные строки (hermannm.dev/devlog),
// "json" предназначен для сбора логов. Логи пишутся в stderr, чтобы не
// смешиваться с таблицами, которые CLI печатает в stdout.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"hermannm.dev/devlog"
)

// Setup устанавливает глобальный логгер.
//
// Уровни: "debug", "info", "warn", "error" (по умолчанию "info").
// Форматы: "text", "json" (по умолчанию "text").
func Setup(level, format string) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, level, format)))
}

// NewHandler создает обработчик для w
func NewHandler(w io.Writer, level, format string) slog.Handler {
	lvl := ParseLevel(level)
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	}
	return devlog.NewHandler(w, &devlog.Options{Level: lvl})
}

// ParseLevel переводит строковый уровень в slog.Level
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type runIDKey struct{}

// WithRunID сохраняет идентификатор запуска задания в контексте
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunID идентификатор запуска из контекста
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// FromContext логгер с run_id, если он есть в контексте
//
//	log := logging.FromContext(ctx)
//	log.Info("table loaded", "rows", t.Len())
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if id := RunID(ctx); id != "" {
		logger = logger.With("run_id", id)
	}
	return logger
}

// WithFields логгер из контекста с дополнительными полями
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
