// Package adapters подключает реляционные базы данных как источники таблиц.
//
// Конкретные адаптеры регистрируются в глобальной фабрике из init() своих пакетов,
// поэтому для использования базы достаточно импортировать пакет адаптера:
//
//	import _ "github.com/ruslano69/datatransformer/pkg/adapters/mysql"
//
//	adapter, err := adapters.New(ctx, adapters.Config{Type: "mysql", DSN: dsn})
package adapters

import (
	"context"
	"time"

	"github.com/ruslano69/datatransformer/pkg/core/table"
)

// Config параметры подключения к базе данных
type Config struct {
	// Type тип базы: "mysql", "sqlite", "postgres", "mssql"
	Type string

	// DSN строка подключения в формате драйвера
	DSN string

	// Schema схема по умолчанию (PostgreSQL, MS SQL)
	Schema string

	// Timeout таймаут подключения и запросов, 0 = без таймаута
	Timeout time.Duration

	// MaxConns максимальное число соединений пула
	MaxConns int
}

// Adapter источник таблиц из базы данных.
// Текст запроса передается драйверу как есть.
type Adapter interface {
	// Connect открывает подключение и проверяет его
	Connect(ctx context.Context, cfg Config) error

	// Close закрывает подключение
	Close(ctx context.Context) error

	// Ping проверяет, что подключение живо
	Ping(ctx context.Context) error

	// GetTableNames возвращает имена пользовательских таблиц
	GetTableNames(ctx context.Context) ([]string, error)

	// Query выполняет запрос и возвращает результат целиком
	Query(ctx context.Context, query string) (*table.Table, error)

	// QuoteIdentifier экранирует имя таблицы или колонки
	QuoteIdentifier(name string) string

	// GetDatabaseVersion возвращает версию сервера
	GetDatabaseVersion(ctx context.Context) (string, error)

	// GetDatabaseType возвращает тип базы
	GetDatabaseType() string
}
