// Package postgres адаптер PostgreSQL на пуле соединений pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ruslano69/datatransformer/pkg/adapters"
	"github.com/ruslano69/datatransformer/pkg/core/table"
)

// AdapterType тип адаптера в фабрике
const AdapterType = "postgres"

// ErrNotConnected адаптер используется до Connect
var ErrNotConnected = errors.New("adapter is not connected")

var _ adapters.Adapter = (*Adapter)(nil)

func init() {
	adapters.Register(AdapterType, func() adapters.Adapter {
		return &Adapter{}
	})
	adapters.Register("postgresql", func() adapters.Adapter {
		return &Adapter{}
	})
}

// Adapter адаптер PostgreSQL
type Adapter struct {
	pool    *pgxpool.Pool
	schema  string
	timeout time.Duration
}

// Connect создает пул и проверяет подключение
func (a *Adapter) Connect(ctx context.Context, cfg adapters.Config) error {
	config, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.MaxConns > 0 {
		config.MaxConns = int32(cfg.MaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	a.pool = pool
	a.timeout = cfg.Timeout
	a.schema = cfg.Schema
	if a.schema == "" {
		a.schema = "public"
	}

	if err := a.Ping(ctx); err != nil {
		pool.Close()
		a.pool = nil
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Close закрывает пул
func (a *Adapter) Close(ctx context.Context) error {
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
	return nil
}

// Ping проверяет доступность сервера
func (a *Adapter) Ping(ctx context.Context) error {
	if a.pool == nil {
		return ErrNotConnected
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return a.pool.Ping(ctx)
}

// GetDatabaseType тип базы
func (a *Adapter) GetDatabaseType() string {
	return AdapterType
}

// Schema текущая схема
func (a *Adapter) Schema() string {
	return a.schema
}

// GetTableNames таблицы и представления текущей схемы
func (a *Adapter) GetTableNames(ctx context.Context) ([]string, error) {
	if a.pool == nil {
		return nil, ErrNotConnected
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	rows, err := a.pool.Query(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		ORDER BY table_name`, a.schema)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan table names: %w", err)
	}
	return names, nil
}

// GetDatabaseVersion результат SELECT version()
func (a *Adapter) GetDatabaseVersion(ctx context.Context) (string, error) {
	if a.pool == nil {
		return "", ErrNotConnected
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	var version string
	if err := a.pool.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		return "", fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

// Query выполняет запрос и читает результат в таблицу.
// Типы колонок определяются по OID.
func (a *Adapter) Query(ctx context.Context, query string) (*table.Table, error) {
	if a.pool == nil {
		return nil, ErrNotConnected
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	rows, err := a.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]table.Column, len(fields))
	for i, fd := range fields {
		columns[i] = table.Column{Name: fd.Name, Type: MapOID(fd.DataTypeOID)}
	}

	t := table.New("query", columns...)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(t.Rows)+1, err)
		}
		row := make(table.Row, len(columns))
		for i, v := range values {
			row[i] = ConvertValue(v, columns[i].Type)
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	t.InferColumnTypes()
	return t, nil
}

// QuoteIdentifier "name"
func (a *Adapter) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (a *Adapter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout > 0 {
		return context.WithTimeout(ctx, a.timeout)
	}
	return context.WithCancel(ctx)
}
