// Package base содержит общую часть адаптеров на database/sql.
package base

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ruslano69/datatransformer/pkg/core/table"
)

// ErrNotConnected адаптер используется до Connect или после Close
var ErrNotConnected = errors.New("adapter is not connected")

// SQLAdapter общая реализация Close/Ping/Query для адаптеров на database/sql.
// Конкретный адаптер встраивает SQLAdapter и добавляет Connect и запросы метаданных.
type SQLAdapter struct {
	DB      *sql.DB
	DBType  string
	Timeout time.Duration
	Mapper  TypeMapper
}

// Open открывает пул, настраивает его и проверяет подключение
func (a *SQLAdapter) Open(ctx context.Context, driver, dsn string, maxConns int) error {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}

	pingCtx, cancel := a.withTimeout(ctx)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.DB = db
	return nil
}

// Close закрывает пул соединений
func (a *SQLAdapter) Close(ctx context.Context) error {
	if a.DB == nil {
		return nil
	}
	err := a.DB.Close()
	a.DB = nil
	return err
}

// Ping проверяет подключение
func (a *SQLAdapter) Ping(ctx context.Context) error {
	if a.DB == nil {
		return ErrNotConnected
	}
	pingCtx, cancel := a.withTimeout(ctx)
	defer cancel()
	return a.DB.PingContext(pingCtx)
}

// GetDatabaseType тип базы
func (a *SQLAdapter) GetDatabaseType() string {
	return a.DBType
}

// Query выполняет запрос и читает результат в таблицу
func (a *SQLAdapter) Query(ctx context.Context, query string) (*table.Table, error) {
	if a.DB == nil {
		return nil, ErrNotConnected
	}

	queryCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	rows, err := a.DB.QueryContext(queryCtx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	return ScanTable(rows, "query", a.mapper())
}

// QueryStrings выполняет запрос и возвращает первую колонку всех строк
func (a *SQLAdapter) QueryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	if a.DB == nil {
		return nil, ErrNotConnected
	}

	queryCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	rows, err := a.DB.QueryContext(queryCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}

// QueryString выполняет запрос, возвращающий одно строковое значение
func (a *SQLAdapter) QueryString(ctx context.Context, query string) (string, error) {
	if a.DB == nil {
		return "", ErrNotConnected
	}

	queryCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	var s string
	if err := a.DB.QueryRowContext(queryCtx, query).Scan(&s); err != nil {
		return "", err
	}
	return s, nil
}

func (a *SQLAdapter) mapper() TypeMapper {
	if a.Mapper != nil {
		return a.Mapper
	}
	return GenericTypeMapper{}
}

func (a *SQLAdapter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.Timeout > 0 {
		return context.WithTimeout(ctx, a.Timeout)
	}
	return context.WithCancel(ctx)
}
