// Package sqlite адаптер SQLite на драйвере modernc.org/sqlite (без cgo).
// DSN это путь к файлу базы.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/ruslano69/datatransformer/pkg/adapters"
	"github.com/ruslano69/datatransformer/pkg/adapters/base"
)

const (
	AdapterType  = "sqlite"
	driverSqlite = "sqlite"
)

var _ adapters.Adapter = (*Adapter)(nil)

func init() {
	adapters.Register(AdapterType, func() adapters.Adapter {
		return &Adapter{}
	})
}

// Adapter адаптер SQLite
type Adapter struct {
	base.SQLAdapter
}

// Connect открывает файл базы
func (a *Adapter) Connect(ctx context.Context, cfg adapters.Config) error {
	a.DBType = AdapterType
	a.Timeout = cfg.Timeout

	if err := a.Open(ctx, driverSqlite, cfg.DSN, cfg.MaxConns); err != nil {
		return err
	}

	a.applyPragmas(ctx)
	return nil
}

// applyPragmas настройки соединения для чтения. Ошибки не критичны.
func (a *Adapter) applyPragmas(ctx context.Context) {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA cache_size = -64000",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := a.DB.ExecContext(ctx, pragma); err != nil {
			slog.Warn("sqlite pragma failed", "pragma", pragma, "error", err)
		}
	}
}

// GetTableNames возвращает пользовательские таблицы и представления
func (a *Adapter) GetTableNames(ctx context.Context) ([]string, error) {
	names, err := a.QueryStrings(ctx, `
		SELECT name FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	return names, nil
}

// GetDatabaseVersion версия библиотеки SQLite
func (a *Adapter) GetDatabaseVersion(ctx context.Context) (string, error) {
	version, err := a.QueryString(ctx, "SELECT sqlite_version()")
	if err != nil {
		return "", fmt.Errorf("failed to get version: %w", err)
	}
	return "SQLite " + version, nil
}

// QuoteIdentifier "name"
func (a *Adapter) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
