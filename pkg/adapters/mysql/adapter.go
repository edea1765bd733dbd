// Package mysql адаптер MySQL/MariaDB на драйвере github.com/go-sql-driver/mysql.
package mysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/ruslano69/datatransformer/pkg/adapters"
	"github.com/ruslano69/datatransformer/pkg/adapters/base"
)

// AdapterType тип адаптера в фабрике
const AdapterType = "mysql"

var _ adapters.Adapter = (*Adapter)(nil)

func init() {
	adapters.Register(AdapterType, func() adapters.Adapter {
		return &Adapter{}
	})
}

// Adapter адаптер MySQL
type Adapter struct {
	base.SQLAdapter
}

// Connect подключается к серверу
func (a *Adapter) Connect(ctx context.Context, cfg adapters.Config) error {
	a.DBType = AdapterType
	a.Timeout = cfg.Timeout

	dsn, err := normalizeDSN(cfg.DSN)
	if err != nil {
		return err
	}
	return a.Open(ctx, "mysql", dsn, cfg.MaxConns)
}

// normalizeDSN включает parseTime, чтобы DATETIME приходили как time.Time
func normalizeDSN(dsn string) (string, error) {
	parsed, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MySQL DSN: %w", err)
	}
	parsed.ParseTime = true
	return parsed.FormatDSN(), nil
}

// GetTableNames аналог SHOW TABLES
func (a *Adapter) GetTableNames(ctx context.Context) ([]string, error) {
	names, err := a.QueryStrings(ctx, "SHOW TABLES")
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	return names, nil
}

// GetDatabaseVersion результат SELECT VERSION()
func (a *Adapter) GetDatabaseVersion(ctx context.Context) (string, error) {
	version, err := a.QueryString(ctx, "SELECT VERSION()")
	if err != nil {
		return "", fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

// QuoteIdentifier `name`
func (a *Adapter) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
