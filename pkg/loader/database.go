package loader

import (
	"context"
	"strings"

	"github.com/ruslano69/datatransformer/pkg/adapters"
	"github.com/ruslano69/datatransformer/pkg/core/ioerr"
	"github.com/ruslano69/datatransformer/pkg/core/table"

	// Адаптеры регистрируются в фабрике при импорте
	_ "github.com/ruslano69/datatransformer/pkg/adapters/mssql"
	_ "github.com/ruslano69/datatransformer/pkg/adapters/mysql"
	_ "github.com/ruslano69/datatransformer/pkg/adapters/postgres"
	_ "github.com/ruslano69/datatransformer/pkg/adapters/sqlite"
)

// LoadQuery выполняет запрос и возвращает результат как таблицу.
// Текст запроса передается базе без изменений.
func LoadQuery(ctx context.Context, cfg adapters.Config, query string) (*table.Table, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &ioerr.QueryError{Query: query, Err: errEmptyQuery}
	}

	adapter, err := connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer adapter.Close(ctx)

	t, err := adapter.Query(ctx, query)
	if err != nil {
		return nil, wrapQueryErr(query, err, "database rejected the query")
	}
	return t, nil
}

// LoadTable читает таблицу целиком: SELECT * FROM <name>
func LoadTable(ctx context.Context, cfg adapters.Config, name string) (*table.Table, error) {
	query, err := TableQuery(cfg.Type, name)
	if err != nil {
		return nil, err
	}

	t, err := LoadQuery(ctx, cfg, query)
	if err != nil {
		return nil, err
	}
	t.Name = name
	return t, nil
}

// ListTables возвращает имена таблиц базы
func ListTables(ctx context.Context, cfg adapters.Config) ([]string, error) {
	adapter, err := connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer adapter.Close(ctx)

	names, err := adapter.GetTableNames(ctx)
	if err != nil {
		return nil, wrapQueryErr("list tables", err, "failed to list tables")
	}
	return names, nil
}

// TableQuery строит SELECT * FROM с экранированием имени по правилам базы.
// Имя вида schema.table экранируется по частям.
func TableQuery(dbType, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", &ioerr.QueryError{Query: name, Err: errEmptyQuery}
	}

	adapter, err := adapters.NewWithoutConnect(dbType)
	if err != nil {
		return "", &ioerr.ConnectionError{Source: dbType, Err: err}
	}

	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = adapter.QuoteIdentifier(p)
	}
	return "SELECT * FROM " + strings.Join(parts, "."), nil
}

func connect(ctx context.Context, cfg adapters.Config) (adapters.Adapter, error) {
	adapter, err := adapters.New(ctx, cfg)
	if err != nil {
		return nil, &ioerr.ConnectionError{Source: cfg.Type, Err: err}
	}
	return adapter, nil
}
