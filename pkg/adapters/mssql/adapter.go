// Package mssql адаптер Microsoft SQL Server на драйвере github.com/denisenkom/go-mssqldb.
// Поддерживаются DSN вида sqlserver://, ADO (server=...;user id=...) и odbc:.
package mssql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	mssql "github.com/denisenkom/go-mssqldb"

	"github.com/ruslano69/datatransformer/pkg/adapters"
	"github.com/ruslano69/datatransformer/pkg/adapters/base"
	"github.com/ruslano69/datatransformer/pkg/core/schema"
	"github.com/ruslano69/datatransformer/pkg/core/table"
)

// AdapterType тип адаптера в фабрике
const AdapterType = "mssql"

var _ adapters.Adapter = (*Adapter)(nil)

func init() {
	adapters.Register(AdapterType, func() adapters.Adapter {
		return &Adapter{}
	})
}

// Adapter адаптер MS SQL Server
type Adapter struct {
	base.SQLAdapter
	schema string
}

// Connect подключается к серверу
func (a *Adapter) Connect(ctx context.Context, cfg adapters.Config) error {
	a.DBType = AdapterType
	a.Timeout = cfg.Timeout
	a.Mapper = typeMapper{}
	a.schema = cfg.Schema
	if a.schema == "" {
		a.schema = "dbo"
	}
	return a.Open(ctx, "sqlserver", cfg.DSN, cfg.MaxConns)
}

// GetTableNames таблицы и представления схемы
func (a *Adapter) GetTableNames(ctx context.Context) ([]string, error) {
	names, err := a.QueryStrings(ctx, `
		SELECT TABLE_NAME
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = @p1
		ORDER BY TABLE_NAME`, a.schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	return names, nil
}

// GetDatabaseVersion версия сервера, например "SQL Server 2019 (15.0.2000.5)"
func (a *Adapter) GetDatabaseVersion(ctx context.Context) (string, error) {
	version, err := a.QueryString(ctx, "SELECT CAST(SERVERPROPERTY('ProductVersion') AS NVARCHAR(128))")
	if err != nil {
		return "", fmt.Errorf("failed to get version: %w", err)
	}
	return describeVersion(version), nil
}

// QuoteIdentifier [name]
func (a *Adapter) QuoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

var productNames = map[int]string{
	10: "SQL Server 2008",
	11: "SQL Server 2012",
	12: "SQL Server 2014",
	13: "SQL Server 2016",
	14: "SQL Server 2017",
	15: "SQL Server 2019",
	16: "SQL Server 2022",
}

// describeVersion по ProductVersion "15.0.2000.5"
func describeVersion(productVersion string) string {
	major, _, _ := strings.Cut(productVersion, ".")
	n, err := strconv.Atoi(major)
	if err != nil {
		return "SQL Server " + productVersion
	}
	if name, ok := productNames[n]; ok {
		return name + " (" + productVersion + ")"
	}
	return "SQL Server " + productVersion
}

// typeMapper учитывает бинарные rowversion и uniqueidentifier
type typeMapper struct {
	base.GenericTypeMapper
}

// MapType в MS SQL TIMESTAMP это синоним ROWVERSION, а не дата
func (m typeMapper) MapType(dbType string) schema.DataType {
	switch strings.ToUpper(dbType) {
	case "TIMESTAMP", "ROWVERSION", "UNIQUEIDENTIFIER":
		return schema.TypeText
	}
	return m.GenericTypeMapper.MapType(dbType)
}

// ConvertValue текстовая колонка получает []byte только от rowversion (8 байт)
// или uniqueidentifier (16 байт)
func (m typeMapper) ConvertValue(v any, colType schema.DataType) table.Value {
	if b, ok := v.([]byte); ok && colType == schema.TypeText {
		switch len(b) {
		case 8:
			return table.String(rowversionHex(b))
		case 16:
			var id mssql.UniqueIdentifier
			if err := id.Scan(b); err == nil {
				return table.String(id.String())
			}
		}
	}
	return m.GenericTypeMapper.ConvertValue(v, colType)
}
