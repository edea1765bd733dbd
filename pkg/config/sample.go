package config

import (
	"github.com/ruslano69/datatransformer/pkg/core/transform"
)

// CreateSampleConfig пример задания для init-config.
// Пустой dbType дает задание с источником-файлом.
func CreateSampleConfig(dbType string) *Config {
	cfg := &Config{
		Name: "sales-by-region",
		Transform: transform.NewRequest("region", "amount").
			WithAggregation(transform.AggSum, "amount").
			WithGrouping(true).
			WithSort("amount", transform.Descending),
		Output: OutputConfig{
			Destination:  "sales_by_region.xlsx",
			TypedHeaders: true,
			Preview:      10,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}

	switch dbType {
	case "":
		cfg.Source = SourceConfig{File: "sales.xlsx", Sheet: "Sheet1"}
		return cfg
	case "postgres", "postgresql":
		cfg.Database = DatabaseConfig{
			Type: "postgres", Host: "localhost", Port: 5432,
			Database: "sales", User: "postgres", Schema: "public", SSLMode: "disable",
		}
	case "mssql":
		cfg.Database = DatabaseConfig{
			Type: "mssql", Host: "localhost", Port: 1433,
			Database: "Sales", User: "sa", Schema: "dbo",
		}
	case "mysql":
		cfg.Database = DatabaseConfig{
			Type: "mysql", Host: "localhost", Port: 3306,
			Database: "sales", User: "root",
		}
	case "sqlite":
		cfg.Database = DatabaseConfig{Type: "sqlite", Database: "sales.db"}
	default:
		cfg.Database = DatabaseConfig{Type: dbType}
	}
	cfg.Source = SourceConfig{Table: "orders"}
	return cfg
}
