// Package config описывает задание преобразования в YAML.
//
// Секреты можно не хранить в файле: значения из окружения (и файла .env
// в текущем каталоге) переопределяют YAML, например DT_DB_PASSWORD.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"hermannm.dev/wrap"

	"github.com/ruslano69/datatransformer/pkg/adapters"
	"github.com/ruslano69/datatransformer/pkg/core/transform"
	"github.com/ruslano69/datatransformer/pkg/resultlog"
	"github.com/ruslano69/datatransformer/pkg/retry"
	"github.com/ruslano69/datatransformer/pkg/storage"
)

// Config задание: откуда взять таблицу, как преобразовать и куда выгрузить
type Config struct {
	Name      string            `yaml:"name"`
	Database  DatabaseConfig    `yaml:"database,omitempty"`
	Source    SourceConfig      `yaml:"source"`
	Transform transform.Request `yaml:"transform"`
	Output    OutputConfig      `yaml:"output"`
	Storage   storage.Config    `yaml:"storage,omitempty"`
	ResultLog resultlog.Config  `yaml:"result_log,omitempty"`
	Logging   LoggingConfig     `yaml:"logging,omitempty"`
}

// DatabaseConfig подключение к базе для источников query и table
type DatabaseConfig struct {
	Type        string `yaml:"type" env:"DT_DB_TYPE"`                   // mysql, sqlite, postgres, mssql
	DSN         string `yaml:"dsn,omitempty" env:"DT_DB_DSN"`           // Готовая строка подключения, остальные поля игнорируются
	Host        string `yaml:"host,omitempty" env:"DT_DB_HOST"`         // Для сетевых баз
	Port        int    `yaml:"port,omitempty" env:"DT_DB_PORT"`         // Порт
	Database    string `yaml:"database,omitempty" env:"DT_DB_NAME"`     // Имя базы или путь к файлу SQLite
	User        string `yaml:"user,omitempty" env:"DT_DB_USER"`         // Пользователь
	Password    string `yaml:"password,omitempty" env:"DT_DB_PASSWORD"` // Пароль
	Schema      string `yaml:"schema,omitempty"`                        // Схема PostgreSQL / MS SQL
	SSLMode     string `yaml:"sslmode,omitempty"`                       // PostgreSQL sslmode
	WindowsAuth bool   `yaml:"windows_auth,omitempty"`                  // MS SQL Windows аутентификация
	Timeout     int    `yaml:"timeout,omitempty"`                       // Таймаут запросов в секундах
}

// SourceConfig источник таблицы. Задается ровно одно из File, Query, Table.
type SourceConfig struct {
	File  string `yaml:"file,omitempty"`  // .xlsx, .xml или s3://bucket/key
	Sheet string `yaml:"sheet,omitempty"` // Лист книги Excel
	Query string `yaml:"query,omitempty"` // SQL запрос, передается базе как есть
	Table string `yaml:"table,omitempty"` // Таблица базы: SELECT * FROM <table>
}

// OutputConfig куда выгрузить результат
type OutputConfig struct {
	Destination   string       `yaml:"destination,omitempty"`    // Файл, s3://, kafka:// или amqp://
	Sheet         string       `yaml:"sheet,omitempty"`          // Лист XLSX
	TypedHeaders  bool         `yaml:"typed_headers,omitempty"`  // Тип колонки в заголовке XLSX
	Compress      bool         `yaml:"compress,omitempty"`       // zstd сжатие TDTP
	CompressLevel int          `yaml:"compress_level,omitempty"` // 1-19, 0 = 3
	Preview       int          `yaml:"preview,omitempty"`        // Сколько строк результата напечатать
	Retry         retry.Config `yaml:"retry,omitempty"`          // Повторы отправки в S3 и очереди
}

// LoggingConfig настройки логирования
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty" env:"DT_LOG_LEVEL"`
	Format string `yaml:"format,omitempty" env:"DT_LOG_FORMAT"`
}

// Load читает YAML, применяет переменные окружения (.env необязателен),
// значения по умолчанию и проверяет результат.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read читает YAML и переменные окружения без проверки.
// CLI дополняет такую конфигурацию флагами.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv загружает .env (если есть) и переопределяет поля с тегом env.
// Переменные, которых нет в окружении, значения из YAML не трогают.
func ApplyEnv(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return wrap.Error(err, "failed to load .env file")
	}
	if err := env.Parse(cfg); err != nil {
		return wrap.Error(err, "failed to parse environment overrides")
	}
	return nil
}

// Save пишет конфигурацию в YAML
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SetDefaults заполняет необязательные поля
func (c *Config) SetDefaults() {
	if c.Name == "" {
		c.Name = "default"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	c.Database.Type = strings.ToLower(c.Database.Type)
}

// Validate проверяет конфигурацию и возвращает все найденные ошибки сразу
func (c *Config) Validate() error {
	var errs []error

	sources := 0
	for _, s := range []string{c.Source.File, c.Source.Query, c.Source.Table} {
		if strings.TrimSpace(s) != "" {
			sources++
		}
	}
	switch {
	case sources == 0:
		errs = append(errs, errors.New("source: one of file, query or table is required"))
	case sources > 1:
		errs = append(errs, errors.New("source: only one of file, query or table may be set"))
	}

	if c.Source.Query != "" || c.Source.Table != "" {
		if err := c.Database.Validate(); err != nil {
			errs = append(errs, wrap.Error(err, "database"))
		}
	}

	if len(c.Transform.Columns) == 0 {
		errs = append(errs, errors.New("transform: columns are required"))
	}

	if c.Output.Destination == "" && c.Output.Preview <= 0 {
		errs = append(errs, errors.New("output: destination or preview is required"))
	}
	if c.Output.CompressLevel < 0 || c.Output.CompressLevel > 19 {
		errs = append(errs, fmt.Errorf("output: compress_level must be between 1 and 19, got %d", c.Output.CompressLevel))
	}

	if err := c.Output.Retry.Validate(); err != nil {
		errs = append(errs, wrap.Error(err, "output.retry"))
	}

	if c.ResultLog.Enabled() {
		if c.ResultLog.Type != "redis" {
			errs = append(errs, fmt.Errorf("result_log: unsupported type '%s', must be 'redis'", c.ResultLog.Type))
		}
		if c.ResultLog.Address == "" {
			errs = append(errs, errors.New("result_log: address is required"))
		}
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging: format must be 'text' or 'json', got '%s'", c.Logging.Format))
	}

	if len(errs) > 0 {
		return wrap.Errors("invalid configuration", errs...)
	}
	return nil
}

// DatabaseTypes поддерживаемые значения database.type
var DatabaseTypes = []string{"mssql", "mysql", "postgres", "postgresql", "sqlite"}

// Validate проверяет параметры подключения
func (d *DatabaseConfig) Validate() error {
	if d.Type == "" {
		return errors.New("type is required")
	}
	if !slices.Contains(DatabaseTypes, d.Type) {
		return fmt.Errorf("unsupported type '%s', must be one of: %s", d.Type, strings.Join(DatabaseTypes, ", "))
	}
	if d.DSN == "" && d.Database == "" {
		return errors.New("dsn or database is required")
	}
	return nil
}

// AdapterConfig параметры для фабрики адаптеров
func (d *DatabaseConfig) AdapterConfig() adapters.Config {
	return adapters.Config{
		Type:    d.Type,
		DSN:     d.BuildDSN(),
		Schema:  d.Schema,
		Timeout: time.Duration(d.Timeout) * time.Second,
	}
}

// BuildDSN строка подключения в формате драйвера
func (d *DatabaseConfig) BuildDSN() string {
	if d.DSN != "" {
		return d.DSN
	}

	switch d.Type {
	case "postgres", "postgresql":
		q := url.Values{}
		q.Set("sslmode", valueOr(d.SSLMode, "disable"))
		if d.Schema != "" {
			q.Set("search_path", d.Schema)
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Password),
			Host:     fmt.Sprintf("%s:%d", d.Host, portOr(d.Port, 5432)),
			Path:     "/" + d.Database,
			RawQuery: q.Encode(),
		}
		return u.String()

	case "mssql":
		q := url.Values{}
		q.Set("database", d.Database)
		u := url.URL{
			Scheme: "sqlserver",
			Host:   fmt.Sprintf("%s:%d", d.Host, portOr(d.Port, 1433)),
		}
		if d.WindowsAuth {
			q.Set("integrated security", "SSPI")
		} else {
			u.User = url.UserPassword(d.User, d.Password)
		}
		u.RawQuery = q.Encode()
		return u.String()

	case "sqlite":
		return d.Database

	case "mysql":
		cfg := mysql.NewConfig()
		cfg.User = d.User
		cfg.Passwd = d.Password
		cfg.Net = "tcp"
		cfg.Addr = fmt.Sprintf("%s:%d", d.Host, portOr(d.Port, 3306))
		cfg.DBName = d.Database
		cfg.ParseTime = true
		return cfg.FormatDSN()
	}
	return ""
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func portOr(port, def int) int {
	if port == 0 {
		return def
	}
	return port
}
