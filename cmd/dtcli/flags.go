package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ruslano69/datatransformer/pkg/config"
	"github.com/ruslano69/datatransformer/pkg/core/transform"
)

// sourceFlags источник таблицы и подключение к базе
type sourceFlags struct {
	configPath string
	file       string
	sheet      string
	dbType     string
	dsn        string
	query      string
	table      string
}

func (f *sourceFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.configPath, "config", "c", "", "YAML config with database, storage and result_log sections")
	fs.StringVarP(&f.file, "file", "f", "", "source file: .xlsx, .xml or s3://bucket/key")
	fs.StringVar(&f.sheet, "sheet", "", "source sheet (default: first sheet)")
	fs.StringVar(&f.dbType, "db", "", "database type: mysql, sqlite, postgres, mssql")
	fs.StringVar(&f.dsn, "dsn", "", "database connection string")
	fs.StringVarP(&f.query, "query", "q", "", "SQL query, passed to the database as is")
	fs.StringVarP(&f.table, "table", "t", "", "database table (SELECT * FROM <table>)")
}

// toConfig собирает конфигурацию: файл --config (если задан), поверх него флаги
func (f *sourceFlags) toConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if f.configPath != "" {
		loaded, err := config.Read(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if f.file != "" || f.query != "" || f.table != "" {
		cfg.Source = config.SourceConfig{File: f.file, Sheet: f.sheet, Query: f.query, Table: f.table}
	} else if f.sheet != "" {
		cfg.Source.Sheet = f.sheet
	}
	if f.dbType != "" {
		cfg.Database.Type = f.dbType
	}
	if f.dsn != "" {
		cfg.Database.DSN = f.dsn
	}
	cfg.SetDefaults()
	return cfg, nil
}

// transformFlags параметры преобразования
type transformFlags struct {
	columns    []string
	aggFunc    string
	aggColumn  string
	group      bool
	sortColumn string
	sortDir    string
}

func (f *transformFlags) register(fs *pflag.FlagSet) {
	fs.StringSliceVar(&f.columns, "columns", nil, "selected columns, comma separated, in output order")
	fs.StringVar(&f.aggFunc, "agg", "", "aggregation function: sum, max, min")
	fs.StringVar(&f.aggColumn, "agg-column", "", "column to aggregate")
	fs.BoolVar(&f.group, "group", true, "group by the remaining selected columns")
	fs.StringVar(&f.sortColumn, "sort", "", "sort column")
	fs.StringVar(&f.sortDir, "order", "asc", "sort direction: asc or desc")
}

// request строит запрос. Флаги, которых нет в командной строке,
// не переопределяют секцию transform из конфигурации.
func (f *transformFlags) request(cmd *cobra.Command, base transform.Request) (transform.Request, error) {
	req := base
	changed := cmd.Flags().Changed

	if changed("columns") {
		req.Columns = append([]string(nil), f.columns...)
	}
	if changed("agg") {
		fn, err := transform.ParseAggFunc(f.aggFunc)
		if err != nil {
			return transform.Request{}, err
		}
		req.Aggregation.Func = fn
	}
	if changed("agg-column") {
		req.Aggregation.Column = f.aggColumn
	}
	if changed("group") || len(base.Columns) == 0 {
		req.Group = f.group
	}
	if changed("sort") {
		req.Sort.Column = f.sortColumn
	}
	if changed("order") || changed("sort") {
		dir, err := transform.ParseDirection(f.sortDir)
		if err != nil {
			return transform.Request{}, err
		}
		req.Sort.Direction = dir
	}
	return req, nil
}

// outputFlags параметры выгрузки
type outputFlags struct {
	output        string
	outSheet      string
	typedHeaders  bool
	compress      bool
	compressLevel int
	preview       int
}

func (f *outputFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.output, "output", "o", "", "destination: .xlsx, .xml, .html, s3://, kafka:// or amqp://")
	fs.StringVar(&f.outSheet, "out-sheet", "", "output sheet name")
	fs.BoolVar(&f.typedHeaders, "typed-headers", false, "write column types into XLSX headers")
	fs.BoolVar(&f.compress, "compress", false, "compress TDTP data with zstd")
	fs.IntVar(&f.compressLevel, "compress-level", 3, "zstd level 1-19")
	fs.IntVarP(&f.preview, "preview", "p", 0, "print the first N result rows")
}

func (f *outputFlags) apply(cmd *cobra.Command, out *config.OutputConfig) {
	changed := cmd.Flags().Changed
	if changed("output") {
		out.Destination = f.output
	}
	if changed("out-sheet") {
		out.Sheet = f.outSheet
	}
	if changed("typed-headers") {
		out.TypedHeaders = f.typedHeaders
	}
	if changed("compress") {
		out.Compress = f.compress
	}
	if changed("compress-level") {
		out.CompressLevel = f.compressLevel
	}
	if changed("preview") {
		out.Preview = f.preview
	}
}
