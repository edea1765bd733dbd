package base

import (
	"encoding/base64"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ruslano69/datatransformer/pkg/core/schema"
	"github.com/ruslano69/datatransformer/pkg/core/table"
)

// TypeMapper переводит типы и значения драйвера в типы и значения таблицы
type TypeMapper interface {
	// MapType тип колонки по имени типа в базе. Пустой результат означает,
	// что тип будет выведен по значениям.
	MapType(dbType string) schema.DataType

	// ConvertValue переводит просканированное значение в Value
	ConvertValue(v any, colType schema.DataType) table.Value
}

// GenericTypeMapper сопоставление типов, общее для MySQL, SQLite и MS SQL
type GenericTypeMapper struct{}

// MapType разбирает имя типа без учета регистра и размерности: "VARCHAR(255)" -> TEXT
func (GenericTypeMapper) MapType(dbType string) schema.DataType {
	t := strings.ToUpper(strings.TrimSpace(dbType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.TrimPrefix(t, "UNSIGNED ")
	t = strings.TrimSuffix(t, " UNSIGNED")

	switch t {
	case "":
		return ""
	case "INT", "INTEGER", "TINYINT", "SMALLINT", "MEDIUMINT", "BIGINT",
		"INT2", "INT4", "INT8", "SERIAL", "BIGSERIAL", "YEAR":
		return schema.TypeInteger
	case "REAL", "FLOAT", "DOUBLE", "DOUBLE PRECISION", "FLOAT4", "FLOAT8":
		return schema.TypeReal
	case "DECIMAL", "NUMERIC", "MONEY", "SMALLMONEY":
		return schema.TypeDecimal
	case "BOOL", "BOOLEAN", "BIT":
		return schema.TypeBoolean
	case "DATE":
		return schema.TypeDate
	case "DATETIME", "DATETIME2", "SMALLDATETIME", "DATETIMEOFFSET":
		return schema.TypeDatetime
	case "TIMESTAMP", "TIMESTAMPTZ":
		return schema.TypeTimestamp
	case "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB", "BINARY", "VARBINARY", "IMAGE", "BYTEA":
		return schema.TypeBlob
	case "CHAR", "VARCHAR", "TEXT", "TINYTEXT", "MEDIUMTEXT", "LONGTEXT",
		"NCHAR", "NVARCHAR", "NTEXT", "CLOB", "JSON", "UUID", "UNIQUEIDENTIFIER",
		"ENUM", "SET", "TIME", "XML":
		return schema.TypeText
	}
	return ""
}

// ConvertValue переводит значение драйвера в Value.
// []byte приводится к типу колонки: драйверы MySQL отдают числа текстом.
func (GenericTypeMapper) ConvertValue(v any, colType schema.DataType) table.Value {
	return ConvertValue(v, colType)
}

// ConvertValue общая конвертация значения драйвера
func ConvertValue(v any, colType schema.DataType) table.Value {
	switch x := v.(type) {
	case nil:
		return table.Null()
	case []byte:
		if schema.NormalizeType(colType) == schema.TypeBlob || !utf8.Valid(x) {
			return table.String(base64.StdEncoding.EncodeToString(x))
		}
		return table.Coerce(table.String(string(x)), colType)
	case string:
		return table.Coerce(table.String(x), colType)
	case time.Time:
		if schema.NormalizeType(colType) == schema.TypeDate {
			return table.String(x.Format("2006-01-02"))
		}
		return table.String(x.Format(time.RFC3339))
	case int64:
		if schema.IsBooleanType(colType) && (x == 0 || x == 1) {
			return table.Bool(x == 1)
		}
		return table.Int(x)
	}
	return table.FromAny(v)
}
