package schema

import (
	"fmt"
	"strings"
	"time"
)

// DataType тип колонки таблицы
type DataType string

// Поддерживаемые типы колонок (и синонимы, которые встречаются в заголовках и схемах БД)
const (
	TypeInteger   DataType = "INTEGER"
	TypeInt       DataType = "INT"
	TypeReal      DataType = "REAL"
	TypeFloat     DataType = "FLOAT"
	TypeDouble    DataType = "DOUBLE"
	TypeDecimal   DataType = "DECIMAL"
	TypeText      DataType = "TEXT"
	TypeVarchar   DataType = "VARCHAR"
	TypeChar      DataType = "CHAR"
	TypeString    DataType = "STRING"
	TypeBoolean   DataType = "BOOLEAN"
	TypeBool      DataType = "BOOL"
	TypeDate      DataType = "DATE"
	TypeDatetime  DataType = "DATETIME"
	TypeTimestamp DataType = "TIMESTAMP"
	TypeBlob      DataType = "BLOB"
)

// TypedValue значение ячейки после разбора строкового представления
type TypedValue struct {
	Type        DataType
	RawValue    string
	IsNull      bool
	IntValue    *int64
	FloatValue  *float64
	StringValue *string
	BoolValue   *bool
	TimeValue   *time.Time
	BlobValue   []byte
}

// FieldDef описание колонки источника
type FieldDef struct {
	Name      string
	Type      DataType
	Length    int
	Precision int
	Scale     int
	Nullable  bool
}

// ValidationError ошибка разбора значения
type ValidationError struct {
	Field   string
	Message string
	Value   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field '%s': %s (value: '%s')", e.Field, e.Message, e.Value)
}

// ParseDataType приводит произвольное имя типа к DataType (регистр и пробелы не важны)
func ParseDataType(s string) DataType {
	return DataType(strings.ToUpper(strings.TrimSpace(s)))
}

// NormalizeType сводит синонимы к каноническому типу
func NormalizeType(t DataType) DataType {
	switch t {
	case TypeInt:
		return TypeInteger
	case TypeFloat, TypeDouble:
		return TypeReal
	case TypeVarchar, TypeChar, TypeString:
		return TypeText
	case TypeBool:
		return TypeBoolean
	default:
		return t
	}
}

// IsValidType проверяет, что тип (или его синоним) поддерживается
func IsValidType(t DataType) bool {
	switch NormalizeType(t) {
	case TypeInteger, TypeReal, TypeDecimal, TypeText,
		TypeBoolean, TypeDate, TypeDatetime, TypeTimestamp, TypeBlob:
		return true
	default:
		return false
	}
}

func IsNumericType(t DataType) bool {
	switch NormalizeType(t) {
	case TypeInteger, TypeReal, TypeDecimal:
		return true
	default:
		return false
	}
}

func IsTextType(t DataType) bool {
	return NormalizeType(t) == TypeText
}

func IsDateTimeType(t DataType) bool {
	switch t {
	case TypeDate, TypeDatetime, TypeTimestamp:
		return true
	default:
		return false
	}
}

func IsBooleanType(t DataType) bool {
	return NormalizeType(t) == TypeBoolean
}

// Значения DECIMAL по умолчанию
const (
	DefaultPrecision = 18
	DefaultScale     = 2
)
