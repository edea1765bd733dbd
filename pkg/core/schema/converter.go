package schema

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Форматы дат, которые принимаются при разборе
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Converter разбирает строковые значения источника в типизированные
type Converter struct{}

// NewConverter создает новый конвертер
func NewConverter() *Converter {
	return &Converter{}
}

// ParseValue парсит строковое значение согласно типу поля.
// Пустая строка для нетекстовых типов означает NULL.
func (c *Converter) ParseValue(rawValue string, field FieldDef) (*TypedValue, error) {
	tv := &TypedValue{Type: field.Type, RawValue: rawValue}
	normalized := NormalizeType(field.Type)

	if rawValue == "" && normalized != TypeText {
		tv.IsNull = true
		if !field.Nullable {
			return nil, &ValidationError{Field: field.Name, Message: "field is not nullable", Value: rawValue}
		}
		return tv, nil
	}

	invalid := func(msg string) (*TypedValue, error) {
		return nil, &ValidationError{Field: field.Name, Message: msg, Value: rawValue}
	}

	switch normalized {
	case TypeInteger:
		val, err := strconv.ParseInt(strings.TrimSpace(rawValue), 10, 64)
		if err != nil {
			return invalid("invalid integer value")
		}
		tv.IntValue = &val

	case TypeReal:
		val, err := strconv.ParseFloat(strings.TrimSpace(rawValue), 64)
		if err != nil {
			return invalid("invalid float value")
		}
		tv.FloatValue = &val

	case TypeDecimal:
		val, err := strconv.ParseFloat(strings.TrimSpace(rawValue), 64)
		if err != nil {
			return invalid("invalid decimal value")
		}
		if msg := checkDecimal(rawValue, field); msg != "" {
			return invalid(msg)
		}
		tv.FloatValue = &val

	case TypeText:
		// Длина считается в символах, а не в байтах
		if field.Length > 0 && utf8.RuneCountInString(rawValue) > field.Length {
			return invalid(fmt.Sprintf("text length exceeds %d", field.Length))
		}
		val := rawValue
		tv.StringValue = &val

	case TypeBoolean:
		val, ok := parseBool(rawValue)
		if !ok {
			return invalid("boolean must be 0/1 or true/false")
		}
		tv.BoolValue = &val

	case TypeDate, TypeDatetime, TypeTimestamp:
		val, ok := parseTime(rawValue)
		if !ok {
			return invalid("invalid date/time format, expected ISO 8601")
		}
		switch normalized {
		case TypeDate:
			val = time.Date(val.Year(), val.Month(), val.Day(), 0, 0, 0, 0, time.UTC)
		case TypeTimestamp:
			val = val.UTC()
		}
		tv.TimeValue = &val

	case TypeBlob:
		val, err := base64.StdEncoding.DecodeString(rawValue)
		if err != nil {
			return invalid("invalid base64 encoding")
		}
		tv.BlobValue = val

	default:
		return invalid(fmt.Sprintf("unsupported type: %s", field.Type))
	}

	return tv, nil
}

// FormatValue форматирует типизированное значение обратно в строку
func (c *Converter) FormatValue(tv *TypedValue) string {
	if tv == nil || tv.IsNull {
		return ""
	}

	switch NormalizeType(tv.Type) {
	case TypeInteger:
		if tv.IntValue != nil {
			return strconv.FormatInt(*tv.IntValue, 10)
		}
	case TypeReal, TypeDecimal:
		if tv.FloatValue != nil {
			return strconv.FormatFloat(*tv.FloatValue, 'f', -1, 64)
		}
	case TypeText:
		if tv.StringValue != nil {
			return *tv.StringValue
		}
	case TypeBoolean:
		if tv.BoolValue != nil {
			if *tv.BoolValue {
				return "1"
			}
			return "0"
		}
	case TypeDate:
		if tv.TimeValue != nil {
			return tv.TimeValue.Format("2006-01-02")
		}
	case TypeDatetime, TypeTimestamp:
		if tv.TimeValue != nil {
			return tv.TimeValue.Format(time.RFC3339)
		}
	case TypeBlob:
		if tv.BlobValue != nil {
			return base64.StdEncoding.EncodeToString(tv.BlobValue)
		}
	}

	return tv.RawValue
}

func checkDecimal(raw string, field FieldDef) string {
	precision := field.Precision
	if precision == 0 {
		precision = DefaultPrecision
	}
	scale := field.Scale
	if scale == 0 {
		scale = DefaultScale
	}

	intPart, fracPart, _ := strings.Cut(strings.TrimSpace(raw), ".")
	intPart = strings.TrimLeft(intPart, "+-")
	if len(fracPart) > scale {
		return fmt.Sprintf("decimal scale exceeds %d", scale)
	}
	if len(intPart)+len(fracPart) > precision {
		return fmt.Sprintf("decimal precision exceeds %d", precision)
	}
	return ""
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true":
		return true, true
	case "0", "false":
		return false, true
	}
	return false, false
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
