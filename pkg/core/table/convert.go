package table

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ruslano69/datatransformer/pkg/core/schema"
)

// FromTyped переводит результат schema.Converter в Value.
// Даты хранятся строкой ISO 8601, BLOB строкой base64.
func FromTyped(tv *schema.TypedValue) Value {
	if tv == nil || tv.IsNull {
		return Null()
	}

	switch {
	case tv.IntValue != nil:
		return Int(*tv.IntValue)
	case tv.FloatValue != nil:
		return Float(*tv.FloatValue)
	case tv.BoolValue != nil:
		return Bool(*tv.BoolValue)
	case tv.StringValue != nil:
		return String(*tv.StringValue)
	case tv.TimeValue != nil:
		if schema.NormalizeType(tv.Type) == schema.TypeDate {
			return String(tv.TimeValue.Format("2006-01-02"))
		}
		return String(tv.TimeValue.Format(time.RFC3339))
	case tv.BlobValue != nil:
		return String(base64.StdEncoding.EncodeToString(tv.BlobValue))
	}
	return String(tv.RawValue)
}

// Infer разбирает значение без известного типа: целое, дробное или строка.
// Пустая строка дает Null.
func Infer(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Null()
	}
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return Float(f)
	}
	return String(raw)
}

// FromAny переводит значение драйвера БД в Value
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		if x > math.MaxInt64 {
			return Float(float64(x))
		}
		return Int(int64(x))
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case []byte:
		return String(string(x))
	case time.Time:
		return String(x.Format(time.RFC3339))
	case fmt.Stringer:
		return String(x.String())
	default:
		return String(fmt.Sprint(x))
	}
}

// Coerce приводит значение к типу колонки, если это возможно без потерь.
// Строки, которые не разбираются как тип колонки, остаются строками.
func Coerce(v Value, t schema.DataType) Value {
	s, ok := v.Str()
	if !ok {
		return v
	}

	switch schema.NormalizeType(t) {
	case schema.TypeInteger:
		if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return Int(i)
		}
	case schema.TypeReal, schema.TypeDecimal:
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return Float(f)
		}
	case schema.TypeBoolean:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "1", "true", "t":
			return Bool(true)
		case "0", "false", "f":
			return Bool(false)
		}
	}
	return v
}

// KindType возвращает тип колонки для вида значения
func KindType(k Kind) schema.DataType {
	switch k {
	case KindInt:
		return schema.TypeInteger
	case KindFloat:
		return schema.TypeReal
	case KindBool:
		return schema.TypeBoolean
	default:
		return schema.TypeText
	}
}

// InferColumnTypes выставляет тип колонкам без типа по фактическим значениям.
// Int вместе с Float дают REAL, прочие смеси дают TEXT.
func (t *Table) InferColumnTypes() {
	for ci := range t.Columns {
		if t.Columns[ci].Type != "" {
			continue
		}

		var kind Kind
		mixed := false
		for _, row := range t.Rows {
			k := row[ci].Kind()
			switch {
			case k == KindNull || k == kind:
			case kind == KindNull:
				kind = k
			case (kind == KindInt && k == KindFloat) || (kind == KindFloat && k == KindInt):
				kind = KindFloat
			default:
				mixed = true
			}
		}

		if mixed {
			t.Columns[ci].Type = schema.TypeText
		} else {
			t.Columns[ci].Type = KindType(kind)
		}
	}
}
