package table

import (
	"cmp"
	"math"
	"strconv"
	"strings"
)

// Kind вид скалярного значения ячейки
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value неизменяемое значение ячейки. Нулевое значение Value это Null.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
}

func Null() Value           { return Value{} }
func Int(v int64) Value     { return Value{kind: KindInt, i: v} }
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }
func String(v string) Value { return Value{kind: KindString, s: v} }
func Bool(v bool) Value     { return Value{kind: KindBool, b: v} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNumeric true для Int и Float
func (v Value) IsNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }

// Int64 возвращает целое значение (для Float отбрасывается дробная часть)
func (v Value) Int64() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		return int64(v.f), true
	}
	return 0, false
}

// Float64 возвращает числовое значение как float64
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// Str возвращает строку для значений KindString
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Boolean возвращает логическое значение для KindBool
func (v Value) Boolean() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// String форматирует значение для вывода. Null выводится пустой строкой.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindString:
		return v.s
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	}
	return ""
}

// Equal сравнивает значения по смыслу: Int(1) равно Float(1.0), Null равно Null.
func (v Value) Equal(other Value) bool {
	if v.IsNumeric() && other.IsNumeric() {
		return Compare(v, other) == 0
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == other.s
	case KindBool:
		return v.b == other.b
	}
	return true
}

// Key возвращает строковый ключ значения для группировки.
// Равные по Equal значения дают одинаковый ключ.
func (v Value) Key() string {
	switch v.kind {
	case KindInt:
		return "n:" + strconv.FormatInt(v.i, 10)
	case KindFloat:
		if v.f == math.Trunc(v.f) && v.f >= -0x1p63 && v.f < 0x1p63 {
			return "n:" + strconv.FormatInt(int64(v.f), 10)
		}
		if math.IsNaN(v.f) {
			return "n:NaN"
		}
		return "n:" + strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return "s:" + v.s
	case KindBool:
		if v.b {
			return "b:1"
		}
		return "b:0"
	}
	return "null"
}

// rank порядок видов при сравнении разнотипных значений: числа < строки < bool < null
func (v Value) rank() int {
	switch v.kind {
	case KindInt, KindFloat:
		return 0
	case KindString:
		return 1
	case KindBool:
		return 2
	}
	return 3
}

// Compare задает естественный порядок значений.
// Числа сравниваются численно, строки лексикографически, false < true.
// Разные виды упорядочены как числа < строки < bool, Null больше всех.
func Compare(a, b Value) int {
	if ra, rb := a.rank(), b.rank(); ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch a.kind {
	case KindInt, KindFloat:
		switch {
		case a.kind == KindInt && b.kind == KindInt:
			return cmp.Compare(a.i, b.i)
		case a.kind == KindInt:
			return compareIntFloat(a.i, b.f)
		case b.kind == KindInt:
			return -compareIntFloat(b.i, a.f)
		}
		return cmp.Compare(a.f, b.f)
	case KindString:
		return strings.Compare(a.s, b.s)
	case KindBool:
		switch {
		case a.b == b.b:
			return 0
		case !a.b:
			return -1
		default:
			return 1
		}
	}
	return 0
}

// compareIntFloat сравнивает int64 и float64 без потери точности.
// NaN меньше любого числа, как в cmp.Compare.
func compareIntFloat(i int64, f float64) int {
	switch {
	case math.IsNaN(f):
		return 1
	case f >= 0x1p63:
		return -1
	case f < -0x1p63:
		return 1
	}
	t := math.Trunc(f)
	if c := cmp.Compare(i, int64(t)); c != 0 {
		return c
	}
	return cmp.Compare(t, f)
}
