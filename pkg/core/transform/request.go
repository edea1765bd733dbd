package transform

import (
	"fmt"
	"strings"

	"hermannm.dev/enumnames"
)

// AggFunc функция агрегации
type AggFunc uint8

const (
	AggNone AggFunc = iota
	AggSum
	AggMax
	AggMin
)

var aggFuncNames = enumnames.NewMap(map[AggFunc]string{
	AggNone: "None",
	AggSum:  "Sum",
	AggMax:  "Max",
	AggMin:  "Min",
})

// AggFuncs все допустимые функции агрегации
var AggFuncs = []AggFunc{AggNone, AggSum, AggMax, AggMin}

func (f AggFunc) IsValid() bool {
	return f <= AggMin
}

func (f AggFunc) String() string {
	return aggFuncNames.GetNameOrFallback(f, "INVALID_AGGREGATION")
}

func (f AggFunc) MarshalJSON() ([]byte, error) {
	return aggFuncNames.MarshalToNameJSON(f)
}

func (f *AggFunc) UnmarshalJSON(bytes []byte) error {
	return aggFuncNames.UnmarshalFromNameJSON(bytes, f)
}

func (f AggFunc) MarshalText() ([]byte, error) {
	if !f.IsValid() {
		return nil, fmt.Errorf("invalid aggregation function %d", uint8(f))
	}
	return []byte(f.String()), nil
}

func (f *AggFunc) UnmarshalText(text []byte) error {
	parsed, err := ParseAggFunc(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseAggFunc разбирает имя функции агрегации без учета регистра.
// Пустая строка означает AggNone.
func ParseAggFunc(s string) (AggFunc, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return AggNone, nil
	}
	for _, f := range AggFuncs {
		if strings.EqualFold(f.String(), s) {
			return f, nil
		}
	}
	return AggNone, fmt.Errorf("unknown aggregation function '%s' (expected None, Sum, Max or Min)", s)
}

// Direction направление сортировки
type Direction uint8

const (
	Ascending Direction = iota
	Descending
)

var directionNames = enumnames.NewMap(map[Direction]string{
	Ascending:  "Ascending",
	Descending: "Descending",
})

func (d Direction) IsValid() bool {
	return d <= Descending
}

func (d Direction) String() string {
	return directionNames.GetNameOrFallback(d, "INVALID_DIRECTION")
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return directionNames.MarshalToNameJSON(d)
}

func (d *Direction) UnmarshalJSON(bytes []byte) error {
	return directionNames.UnmarshalFromNameJSON(bytes, d)
}

func (d Direction) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("invalid sort direction %d", uint8(d))
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection принимает Ascending/Descending, а также ASC/DESC.
// Пустая строка означает Ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ASC", "ASCENDING":
		return Ascending, nil
	case "DESC", "DESCENDING":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("unknown sort direction '%s' (expected Ascending or Descending)", s)
}

// Aggregation функция и колонка агрегации
type Aggregation struct {
	Func   AggFunc `yaml:"func" json:"func"`
	Column string  `yaml:"column" json:"column"`
}

// Sort колонка и направление сортировки. Пустая колонка отключает сортировку.
type Sort struct {
	Column    string    `yaml:"column" json:"column"`
	Direction Direction `yaml:"direction" json:"direction"`
}

// Request описывает одно преобразование таблицы.
// Значение неизменяемо: методы With* возвращают копию.
type Request struct {
	Columns     []string    `yaml:"columns" json:"columns"`
	Aggregation Aggregation `yaml:"aggregation" json:"aggregation"`
	Group       bool        `yaml:"group" json:"group"`
	Sort        Sort        `yaml:"sort" json:"sort"`
}

// NewRequest создает запрос с выбранными колонками
func NewRequest(columns ...string) Request {
	return Request{Columns: append([]string(nil), columns...)}
}

func (r Request) WithAggregation(fn AggFunc, column string) Request {
	r.Columns = append([]string(nil), r.Columns...)
	r.Aggregation = Aggregation{Func: fn, Column: column}
	return r
}

func (r Request) WithGrouping(group bool) Request {
	r.Columns = append([]string(nil), r.Columns...)
	r.Group = group
	return r
}

func (r Request) WithSort(column string, direction Direction) Request {
	r.Columns = append([]string(nil), r.Columns...)
	r.Sort = Sort{Column: column, Direction: direction}
	return r
}

// GroupingActive true, если запрос требует группировки с агрегацией
func (r Request) GroupingActive() bool {
	return r.Group && r.Aggregation.Func != AggNone && r.Aggregation.Column != ""
}

// GroupKey возвращает колонки группировки: выбранные колонки без колонки агрегации.
// Пусто, если группировка не активна.
func (r Request) GroupKey() []string {
	if !r.GroupingActive() {
		return nil
	}
	key := make([]string, 0, len(r.Columns))
	for _, c := range r.Columns {
		if c != r.Aggregation.Column {
			key = append(key, c)
		}
	}
	return key
}

func (r Request) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "columns=[%s]", strings.Join(r.Columns, ", "))
	if r.Aggregation.Func != AggNone {
		fmt.Fprintf(&b, " agg=%s(%s) group=%t", r.Aggregation.Func, r.Aggregation.Column, r.Group)
	}
	if r.Sort.Column != "" {
		fmt.Fprintf(&b, " sort=%s %s", r.Sort.Column, r.Sort.Direction)
	}
	return b.String()
}
