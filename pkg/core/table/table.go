// Package table описывает табличные данные, которыми обмениваются загрузчики,
// движок преобразований и приемники.
package table

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ruslano69/datatransformer/pkg/core/schema"
)

// Column колонка таблицы
type Column struct {
	Name string
	Type schema.DataType
}

// Row строка таблицы, значения выровнены по Table.Columns
type Row []Value

// Table упорядоченный набор колонок и строк.
// Имена колонок уникальны, каждая строка содержит ровно len(Columns) значений.
type Table struct {
	Name    string
	Columns []Column
	Rows    []Row
}

// New создает пустую таблицу с заданными колонками
func New(name string, columns ...Column) *Table {
	cols := make([]Column, len(columns))
	copy(cols, columns)
	return &Table{Name: name, Columns: cols}
}

// ColumnIndex возвращает позицию колонки или -1
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// HasColumn проверяет наличие колонки
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// ColumnNames возвращает имена колонок по порядку
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Len количество строк
func (t *Table) Len() int {
	return len(t.Rows)
}

// Value возвращает значение колонки name в строке row
func (t *Table) Value(row int, name string) (Value, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return Null(), false
	}
	return t.Rows[row][idx], true
}

// AppendRow добавляет строку. Недостающие значения дополняются Null.
func (t *Table) AppendRow(values ...Value) error {
	if len(values) > len(t.Columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(t.Columns))
	}
	row := make(Row, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
	return nil
}

// Validate проверяет инварианты таблицы
func (t *Table) Validate() error {
	seen := make(map[string]bool, len(t.Columns))
	for i, c := range t.Columns {
		if c.Name == "" {
			return fmt.Errorf("column %d has empty name", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate column name '%s'", c.Name)
		}
		seen[c.Name] = true
	}

	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(t.Columns))
		}
	}
	return nil
}

// Clone возвращает глубокую копию таблицы
func (t *Table) Clone() *Table {
	out := New(t.Name, t.Columns...)
	out.Rows = make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = append(Row(nil), row...)
	}
	return out
}

// Head возвращает копию первых n строк (n < 0 означает все строки)
func (t *Table) Head(n int) *Table {
	if n < 0 || n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := New(t.Name, t.Columns...)
	out.Rows = make([]Row, n)
	for i := 0; i < n; i++ {
		out.Rows[i] = append(Row(nil), t.Rows[i]...)
	}
	return out
}

// ErrNoColumns таблица без колонок
var ErrNoColumns = errors.New("table has no columns")

// FieldDefs описывает колонки таблицы как поля схемы
func (t *Table) FieldDefs() []schema.FieldDef {
	fields := make([]schema.FieldDef, len(t.Columns))
	for i, c := range t.Columns {
		fields[i] = schema.FieldDef{Name: c.Name, Type: c.Type, Nullable: true}
	}
	return fields
}

// FromRecords строит таблицу из имен колонок и строк значений Go.
// Типы колонок выводятся по значениям.
func FromRecords(name string, columns []string, records [][]any) (*Table, error) {
	cols := make([]Column, len(columns))
	for i, c := range columns {
		cols[i] = Column{Name: c}
	}
	t := New(name, cols...)

	for i, rec := range records {
		values := make([]Value, len(rec))
		for j, v := range rec {
			values[j] = FromAny(v)
		}
		if err := t.AppendRow(values...); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.InferColumnTypes()
	return t, nil
}

// ColumnNamer выдает уникальные имена колонок. Повтор получает суффикс
// sep+N с первым свободным N.
type ColumnNamer struct {
	sep  string
	used map[string]int
}

func NewColumnNamer(sep string) *ColumnNamer {
	return &ColumnNamer{sep: sep, used: make(map[string]int)}
}

// Unique возвращает name или первое незанятое name+sep+N
func (c *ColumnNamer) Unique(name string) string {
	if n, dup := c.used[name]; dup {
		base := name
		for {
			n++
			name = base + c.sep + strconv.Itoa(n)
			if _, taken := c.used[name]; !taken {
				break
			}
		}
		c.used[base] = n
	}
	c.used[name] = 0
	return name
}
