package transform

import (
	"sort"

	"github.com/ruslano69/datatransformer/pkg/core/table"
)

// Sorter сортирует строки таблицы
type Sorter struct{}

// NewSorter создает сортировщик
func NewSorter() *Sorter {
	return &Sorter{}
}

// sortField колонка сортировки
type sortField struct {
	name      string
	index     int
	direction Direction
}

// SortTable сортирует строки таблицы на месте
func SortTable(t *table.Table, by Sort) error {
	return NewSorter().Sort(t, by)
}

// Sort выполняет устойчивую сортировку строк t по ключам by.
// Порядок значений естественный для их вида, Null всегда в конце.
func (s *Sorter) Sort(t *table.Table, by ...Sort) error {
	fields := make([]sortField, 0, len(by))
	for _, key := range by {
		if key.Column == "" {
			continue
		}
		idx := t.ColumnIndex(key.Column)
		if idx < 0 {
			return validationErrorf("Sort column '%s' not found in result", key.Column)
		}
		fields = append(fields, sortField{name: key.Column, index: idx, direction: key.Direction})
	}

	if len(fields) == 0 {
		return nil
	}

	sort.SliceStable(t.Rows, func(i, j int) bool {
		return s.compareRows(t.Rows[i], t.Rows[j], fields) < 0
	})
	return nil
}

// compareRows сравнивает строки по полям сортировки с учетом направления
func (s *Sorter) compareRows(row1, row2 table.Row, fields []sortField) int {
	for _, f := range fields {
		v1, v2 := row1[f.index], row2[f.index]

		// NULL в конце при любом направлении
		switch {
		case v1.IsNull() && v2.IsNull():
			continue
		case v1.IsNull():
			return 1
		case v2.IsNull():
			return -1
		}

		c := table.Compare(v1, v2)
		if c == 0 {
			continue
		}
		if f.direction == Descending {
			return -c
		}
		return c
	}
	return 0
}
