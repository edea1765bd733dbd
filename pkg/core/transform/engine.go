// Package transform реализует движок преобразования таблиц:
// проекция, группировка с агрегацией и устойчивая сортировка.
//
// Движок не выполняет ввод-вывод и не хранит состояние между вызовами.
// Исходная таблица не изменяется, результат не разделяет с ней строки.
package transform

import (
	"github.com/ruslano69/datatransformer/pkg/core/table"
)

// Engine применяет запросы к таблицам
type Engine struct{}

// NewEngine создает движок
func NewEngine() *Engine {
	return &Engine{}
}

// Transform применяет запрос к таблице
func (e *Engine) Transform(t *table.Table, req Request) (*table.Table, error) {
	return Transform(t, req)
}

// Transform выполняет шаги в фиксированном порядке: проекция, группировка
// и агрегация (если активна), сортировка (если задана колонка).
// При ошибке результат не возвращается.
func Transform(t *table.Table, req Request) (*table.Table, error) {
	if err := Validate(t, req); err != nil {
		return nil, err
	}

	result := Project(t, req.Columns)

	if req.GroupingActive() {
		aggregated, err := Aggregate(result, req.GroupKey(), req.Aggregation)
		if err != nil {
			return nil, err
		}
		result = aggregated
	}

	if req.Sort.Column != "" {
		if err := SortTable(result, req.Sort); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// Project возвращает новую таблицу только с указанными колонками в указанном порядке.
// Колонки должны существовать (проверяется Validate).
func Project(t *table.Table, columns []string) *table.Table {
	indexes := make([]int, len(columns))
	cols := make([]table.Column, len(columns))
	for i, name := range columns {
		indexes[i] = t.ColumnIndex(name)
		cols[i] = t.Columns[indexes[i]]
	}

	out := table.New(t.Name, cols...)
	out.Rows = make([]table.Row, len(t.Rows))
	for r, src := range t.Rows {
		row := make(table.Row, len(indexes))
		for i, idx := range indexes {
			if idx < len(src) {
				row[i] = src[idx]
			}
		}
		out.Rows[r] = row
	}
	return out
}
