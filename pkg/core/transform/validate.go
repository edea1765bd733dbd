package transform

import (
	"slices"

	"github.com/ruslano69/datatransformer/pkg/core/table"
)

// Validate проверяет запрос относительно таблицы и возвращает первую найденную ошибку:
// пустой выбор, отсутствующая колонка, повтор колонки, неизвестная функция,
// колонка агрегации вне выбора, недопустимая колонка сортировки.
func Validate(t *table.Table, req Request) error {
	if len(req.Columns) == 0 {
		return validationErrorf("No columns selected")
	}

	seen := make(map[string]bool, len(req.Columns))
	for _, name := range req.Columns {
		if !t.HasColumn(name) {
			return validationErrorf("Column '%s' not found in table", name)
		}
	}
	for _, name := range req.Columns {
		if seen[name] {
			return validationErrorf("Column '%s' selected more than once", name)
		}
		seen[name] = true
	}

	agg := req.Aggregation
	if !agg.Func.IsValid() {
		return validationErrorf("Unknown aggregation function %d", uint8(agg.Func))
	}
	if agg.Func != AggNone && agg.Column != "" && !seen[agg.Column] {
		return validationErrorf("Aggregation column '%s' is not among the selected columns", agg.Column)
	}

	if req.Sort.Column != "" {
		if !req.Sort.Direction.IsValid() {
			return validationErrorf("Unknown sort direction %d", uint8(req.Sort.Direction))
		}
		if !slices.Contains(resultColumns(req), req.Sort.Column) {
			if req.GroupingActive() && t.HasColumn(req.Sort.Column) {
				return validationErrorf("Sort column '%s' does not exist after aggregation", req.Sort.Column)
			}
			return validationErrorf("Sort column '%s' not found in result", req.Sort.Column)
		}
	}

	return nil
}

// resultColumns колонки таблицы после проекции и агрегации
func resultColumns(req Request) []string {
	if !req.GroupingActive() {
		return req.Columns
	}
	return append(req.GroupKey(), req.Aggregation.Column)
}
