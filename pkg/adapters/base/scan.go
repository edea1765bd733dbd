package base

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ruslano69/datatransformer/pkg/core/table"
)

// ScanTable читает все строки результата в таблицу.
// Типы колонок определяются по DatabaseTypeName драйвера через mapper.
func ScanTable(rows *sql.Rows, name string, mapper TypeMapper) (*table.Table, error) {
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to get column types: %w", err)
	}

	columns := make([]table.Column, len(colTypes))
	names := table.NewColumnNamer("_")
	for i, ct := range colTypes {
		colName := ct.Name()
		if colName == "" {
			colName = "column_" + strconv.Itoa(i+1)
		}
		// Одинаковые имена в результате (JOIN) получают суффикс
		columns[i] = table.Column{Name: names.Unique(colName), Type: mapper.MapType(ct.DatabaseTypeName())}
	}

	t := table.New(name, columns...)
	dest := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range dest {
		ptrs[i] = &dest[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(t.Rows)+1, err)
		}
		row := make(table.Row, len(columns))
		for i, v := range dest {
			row[i] = mapper.ConvertValue(v, columns[i].Type)
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	t.InferColumnTypes()
	return t, nil
}
