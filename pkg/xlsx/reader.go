// Package xlsx читает и пишет таблицы в файлах Excel.
//
// Заголовок колонки может содержать тип: "amount (REAL)". Такие заголовки пишет
// WriteTable с TypedHeaders, при чтении тип применяется к значениям колонки.
// Без типа значения разбираются по содержимому ячеек.
package xlsx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ruslano69/datatransformer/pkg/core/ioerr"
	"github.com/ruslano69/datatransformer/pkg/core/schema"
	"github.com/ruslano69/datatransformer/pkg/core/table"
)

// ReadTable читает лист sheet (пустой = первый лист) файла path
func ReadTable(path string, sheet string) (*table.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &ioerr.IOError{Op: "open", Path: path, Err: err}
	}
	defer file.Close()

	return ReadTableFrom(file, path, sheet)
}

// ReadTableFrom читает книгу из потока. name используется в ошибках и как имя таблицы.
func ReadTableFrom(r io.Reader, name string, sheet string) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ioerr.FileFormatError{Path: name, Reason: "not a valid XLSX workbook", Err: err}
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, &ioerr.FileFormatError{Path: name, Reason: fmt.Sprintf("sheet '%s' not found", sheet)}
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ioerr.FileFormatError{Path: name, Reason: "failed to read rows", Err: err}
	}
	if len(rows) == 0 {
		return nil, &ioerr.FileFormatError{Path: name, Reason: fmt.Sprintf("sheet '%s' is empty", sheet)}
	}

	t := table.New(tableName(name, sheet), parseHeaders(rows[0])...)
	if err := t.Validate(); err != nil {
		return nil, &ioerr.FileFormatError{Path: name, Reason: "invalid header row", Err: err}
	}

	conv := schema.NewConverter()
	dates := newDateStyles(f, sheet)
	stats := make([]dateStats, len(t.Columns))
	t.Rows = make([]table.Row, 0, len(rows)-1)
	for r, raw := range rows[1:] {
		row := make(table.Row, len(t.Columns))
		for i, col := range t.Columns {
			if i >= len(raw) {
				continue
			}
			if col.Type == "" {
				row[i] = stats[i].observe(inferCell(dates, raw[i], i, r+2))
				continue
			}
			row[i] = cellValue(conv, raw[i], col)
		}
		t.Rows = append(t.Rows, row)
	}

	for i := range t.Columns {
		if t.Columns[i].Type == "" {
			t.Columns[i].Type = stats[i].columnType()
		}
	}
	t.InferColumnTypes()
	return t, nil
}

// parseHeaders строит колонки из строки заголовка.
// Пустые заголовки получают имя "Unnamed: N", повторы суффикс ".1", ".2"...
func parseHeaders(headers []string) []table.Column {
	columns := make([]table.Column, len(headers))
	names := table.NewColumnNamer(".")

	for i, h := range headers {
		name, typ := parseHeader(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		columns[i] = table.Column{Name: names.Unique(name), Type: typ}
	}
	return columns
}

// parseHeader разбирает "field_name (TYPE)". Если в скобках не тип, заголовок остается именем.
func parseHeader(header string) (string, schema.DataType) {
	header = strings.TrimSpace(header)

	open := strings.LastIndex(header, "(")
	if open <= 0 || !strings.HasSuffix(header, ")") {
		return header, ""
	}

	typ := schema.ParseDataType(header[open+1 : len(header)-1])
	if !schema.IsValidType(typ) {
		return header, ""
	}
	return strings.TrimSpace(header[:open]), typ
}

// cellValue переводит сырое значение ячейки в Value с учетом типа колонки
func cellValue(conv *schema.Converter, raw string, col table.Column) table.Value {
	if col.Type == "" {
		return table.Infer(raw)
	}
	if strings.TrimSpace(raw) == "" && !schema.IsTextType(col.Type) {
		return table.Null()
	}

	// Даты без формата ISO хранятся как серийный номер Excel
	if schema.IsDateTimeType(schema.NormalizeType(col.Type)) {
		if ts, ok := serialTime(raw); ok {
			if schema.NormalizeType(col.Type) == schema.TypeDate {
				return table.String(ts.Format(dateLayout))
			}
			return table.String(ts.Format(time.RFC3339))
		}
	}

	tv, err := conv.ParseValue(raw, schema.FieldDef{Name: col.Name, Type: col.Type, Nullable: true})
	if err != nil {
		return table.String(raw)
	}
	return table.FromTyped(tv)
}

// tableName имя файла без расширения, для потока без имени имя листа
func tableName(path, sheet string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if base == "" || base == "." {
		return sheet
	}
	return base
}
