package xlsx

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ruslano69/datatransformer/pkg/core/schema"
	"github.com/ruslano69/datatransformer/pkg/core/table"
)

const dateLayout = "2006-01-02"

type cellDate int

const (
	notDate cellDate = iota
	dateOnly
	dateTime
)

// dateStyles определяет по стилю ячейки, что число в ней является датой.
// Результат кешируется по номеру стиля.
type dateStyles struct {
	f       *excelize.File
	sheet   string
	byStyle map[int]bool
}

func newDateStyles(f *excelize.File, sheet string) *dateStyles {
	return &dateStyles{f: f, sheet: sheet, byStyle: make(map[int]bool)}
}

func (d *dateStyles) isDate(cell string) bool {
	styleID, err := d.f.GetCellStyle(d.sheet, cell)
	if err != nil || styleID == 0 {
		return false
	}
	if isDate, ok := d.byStyle[styleID]; ok {
		return isDate
	}

	isDate := false
	if style, err := d.f.GetStyle(styleID); err == nil && style != nil {
		isDate = isDateNumFmt(style.NumFmt, style.CustomNumFmt)
	}
	d.byStyle[styleID] = isDate
	return isDate
}

// isDateNumFmt встроенные форматы дат 14-22, 45-47 и локальные 27-36, 50-58
func isDateNumFmt(id int, custom *string) bool {
	if custom != nil && *custom != "" {
		return isDateFormatCode(*custom)
	}
	switch {
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 45 && id <= 47, id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode ищет токены даты и времени вне кавычек, скобок и экранирования
func isDateFormatCode(code string) bool {
	if strings.EqualFold(strings.TrimSpace(code), "general") {
		return false
	}

	var inQuote, inBracket, literal bool
	for _, r := range code {
		switch {
		case literal:
			literal = false
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			inBracket = r != ']'
		case r == '\\', r == '_', r == '*':
			literal = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		case strings.ContainsRune("yYmMdDhHsS", r):
			return true
		}
	}
	return false
}

// serialTime переводит серийный номер Excel во время с точностью до секунды
func serialTime(raw string) (time.Time, bool) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return time.Time{}, false
	}
	ts, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return ts.Round(time.Second), true
}

// inferCell разбирает ячейку колонки без типа. Число в ячейке с форматом даты
// становится строкой ISO-8601.
func inferCell(d *dateStyles, raw string, col, row int) (table.Value, cellDate) {
	v := table.Infer(raw)
	if !v.IsNumeric() {
		return v, notDate
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil || !d.isDate(cell) {
		return v, notDate
	}
	ts, ok := serialTime(raw)
	if !ok {
		return v, notDate
	}
	if ts.Hour() == 0 && ts.Minute() == 0 && ts.Second() == 0 {
		return table.String(ts.Format(dateLayout)), dateOnly
	}
	return table.String(ts.Format(time.RFC3339)), dateTime
}

// dateStats считает даты в колонке без типа
type dateStats struct {
	values   int
	dates    int
	withTime bool
}

func (s *dateStats) observe(v table.Value, kind cellDate) table.Value {
	if v.IsNull() {
		return v
	}
	s.values++
	if kind != notDate {
		s.dates++
		s.withTime = s.withTime || kind == dateTime
	}
	return v
}

// columnType DATE или DATETIME, если все непустые ячейки колонки даты
func (s *dateStats) columnType() schema.DataType {
	if s.values == 0 || s.dates != s.values {
		return ""
	}
	if s.withTime {
		return schema.TypeDatetime
	}
	return schema.TypeDate
}
