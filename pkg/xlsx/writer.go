package xlsx

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ruslano69/datatransformer/pkg/core/schema"
	"github.com/ruslano69/datatransformer/pkg/core/table"
)

// WriteOptions настройки записи
type WriteOptions struct {
	Sheet        string // Имя листа, по умолчанию имя таблицы или "Sheet1"
	TypedHeaders bool   // Писать заголовки в виде "name (TYPE)"
}

// WriteTable сохраняет таблицу в файл XLSX
func WriteTable(t *table.Table, path string, opts WriteOptions) error {
	f, err := buildWorkbook(t, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteTableTo пишет таблицу в формате XLSX в w
func WriteTableTo(w io.Writer, t *table.Table, opts WriteOptions) error {
	f, err := buildWorkbook(t, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(t *table.Table, opts WriteOptions) (*excelize.File, error) {
	if len(t.Columns) == 0 {
		return nil, table.ErrNoColumns
	}

	sheet := sheetName(opts.Sheet, t.Name)

	f := excelize.NewFile()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	if err := writeSheet(f, sheet, t, opts); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, t *table.Table, opts WriteOptions) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, c := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		header := c.Name
		if opts.TypedHeaders && c.Type != "" {
			header = fmt.Sprintf("%s (%s)", c.Name, c.Type)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	styles := newStyleCache(f)
	for r, row := range t.Rows {
		for col, v := range row {
			if v.IsNull() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, excelValue(v)); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
			if style, ok := styles.forType(t.Columns[col].Type); ok {
				if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
					return err
				}
			}
		}
	}

	last, err := excelize.ColumnNumberToName(len(t.Columns))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 15)
}

// excelValue переводит Value в значение для excelize
func excelValue(v table.Value) any {
	switch v.Kind() {
	case table.KindInt:
		i, _ := v.Int64()
		return i
	case table.KindFloat:
		fv, _ := v.Float64()
		return fv
	case table.KindBool:
		b, _ := v.Boolean()
		return b
	default:
		return v.String()
	}
}

// styleCache числовые форматы ячеек по типу колонки
type styleCache struct {
	f      *excelize.File
	styles map[schema.DataType]int
}

func newStyleCache(f *excelize.File) *styleCache {
	return &styleCache{f: f, styles: make(map[schema.DataType]int)}
}

func (c *styleCache) forType(t schema.DataType) (int, bool) {
	normalized := schema.NormalizeType(t)

	var numFmt int
	switch normalized {
	case schema.TypeInteger:
		numFmt = 1 // 0
	case schema.TypeReal, schema.TypeDecimal:
		numFmt = 2 // 0.00
	default:
		return 0, false
	}

	if id, ok := c.styles[normalized]; ok {
		return id, true
	}
	id, err := c.f.NewStyle(&excelize.Style{NumFmt: numFmt})
	if err != nil {
		return 0, false
	}
	c.styles[normalized] = id
	return id, true
}

// sheetName допустимое имя листа: до 31 символа, без []:*?/\
func sheetName(requested, tableName string) string {
	name := requested
	if name == "" {
		name = tableName
	}
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, name)
	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	if strings.TrimSpace(name) == "" {
		return "Sheet1"
	}
	return name
}
