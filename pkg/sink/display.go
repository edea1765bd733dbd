package sink

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/ruslano69/datatransformer/pkg/core/table"
)

// Display поверхность для показа таблицы
type Display interface {
	// Reset очищает ранее показанные колонки и строки
	Reset()

	// SetColumns задает колонки
	SetColumns(columns []table.Column)

	// AddRow добавляет строку
	AddRow(row table.Row)

	// Flush выводит накопленное. totalRows число строк всей таблицы.
	Flush(totalRows int) error
}

// Render показывает колонки и не больше maxRows строк таблицы (0 = все).
// Предыдущее содержимое Display сбрасывается, таблица не изменяется.
func Render(d Display, t *table.Table, maxRows int) error {
	d.Reset()

	columns := make([]table.Column, len(t.Columns))
	copy(columns, t.Columns)
	d.SetColumns(columns)

	n := len(t.Rows)
	if maxRows > 0 && maxRows < n {
		n = maxRows
	}
	for _, row := range t.Rows[:n] {
		d.AddRow(append(table.Row(nil), row...))
	}

	return d.Flush(len(t.Rows))
}

// TextDisplay выводит таблицу выровненными колонками
type TextDisplay struct {
	w       io.Writer
	columns []table.Column
	rows    []table.Row
}

// NewTextDisplay создает текстовый вывод в w
func NewTextDisplay(w io.Writer) *TextDisplay {
	return &TextDisplay{w: w}
}

func (d *TextDisplay) Reset() {
	d.columns = nil
	d.rows = nil
}

func (d *TextDisplay) SetColumns(columns []table.Column) {
	d.columns = columns
}

func (d *TextDisplay) AddRow(row table.Row) {
	d.rows = append(d.rows, row)
}

// Flush печатает заголовок, разделитель и строки. NULL печатается как "NULL".
func (d *TextDisplay) Flush(totalRows int) error {
	tw := tabwriter.NewWriter(d.w, 0, 0, 2, ' ', 0)

	names := make([]string, len(d.columns))
	dashes := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
		dashes[i] = strings.Repeat("-", max(len(c.Name), 3))
	}
	fmt.Fprintln(tw, strings.Join(names, "\t"))
	fmt.Fprintln(tw, strings.Join(dashes, "\t"))

	cells := make([]string, len(d.columns))
	for _, row := range d.rows {
		for i := range cells {
			cells[i] = displayValue(row, i)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(d.rows) < totalRows {
		_, err := fmt.Fprintf(d.w, "(%s of %s rows)\n", humanize.Comma(int64(len(d.rows))), humanize.Comma(int64(totalRows)))
		return err
	}
	_, err := fmt.Fprintf(d.w, "(%s rows)\n", humanize.Comma(int64(totalRows)))
	return err
}

func displayValue(row table.Row, i int) string {
	if i >= len(row) || row[i].IsNull() {
		return "NULL"
	}
	return strings.ReplaceAll(row[i].String(), "\t", " ")
}
