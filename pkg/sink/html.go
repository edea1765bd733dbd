package sink

import (
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ruslano69/datatransformer/pkg/core/schema"
	"github.com/ruslano69/datatransformer/pkg/core/table"
)

// HTMLDisplay пишет таблицу отдельной HTML страницей
type HTMLDisplay struct {
	w       io.Writer
	title   string
	columns []table.Column
	rows    []table.Row
	now     func() time.Time
}

// NewHTMLDisplay создает HTML вывод в w
func NewHTMLDisplay(w io.Writer, title string) *HTMLDisplay {
	return &HTMLDisplay{w: w, title: title, now: time.Now}
}

func (d *HTMLDisplay) Reset() {
	d.columns = nil
	d.rows = nil
}

func (d *HTMLDisplay) SetColumns(columns []table.Column) {
	d.columns = columns
}

func (d *HTMLDisplay) AddRow(row table.Row) {
	d.rows = append(d.rows, row)
}

// Flush пишет страницу целиком
func (d *HTMLDisplay) Flush(totalRows int) error {
	_, err := io.WriteString(d.w, d.render(totalRows))
	return err
}

func (d *HTMLDisplay) render(totalRows int) string {
	var b strings.Builder
	title := html.EscapeString(d.title)

	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>`)
	b.WriteString(title)
	b.WriteString(`</title>
<style>
  * { box-sizing: border-box; margin: 0; padding: 0; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #0f1117; color: #e2e8f0; min-height: 100vh; padding: 24px;
  }
  .container { max-width: 1600px; margin: 0 auto; }
  .badge {
    display: inline-flex; align-items: center; gap: 6px;
    padding: 4px 10px; border-radius: 20px; font-size: 12px; font-weight: 600;
  }
  .badge-type { background: #1e293b; color: #94a3b8; font-family: monospace; }
  .header-card {
    background: linear-gradient(135deg, #1e293b 0%, #0f172a 100%);
    border: 1px solid #334155; border-radius: 12px;
    padding: 24px 28px; margin-bottom: 20px;
  }
  .table-name { font-size: 26px; font-weight: 700; color: #f1f5f9; margin-bottom: 16px; }
  .meta-grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(220px, 1fr)); gap: 12px; }
  .meta-item { display: flex; flex-direction: column; gap: 2px; }
  .meta-label { font-size: 11px; font-weight: 600; color: #64748b; text-transform: uppercase; letter-spacing: 0.05em; }
  .meta-value { font-size: 13px; color: #cbd5e1; font-family: monospace; }
  .card { background: #1e293b; border: 1px solid #334155; border-radius: 12px; margin-bottom: 20px; overflow: hidden; }
  .card-header {
    padding: 14px 20px; border-bottom: 1px solid #334155;
    font-size: 14px; font-weight: 600; color: #94a3b8; background: #0f172a;
  }
  .pill { background: #334155; color: #94a3b8; padding: 2px 8px; border-radius: 10px; font-size: 11px; }
  .data-wrapper { overflow-x: auto; }
  .data-table { width: 100%; border-collapse: collapse; font-size: 13px; }
  .data-table th {
    padding: 10px 14px; text-align: left;
    font-size: 11px; font-weight: 600; color: #475569; text-transform: uppercase;
    border-bottom: 2px solid #334155; background: #0f172a;
    white-space: nowrap; position: sticky; top: 0;
  }
  .data-table td {
    padding: 8px 14px; border-bottom: 1px solid #1e293b;
    font-family: monospace; color: #cbd5e1;
    max-width: 320px; overflow: hidden; text-overflow: ellipsis; white-space: nowrap;
  }
  .data-table tr:nth-child(even) td { background: #18222f; }
  .null-val { color: #475569; font-style: italic; }
  .num-val { color: #60a5fa; text-align: right; }
  .bool-true { color: #34d399; }
  .bool-false { color: #f87171; }
  .row-num { color: #475569; text-align: right; user-select: none; font-size: 11px; }
  .stats-bar { padding: 12px 20px; background: #0f172a; border-top: 1px solid #334155; font-size: 12px; color: #64748b; }
</style>
</head>
<body>
<div class="container">
`)

	b.WriteString(`<div class="header-card">`)
	b.WriteString(`<div class="table-name">` + title + `</div>`)
	b.WriteString(`<div class="meta-grid">`)
	writeMetaItem(&b, "Columns", humanize.Comma(int64(len(d.columns))))
	writeMetaItem(&b, "Rows", humanize.Comma(int64(totalRows)))
	writeMetaItem(&b, "Generated", d.now().Format(time.RFC3339))
	b.WriteString(`</div></div>`)

	b.WriteString(`<div class="card">`)
	if len(d.rows) < totalRows {
		fmt.Fprintf(&b, `<div class="card-header">Data <span class="pill">%s of %s rows</span></div>`,
			humanize.Comma(int64(len(d.rows))), humanize.Comma(int64(totalRows)))
	} else {
		fmt.Fprintf(&b, `<div class="card-header">Data <span class="pill">%s rows</span></div>`,
			humanize.Comma(int64(totalRows)))
	}

	b.WriteString(`<div class="data-wrapper"><table class="data-table"><thead><tr><th class="row-num">#</th>`)
	for _, c := range d.columns {
		typ := strings.ToLower(string(c.Type))
		fmt.Fprintf(&b, `<th>%s<br><small>%s</small></th>`, html.EscapeString(c.Name), html.EscapeString(typ))
	}
	b.WriteString(`</tr></thead><tbody>`)

	for i, row := range d.rows {
		fmt.Fprintf(&b, `<tr><td class="row-num">%d</td>`, i+1)
		for j, c := range d.columns {
			var v table.Value
			if j < len(row) {
				v = row[j]
			}
			b.WriteString(htmlCell(v, c.Type))
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table></div>`)

	fmt.Fprintf(&b, `<div class="stats-bar"><strong>%s</strong> rows, <strong>%d</strong> columns</div>`,
		humanize.Comma(int64(totalRows)), len(d.columns))
	b.WriteString(`</div>`)

	b.WriteString(`</div></body></html>`)
	return b.String()
}

// htmlCell ячейка с оформлением по типу значения
func htmlCell(v table.Value, colType schema.DataType) string {
	switch {
	case v.IsNull():
		return `<td><span class="null-val">NULL</span></td>`
	case v.IsNumeric():
		return `<td class="num-val">` + v.String() + `</td>`
	case v.Kind() == table.KindBool:
		cls := "bool-false"
		if b, _ := v.Boolean(); b {
			cls = "bool-true"
		}
		return `<td><span class="` + cls + `">` + v.String() + `</span></td>`
	case schema.NormalizeType(colType) == schema.TypeBlob:
		return `<td><span class="null-val">&lt;binary&gt;</span></td>`
	}
	return `<td>` + html.EscapeString(v.String()) + `</td>`
}

func writeMetaItem(b *strings.Builder, label, value string) {
	b.WriteString(`<div class="meta-item">`)
	b.WriteString(`<span class="meta-label">` + html.EscapeString(label) + `</span>`)
	b.WriteString(`<span class="meta-value">` + html.EscapeString(value) + `</span>`)
	b.WriteString(`</div>`)
}
