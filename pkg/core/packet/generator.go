package packet

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ruslano69/datatransformer/pkg/core/schema"
	"github.com/ruslano69/datatransformer/pkg/core/table"
	"github.com/ruslano69/datatransformer/pkg/processors"
)

// CompressionOptions настройки сжатия блока данных
type CompressionOptions struct {
	Enabled bool // Включить сжатие zstd
	Level   int  // 1 (fastest) - 19 (best), 0 = processors.DefaultLevel
	MinSize int  // Не сжимать данные меньше MinSize байт
}

// Options настройки генератора
type Options struct {
	Compression    CompressionOptions
	Checksum       bool   // Записывать XXH3 данных в атрибут checksum
	MaxMessageSize int    // Максимальный размер данных одного пакета (байт), 0 = без разбиения
	Sender         string // Заголовок Sender
}

// DefaultOptions настройки по умолчанию: без сжатия, с контрольной суммой, без разбиения
func DefaultOptions() Options {
	return Options{
		Compression: CompressionOptions{Level: processors.DefaultLevel, MinSize: 1024},
		Checksum:    true,
	}
}

// Generator строит пакеты из таблиц
type Generator struct {
	opts Options
}

// NewGenerator создает генератор
func NewGenerator(opts Options) *Generator {
	return &Generator{opts: opts}
}

// FromTable строит пакеты типа reference из таблицы.
// Если задан MaxMessageSize, строки разбиваются на части с PartNumber/TotalParts.
func (g *Generator) FromTable(t *table.Table) ([]*DataPacket, error) {
	if len(t.Columns) == 0 {
		return nil, table.ErrNoColumns
	}

	fields := make([]Field, len(t.Columns))
	for i, c := range t.Columns {
		typ := c.Type
		if typ == "" {
			typ = schema.TypeText
		}
		fields[i] = Field{Name: c.Name, Type: string(typ)}
	}

	rows := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values := make([]string, len(row))
		for j, v := range row {
			values[j] = formatValue(v)
		}
		rows[i] = JoinRow(values)
	}

	parts := g.partitionRows(rows)
	packets := make([]*DataPacket, 0, len(parts))
	for i, part := range parts {
		pkt := NewDataPacket(TypeReference, t.Name)
		pkt.Header.Sender = g.opts.Sender
		pkt.Header.RecordsInPart = len(part)
		if len(parts) > 1 {
			pkt.Header.PartNumber = i + 1
			pkt.Header.TotalParts = len(parts)
		}
		pkt.Schema = Schema{Fields: fields}

		data, err := g.buildData(part)
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", i+1, err)
		}
		pkt.Data = data
		packets = append(packets, pkt)
	}

	return packets, nil
}

// buildData упаковывает строки, при необходимости сжимая их
func (g *Generator) buildData(rows []string) (Data, error) {
	comp := g.opts.Compression

	size := 0
	for _, r := range rows {
		size += len(r) + 1
	}

	if comp.Enabled && len(rows) > 0 && size >= comp.MinSize {
		compressed, _, err := processors.CompressRows(rows, comp.Level)
		if err != nil {
			return Data{}, fmt.Errorf("compression failed: %w", err)
		}
		data := Data{Compression: "zstd", Rows: []Row{{Value: compressed}}}
		if g.opts.Checksum {
			data.Checksum = processors.ComputeChecksum([]byte(compressed))
		}
		return data, nil
	}

	data := Data{Rows: make([]Row, len(rows))}
	for i, r := range rows {
		data.Rows[i] = Row{Value: r}
	}
	if g.opts.Checksum && len(rows) > 0 {
		data.Checksum = processors.ComputeChecksum([]byte(strings.Join(rows, "\n")))
	}
	return data, nil
}

// partitionRows делит строки на части, каждая не больше MaxMessageSize
func (g *Generator) partitionRows(rows []string) [][]string {
	if g.opts.MaxMessageSize <= 0 || len(rows) == 0 {
		return [][]string{rows}
	}

	var (
		parts   [][]string
		current []string
		size    int
	)
	for _, r := range rows {
		// +7 на теги <R></R>
		rowSize := len(r) + 7
		if size+rowSize > g.opts.MaxMessageSize && len(current) > 0 {
			parts = append(parts, current)
			current, size = nil, 0
		}
		current = append(current, r)
		size += rowSize
	}
	return append(parts, current)
}

// ToXML сериализует пакет в XML с декларацией
func (g *Generator) ToXML(pkt *DataPacket, indent bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = xml.MarshalIndent(pkt, "", "  ")
	} else {
		data, err = xml.Marshal(pkt)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal XML: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}

// WriteTo пишет пакет в w
func (g *Generator) WriteTo(pkt *DataPacket, w io.Writer) error {
	data, err := g.ToXML(pkt, true)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteToFile пишет пакет в файл
func (g *Generator) WriteToFile(pkt *DataPacket, filename string) error {
	data, err := g.ToXML(pkt, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

// formatValue строковое представление значения в строке данных.
// NULL пишется пустой строкой, bool как 1/0.
func formatValue(v table.Value) string {
	if b, ok := v.Boolean(); ok {
		if b {
			return "1"
		}
		return "0"
	}
	return v.String()
}
