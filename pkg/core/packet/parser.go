package packet

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ruslano69/datatransformer/pkg/core/schema"
	"github.com/ruslano69/datatransformer/pkg/core/table"
	"github.com/ruslano69/datatransformer/pkg/processors"
)

// Parser читает TDTP пакеты
type Parser struct {
	converter *schema.Converter
}

// NewParser создает парсер
func NewParser() *Parser {
	return &Parser{converter: schema.NewConverter()}
}

// ParseFile читает пакет из файла
func (p *Parser) ParseFile(filename string) (*DataPacket, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Parse читает пакет из потока
func (p *Parser) Parse(r io.Reader) (*DataPacket, error) {
	var pkt DataPacket
	if err := xml.NewDecoder(r).Decode(&pkt); err != nil {
		return nil, fmt.Errorf("failed to decode XML: %w", err)
	}
	if err := p.validatePacket(&pkt); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &pkt, nil
}

// ParseBytes читает пакет из памяти
func (p *Parser) ParseBytes(data []byte) (*DataPacket, error) {
	var pkt DataPacket
	if err := xml.Unmarshal(data, &pkt); err != nil {
		return nil, fmt.Errorf("failed to unmarshal XML: %w", err)
	}
	if err := p.validatePacket(&pkt); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &pkt, nil
}

func (p *Parser) validatePacket(pkt *DataPacket) error {
	if pkt.Protocol != Protocol {
		return fmt.Errorf("invalid protocol: %s", pkt.Protocol)
	}
	if pkt.Version == "" {
		return errors.New("version is required")
	}
	if pkt.Header.TableName == "" {
		return errors.New("header.TableName is required")
	}
	switch pkt.Header.Type {
	case TypeReference, TypeResponse:
	default:
		return fmt.Errorf("unsupported message type: %s", pkt.Header.Type)
	}
	if pkt.Header.PartNumber > pkt.Header.TotalParts {
		return errors.New("PartNumber cannot exceed TotalParts")
	}
	if len(pkt.Schema.Fields) == 0 {
		return errors.New("schema is required")
	}
	if pkt.Data.Compression != "" && pkt.Data.Compression != "zstd" {
		return fmt.Errorf("unsupported compression: %s", pkt.Data.Compression)
	}
	return nil
}

// Rows возвращает строки пакета, распаковывая и проверяя данные при необходимости
func (p *Parser) Rows(pkt *DataPacket) ([][]string, error) {
	var lines []string

	if pkt.Data.Compression != "" {
		if len(pkt.Data.Rows) != 1 {
			return nil, fmt.Errorf("compressed data must be a single block, got %d", len(pkt.Data.Rows))
		}
		blob := pkt.Data.Rows[0].Value
		if err := processors.ValidateChecksum([]byte(blob), pkt.Data.Checksum); err != nil {
			return nil, err
		}
		decompressed, err := processors.DecompressRows(blob)
		if err != nil {
			return nil, err
		}
		lines = decompressed
	} else {
		lines = make([]string, len(pkt.Data.Rows))
		for i, r := range pkt.Data.Rows {
			lines[i] = r.Value
		}
		if pkt.Data.Checksum != "" {
			if err := processors.ValidateChecksum([]byte(strings.Join(lines, "\n")), pkt.Data.Checksum); err != nil {
				return nil, err
			}
		}
	}

	rows := make([][]string, len(lines))
	for i, line := range lines {
		rows[i] = SplitRow(line)
	}
	return rows, nil
}

// ToTable восстанавливает таблицу из пакета.
// Пустое значение нетекстовой колонки читается как NULL.
// Значение, не соответствующее типу колонки, сохраняется строкой.
func (p *Parser) ToTable(pkt *DataPacket) (*table.Table, error) {
	fields := make([]schema.FieldDef, len(pkt.Schema.Fields))
	columns := make([]table.Column, len(pkt.Schema.Fields))
	for i, f := range pkt.Schema.Fields {
		fields[i] = schema.FieldDef{
			Name:      f.Name,
			Type:      schema.ParseDataType(f.Type),
			Length:    f.Length,
			Precision: f.Precision,
			Scale:     f.Scale,
			Nullable:  true,
		}
		columns[i] = table.Column{Name: f.Name, Type: fields[i].Type}
	}
	if err := schema.ValidateFields(fields); err != nil {
		return nil, err
	}

	rows, err := p.Rows(pkt)
	if err != nil {
		return nil, err
	}

	t := table.New(pkt.Header.TableName, columns...)
	t.Rows = make([]table.Row, 0, len(rows))
	for i, raw := range rows {
		if len(raw) != len(fields) {
			return nil, fmt.Errorf("row %d has %d values, schema has %d fields", i+1, len(raw), len(fields))
		}
		row := make(table.Row, len(fields))
		for j, field := range fields {
			tv, err := p.converter.ParseValue(raw[j], field)
			if err != nil {
				row[j] = table.String(raw[j])
				continue
			}
			row[j] = table.FromTyped(tv)
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}
