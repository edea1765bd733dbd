// Package loader загружает исходную таблицу из файла (XLSX, TDTP XML),
// объекта S3 или результата SQL-запроса.
package loader

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"hermannm.dev/wrap"

	"github.com/ruslano69/datatransformer/pkg/core/ioerr"
	"github.com/ruslano69/datatransformer/pkg/core/packet"
	"github.com/ruslano69/datatransformer/pkg/core/table"
	"github.com/ruslano69/datatransformer/pkg/storage"
	"github.com/ruslano69/datatransformer/pkg/xlsx"
)

// FileOptions параметры чтения файла
type FileOptions struct {
	// Sheet лист книги Excel, пусто = первый лист
	Sheet string

	// Storage подключение к S3 для адресов s3://, nil = стандартная цепочка AWS
	Storage *storage.Config
}

// Форматы файлов по расширению
const (
	formatXLSX = "xlsx"
	formatTDTP = "tdtp"
)

var extFormats = map[string]string{
	".xlsx": formatXLSX,
	".xlsm": formatXLSX,
	".xml":  formatTDTP,
}

// SupportedExtensions расширения файлов, которые умеет читать LoadFile
func SupportedExtensions() []string {
	return []string{".xlsx", ".xlsm", ".xml"}
}

// LoadFile загружает таблицу из файла или объекта s3://bucket/key.
// Формат определяется по расширению.
func LoadFile(ctx context.Context, path string, opts FileOptions) (*table.Table, error) {
	if storage.IsURI(path) {
		return loadObject(ctx, path, opts)
	}

	format, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case formatXLSX:
		return xlsx.ReadTable(path, opts.Sheet)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &ioerr.IOError{Op: "read", Path: path, Err: err}
		}
		return decodePacket(path, data)
	}
}

func loadObject(ctx context.Context, path string, opts FileOptions) (*table.Table, error) {
	uri, err := storage.ParseURI(path)
	if err != nil {
		return nil, &ioerr.IOError{Op: "download", Path: path, Err: err}
	}
	format, err := formatOf(uri.Key)
	if err != nil {
		return nil, err
	}

	var cfg storage.Config
	if opts.Storage != nil {
		cfg = *opts.Storage
	}
	client, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, &ioerr.IOError{Op: "download", Path: path, Err: err}
	}

	data, err := client.Download(ctx, uri)
	if err != nil {
		return nil, &ioerr.IOError{Op: "download", Path: path, Err: err}
	}

	if format == formatXLSX {
		return xlsx.ReadTableFrom(bytes.NewReader(data), uri.Key, opts.Sheet)
	}
	return decodePacket(path, data)
}

// decodePacket читает таблицу из TDTP сообщения
func decodePacket(path string, data []byte) (*table.Table, error) {
	parser := packet.NewParser()

	pkt, err := parser.ParseBytes(data)
	if err != nil {
		return nil, &ioerr.FileFormatError{Path: path, Reason: "not a valid TDTP packet", Err: err}
	}
	if pkt.Header.TotalParts > 1 {
		return nil, &ioerr.FileFormatError{
			Path:   path,
			Reason: "multipart packets are not supported, merge the parts first",
		}
	}

	t, err := parser.ToTable(pkt)
	if err != nil {
		return nil, &ioerr.FileFormatError{Path: path, Reason: "invalid packet data", Err: err}
	}
	return t, nil
}

func formatOf(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := extFormats[ext]
	if !ok {
		return "", &ioerr.FileFormatError{
			Path:   path,
			Reason: "unsupported file extension '" + ext + "', expected one of " + strings.Join(SupportedExtensions(), ", "),
		}
	}
	return format, nil
}

// errEmptyQuery текст запроса пустой
var errEmptyQuery = errors.New("query is empty")

// wrapQueryErr сохраняет контекст операции внутри QueryError
func wrapQueryErr(query string, err error, msg string) error {
	return &ioerr.QueryError{Query: query, Err: wrap.Error(err, msg)}
}
