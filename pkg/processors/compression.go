// Package processors сжимает и проверяет блоки данных пакетов TDTP.
package processors

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

// DefaultLevel уровень zstd по умолчанию
const DefaultLevel = 3

// CompressionStats статистика сжатия блока
type CompressionStats struct {
	OriginalSize   int           `json:"original_size"`
	CompressedSize int           `json:"compressed_size"`
	Ratio          float64       `json:"ratio"`
	Time           time.Duration `json:"time"`
}

// Compress сжимает данные zstd и кодирует результат в base64
func Compress(input []byte, level int) ([]byte, error) {
	if len(input) == 0 {
		return nil, nil
	}
	if level <= 0 {
		level = DefaultLevel
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	defer encoder.Close()

	compressed := encoder.EncodeAll(input, nil)
	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(compressed)))
	base64.StdEncoding.Encode(encoded, compressed)
	return encoded, nil
}

// Decompress декодирует base64 и распаковывает zstd
func Decompress(input []byte) ([]byte, error) {
	if len(input) == 0 {
		return nil, nil
	}

	decoded := make([]byte, base64.StdEncoding.DecodedLen(len(input)))
	n, err := base64.StdEncoding.Decode(decoded, input)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer decoder.Close()

	out, err := decoder.DecodeAll(decoded[:n], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress zstd: %w", err)
	}
	return out, nil
}

// CompressRows склеивает строки данных через перевод строки и сжимает их в одну строку
func CompressRows(rows []string, level int) (string, CompressionStats, error) {
	if len(rows) == 0 {
		return "", CompressionStats{}, nil
	}

	original := []byte(strings.Join(rows, "\n"))
	start := time.Now()
	compressed, err := Compress(original, level)
	if err != nil {
		return "", CompressionStats{}, err
	}

	stats := CompressionStats{
		OriginalSize:   len(original),
		CompressedSize: len(compressed),
		Time:           time.Since(start),
	}
	if len(compressed) > 0 {
		stats.Ratio = float64(len(original)) / float64(len(compressed))
	}
	return string(compressed), stats, nil
}

// DecompressRows обратная операция к CompressRows
func DecompressRows(compressed string) ([]string, error) {
	if compressed == "" {
		return nil, nil
	}

	data, err := Decompress([]byte(compressed))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return strings.Split(string(data), "\n"), nil
}
