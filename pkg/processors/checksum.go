package processors

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/xxh3"
)

// ComputeChecksum возвращает XXH3-64 данных в hex (16 символов)
func ComputeChecksum(data []byte) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], xxh3.Hash(data))
	return hex.EncodeToString(buf[:])
}

// ValidateChecksum сверяет данные с ожидаемой суммой.
// Пустая ожидаемая сумма означает, что проверка не нужна.
func ValidateChecksum(data []byte, expected string) error {
	if expected == "" {
		return nil
	}
	if actual := ComputeChecksum(data); actual != expected {
		return fmt.Errorf("checksum mismatch: expected %s, got %s (data corruption detected)", expected, actual)
	}
	return nil
}
