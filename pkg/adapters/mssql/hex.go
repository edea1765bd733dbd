package mssql

import (
	"encoding/binary"
)

// rowversionHex 8-байтовый rowversion в hex без ведущих нулей:
// 00 00 00 00 18 7F 86 3C -> "187F863C", нулевое значение -> "00"
func rowversionHex(data []byte) string {
	if len(data) != 8 {
		return ""
	}

	value := binary.BigEndian.Uint64(data)
	if value == 0 {
		return "00"
	}

	const hexChars = "0123456789ABCDEF"
	var buf [16]byte
	pos := len(buf)
	for value > 0 {
		pos--
		buf[pos] = hexChars[value&0x0F]
		value >>= 4
	}
	return string(buf[pos:])
}
