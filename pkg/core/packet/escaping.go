package packet

import "strings"

// escapeValue экранирует "\" и "|" внутри значения
func escapeValue(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(escaped, "|", `\|`)
}

// JoinRow собирает строку данных из значений
func JoinRow(values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = escapeValue(v)
	}
	return strings.Join(escaped, "|")
}

// SplitRow разбирает строку данных на значения с учетом экранирования
func SplitRow(row string) []string {
	var (
		values  []string
		current strings.Builder
		escaped bool
	)

	for _, char := range row {
		switch {
		case escaped:
			current.WriteRune(char)
			escaped = false
		case char == '\\':
			escaped = true
		case char == '|':
			values = append(values, current.String())
			current.Reset()
		default:
			current.WriteRune(char)
		}
	}

	// Висячий "\" в конце строки сохраняется как есть
	if escaped {
		current.WriteByte('\\')
	}
	return append(values, current.String())
}
