package schema

import (
	"strconv"
	"strings"
)

// InferValueType определяет тип одиночного значения.
// Для пустой строки возвращает isBlank = true.
func InferValueType(raw string) (deduced DataType, isBlank bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", true
	}

	if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return TypeInteger, false
	}

	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		return TypeReal, false
	}

	if _, ok := parseTime(raw); ok {
		return TypeTimestamp, false
	}

	return TypeText, false
}

// InferType выводит тип колонки по ее значениям.
// INTEGER вместе с REAL дают REAL, любая другая смесь дает TEXT.
// Колонка только из пустых значений считается TEXT.
func InferType(values []string) DataType {
	var result DataType

	for _, v := range values {
		deduced, isBlank := InferValueType(v)
		if isBlank {
			continue
		}

		switch {
		case result == "":
			result = deduced
		case result == deduced:
		case IsNumericType(result) && IsNumericType(deduced):
			result = TypeReal
		default:
			return TypeText
		}
	}

	if result == "" {
		return TypeText
	}
	return result
}
