package schema

import (
	"errors"
	"fmt"

	"hermannm.dev/wrap"
)

// ValidateFields проверяет набор колонок: непустые уникальные имена и известные типы.
// Возвращает все найденные проблемы одной ошибкой.
func ValidateFields(fields []FieldDef) error {
	if len(fields) == 0 {
		return errors.New("schema must have at least one field")
	}

	var errs []error
	seen := make(map[string]bool, len(fields))

	for i, field := range fields {
		if field.Name == "" {
			errs = append(errs, fmt.Errorf("field at index %d has empty name", i))
			continue
		}
		if seen[field.Name] {
			errs = append(errs, fmt.Errorf("duplicate field name '%s'", field.Name))
		}
		seen[field.Name] = true

		if !IsValidType(field.Type) {
			errs = append(errs, fmt.Errorf("invalid type '%s' for field '%s'", field.Type, field.Name))
			continue
		}

		if NormalizeType(field.Type) == TypeDecimal {
			precision := field.Precision
			if precision == 0 {
				precision = DefaultPrecision
			}
			if precision < 1 || precision > 38 {
				errs = append(errs, fmt.Errorf("field '%s' DECIMAL precision must be between 1 and 38", field.Name))
			}
			if field.Scale < 0 || field.Scale > precision {
				errs = append(errs, fmt.Errorf("field '%s' DECIMAL scale must be between 0 and precision", field.Name))
			}
		}
	}

	if len(errs) > 0 {
		return wrap.Errors("invalid schema", errs...)
	}
	return nil
}
