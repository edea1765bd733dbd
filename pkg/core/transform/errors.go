package transform

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation запрос не соответствует таблице
	ErrValidation = errors.New("validation error")
	// ErrType агрегация по значениям неподходящего типа
	ErrType = errors.New("type error")
)

// ValidationError запрос не соответствует таблице.
// Reason показывается пользователю как есть.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// TypeError агрегация требует чисел, а в колонке встретилось другое значение
type TypeError struct {
	Func   AggFunc
	Column string
	Value  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("cannot apply %s to non-numeric value '%s' in column '%s'", e.Func, e.Value, e.Column)
}

// Is: TypeError также считается ошибкой валидации запроса
func (e *TypeError) Is(target error) bool {
	return target == ErrType || target == ErrValidation
}
