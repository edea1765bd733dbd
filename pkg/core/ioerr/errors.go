// Package ioerr содержит ошибки загрузчиков и приемников таблиц.
// Ошибки показываются пользователю без изменений, исходная причина доступна через errors.Unwrap.
package ioerr

import "fmt"

// FileFormatError файл прочитан, но его содержимое не является таблицей
type FileFormatError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FileFormatError) Error() string {
	msg := fmt.Sprintf("invalid file format '%s': %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FileFormatError) Unwrap() error { return e.Err }

// IOError ошибка чтения или записи файла, объекта или сообщения
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s '%s': %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ConnectionError не удалось подключиться к источнику данных
type ConnectionError struct {
	Source string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", e.Source, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError источник отклонил запрос или вернул некорректный результат
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v (query: %s)", e.Err, e.Query)
}

func (e *QueryError) Unwrap() error { return e.Err }
