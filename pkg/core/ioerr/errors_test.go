package ioerr

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestErrorsUnwrap(t *testing.T) {
	cause := fs.ErrNotExist

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"io", &IOError{Op: "read", Path: "a.xlsx", Err: cause}, "read 'a.xlsx'"},
		{"format", &FileFormatError{Path: "a.xlsx", Reason: "no header row", Err: cause}, "no header row"},
		{"connection", &ConnectionError{Source: "mysql localhost:3306", Err: cause}, "mysql localhost:3306"},
		{"query", &QueryError{Query: "SELECT 1", Err: cause}, "SELECT 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, fs.ErrNotExist) {
				t.Errorf("%T does not unwrap to its cause", tt.err)
			}
			if !strings.Contains(tt.err.Error(), tt.want) {
				t.Errorf("message %q does not contain %q", tt.err.Error(), tt.want)
			}
		})
	}
}

func TestFileFormatErrorWithoutCause(t *testing.T) {
	err := &FileFormatError{Path: "x.xml", Reason: "empty document"}
	if err.Error() != "invalid file format 'x.xml': empty document" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
