package postgres

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ruslano69/datatransformer/pkg/core/schema"
	"github.com/ruslano69/datatransformer/pkg/core/table"
)

func TestMapOID(t *testing.T) {
	tests := []struct {
		oid  uint32
		want schema.DataType
	}{
		{pgtype.Int4OID, schema.TypeInteger},
		{pgtype.Int8OID, schema.TypeInteger},
		{pgtype.Float8OID, schema.TypeReal},
		{pgtype.NumericOID, schema.TypeDecimal},
		{pgtype.BoolOID, schema.TypeBoolean},
		{pgtype.DateOID, schema.TypeDate},
		{pgtype.TimestamptzOID, schema.TypeTimestamp},
		{pgtype.VarcharOID, schema.TypeText},
		{pgtype.UUIDOID, schema.TypeText},
		{pgtype.ByteaOID, schema.TypeBlob},
		{0, ""},
	}

	for _, tt := range tests {
		if got := MapOID(tt.oid); got != tt.want {
			t.Errorf("MapOID(%d) = %q, want %q", tt.oid, got, tt.want)
		}
	}
}

func TestConvertValue(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	num := pgtype.Numeric{Int: big.NewInt(12345), Exp: -2, Valid: true}
	id := [16]byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0, 0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0}

	tests := []struct {
		name    string
		in      any
		colType schema.DataType
		want    table.Value
	}{
		{"nil", nil, schema.TypeText, table.Null()},
		{"int32", int32(7), schema.TypeInteger, table.Int(7)},
		{"int64", int64(-3), schema.TypeInteger, table.Int(-3)},
		{"float", 2.5, schema.TypeReal, table.Float(2.5)},
		{"numeric", num, schema.TypeDecimal, table.Float(123.45)},
		{"invalid numeric", pgtype.Numeric{}, schema.TypeDecimal, table.Null()},
		{"bool", true, schema.TypeBoolean, table.Bool(true)},
		{"date", ts, schema.TypeDate, table.String("2024-03-01")},
		{"timestamp", ts, schema.TypeTimestamp, table.String("2024-03-01T12:30:00Z")},
		{"uuid", id, schema.TypeText, table.String("12345678-9abc-def0-1234-56789abcdef0")},
		{"bytea", []byte{1, 2, 3}, schema.TypeBlob, table.String("AQID")},
		{"text", "hello", schema.TypeText, table.String("hello")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConvertValue(tt.in, tt.colType); !got.Equal(tt.want) {
				t.Errorf("ConvertValue(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAdapter_NotConnected(t *testing.T) {
	a := &Adapter{}
	if _, err := a.GetTableNames(context.Background()); err != ErrNotConnected {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
	if got := a.QuoteIdentifier(`a"b`); got != `"a""b"` {
		t.Errorf("QuoteIdentifier = %s", got)
	}
}
