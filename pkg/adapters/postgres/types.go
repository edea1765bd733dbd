package postgres

import (
	"encoding/base64"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ruslano69/datatransformer/pkg/core/schema"
	"github.com/ruslano69/datatransformer/pkg/core/table"
)

// MapOID тип колонки по OID PostgreSQL. Неизвестные типы выводятся по значениям.
func MapOID(oid uint32) schema.DataType {
	switch oid {
	case pgtype.Int2OID, pgtype.Int4OID, pgtype.Int8OID:
		return schema.TypeInteger
	case pgtype.Float4OID, pgtype.Float8OID:
		return schema.TypeReal
	case pgtype.NumericOID:
		return schema.TypeDecimal
	case pgtype.BoolOID:
		return schema.TypeBoolean
	case pgtype.DateOID:
		return schema.TypeDate
	case pgtype.TimestampOID, pgtype.TimestamptzOID:
		return schema.TypeTimestamp
	case pgtype.ByteaOID:
		return schema.TypeBlob
	case pgtype.TextOID, pgtype.VarcharOID, pgtype.BPCharOID, pgtype.NameOID,
		pgtype.UUIDOID, pgtype.JSONOID, pgtype.JSONBOID:
		return schema.TypeText
	}
	return ""
}

// ConvertValue переводит значение из rows.Values() в Value
func ConvertValue(v any, colType schema.DataType) table.Value {
	switch x := v.(type) {
	case nil:
		return table.Null()
	case pgtype.Numeric:
		if !x.Valid {
			return table.Null()
		}
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return table.Null()
		}
		return table.Float(f.Float64)
	case [16]byte:
		return table.String(uuid.UUID(x).String())
	case []byte:
		return table.String(base64.StdEncoding.EncodeToString(x))
	case time.Time:
		if colType == schema.TypeDate {
			return table.String(x.Format("2006-01-02"))
		}
		return table.String(x.UTC().Format(time.RFC3339))
	case string:
		return table.String(x)
	}
	return table.FromAny(v)
}
