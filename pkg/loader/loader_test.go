package loader

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/ruslano69/datatransformer/pkg/adapters"
	"github.com/ruslano69/datatransformer/pkg/core/ioerr"
	"github.com/ruslano69/datatransformer/pkg/core/packet"
	"github.com/ruslano69/datatransformer/pkg/core/schema"
	"github.com/ruslano69/datatransformer/pkg/core/table"
	"github.com/ruslano69/datatransformer/pkg/xlsx"
)

func sampleTable(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New("sales",
		table.Column{Name: "region", Type: schema.TypeText},
		table.Column{Name: "units", Type: schema.TypeInteger},
		table.Column{Name: "price", Type: schema.TypeReal},
	)
	rows := [][]table.Value{
		{table.String("North"), table.Int(10), table.Float(1.5)},
		{table.String("South"), table.Int(20), table.Null()},
	}
	for _, r := range rows {
		if err := tbl.AppendRow(r...); err != nil {
			t.Fatalf("AppendRow failed: %v", err)
		}
	}
	return tbl
}

func assertSameRows(t *testing.T, want, got *table.Table) {
	t.Helper()
	if strings.Join(got.ColumnNames(), ",") != strings.Join(want.ColumnNames(), ",") {
		t.Fatalf("columns = %v, want %v", got.ColumnNames(), want.ColumnNames())
	}
	if got.Len() != want.Len() {
		t.Fatalf("rows = %d, want %d", got.Len(), want.Len())
	}
	for i := range want.Rows {
		for j := range want.Rows[i] {
			if !got.Rows[i][j].Equal(want.Rows[i][j]) {
				t.Errorf("row %d col %d: got %v, want %v", i, j, got.Rows[i][j], want.Rows[i][j])
			}
		}
	}
}

func TestLoadFile_XLSX(t *testing.T) {
	tbl := sampleTable(t)
	path := filepath.Join(t.TempDir(), "sales.xlsx")
	if err := xlsx.WriteTable(tbl, path, xlsx.WriteOptions{TypedHeaders: true}); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}

	got, err := LoadFile(context.Background(), path, FileOptions{})
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	assertSameRows(t, tbl, got)
}

func TestLoadFile_TDTP(t *testing.T) {
	for _, compress := range []bool{false, true} {
		tbl := sampleTable(t)
		opts := packet.DefaultOptions()
		opts.Compression.Enabled = compress
		opts.Compression.MinSize = 0

		gen := packet.NewGenerator(opts)
		packets, err := gen.FromTable(tbl)
		if err != nil {
			t.Fatalf("FromTable failed: %v", err)
		}
		path := filepath.Join(t.TempDir(), "sales.xml")
		if err := gen.WriteToFile(packets[0], path); err != nil {
			t.Fatalf("WriteToFile failed: %v", err)
		}

		got, err := LoadFile(context.Background(), path, FileOptions{})
		if err != nil {
			t.Fatalf("LoadFile (compress=%v) failed: %v", compress, err)
		}
		if got.Name != "sales" {
			t.Errorf("table name = %s", got.Name)
		}
		assertSameRows(t, tbl, got)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "broken.xml")
	if err := os.WriteFile(corrupt, []byte("<not-tdtp/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	var formatErr *ioerr.FileFormatError
	var ioErr *ioerr.IOError

	if _, err := LoadFile(context.Background(), filepath.Join(dir, "data.csv"), FileOptions{}); !errors.As(err, &formatErr) {
		t.Errorf("unsupported extension: expected FileFormatError, got %v", err)
	}
	if _, err := LoadFile(context.Background(), corrupt, FileOptions{}); !errors.As(err, &formatErr) {
		t.Errorf("corrupt packet: expected FileFormatError, got %v", err)
	}
	if _, err := LoadFile(context.Background(), filepath.Join(dir, "missing.xlsx"), FileOptions{}); !errors.As(err, &ioErr) {
		t.Errorf("missing xlsx: expected IOError, got %v", err)
	}
	if _, err := LoadFile(context.Background(), filepath.Join(dir, "missing.xml"), FileOptions{}); !errors.As(err, &ioErr) {
		t.Errorf("missing xml: expected IOError, got %v", err)
	}
	if _, err := LoadFile(context.Background(), "s3://bucket-only", FileOptions{}); !errors.As(err, &ioErr) {
		t.Errorf("bad s3 uri: expected IOError, got %v", err)
	}
	if _, err := LoadFile(context.Background(), "s3://bucket/data.csv", FileOptions{}); !errors.As(err, &formatErr) {
		t.Errorf("bad s3 extension: expected FileFormatError, got %v", err)
	}
}

func createTestDB(t *testing.T) adapters.Config {
	t.Helper()

	path := filepath.Join(t.TempDir(), "shop.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE "order items" (product TEXT, qty INTEGER, price REAL)`,
		`INSERT INTO "order items" VALUES ('tea', 2, 3.5), ('coffee', 1, 4.0), ('tea', 5, 3.5)`,
		`CREATE TABLE customers (id INTEGER, name TEXT)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	return adapters.Config{Type: "sqlite", DSN: path}
}

func TestLoadQuery(t *testing.T) {
	cfg := createTestDB(t)

	got, err := LoadQuery(context.Background(), cfg, `SELECT product, qty FROM "order items" WHERE qty > 1 ORDER BY qty`)
	if err != nil {
		t.Fatalf("LoadQuery failed: %v", err)
	}

	want := table.New("query",
		table.Column{Name: "product"},
		table.Column{Name: "qty"},
	)
	want.AppendRow(table.String("tea"), table.Int(2))
	want.AppendRow(table.String("tea"), table.Int(5))
	assertSameRows(t, want, got)
}

func TestLoadTable(t *testing.T) {
	cfg := createTestDB(t)

	got, err := LoadTable(context.Background(), cfg, "order items")
	if err != nil {
		t.Fatalf("LoadTable failed: %v", err)
	}
	if got.Name != "order items" {
		t.Errorf("table name = %s", got.Name)
	}
	if got.Len() != 3 {
		t.Errorf("rows = %d, want 3", got.Len())
	}
}

func TestListTables(t *testing.T) {
	names, err := ListTables(context.Background(), createTestDB(t))
	if err != nil {
		t.Fatalf("ListTables failed: %v", err)
	}
	if strings.Join(names, ",") != "customers,order items" {
		t.Errorf("tables = %v", names)
	}
}

func TestLoadQuery_Errors(t *testing.T) {
	cfg := createTestDB(t)

	var queryErr *ioerr.QueryError
	if _, err := LoadQuery(context.Background(), cfg, "SELECT * FROM nowhere"); !errors.As(err, &queryErr) {
		t.Errorf("bad query: expected QueryError, got %v", err)
	}
	if _, err := LoadQuery(context.Background(), cfg, "   "); !errors.As(err, &queryErr) {
		t.Errorf("empty query: expected QueryError, got %v", err)
	}

	var connErr *ioerr.ConnectionError
	_, err := LoadQuery(context.Background(), adapters.Config{Type: "oracle", DSN: "x"}, "SELECT 1")
	if !errors.As(err, &connErr) {
		t.Errorf("unknown type: expected ConnectionError, got %v", err)
	}
}

func TestTableQuery(t *testing.T) {
	tests := []struct {
		dbType, name, want string
	}{
		{"sqlite", "orders", `SELECT * FROM "orders"`},
		{"postgres", "sales.orders", `SELECT * FROM "sales"."orders"`},
		{"mysql", "orders", "SELECT * FROM `orders`"},
		{"mssql", "dbo.Orders", "SELECT * FROM [dbo].[Orders]"},
	}

	for _, tt := range tests {
		got, err := TableQuery(tt.dbType, tt.name)
		if err != nil {
			t.Fatalf("TableQuery(%s, %s) failed: %v", tt.dbType, tt.name, err)
		}
		if got != tt.want {
			t.Errorf("TableQuery(%s, %s) = %s, want %s", tt.dbType, tt.name, got, tt.want)
		}
	}

	if _, err := TableQuery("oracle", "orders"); err == nil {
		t.Error("expected error for unknown database type")
	}
}
