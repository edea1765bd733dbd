package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ruslano69/datatransformer/pkg/adapters"
	"github.com/ruslano69/datatransformer/pkg/adapters/base"
	"github.com/ruslano69/datatransformer/pkg/core/schema"
	"github.com/ruslano69/datatransformer/pkg/core/table"
)

func createTestDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "shop.db")
	db, err := sql.Open(driverSqlite, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE orders (id INTEGER, region TEXT, amount REAL, note TEXT)`,
		`INSERT INTO orders VALUES (1, 'North', 10.5, NULL)`,
		`INSERT INTO orders VALUES (2, 'South', 20, 'rush')`,
		`INSERT INTO orders VALUES (3, 'North', 5.25, NULL)`,
		`CREATE TABLE customers (id INTEGER, name TEXT)`,
		`CREATE VIEW north AS SELECT * FROM orders WHERE region = 'North'`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	return path
}

func connect(t *testing.T, path string) adapters.Adapter {
	t.Helper()

	a, err := adapters.New(context.Background(), adapters.Config{Type: AdapterType, DSN: path})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { a.Close(context.Background()) })
	return a
}

func TestSQLite_Metadata(t *testing.T) {
	a := connect(t, createTestDB(t))
	ctx := context.Background()

	if a.GetDatabaseType() != "sqlite" {
		t.Errorf("type = %s", a.GetDatabaseType())
	}

	version, err := a.GetDatabaseVersion(ctx)
	if err != nil {
		t.Fatalf("GetDatabaseVersion: %v", err)
	}
	if !strings.HasPrefix(version, "SQLite 3.") {
		t.Errorf("version = %q", version)
	}

	names, err := a.GetTableNames(ctx)
	if err != nil {
		t.Fatalf("GetTableNames: %v", err)
	}
	want := []string{"customers", "north", "orders"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("tables = %v, want %v", names, want)
	}

	if err := a.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestSQLite_Query(t *testing.T) {
	a := connect(t, createTestDB(t))

	tbl, err := a.Query(context.Background(), `SELECT id, region, amount, note FROM orders ORDER BY id`)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if got := strings.Join(tbl.ColumnNames(), ","); got != "id,region,amount,note" {
		t.Fatalf("columns = %s", got)
	}
	if tbl.Len() != 3 {
		t.Fatalf("rows = %d, want 3", tbl.Len())
	}

	if tbl.Columns[0].Type != schema.TypeInteger {
		t.Errorf("id type = %s", tbl.Columns[0].Type)
	}
	if tbl.Columns[2].Type != schema.TypeReal {
		t.Errorf("amount type = %s", tbl.Columns[2].Type)
	}

	if v, _ := tbl.Value(0, "id"); !v.Equal(table.Int(1)) {
		t.Errorf("id[0] = %v", v)
	}
	if v, _ := tbl.Value(1, "region"); !v.Equal(table.String("South")) {
		t.Errorf("region[1] = %v", v)
	}
	if v, _ := tbl.Value(0, "note"); !v.IsNull() {
		t.Errorf("note[0] = %v, want null", v)
	}
	if v, _ := tbl.Value(2, "amount"); !v.Equal(table.Float(5.25)) {
		t.Errorf("amount[2] = %v", v)
	}
}

func TestSQLite_QueryError(t *testing.T) {
	a := connect(t, createTestDB(t))

	if _, err := a.Query(context.Background(), "SELECT * FROM missing"); err == nil {
		t.Fatal("expected error for missing table")
	}
}

func TestSQLite_NotConnected(t *testing.T) {
	a := &Adapter{}
	if _, err := a.Query(context.Background(), "SELECT 1"); !errors.Is(err, base.ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}

func TestQuoteIdentifier(t *testing.T) {
	a := &Adapter{}
	if got := a.QuoteIdentifier(`my "table"`); got != `"my ""table"""` {
		t.Errorf("QuoteIdentifier = %s", got)
	}
}
