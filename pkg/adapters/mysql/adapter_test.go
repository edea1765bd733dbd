package mysql

import (
	"strings"
	"testing"
)

func TestNormalizeDSN(t *testing.T) {
	dsn, err := normalizeDSN("user:pass@tcp(localhost:3306)/shop")
	if err != nil {
		t.Fatalf("normalizeDSN failed: %v", err)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("expected parseTime=true in %q", dsn)
	}
	if !strings.Contains(dsn, "tcp(localhost:3306)/shop") {
		t.Errorf("address lost in %q", dsn)
	}

	if _, err := normalizeDSN("no-slash-here"); err == nil {
		t.Error("expected error for invalid DSN")
	}
}

func TestQuoteIdentifier(t *testing.T) {
	a := &Adapter{}
	if got := a.QuoteIdentifier("order`s"); got != "`order``s`" {
		t.Errorf("QuoteIdentifier = %s", got)
	}
}
