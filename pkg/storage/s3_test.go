package storage

import (
	"errors"
	"testing"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		in      string
		want    URI
		wantErr bool
	}{
		{in: "s3://reports/2024/sales.xlsx", want: URI{Bucket: "reports", Key: "2024/sales.xlsx"}},
		{in: "S3://b/k.xml", want: URI{Bucket: "b", Key: "k.xml"}},
		{in: "s3://bucket-only", wantErr: true},
		{in: "s3://bucket/", wantErr: true},
		{in: "s3:///key", wantErr: true},
		{in: "s3://bucket/dir/", wantErr: true},
		{in: "/local/file.xlsx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseURI(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidURI) {
					t.Fatalf("expected ErrInvalidURI, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseURI(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestURI_Helpers(t *testing.T) {
	u := URI{Bucket: "exports", Key: "daily/Report.XLSX"}

	if u.String() != "s3://exports/daily/Report.XLSX" {
		t.Errorf("String() = %s", u.String())
	}
	if u.Ext() != ".xlsx" {
		t.Errorf("Ext() = %s", u.Ext())
	}
	if !IsURI("s3://a/b") || IsURI("kafka://a/b") {
		t.Error("IsURI mismatch")
	}
}
