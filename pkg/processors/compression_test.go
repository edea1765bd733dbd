package processors

import (
	"strings"
	"testing"
)

func TestCompressDecompress(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"simple_data", []byte("value1|value2|value3")},
		{"multiline_data", []byte("row1_val1|row1_val2\nrow2_val1|row2_val2")},
		{"large_data", []byte(strings.Repeat("test data with some content|", 1000))},
		{"unicode", []byte("Север|Юг|東京")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			compressed, err := Compress(tc.input, DefaultLevel)
			if err != nil {
				t.Fatalf("Compress failed: %v", err)
			}
			if len(compressed) == 0 {
				t.Fatal("expected non-empty compressed data")
			}

			restored, err := Decompress(compressed)
			if err != nil {
				t.Fatalf("Decompress failed: %v", err)
			}
			if string(restored) != string(tc.input) {
				t.Errorf("round trip mismatch: got %q", restored)
			}
		})
	}
}

func TestCompressEmpty(t *testing.T) {
	out, err := Compress(nil, 0)
	if err != nil || out != nil {
		t.Errorf("Compress(nil) = %v, %v; want nil, nil", out, err)
	}
	out, err = Decompress(nil)
	if err != nil || out != nil {
		t.Errorf("Decompress(nil) = %v, %v; want nil, nil", out, err)
	}
}

func TestDecompressInvalid(t *testing.T) {
	if _, err := Decompress([]byte("not base64!!")); err == nil {
		t.Error("expected base64 error")
	}
	if _, err := Decompress([]byte("aGVsbG8gd29ybGQ=")); err == nil {
		t.Error("expected zstd error for plain text")
	}
}

func TestCompressRows(t *testing.T) {
	rows := []string{"1|North|10", "2|South|20", "3|North|5"}

	compressed, stats, err := CompressRows(rows, 5)
	if err != nil {
		t.Fatalf("CompressRows failed: %v", err)
	}
	if stats.OriginalSize != len(strings.Join(rows, "\n")) {
		t.Errorf("unexpected original size %d", stats.OriginalSize)
	}
	if stats.CompressedSize != len(compressed) || stats.Ratio <= 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	restored, err := DecompressRows(compressed)
	if err != nil {
		t.Fatalf("DecompressRows failed: %v", err)
	}
	if strings.Join(restored, ";") != strings.Join(rows, ";") {
		t.Errorf("rows mismatch: %v", restored)
	}

	if s, _, err := CompressRows(nil, 3); s != "" || err != nil {
		t.Errorf("CompressRows(nil) = %q, %v", s, err)
	}
}
