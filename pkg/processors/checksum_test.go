package processors

import "testing"

func TestComputeChecksum(t *testing.T) {
	data := []byte("1|North|10\n2|South|20")

	sum := ComputeChecksum(data)
	if len(sum) != 16 {
		t.Fatalf("expected 16 hex chars, got %q", sum)
	}
	if ComputeChecksum(data) != sum {
		t.Error("checksum must be deterministic")
	}
	if ComputeChecksum([]byte("1|North|11\n2|South|20")) == sum {
		t.Error("different data must give different checksum")
	}
}

func TestValidateChecksum(t *testing.T) {
	data := []byte("payload")
	sum := ComputeChecksum(data)

	tests := []struct {
		name     string
		data     []byte
		expected string
		wantErr  bool
	}{
		{"valid", data, sum, false},
		{"corrupted", []byte("payloaD"), sum, true},
		{"no expectation", []byte("anything"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChecksum(tt.data, tt.expected)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChecksum() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
