package cache

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"valid key", "health:status:latest", nil},
		{"empty key", "", ErrInvalidKey},
		{"whitespace key", "   ", ErrInvalidKey},
		{"newline in key", "health\nstatus", ErrInvalidKey},
		{"carriage return in key", "health\rstatus", ErrInvalidKey},
		{"max length key", strings.Repeat("k", MaxKeyLength), nil},
		{"too long key", strings.Repeat("k", MaxKeyLength+1), ErrKeyTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateKey(%q) = %v, want %v", tt.key, err, tt.wantErr)
			}
		})
	}
}
