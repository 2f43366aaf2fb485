package postgres

import (
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"nyaya-sahayak/types"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"not found", gorm.ErrRecordNotFound, types.ErrNotFound},
		{"wrapped not found", errors.Join(errors.New("ctx"), gorm.ErrRecordNotFound), types.ErrNotFound},
		{"other", errors.New("connection reset"), types.ErrStorage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrap(tt.in)
			if tt.want == nil {
				if got != nil {
					t.Errorf("wrap(nil) = %v", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("wrap(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	dsn := DSN("db", "nyaya", "secret", "legal", "5433")
	for _, part := range []string{"host=db", "user=nyaya", "password=secret", "dbname=legal", "port=5433"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("DSN %q missing %q", dsn, part)
		}
	}
}
