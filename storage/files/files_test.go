package files

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestStorageKey(t *testing.T) {
	id := uuid.MustParse("3f2a6c1e-0000-4000-8000-000000000000")
	tests := []struct {
		category, filename, want string
	}{
		{"legal_codes", "Indian Penal Code.pdf", "legal_codes/3f/3f2a6c1e-0000-4000-8000-000000000000_Indian_Penal_Code.pdf"},
		{"", "faq.txt", "uncategorized/3f/3f2a6c1e-0000-4000-8000-000000000000_faq.txt"},
		{"../../etc", "x.txt", "etc/3f/3f2a6c1e-0000-4000-8000-000000000000_x.txt"},
		{"schemes", `C:\tmp\yojana.pdf`, "schemes/3f/3f2a6c1e-0000-4000-8000-000000000000_yojana.pdf"},
	}
	for _, tt := range tests {
		if got := storageKey(tt.category, id, tt.filename); got != tt.want {
			t.Errorf("storageKey(%q, %q) = %q, want %q", tt.category, tt.filename, got, tt.want)
		}
	}
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	key, err := s.Upload(ctx, "faqs", "rti.txt", strings.NewReader("How do I file an RTI?"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(key, "faqs/") || !strings.HasSuffix(key, "_rti.txt") {
		t.Errorf("key = %q", key)
	}

	rc, err := s.Download(ctx, key)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	body, _ := io.ReadAll(rc)
	rc.Close()
	if string(body) != "How do I file an RTI?" {
		t.Errorf("body = %q", body)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Download(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("Download after delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Errorf("second Delete should be a no-op, got %v", err)
	}
}

func TestNew_UnknownType(t *testing.T) {
	if _, err := New(context.Background(), Config{Type: "ftp"}); err == nil {
		t.Error("expected error for unknown storage type")
	}
	if _, err := New(context.Background(), Config{Type: TypeS3}); err == nil {
		t.Error("expected error for S3 without bucket")
	}
}
