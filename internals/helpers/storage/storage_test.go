package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

var minimalPDF = []byte("%PDF-1.4\n1 0 obj << /Type /Catalog >> endobj\ntrailer << /Root 1 0 R >>\n%%EOF\n")

func TestReadPDF(t *testing.T) {
	cases := []struct {
		name string
		body []byte
		max  int64
		want error
	}{
		{"pdf", minimalPDF, 1 << 20, nil},
		{"empty", nil, 1 << 20, ErrEmpty},
		{"png renamed", []byte("\x89PNG\r\n\x1a\n0000"), 1 << 20, ErrNotPDF},
		{"plain text", []byte("hello"), 1 << 20, ErrNotPDF},
		{"too large", minimalPDF, 8, ErrTooLarge},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ReadPDF(bytes.NewReader(c.body), c.max)
			if !errors.Is(err, c.want) {
				t.Fatalf("err = %v, want %v", err, c.want)
			}
		})
	}
}

func TestCleanKey(t *testing.T) {
	good := []string{"theses/a/b.pdf", "/theses/a.pdf"}
	for _, k := range good {
		if _, err := cleanKey(k); err != nil {
			t.Fatalf("cleanKey(%q): %v", k, err)
		}
	}
	bad := []string{"", "  ", "../etc/passwd", "theses/../../x", "a//b"}
	for _, k := range bad {
		if _, err := cleanKey(k); !errors.Is(err, ErrBadKey) {
			t.Fatalf("cleanKey(%q) = %v, want ErrBadKey", k, err)
		}
	}
}

func TestDocumentKey(t *testing.T) {
	id := uuid.New()
	key := DocumentKey(id, time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC))
	if !strings.HasPrefix(key, "theses/"+id.String()+"/20250301_093000_") || !strings.HasSuffix(key, ".pdf") {
		t.Fatalf("key = %s", key)
	}
}

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	ref, err := Upload(ctx, s, uuid.New(), bytes.NewReader(minimalPDF), 1<<20)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(ref)))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(got, minimalPDF) {
		t.Fatal("stored bytes differ")
	}

	if err := s.Delete(ctx, ref); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, ref); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
	if _, err := s.Put(ctx, "../escape.pdf", PDFContentType, bytes.NewReader(minimalPDF)); !errors.Is(err, ErrBadKey) {
		t.Fatalf("escape: err = %v", err)
	}
}
