package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	s.now = func() time.Time { return time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC) }
	return s
}

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	ref, err := s.Save(ctx, "paper-1", ".docx", strings.NewReader("contents"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(ref, "2024/03/paper-1-") || !strings.HasSuffix(ref, ".docx") {
		t.Errorf("ref = %q", ref)
	}

	rc, err := s.Open(ctx, ref)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(got) != "contents" {
		t.Errorf("contents = %q", got)
	}

	if err := s.Delete(ctx, ref); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Open(ctx, ref); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open after delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, ref); err != nil {
		t.Errorf("second Delete = %v, want nil", err)
	}
}

func TestLocalStorage_NoTempFilesLeft(t *testing.T) {
	s := newTestStorage(t)
	if _, err := s.Save(context.Background(), "p", ".docx", strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Join(s.root, "2024", "03"))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".upload-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestLocalStorage_SaveFailureLeavesNothing(t *testing.T) {
	s := newTestStorage(t)
	if _, err := s.Save(context.Background(), "p", ".docx", brokenReader{}); err == nil {
		t.Fatal("expected error")
	}
	entries, _ := os.ReadDir(filepath.Join(s.root, "2024", "03"))
	if len(entries) != 0 {
		t.Errorf("files left after failed save: %d", len(entries))
	}
}

func TestLocalStorage_RejectsEscapingRefs(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	for _, ref := range []string{"", "/etc/passwd", "../secret", "2024/../../x", `..\x`, "."} {
		if _, err := s.Open(ctx, ref); !errors.Is(err, ErrInvalidRef) {
			t.Errorf("Open(%q) = %v, want ErrInvalidRef", ref, err)
		}
	}
}

func TestLocalStorage_CancelledContext(t *testing.T) {
	s := newTestStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Save(ctx, "p", ".docx", strings.NewReader("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("Save with cancelled ctx = %v", err)
	}
}
