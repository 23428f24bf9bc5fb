package credentials

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "token")

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	token, err := s.Get(ctx)
	if err != nil || token != "" {
		t.Fatalf("missing file: token=%q err=%v", token, err)
	}

	if err := s.Set(ctx, "tok-1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	token, err = s.Get(ctx)
	if err != nil || token != "tok-1" {
		t.Fatalf("get: token=%q err=%v", token, err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Fatalf("token file mode = %o, want 600", perm)
		}
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("token file still exists: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear missing file: %v", err)
	}
}

func TestFileStoreTrimsWhitespace(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("tok-1\n"), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	token, err := s.Get(ctx)
	if err != nil || token != "tok-1" {
		t.Fatalf("get: token=%q err=%v", token, err)
	}
}

func TestFileStoreRequiresPath(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
