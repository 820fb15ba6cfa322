package tempfs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestScopeRemovesFiles(t *testing.T) {
	dir := t.TempDir()
	scope := NewScope()

	f, err := scope.Create(dir, ".fit")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.WriteString("data"); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = f.Close()
	if !strings.HasSuffix(f.Name(), ".fit") {
		t.Fatalf("expected suffix, got %s", f.Name())
	}

	adopted := filepath.Join(dir, "out.gpx")
	if err := os.WriteFile(adopted, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	scope.Adopt(adopted)
	scope.Adopt(filepath.Join(dir, "never-created"))

	if len(scope.Paths()) != 3 {
		t.Fatalf("expected 3 tracked paths")
	}

	scope.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, found %d entries", len(entries))
	}
	if len(scope.Paths()) != 0 {
		t.Fatalf("expected scope to forget removed paths")
	}

	// closing twice is harmless
	scope.Close()
}

func TestScopeCreateMissingDir(t *testing.T) {
	scope := NewScope()
	defer scope.Close()
	if _, err := scope.Create(filepath.Join(t.TempDir(), "missing"), ".gpx"); err == nil {
		t.Fatalf("expected error for missing directory")
	}
	if len(scope.Paths()) != 0 {
		t.Fatalf("failed create must not be tracked")
	}
}

func TestEnsureDirs(t *testing.T) {
	base := t.TempDir()
	a := filepath.Join(base, "uploads")
	b := filepath.Join(base, "processed", "nested")
	if err := EnsureDirs(a, "", b); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}
	for _, d := range []string{a, b} {
		if info, err := os.Stat(d); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s", d)
		}
	}
}
