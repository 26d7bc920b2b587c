package fsops

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"treemaker/internal/plan"
)

func TestEnsureDirCreatesAncestorsAndIsIdempotent(t *testing.T) {
	root := t.TempDir()
	m := New(Options{Root: root})
	path := filepath.Join(root, "a", "b", "c")

	st, err := m.EnsureDir(path)
	if err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if st != plan.Created {
		t.Fatalf("expected created, got %s", st)
	}

	st, err = m.EnsureDir(path)
	if err != nil {
		t.Fatalf("EnsureDir again: %v", err)
	}
	if st != plan.Exists {
		t.Fatalf("expected exists, got %s", st)
	}
}

func TestEnsureDirConflictsWithFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "taken")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := New(Options{}).EnsureDir(path)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestEnsureFileKeepsExistingContent(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.go")
	if err := os.WriteFile(path, []byte("package main\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	st, err := New(Options{}).EnsureFile(path)
	if err != nil {
		t.Fatalf("EnsureFile: %v", err)
	}
	if st != plan.Exists {
		t.Fatalf("expected exists, got %s", st)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "package main\n" {
		t.Fatalf("file content changed: %q", data)
	}
}

func TestEnsureFileLeavesDirectoryInPlace(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "thing")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	st, err := New(Options{}).EnsureFile(path)
	if err != nil {
		t.Fatalf("EnsureFile: %v", err)
	}
	if st != plan.Exists {
		t.Fatalf("expected exists, got %s", st)
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory to survive, err=%v", err)
	}
}

func TestEnsureFileCreatesEmptyFileAndParents(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "x", "y", "empty.txt")

	st, err := New(Options{}).EnsureFile(path)
	if err != nil {
		t.Fatalf("EnsureFile: %v", err)
	}
	if st != plan.Created {
		t.Fatalf("expected created, got %s", st)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected empty file, got %d bytes", info.Size())
	}
}

func TestFileModes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	root := t.TempDir()
	m := New(Options{
		Root:       root,
		FilePerm:   0o640,
		ExecGlobs:  []string{"*.sh", "bin/*"},
		DBMode0600: true,
	})

	tests := []struct {
		rel  string
		mode os.FileMode
	}{
		{"README.md", 0o640},
		{"scripts/run.sh", 0o755},
		{"bin/tool", 0o755},
		{"data/app.sqlite3", 0o600},
		{"data/APP.DB", 0o600},
	}
	for _, tt := range tests {
		path := filepath.Join(root, filepath.FromSlash(tt.rel))
		if _, err := m.EnsureFile(path); err != nil {
			t.Fatalf("%s: %v", tt.rel, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", tt.rel, err)
		}
		if got := info.Mode().Perm(); got != tt.mode {
			t.Fatalf("%s: expected mode %o, got %o", tt.rel, tt.mode, got)
		}
	}
}

func TestDryRunTouchesNothing(t *testing.T) {
	root := t.TempDir()
	m := New(Options{DryRun: true})

	st, err := m.EnsureDir(filepath.Join(root, "new"))
	if err != nil || st != plan.Planned {
		t.Fatalf("expected planned dir, got %s err=%v", st, err)
	}
	st, err = m.EnsureFile(filepath.Join(root, "new", "f.txt"))
	if err != nil || st != plan.Planned {
		t.Fatalf("expected planned file, got %s err=%v", st, err)
	}
	st, err = m.EnsureDir(root)
	if err != nil || st != plan.Exists {
		t.Fatalf("expected existing root, got %s err=%v", st, err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("dry run created %d entries", len(entries))
	}
}
