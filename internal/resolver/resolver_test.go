package resolver

import (
	"path/filepath"
	"testing"
)

func abs(parts ...string) string {
	return filepath.Join(append([]string{string(filepath.Separator)}, parts...)...)
}

func TestNewSeedsBasePath(t *testing.T) {
	s := New(abs("tmp", "proj") + string(filepath.Separator))
	if s.RootDepth() != 2 {
		t.Fatalf("expected root depth 2, got %d", s.RootDepth())
	}
	if got := s.Path(); got != abs("tmp", "proj") {
		t.Fatalf("unexpected path %q", got)
	}
	if s.Depth(3) != 5 {
		t.Fatalf("expected depth 5, got %d", s.Depth(3))
	}
}

func TestResolveTruncatesAndNeverGrows(t *testing.T) {
	s := New(abs("tmp"))
	s.Push("app")
	s.Push("src")
	s.Push("pkg")

	if got := s.Resolve(s.Depth(2)); got != abs("tmp", "app", "src") {
		t.Fatalf("unexpected path %q", got)
	}
	if s.Len() != 3 {
		t.Fatalf("expected stack length 3, got %d", s.Len())
	}

	// Глубже, чем открыто: стек не меняется.
	if got := s.Resolve(10); got != abs("tmp", "app", "src") {
		t.Fatalf("unexpected path %q", got)
	}

	// Возврат на верхний уровень после глубокой ветки.
	if got := s.Resolve(s.Depth(0)); got != abs("tmp") {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestResolveToFilesystemRoot(t *testing.T) {
	s := New(abs())
	if s.RootDepth() != 0 {
		t.Fatalf("expected root depth 0, got %d", s.RootDepth())
	}
	if got := s.Resolve(0); got != abs() {
		t.Fatalf("expected filesystem root, got %q", got)
	}
	s.Push("x")
	if got := s.Resolve(5); got != abs("x") {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestRelativeBase(t *testing.T) {
	s := New(filepath.Join("out", "dst"))
	if s.RootDepth() != 2 {
		t.Fatalf("expected root depth 2, got %d", s.RootDepth())
	}
	s.Push("app")
	if got := s.Resolve(3); got != filepath.Join("out", "dst", "app") {
		t.Fatalf("unexpected path %q", got)
	}
	if got := s.Resolve(0); got != "." {
		t.Fatalf("expected '.', got %q", got)
	}
}

func TestReset(t *testing.T) {
	s := New(abs("a", "b"))
	s.Push("c")
	s.Reset(abs("z"))
	if s.RootDepth() != 1 || s.Len() != 1 {
		t.Fatalf("expected fresh stack, got root=%d len=%d", s.RootDepth(), s.Len())
	}
	if got := s.Path(); got != abs("z") {
		t.Fatalf("unexpected path %q", got)
	}
}
