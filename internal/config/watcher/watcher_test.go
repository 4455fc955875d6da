package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func newTestWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestWatcher_WatchUnwatch(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t)

	path := filepath.Join(dir, "dsvedit.toml")
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := w.Watch(path); err != nil {
		t.Fatalf("second Watch() error = %v", err)
	}
	if got := len(w.WatchedFiles()); got != 1 {
		t.Errorf("WatchedFiles() = %d files, want 1", got)
	}
	if err := w.Unwatch(path); err != nil {
		t.Fatalf("Unwatch() error = %v", err)
	}
	if got := len(w.WatchedFiles()); got != 0 {
		t.Errorf("WatchedFiles() = %d files, want 0", got)
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := newTestWatcher(t)
	if err := w.Watch(filepath.Join(t.TempDir(), "missing", "dsvedit.toml")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dsvedit.toml")
	if err := os.WriteFile(path, []byte("strict = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := newTestWatcher(t, WithDebounce(20*time.Millisecond))
	events := make(chan Event, 16)
	w.OnChange(func(ev Event) { events <- ev })
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	// An unwatched sibling must not be reported.
	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("strict = true\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case ev := <-events:
		abs, _ := filepath.Abs(path)
		if ev.Path != abs {
			t.Errorf("event path = %q, want %q", ev.Path, abs)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change event")
	}

	// The burst collapses to one event.
	select {
	case ev := <-events:
		t.Errorf("unexpected second event %v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_Closed(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := w.Watch(t.TempDir()); err != ErrClosed {
		t.Errorf("Watch after Close = %v, want ErrClosed", err)
	}
}
