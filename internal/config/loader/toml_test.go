package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

// memFS maps paths to file contents.
type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

func TestTOMLLoader_Load(t *testing.T) {
	memfs := memFS{"/dsvedit.toml": `
strict = true

[document]
delimiter = ";"
header = false

[history]
maxEntries = 50
`}

	m, err := NewTOMLLoaderWithFS(memfs, "/dsvedit.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	doc, ok := m["document"].(map[string]any)
	if !ok {
		t.Fatal("expected document to be a map")
	}
	if doc["delimiter"] != ";" {
		t.Errorf("delimiter = %v, want ;", doc["delimiter"])
	}
	if doc["header"] != false {
		t.Errorf("header = %v, want false", doc["header"])
	}
	if m["strict"] != true {
		t.Errorf("strict = %v, want true", m["strict"])
	}
	hist := m["history"].(map[string]any)
	if hist["maxEntries"] != int64(50) {
		t.Errorf("maxEntries = %v (%T), want 50", hist["maxEntries"], hist["maxEntries"])
	}
}

func TestTOMLLoader_Missing(t *testing.T) {
	m, err := NewTOMLLoaderWithFS(memFS{}, "/missing.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m != nil {
		t.Errorf("expected nil map, got %v", m)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := memFS{"/bad.toml": "[document]\ndelimiter = \n"}

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Path != "/bad.toml" {
		t.Errorf("Path = %q", pe.Path)
	}
	if pe.Line == 0 {
		t.Error("expected a line number")
	}
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	l := NewTOMLLoader("")
	m, err := l.LoadFromReader(strings.NewReader(`[logging]
level = "debug"`))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if m["logging"].(map[string]any)["level"] != "debug" {
		t.Errorf("unexpected map %v", m)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"document": map[string]any{"delimiter": ",", "header": true},
		"strict":   false,
	}
	src := map[string]any{
		"document": map[string]any{"delimiter": ";"},
		"strict":   true,
		"logging":  map[string]any{"level": "warn"},
	}

	got := DeepMerge(dst, src)

	doc := got["document"].(map[string]any)
	if doc["delimiter"] != ";" || doc["header"] != true {
		t.Errorf("document = %v", doc)
	}
	if got["strict"] != true {
		t.Errorf("strict = %v", got["strict"])
	}
	if _, ok := got["logging"]; !ok {
		t.Error("logging section missing")
	}
	if DeepMerge(nil, nil) == nil {
		t.Error("DeepMerge(nil, nil) returned nil")
	}
}
