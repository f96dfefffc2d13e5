package tools

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/macroman/macroman/internal/tool"
)

func toolErrSubkind(t *testing.T, err error) tool.Subkind {
	t.Helper()
	var toolErr *tool.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected *tool.ToolError, got %v", err)
	}
	return toolErr.Subkind
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "note.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	content, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if content != "hello" {
		t.Fatalf("expected %q, got %q", "hello", content)
	}
}

func TestReadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.txt"))
	if got := toolErrSubkind(t, err); got != tool.SubkindNotFound {
		t.Fatalf("expected not_found, got %q", got)
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "out.txt")
	result, err := WriteFile(path, "content", false)
	if err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	if result["success"] != true || result["overwritten"] != false {
		t.Fatalf("unexpected result: %v", result)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if string(data) != "content" {
		t.Fatalf("expected %q on disk, got %q", "content", data)
	}
}

func TestWriteFile_RefusesOverwriteByDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "existing.txt")
	if _, err := WriteFile(path, "first", false); err != nil {
		t.Fatalf("setup write: %v", err)
	}

	_, err := WriteFile(path, "second", false)
	if got := toolErrSubkind(t, err); got != tool.SubkindInvalidInput {
		t.Fatalf("expected invalid_input, got %q", got)
	}

	result, err := WriteFile(path, "second", true)
	if err != nil {
		t.Fatalf("overwrite write: %v", err)
	}
	if result["overwritten"] != true {
		t.Fatalf("expected overwritten flag, got %v", result)
	}
}

func TestListDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt", ".hidden"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	items, err := ListDirectory(dir, false)
	if err != nil {
		t.Fatalf("ListDirectory returned error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 visible entries, got %d", len(items))
	}
	// Sorted by name: a.txt, b.txt, sub.
	if items[0]["name"] != "a.txt" || items[2]["name"] != "sub" {
		t.Fatalf("expected sorted listing, got %v", items)
	}
	if items[2]["is_directory"] != true {
		t.Fatalf("expected sub marked as directory: %v", items[2])
	}

	withHidden, err := ListDirectory(dir, true)
	if err != nil {
		t.Fatalf("ListDirectory returned error: %v", err)
	}
	if len(withHidden) != 4 {
		t.Fatalf("expected hidden entry included, got %d", len(withHidden))
	}
}

func TestListDirectory_Missing(t *testing.T) {
	t.Parallel()

	_, err := ListDirectory(filepath.Join(t.TempDir(), "nope"), false)
	if got := toolErrSubkind(t, err); got != tool.SubkindNotFound {
		t.Fatalf("expected not_found, got %q", got)
	}
}

func TestReadJSONFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(`{"count": 3, "name": "x"}`), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	data, err := ReadJSONFile(path)
	if err != nil {
		t.Fatalf("ReadJSONFile returned error: %v", err)
	}
	if data["count"] != 3.0 || data["name"] != "x" {
		t.Fatalf("unexpected document: %v", data)
	}
}

func TestReadJSONFile_Invalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(`{"count":`), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	_, err := ReadJSONFile(path)
	if got := toolErrSubkind(t, err); got != tool.SubkindInvalidInput {
		t.Fatalf("expected invalid_input, got %q", got)
	}
}

func TestWriteJSONFile_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.json")
	result, err := WriteJSONFile(path, map[string]any{"enabled": true}, 2, false)
	if err != nil {
		t.Fatalf("WriteJSONFile returned error: %v", err)
	}
	if result["success"] != true {
		t.Fatalf("unexpected result: %v", result)
	}

	data, err := ReadJSONFile(path)
	if err != nil {
		t.Fatalf("ReadJSONFile returned error: %v", err)
	}
	if data["enabled"] != true {
		t.Fatalf("unexpected document: %v", data)
	}
}

func TestWriteJSONFile_NegativeIndent(t *testing.T) {
	t.Parallel()

	_, err := WriteJSONFile(filepath.Join(t.TempDir(), "x.json"), map[string]any{}, -1, false)
	if got := toolErrSubkind(t, err); got != tool.SubkindInvalidInput {
		t.Fatalf("expected invalid_input, got %q", got)
	}
}
