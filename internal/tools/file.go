package tools

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/macroman/macroman/internal/tool"
)

// RegisterFileTools registers the local file operation tools.
func RegisterFileTools(registry *tool.Registry) error {
	specs := []struct {
		descriptor tool.Descriptor
		executor   tool.Executor
	}{
		{
			descriptor: tool.Descriptor{
				Name:        "read_file",
				Description: "Read the contents of a text file.",
				Params: []tool.Param{
					{Name: "file_path", Type: tool.TypeString, Required: true, Description: "Path to the file to read"},
				},
				Returns: tool.TypeString,
			},
			executor: tool.ExecutorFunc(func(_ context.Context, args tool.Args) (any, error) {
				return ReadFile(args.String("file_path"))
			}),
		},
		{
			descriptor: tool.Descriptor{
				Name:        "write_file",
				Description: "Write content to a text file, creating parent directories as needed.",
				Params: []tool.Param{
					{Name: "file_path", Type: tool.TypeString, Required: true, Description: "Path where to write the file"},
					{Name: "content", Type: tool.TypeString, Required: true, Description: "Content to write"},
					{Name: "overwrite", Type: tool.TypeBoolean, Default: false, Description: "Replace an existing file"},
				},
				Returns: tool.TypeObject,
			},
			executor: tool.ExecutorFunc(func(_ context.Context, args tool.Args) (any, error) {
				return WriteFile(args.String("file_path"), args.String("content"), args.Bool("overwrite"))
			}),
		},
		{
			descriptor: tool.Descriptor{
				Name:        "list_directory",
				Description: "List files and directories under a path, sorted by name.",
				Params: []tool.Param{
					{Name: "directory_path", Type: tool.TypeString, Default: ".", Description: "Directory to list"},
					{Name: "include_hidden", Type: tool.TypeBoolean, Default: false, Description: "Include dotfiles"},
				},
				Returns: tool.TypeArray,
			},
			executor: tool.ExecutorFunc(func(_ context.Context, args tool.Args) (any, error) {
				return ListDirectory(args.String("directory_path"), args.Bool("include_hidden"))
			}),
		},
		{
			descriptor: tool.Descriptor{
				Name:        "read_json_file",
				Description: "Read and parse a JSON file.",
				Params: []tool.Param{
					{Name: "file_path", Type: tool.TypeString, Required: true, Description: "Path to the JSON file"},
				},
				Returns: tool.TypeObject,
			},
			executor: tool.ExecutorFunc(func(_ context.Context, args tool.Args) (any, error) {
				return ReadJSONFile(args.String("file_path"))
			}),
		},
		{
			descriptor: tool.Descriptor{
				Name:        "write_json_file",
				Description: "Write a JSON document to a file.",
				Params: []tool.Param{
					{Name: "file_path", Type: tool.TypeString, Required: true, Description: "Path where to write the file"},
					{Name: "data", Type: tool.TypeObject, Required: true, Description: "Document to serialize"},
					{Name: "indent", Type: tool.TypeInteger, Default: 2, Description: "Indentation width"},
					{Name: "overwrite", Type: tool.TypeBoolean, Default: false, Description: "Replace an existing file"},
				},
				Returns: tool.TypeObject,
			},
			executor: tool.ExecutorFunc(func(_ context.Context, args tool.Args) (any, error) {
				return WriteJSONFile(args.String("file_path"), args.Object("data"), args.Int("indent"), args.Bool("overwrite"))
			}),
		},
	}

	for _, spec := range specs {
		if err := registry.Register(spec.descriptor, spec.executor); err != nil {
			return err
		}
	}
	return nil
}

// ReadFile returns the contents of the file at path. A missing file is a
// not-found failure, an unreadable one permission-denied.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", classifyFSError(err, "read file %q", path)
	}
	return string(data), nil
}

// WriteFile writes content to path, creating parent directories. Refuses to
// replace an existing file unless overwrite is set.
func WriteFile(path, content string, overwrite bool) (map[string]any, error) {
	existed := false
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			return nil, tool.NewToolError(tool.SubkindInvalidInput,
				"file already exists: %s (set overwrite to replace it)", path)
		}
		existed = true
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, classifyFSError(err, "create directory %q", dir)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, classifyFSError(err, "write file %q", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return map[string]any{
		"success":     true,
		"file_path":   abs,
		"size":        len(content),
		"overwritten": existed,
	}, nil
}

// ListDirectory lists the entries of a directory sorted by name. Hidden
// entries (dotfiles) are skipped unless requested.
func ListDirectory(path string, includeHidden bool) ([]map[string]any, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, classifyFSError(err, "list directory %q", path)
	}

	items := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		if !includeHidden && strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		item := map[string]any{
			"name":         entry.Name(),
			"path":         filepath.Join(path, entry.Name()),
			"is_file":      !entry.IsDir(),
			"is_directory": entry.IsDir(),
		}
		if info, err := entry.Info(); err == nil {
			if !entry.IsDir() {
				item["size"] = info.Size()
			}
			item["modified"] = info.ModTime().UTC().Format("2006-01-02T15:04:05Z")
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i]["name"].(string) < items[j]["name"].(string)
	})
	return items, nil
}

// ReadJSONFile reads and parses a JSON document. Invalid JSON is an
// invalid-input failure, not an internal one.
func ReadJSONFile(path string) (map[string]any, error) {
	content, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return nil, tool.WrapToolError(tool.SubkindInvalidInput, err, "invalid JSON in file %q", path)
	}
	return data, nil
}

// WriteJSONFile serializes data with the given indent and writes it via
// WriteFile, inheriting its overwrite policy.
func WriteJSONFile(path string, data map[string]any, indent int, overwrite bool) (map[string]any, error) {
	if indent < 0 {
		return nil, tool.NewToolError(tool.SubkindInvalidInput, "indent must not be negative")
	}
	content, err := json.MarshalIndent(data, "", strings.Repeat(" ", indent))
	if err != nil {
		return nil, tool.WrapToolError(tool.SubkindInvalidInput, err, "data is not JSON-serializable")
	}
	return WriteFile(path, string(content), overwrite)
}

// classifyFSError maps OS-level failures to their tool subkinds so a missing
// file never surfaces as a raw internal error.
func classifyFSError(err error, format string, args ...any) error {
	subkind := tool.SubkindInternal
	switch {
	case errors.Is(err, fs.ErrNotExist):
		subkind = tool.SubkindNotFound
	case errors.Is(err, fs.ErrPermission):
		subkind = tool.SubkindPermissionDenied
	case errors.Is(err, fs.ErrExist):
		subkind = tool.SubkindInvalidInput
	}
	return tool.WrapToolError(subkind, err, format, args...)
}
