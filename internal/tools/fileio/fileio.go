// Package fileio provides the file system tools:
//   - "read_file"  — read a file and return its text content.
//   - "write_file" — write text content to a file, truncating any existing
//     content (parent directories are created as needed).
//
// When a confinement root is configured, every path is resolved relative to
// it and traversal outside the root is rejected. With an empty root, paths
// are used as given, absolute or relative to the working directory.
//
// All handlers are safe for concurrent use; two concurrent writes to the
// same path race at the file-system level, as they would for any process.
package fileio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arlberg/toolgate/internal/tool"
)

// maxReadBytes is the maximum file size that read_file will return. Files
// larger than this limit are rejected with an error.
const maxReadBytes = 1 << 20 // 1 MiB

// Tools builds the file tool descriptors. root is the optional confinement
// directory; empty means unconfined.
type Tools struct {
	root string
}

// New creates the file tool set with the given confinement root.
func New(root string) *Tools {
	return &Tools{root: root}
}

// NewTools returns the descriptors for read_file and write_file.
func (t *Tools) NewTools() []tool.Descriptor {
	return []tool.Descriptor{
		{
			Name:        "read_file",
			Description: "Reads the content of a local file",
			Schema: []tool.FieldSpec{
				{Name: "path", Kind: tool.KindString, Required: true, Description: "File path to read"},
			},
			Effect:  tool.EffectFilesystemRead,
			Execute: t.readFile,
		},
		{
			Name:        "write_file",
			Description: "Writes content to a local file (overwrites existing)",
			Schema: []tool.FieldSpec{
				{Name: "path", Kind: tool.KindString, Required: true, Description: "File path to write"},
				{Name: "content", Kind: tool.KindString, Required: true, Description: "Content to write to file"},
			},
			Effect:  tool.EffectFilesystemWrite,
			Execute: t.writeFile,
		},
	}
}

// resolve maps a caller-supplied path to the path used for I/O, applying the
// confinement root when one is configured.
func (t *Tools) resolve(path string) (string, error) {
	if path == "" {
		return "", tool.Errorf(tool.KindValidation, "path must not be empty")
	}
	if t.root == "" {
		return path, nil
	}

	// filepath.Join cleans the path, resolving ".." components. The cleaned
	// result must still be inside the root.
	joined := filepath.Join(t.root, path)
	cleanRoot := filepath.Clean(t.root)
	if !strings.HasPrefix(joined, cleanRoot+string(filepath.Separator)) && joined != cleanRoot {
		return "", tool.Errorf(tool.KindIO, "path %q escapes the configured file root", path)
	}
	return joined, nil
}

func (t *Tools) readFile(ctx context.Context, args tool.Args) (*tool.Result, error) {
	path, err := t.resolve(args.String("path"))
	if err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, tool.Errorf(tool.KindIO, "read_file: %v", ctx.Err())
	default:
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, tool.Errorf(tool.KindNotFound, "File not found: %s", args.String("path"))
		}
		return nil, tool.Errorf(tool.KindIO, "read_file: %v", err)
	}
	if info.Size() > maxReadBytes {
		return nil, tool.Errorf(tool.KindIO,
			"read_file: file %q is too large (%d bytes, max %d)", args.String("path"), info.Size(), maxReadBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, tool.Errorf(tool.KindIO, "read_file: %v", err)
	}

	return &tool.Result{
		Data: map[string]any{"path": args.String("path"), "content": string(data)},
		Text: string(data),
	}, nil
}

func (t *Tools) writeFile(ctx context.Context, args tool.Args) (*tool.Result, error) {
	path, err := t.resolve(args.String("path"))
	if err != nil {
		return nil, err
	}
	content := args.String("content")

	select {
	case <-ctx.Done():
		return nil, tool.Errorf(tool.KindIO, "write_file: %v", ctx.Err())
	default:
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, tool.Errorf(tool.KindIO, "write_file: create directories: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, tool.Errorf(tool.KindIO, "write_file: %v", err)
	}

	msg := fmt.Sprintf("File written to %s", args.String("path"))
	return &tool.Result{
		Data: map[string]any{"message": msg, "bytes_written": len(content)},
		Text: msg,
	}, nil
}
