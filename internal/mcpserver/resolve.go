// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes promptlab's prompt runs as tools over stdio transport.
package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolveFile resolves a prompt file path to an absolute, symlink-free path.
// It returns an error if the path does not exist or is a directory.
func ResolveFile(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty file path")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %q: %w", path, err)
	}

	absPath, err = filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", fmt.Errorf("path %q does not exist", path)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("path %q does not exist", path)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%q is a directory", path)
	}
	return absPath, nil
}
