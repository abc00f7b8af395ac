package pdf

import (
	"fmt"
	"path/filepath"
	"strings"
)

// IsWithinDirectory reports whether path, after resolving symlinks, lies
// inside directory.
func IsWithinDirectory(path, directory string) (bool, error) {
	realPath, err := resolve(path)
	if err != nil {
		return false, err
	}
	realDir, err := resolve(directory)
	if err != nil {
		return false, err
	}

	if realPath == realDir {
		return true, nil
	}
	if !strings.HasSuffix(realDir, string(filepath.Separator)) {
		realDir += string(filepath.Separator)
	}
	return strings.HasPrefix(realPath, realDir), nil
}

// ResolveInDirectory turns a user-supplied path into an absolute path that
// is guaranteed to lie inside directory. Relative paths are taken relative
// to directory.
func ResolveInDirectory(path, directory string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(directory, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	within, err := IsWithinDirectory(abs, directory)
	if err != nil {
		return "", fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return "", fmt.Errorf("path is outside configured directory: %s", path)
	}
	return abs, nil
}

func resolve(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return filepath.Clean(abs), nil
}
