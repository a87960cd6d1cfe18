package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fileExists reports whether path exists on disk, regardless of type.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// securePath validates and resolves path to ensure it stays within baseDir.
// It rejects absolute paths, path traversal, and symlink escapes, resolving
// every symlink in the chain so an intermediate symlink can't be used to
// escape the confinement.
func securePath(baseDir, path string) (string, error) {
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("absolute paths are not allowed: %s", path)
	}

	realBase, err := filepath.EvalSymlinks(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}
	realBase, err = filepath.Abs(realBase)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute base path: %w", err)
	}

	fullPath := filepath.Join(baseDir, filepath.Clean(path))

	realPath, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		parentDir := filepath.Dir(fullPath)
		realParent, parentErr := filepath.EvalSymlinks(parentDir)
		if parentErr != nil {
			realParent, parentErr = resolveExistingParent(parentDir)
			if parentErr != nil {
				return "", fmt.Errorf("failed to resolve path: %w", parentErr)
			}
		}
		realParent, _ = filepath.Abs(realParent)

		if !isPathWithin(realParent, realBase) {
			return "", fmt.Errorf("path escapes working directory via symlink: %s", path)
		}
		return fullPath, nil
	}

	realPath, _ = filepath.Abs(realPath)
	if !isPathWithin(realPath, realBase) {
		return "", fmt.Errorf("path escapes working directory via symlink: %s", path)
	}
	return fullPath, nil
}

// resolveExistingParent walks up the directory tree until it finds a
// directory that actually exists.
func resolveExistingParent(path string) (string, error) {
	for {
		parent := filepath.Dir(path)
		if parent == path {
			return filepath.EvalSymlinks(parent)
		}
		resolved, err := filepath.EvalSymlinks(parent)
		if err == nil {
			return resolved, nil
		}
		path = parent
	}
}

// isPathWithin reports whether path is within or equal to base, both
// already resolved to absolute form.
func isPathWithin(path, base string) bool {
	if !strings.HasSuffix(base, string(filepath.Separator)) {
		base += string(filepath.Separator)
	}
	return path == strings.TrimSuffix(base, string(filepath.Separator)) ||
		strings.HasPrefix(path, base)
}
