package fs

import (
	"fmt"
	"path/filepath"
	"strings"
)

// IsUnsafePath checks if the given path is unsafe to trash
func IsUnsafePath(path string) bool {
	// Check the original path before any normalization so inputs like "."
	// or ".." are caught as given.
	originalBase := filepath.Base(path)
	if originalBase == "." || originalBase == ".." {
		return true
	}

	if filepath.Clean(path) == "/" {
		return true
	}

	if strings.HasPrefix(path, "//") {
		return true
	}

	return false
}

// RelativeTo returns child expressed relative to parent. Both paths must be
// absolute and child must live under parent.
func RelativeTo(child, parent string) (string, error) {
	if !filepath.IsAbs(child) || !filepath.IsAbs(parent) {
		return "", fmt.Errorf("relative path requires absolute paths: %s, %s", child, parent)
	}
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s is not under %s", child, parent)
	}
	return rel, nil
}
