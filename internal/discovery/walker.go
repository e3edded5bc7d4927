// Package discovery finds the set of files under a source root that the
// converter should attempt to process: everything except the .git
// directory and binary files, filtered down to paths for which at least
// one rule applies.
package discovery

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
)

// Walk traverses root and returns every regular, non-binary file's path
// relative to root (slash-separated) for which matches returns true.
// Traversal skips the .git directory entirely. The returned slice is
// sorted lexicographically, giving the converter its deterministic file
// visit order: lexicographic by relative path.
func Walk(root string, matches func(relPath string) bool) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			slog.Debug("discovery walk error", "path", path, "error", walkErr)
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if relPath == "." {
			return nil
		}

		if d.IsDir() {
			if d.Name() == ".git" {
				return fs.SkipDir
			}
			return nil
		}

		isBin, err := IsBinary(path)
		if err != nil {
			slog.Debug("binary detection failed, including file anyway", "path", relPath, "error", err)
		} else if isBin {
			return nil
		}

		if !matches(relPath) {
			return nil
		}

		paths = append(paths, relPath)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}
