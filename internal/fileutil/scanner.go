// Package fileutil collects the files a scan run operates on.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ScanOptions configures file collection under a project root.
type ScanOptions struct {
	// Include is a list of glob patterns (doublestar syntax, e.g.
	// "**/*.md") selecting files relative to the root.
	Include []string
	// Exclude is a list of glob patterns; a file is dropped when its
	// root-relative slash path matches any of them.
	Exclude []string
}

// CollectFiles returns the absolute paths of all files under root that
// match an include pattern and no exclude pattern, sorted and
// de-duplicated.
func CollectFiles(root string, opts ScanOptions) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range opts.Include {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}

		for _, rel := range matches {
			abs := filepath.Join(root, filepath.FromSlash(rel))
			if seen[abs] {
				continue
			}

			fi, err := os.Stat(abs)
			if err != nil || fi.IsDir() {
				continue
			}
			if Excluded(rel, opts.Exclude) {
				continue
			}

			seen[abs] = true
			files = append(files, abs)
		}
	}

	sort.Strings(files)
	return files, nil
}

// Excluded reports whether a root-relative slash path matches any of
// the exclude patterns. Malformed patterns never match.
func Excluded(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
	}
	return false
}
