// Package resolver maps raw asset references found in documents to
// filesystem locations under pluggable site-layout conventions, and
// produces fuzzy-match suggestions for references that do not resolve.
package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rchen/sitecheck/internal/similarity"
)

// Resolver resolves a reference string from a source document to a
// filesystem path and answers existence and suggestion queries.
//
// Different site layouts (Hexo, Hugo, Jekyll) implement their own
// resolver to handle layout-specific path rules.
type Resolver interface {
	// Name identifies the resolver in configuration and listings.
	Name() string

	// Description is a one-line human summary.
	Description() string

	// Resolve maps a reference to an absolute filesystem path. The
	// second return is false for external references and references
	// that cannot be resolved locally.
	Resolve(path, sourceFile string) (string, bool)

	// Exists reports whether the reference points at an existing
	// resource. External references always exist.
	Exists(path, sourceFile string) bool

	// IsExternal reports whether the reference leaves the site tree.
	IsExternal(path string) bool

	// FindSimilar returns replacement suggestions for an unresolved
	// reference, ranked by descending similarity.
	FindSimilar(path, sourceFile string, threshold float64) []string
}

// IsExternal reports whether a reference is an external URL. External
// references are assumed valid and never resolved locally.
func IsExternal(path string) bool {
	return strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "//")
}

// DefaultResolver resolves references with no layout convention:
// leading-slash references live under the project root, everything else
// is relative to the source document's directory.
type DefaultResolver struct {
	Root string
}

// NewDefaultResolver creates a resolver rooted at the given project root.
func NewDefaultResolver(root string) *DefaultResolver {
	return &DefaultResolver{Root: root}
}

func (r *DefaultResolver) Name() string        { return "default" }
func (r *DefaultResolver) Description() string { return "Default path resolver" }

func (r *DefaultResolver) IsExternal(path string) bool {
	return IsExternal(path)
}

// Resolve maps a reference to an absolute path under the project tree.
func (r *DefaultResolver) Resolve(path, sourceFile string) (string, bool) {
	if r.IsExternal(path) {
		return "", false
	}

	path = strings.TrimSpace(path)

	if strings.HasPrefix(path, "/") {
		return filepath.Join(r.Root, strings.TrimPrefix(path, "/")), true
	}
	return filepath.Join(filepath.Dir(sourceFile), filepath.FromSlash(path)), true
}

// Exists reports whether the reference resolves to an existing file.
func (r *DefaultResolver) Exists(path, sourceFile string) bool {
	if r.IsExternal(path) {
		return true
	}
	resolved, ok := r.Resolve(path, sourceFile)
	if !ok {
		return false
	}
	_, err := os.Stat(resolved)
	return err == nil
}

// FindSimilar suggests replacements from the directory the reference
// would resolve into. When that directory itself is missing, a
// similarly named sibling directory is tried first.
func (r *DefaultResolver) FindSimilar(path, sourceFile string, threshold float64) []string {
	resolved, ok := r.Resolve(path, sourceFile)
	if !ok {
		return nil
	}

	targetDir := filepath.Dir(resolved)
	targetName := filepath.Base(resolved)

	targetDir = substituteSimilarDir(targetDir, threshold)
	if !dirExists(targetDir) {
		return nil
	}

	similar := similarity.ClosestMatches(targetName, listFiles(targetDir), 3, threshold)

	sourceDir := filepath.Dir(sourceFile)
	results := make([]string, 0, len(similar))
	for _, name := range similar {
		match := filepath.Join(targetDir, name)
		if rel, ok := relativeTo(match, sourceDir); ok {
			results = append(results, rel)
		} else {
			results = append(results, filepath.ToSlash(match))
		}
	}
	return results
}

// substituteSimilarDir returns dir when it exists, otherwise the best
// similarly named sibling directory, otherwise dir unchanged.
func substituteSimilarDir(dir string, threshold float64) string {
	if dirExists(dir) {
		return dir
	}
	parent := filepath.Dir(dir)
	if !dirExists(parent) {
		return dir
	}
	matches := similarity.ClosestMatches(filepath.Base(dir), listDirs(parent), 1, threshold)
	if len(matches) == 0 {
		return dir
	}
	return filepath.Join(parent, matches[0])
}

// relativeTo returns path relative to base in slash form. The second
// return is false when path is not under base.
func relativeTo(path, base string) (string, bool) {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func listFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

func listDirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}
