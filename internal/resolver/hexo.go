package resolver

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rchen/sitecheck/internal/similarity"
)

// HexoResolver resolves references using Hexo blog conventions.
//
// Documents under a post directory may reference files in a sibling
// asset folder named after the document: _posts/2024-01-01-hello.md can
// use image.png to mean _posts/2024-01-01-hello/image.png.
type HexoResolver struct {
	Root string

	// PostDirs are the top-level directory names whose documents are
	// classified as posts.
	PostDirs []string

	// AssetFolderPerPost enables the sibling asset folder convention.
	AssetFolderPerPost bool

	// Pages lists plain page directories. Kept for configuration
	// parity; pages resolve with the default rules.
	Pages []string
}

// NewHexoResolver creates a Hexo resolver with the conventional
// defaults: posts under _posts, asset folders enabled.
func NewHexoResolver(root string) *HexoResolver {
	return &HexoResolver{
		Root:               root,
		PostDirs:           []string{"_posts"},
		AssetFolderPerPost: true,
	}
}

func (r *HexoResolver) Name() string        { return "hexo" }
func (r *HexoResolver) Description() string { return "Hexo blog path resolver" }

func (r *HexoResolver) IsExternal(path string) bool {
	return IsExternal(path)
}

// normalizePath decodes percent-encoding and strips a leading "./".
func (r *HexoResolver) normalizePath(p string) string {
	if decoded, err := url.PathUnescape(p); err == nil {
		p = decoded
	}
	return strings.TrimPrefix(p, "./")
}

// Resolve maps a reference to an absolute path using Hexo rules.
func (r *HexoResolver) Resolve(ref, sourceFile string) (string, bool) {
	if r.IsExternal(ref) {
		return "", false
	}

	ref = r.normalizePath(strings.TrimSpace(ref))

	// Leading slash is always root-relative, post or not.
	if strings.HasPrefix(ref, "/") {
		return filepath.Join(r.Root, strings.TrimPrefix(ref, "/")), true
	}

	if r.isPostFile(sourceFile) && r.AssetFolderPerPost {
		assetPath := filepath.Join(r.assetFolder(sourceFile), filepath.FromSlash(ref))
		if _, err := os.Stat(assetPath); err == nil {
			return assetPath, true
		}
	}

	return filepath.Join(filepath.Dir(sourceFile), filepath.FromSlash(ref)), true
}

// Exists reports whether the reference resolves to an existing file.
func (r *HexoResolver) Exists(ref, sourceFile string) bool {
	if r.IsExternal(ref) {
		return true
	}
	resolved, ok := r.Resolve(ref, sourceFile)
	if !ok {
		return false
	}
	_, err := os.Stat(resolved)
	return err == nil
}

// FindSimilar searches both the plain relative location and, for posts,
// the asset folder. Results are concatenated and de-duplicated keeping
// first-seen order.
func (r *HexoResolver) FindSimilar(ref, sourceFile string, threshold float64) []string {
	ref = r.normalizePath(strings.TrimSpace(ref))

	slashRef := path.Clean(filepath.ToSlash(ref))
	targetName := path.Base(slashRef)
	targetDirPart := path.Dir(slashRef)
	hasDirPart := targetDirPart != "." && targetDirPart != "/"

	sourceDir := filepath.Dir(sourceFile)

	var searchDirs []string
	if hasDirPart {
		searchDirs = append(searchDirs, filepath.Join(sourceDir, filepath.FromSlash(targetDirPart)))
	} else {
		searchDirs = append(searchDirs, sourceDir)
	}

	isPost := r.isPostFile(sourceFile) && r.AssetFolderPerPost
	if isPost {
		asset := r.assetFolder(sourceFile)
		if hasDirPart {
			searchDirs = append(searchDirs, filepath.Join(asset, filepath.FromSlash(targetDirPart)))
		} else {
			searchDirs = append(searchDirs, asset)
		}
	}

	var results []string
	for _, dir := range searchDirs {
		results = append(results, r.findSimilarInDir(dir, targetName, hasDirPart, sourceFile, isPost, threshold)...)
	}

	seen := make(map[string]bool, len(results))
	unique := results[:0]
	for _, s := range results {
		if !seen[s] {
			seen[s] = true
			unique = append(unique, s)
		}
	}
	return unique
}

func (r *HexoResolver) findSimilarInDir(searchDir, targetName string, hasDirPart bool, sourceFile string, isPost bool, threshold float64) []string {
	// A missing directory with an explicit dir component may just be
	// misspelled; try the closest sibling before giving up.
	if !dirExists(searchDir) && hasDirPart {
		searchDir = substituteSimilarDir(searchDir, threshold)
	}
	if !dirExists(searchDir) {
		return nil
	}

	similar := similarity.ClosestMatches(targetName, listFiles(searchDir), 3, threshold)

	var results []string
	for _, name := range similar {
		match := filepath.Join(searchDir, name)
		results = append(results, r.suggestionPath(match, sourceFile, isPost))
	}
	return results
}

// suggestionPath expresses a matched file as a replacement string:
// asset-folder-relative for post assets, then document-relative, then
// root-relative with a leading slash, then absolute as a last resort.
func (r *HexoResolver) suggestionPath(match, sourceFile string, isPost bool) string {
	if isPost {
		if rel, ok := relativeTo(match, r.assetFolder(sourceFile)); ok {
			return rel
		}
	}
	if rel, ok := relativeTo(match, filepath.Dir(sourceFile)); ok {
		return rel
	}
	if rel, ok := relativeTo(match, r.Root); ok {
		return "/" + rel
	}
	return filepath.ToSlash(match)
}

// assetFolder is the sibling directory named after the document's
// filename without extension.
func (r *HexoResolver) assetFolder(sourceFile string) string {
	base := filepath.Base(sourceFile)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(sourceFile), stem)
}

// isPostFile reports whether the document's first root-relative path
// segment names a post directory.
func (r *HexoResolver) isPostFile(sourceFile string) bool {
	rel, err := filepath.Rel(r.Root, sourceFile)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	for _, dir := range r.PostDirs {
		if first == dir {
			return true
		}
	}
	return false
}
