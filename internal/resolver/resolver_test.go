package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestIsExternal(t *testing.T) {
	assert.True(t, IsExternal("http://example.com/a.png"))
	assert.True(t, IsExternal("https://example.com/a.png"))
	assert.True(t, IsExternal("//cdn.example.com/a.png"))
	assert.False(t, IsExternal("images/a.png"))
	assert.False(t, IsExternal("/images/a.png"))
}

func TestDefaultResolverResolve(t *testing.T) {
	root := t.TempDir()
	r := NewDefaultResolver(root)
	source := filepath.Join(root, "docs", "guide.md")

	resolved, ok := r.Resolve("/assets/logo.png", source)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "assets", "logo.png"), resolved)

	resolved, ok = r.Resolve("images/pic.png", source)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "docs", "images", "pic.png"), resolved)

	_, ok = r.Resolve("https://example.com/pic.png", source)
	assert.False(t, ok)
}

func TestDefaultResolverExists(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs", "images", "pic.png"))

	r := NewDefaultResolver(root)
	source := filepath.Join(root, "docs", "guide.md")

	assert.True(t, r.Exists("images/pic.png", source))
	assert.False(t, r.Exists("images/missing.png", source))
	// External references always count as existing.
	assert.True(t, r.Exists("https://example.com/pic.png", source))
}

func TestDefaultResolverFindSimilar(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs", "images", "screenshot.png"))
	writeFile(t, filepath.Join(root, "docs", "images", "banner.jpg"))

	r := NewDefaultResolver(root)
	source := filepath.Join(root, "docs", "guide.md")

	similar := r.FindSimilar("images/screnshot.png", source, 0.6)
	require.NotEmpty(t, similar)
	assert.Equal(t, "images/screenshot.png", similar[0])
}

func TestDefaultResolverFindSimilarSubstitutesDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs", "images", "logo.png"))

	r := NewDefaultResolver(root)
	source := filepath.Join(root, "docs", "guide.md")

	// "imges" does not exist; the similarly named "images" sibling is
	// searched instead.
	similar := r.FindSimilar("imges/logo.png", source, 0.6)
	require.NotEmpty(t, similar)
	assert.Equal(t, "images/logo.png", similar[0])
}

func TestDefaultResolverFindSimilarNoMatches(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs", "other.txt"))

	r := NewDefaultResolver(root)
	source := filepath.Join(root, "docs", "guide.md")

	assert.Empty(t, r.FindSimilar("completely-unrelated.png", source, 0.6))
}
