package checker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rchen/sitecheck/internal/models"
	"github.com/rchen/sitecheck/internal/resolver"
)

func TestContextReadFileCaches(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "doc.md")
	require.NoError(t, os.WriteFile(file, []byte("first\n"), 0644))

	ctx := NewContext(root, resolver.NewDefaultResolver(root))

	content, err := ctx.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "first\n", content)

	// A mid-run edit is not observed until the cache is cleared.
	require.NoError(t, os.WriteFile(file, []byte("second\n"), 0644))
	content, err = ctx.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "first\n", content)

	ctx.ClearCache()
	content, err = ctx.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "second\n", content)
}

func TestContextReadFileMissing(t *testing.T) {
	root := t.TempDir()
	ctx := NewContext(root, resolver.NewDefaultResolver(root))

	_, err := ctx.ReadFile(filepath.Join(root, "nope.md"))
	assert.Error(t, err)
}

func TestContextLinesClamped(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "doc.md")
	require.NoError(t, os.WriteFile(file, []byte("one\ntwo\nthree\nfour\nfive\n"), 0644))

	ctx := NewContext(root, resolver.NewDefaultResolver(root))

	// Window around line 2 with 3 lines either side clamps at the file
	// boundaries.
	lines, err := ctx.ContextLines(file, 2, 3, 3)
	require.NoError(t, err)
	require.Len(t, lines.Before, 1)
	assert.Equal(t, "one", lines.Before[0].Text)
	assert.Equal(t, "two", lines.Current.Text)
	assert.Equal(t, 2, lines.Current.Num)
	require.Len(t, lines.After, 3)
	assert.Equal(t, "five", lines.After[2].Text)
}

func TestContextLinesMiddle(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "doc.md")
	require.NoError(t, os.WriteFile(file, []byte("one\ntwo\nthree\nfour\nfive\n"), 0644))

	ctx := NewContext(root, resolver.NewDefaultResolver(root))

	lines, err := ctx.ContextLines(file, 3, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"two"}, textsOf(lines.Before))
	assert.Equal(t, "three", lines.Current.Text)
	assert.Equal(t, []string{"four"}, textsOf(lines.After))
}

func TestFileLinesNoTrailingEmpty(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "doc.md")
	require.NoError(t, os.WriteFile(file, []byte("a\nb\n"), 0644))

	ctx := NewContext(root, resolver.NewDefaultResolver(root))

	lines, err := ctx.FileLines(file)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, lines)
}

func TestContextRelativePath(t *testing.T) {
	root := t.TempDir()
	ctx := NewContext(root, resolver.NewDefaultResolver(root))

	assert.Equal(t, "sub/doc.md", filepath.ToSlash(ctx.RelativePath(filepath.Join(root, "sub", "doc.md"))))
	assert.Equal(t, "/outside/doc.md", ctx.RelativePath("/outside/doc.md"))
}

func textsOf(lines []models.ContextLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}
