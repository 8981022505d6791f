package fixer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unifiedDiff renders a patch in exactly the dialect the PatchFixer
// produces.
func unifiedDiff(t *testing.T, rel, before, after string) string {
	t.Helper()
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitKeepEnds(before),
		B:        splitKeepEnds(after),
		FromFile: "a/" + rel,
		ToFile:   "b/" + rel,
		Context:  3,
	})
	require.NoError(t, err)
	return text
}

func TestApplyUnifiedPatch(t *testing.T) {
	root := t.TempDir()
	before := "one\ntwo\nthree\nfour\nfive\n"
	after := "one\ntwo\nTHREE\nfour\nfive\n"
	doc := writeDoc(t, root, "doc.md", before)

	err := applyUnifiedPatch(unifiedDiff(t, "doc.md", before, after), root)
	require.NoError(t, err)

	data, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, after, string(data))
}

func TestApplyUnifiedPatchMultipleHunks(t *testing.T) {
	root := t.TempDir()

	var beforeLines, afterLines []string
	for i := 0; i < 30; i++ {
		beforeLines = append(beforeLines, "line\n")
		afterLines = append(afterLines, "line\n")
	}
	beforeLines[2] = "old-top\n"
	afterLines[2] = "new-top\n"
	beforeLines[27] = "old-bottom\n"
	afterLines[27] = "new-bottom\n"

	before := joinLines(beforeLines)
	after := joinLines(afterLines)
	doc := writeDoc(t, root, "doc.md", before)

	err := applyUnifiedPatch(unifiedDiff(t, "doc.md", before, after), root)
	require.NoError(t, err)

	data, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, after, string(data))
}

func TestApplyUnifiedPatchMultipleFiles(t *testing.T) {
	root := t.TempDir()
	docA := writeDoc(t, root, "a.md", "alpha\n")
	docB := writeDoc(t, root, filepath.Join("sub", "b.md"), "beta\n")

	patch := unifiedDiff(t, "a.md", "alpha\n", "ALPHA\n") +
		unifiedDiff(t, "sub/b.md", "beta\n", "BETA\n")

	require.NoError(t, applyUnifiedPatch(patch, root))

	dataA, _ := os.ReadFile(docA)
	dataB, _ := os.ReadFile(docB)
	assert.Equal(t, "ALPHA\n", string(dataA))
	assert.Equal(t, "BETA\n", string(dataB))
}

func TestApplyUnifiedPatchSkipsMissingFile(t *testing.T) {
	root := t.TempDir()
	doc := writeDoc(t, root, "present.md", "keep\n")

	patch := unifiedDiff(t, "absent.md", "gone\n", "GONE\n") +
		unifiedDiff(t, "present.md", "keep\n", "KEPT\n")

	// The missing file is skipped; the present one is still patched.
	require.NoError(t, applyUnifiedPatch(patch, root))

	data, _ := os.ReadFile(doc)
	assert.Equal(t, "KEPT\n", string(data))
}

func TestApplyUnifiedPatchMalformed(t *testing.T) {
	patch := "--- a/x.md\n+++ b/x.md\n@@ nope @@\n x\n"
	err := applyUnifiedPatch(patch, t.TempDir())
	assert.Error(t, err)
}

func TestHunkLines(t *testing.T) {
	body := []byte(" ctx\n-removed\n+added\n ctx2\n")

	oldLines, newLines := hunkLines(body)
	assert.Equal(t, []string{"ctx", "removed", "ctx2"}, oldLines)
	assert.Equal(t, []string{"ctx", "added", "ctx2"}, newLines)
}

func TestStripDiffPrefix(t *testing.T) {
	assert.Equal(t, "post.md", stripDiffPrefix("a/post.md"))
	assert.Equal(t, "post.md", stripDiffPrefix("b/post.md"))
	assert.Equal(t, "post.md", stripDiffPrefix("post.md"))
}

func joinLines(lines []string) string {
	out := ""
	for _, l := range lines {
		out += l
	}
	return out
}
