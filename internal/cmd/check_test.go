package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rchen/sitecheck/internal/checker"
	"github.com/rchen/sitecheck/internal/models"
)

// newSite writes a config file plus content files and returns the
// config path.
func newSite(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	cfgPath := filepath.Join(root, configFileName)
	require.NoError(t, os.WriteFile(cfgPath, []byte("root: .\n"), 0644))
	return cfgPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	root := NewRootCommand()
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCheckJSONOutput(t *testing.T) {
	cfgPath := newSite(t, map[string]string{
		"post.md":               "# Post\n\n![shot](images/screnshot.png)\n",
		"images/screenshot.png": "x",
	})

	out, err := runCommand(t, "check", "--json", "--config", cfgPath)
	// Broken references make the command exit non-zero.
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found 1 error(s)")

	var issues []jsonIssue
	require.NoError(t, json.Unmarshal([]byte(out), &issues))
	require.Len(t, issues, 1)
	assert.Equal(t, "post.md", issues[0].File)
	assert.Equal(t, 3, issues[0].Line)
	assert.Equal(t, "broken_image", issues[0].Type)
	assert.Equal(t, "error", issues[0].Severity)
	assert.Equal(t, "images/screenshot.png", issues[0].Suggestion)
	assert.Equal(t, "image", issues[0].Checker)
}

func TestCheckCleanTree(t *testing.T) {
	cfgPath := newSite(t, map[string]string{
		"post.md": "# Post\n\n![shot](pic.png)\n",
		"pic.png": "x",
	})

	out, err := runCommand(t, "check", "--json", "--config", cfgPath)
	require.NoError(t, err)

	var issues []jsonIssue
	require.NoError(t, json.Unmarshal([]byte(out), &issues))
	assert.Empty(t, issues)
}

func TestCheckUnknownCheckerSelection(t *testing.T) {
	cfgPath := newSite(t, map[string]string{
		"post.md": "![shot](missing.png)\n",
	})

	// An unmatched --checker filter leaves nothing to run, so nothing
	// is found.
	_, err := runCommand(t, "check", "--json", "--checker", "nonexistent", "--config", cfgPath)
	assert.NoError(t, err)
}

func TestCheckMissingConfig(t *testing.T) {
	_, err := runCommand(t, "check", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestFilterCheckers(t *testing.T) {
	img := checker.NewImageChecker()
	checkers := []checker.Checker{img}

	assert.Len(t, filterCheckers(checkers, []string{"image"}), 1)
	assert.Empty(t, filterCheckers(checkers, []string{"link"}))
}

func TestPrintJSON(t *testing.T) {
	out := &bytes.Buffer{}
	issues := []models.Issue{{
		File:     "/site/a.md",
		Line:     2,
		Column:   models.NoColumn,
		Type:     "broken_image",
		Message:  "Image not found: `x.png`",
		Severity: models.SeverityError,
		Checker:  "image",
	}}

	require.NoError(t, printJSON(out, issues, "/site"))

	var decoded []jsonIssue
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "a.md", decoded[0].File)
	assert.Equal(t, models.NoColumn, decoded[0].Column)
	assert.Empty(t, decoded[0].Suggestion)
}

func TestListCommand(t *testing.T) {
	out, err := runCommand(t, "list")
	require.NoError(t, err)

	assert.Contains(t, out, "Available checkers:")
	assert.Contains(t, out, "image")
	assert.Contains(t, out, "Available resolvers:")
	assert.Contains(t, out, "default")
	assert.Contains(t, out, "hexo")
}
