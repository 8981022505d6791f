package runner

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rchen/sitecheck/internal/checker"
	"github.com/rchen/sitecheck/internal/fixer"
	"github.com/rchen/sitecheck/internal/logger"
	"github.com/rchen/sitecheck/internal/models"
	"github.com/rchen/sitecheck/internal/resolver"
)

func newSite(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func newTestRunner(t *testing.T, root string) *Runner {
	t.Helper()
	r, err := New(root, resolver.NewDefaultResolver(root))
	require.NoError(t, err)
	r.Checkers = []checker.Checker{checker.NewImageChecker()}
	return r
}

func TestRunnerFindsBrokenReferences(t *testing.T) {
	root := newSite(t, map[string]string{
		"post.md":               "# Post\n\n![shot](images/screnshot.png)\n",
		"images/screenshot.png": "x",
		"ok.md":                 "![fine](images/screenshot.png)\n",
	})

	r := newTestRunner(t, root)
	issues, err := r.Run()
	require.NoError(t, err)
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, filepath.Join(root, "post.md"), issue.File)
	assert.Equal(t, 3, issue.Line)
	assert.Equal(t, "images/screenshot.png", issue.Suggestion)

	// Context is attached after collection.
	require.NotNil(t, issue.Context)
	assert.Equal(t, "![shot](images/screnshot.png)", issue.Context.Current.Text)
	assert.Equal(t, 3, issue.Context.Current.Num)
}

func TestRunnerIgnoresExternalAndExisting(t *testing.T) {
	root := newSite(t, map[string]string{
		"post.md":  "![a](https://example.com/a.png)\n![b](pic.png)\n",
		"pic.png":  "x",
		"skip.txt": "![c](never-checked.png)\n",
	})

	r := newTestRunner(t, root)
	issues, err := r.Run()
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestRunnerHonorsExcludePatterns(t *testing.T) {
	root := newSite(t, map[string]string{
		"post.md":       "![a](missing.png)\n",
		"drafts/wip.md": "![b](missing.png)\n",
	})

	r := newTestRunner(t, root)
	r.Exclude = []string{"drafts/**"}

	issues, err := r.Run()
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, filepath.Join(root, "post.md"), issues[0].File)
}

func TestRunnerSkipsDisabledChecker(t *testing.T) {
	root := newSite(t, map[string]string{"post.md": "![a](missing.png)\n"})

	r := newTestRunner(t, root)
	c := checker.NewImageChecker()
	c.Disabled = true
	r.Checkers = []checker.Checker{c}

	issues, err := r.Run()
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestRunnerFixThenRescanIsClean(t *testing.T) {
	root := newSite(t, map[string]string{
		"post.md":               "![shot](images/screnshot.png)\n",
		"images/screenshot.png": "x",
	})

	r := newTestRunner(t, root)
	issues, err := r.Run()
	require.NoError(t, err)
	require.Len(t, issues, 1)

	_, err = fixer.NewPatchFixer().Fix(issues, root, false)
	require.NoError(t, err)

	// A fresh scan over the fixed tree finds nothing.
	r2 := newTestRunner(t, root)
	issues, err = r2.Run()
	require.NoError(t, err)
	assert.Empty(t, issues)
}

// issueSummaries projects the fields a re-scan must reproduce.
func issueSummaries(issues []models.Issue) []string {
	out := make([]string, len(issues))
	for i := range issues {
		out[i] = fmt.Sprintf("%s:%d:%d %s %s %s",
			issues[i].File, issues[i].Line, issues[i].Column,
			issues[i].Type, issues[i].Message, issues[i].Suggestion)
	}
	return out
}

func TestRunnerRescanOfUnchangedTreeIsIdentical(t *testing.T) {
	root := newSite(t, map[string]string{
		"post.md":               "# Post\n\n![shot](images/screnshot.png)\n\n![gone](nowhere.png)\n",
		"images/screenshot.png": "x",
		"other.md":              "![also](missing.png)\n",
	})

	r := newTestRunner(t, root)
	first, err := r.Run()
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// Same runner again: the cached reads must not change the outcome.
	second, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, issueSummaries(first), issueSummaries(second))

	// A fresh runner over the same tree sees the same issues too.
	fresh := newTestRunner(t, root)
	third, err := fresh.Run()
	require.NoError(t, err)
	assert.Equal(t, issueSummaries(first), issueSummaries(third))
}

func TestRunnerCheckerFailureIsQuietByDefault(t *testing.T) {
	root := newSite(t, map[string]string{"post.md": "![a](missing.png)\n"})

	out := &bytes.Buffer{}
	r := newTestRunner(t, root)
	r.Checkers = []checker.Checker{failingChecker{}, checker.NewImageChecker()}
	r.Log = logger.NewConsoleLogger(out, "info")

	issues, err := r.Run()
	require.NoError(t, err)
	require.Len(t, issues, 1)

	// The failing checker is skipped silently at the default level.
	assert.NotContains(t, out.String(), "failer")

	out.Reset()
	r.Log = logger.NewConsoleLogger(out, "debug")
	_, err = r.Run()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "failer")
}

type panicChecker struct{}

func (panicChecker) Name() string             { return "panicker" }
func (panicChecker) Description() string      { return "always panics" }
func (panicChecker) Enabled() bool            { return true }
func (panicChecker) SupportsFile(string) bool { return true }
func (panicChecker) Check(string, string, *checker.Context) ([]models.Issue, error) {
	panic("boom")
}

type failingChecker struct{}

func (failingChecker) Name() string             { return "failer" }
func (failingChecker) Description() string      { return "always fails" }
func (failingChecker) Enabled() bool            { return true }
func (failingChecker) SupportsFile(string) bool { return true }
func (failingChecker) Check(string, string, *checker.Context) ([]models.Issue, error) {
	return nil, errors.New("checker exploded")
}

func TestRunnerIsolatesCheckerFailures(t *testing.T) {
	root := newSite(t, map[string]string{"post.md": "![a](missing.png)\n"})

	r := newTestRunner(t, root)
	// Misbehaving checkers run first; the image checker must still
	// produce its issue.
	r.Checkers = []checker.Checker{panicChecker{}, failingChecker{}, checker.NewImageChecker()}

	issues, err := r.Run()
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "image", issues[0].Checker)
}
