package fixer

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/rchen/sitecheck/internal/filelock"
	"github.com/rchen/sitecheck/internal/models"
)

// DefaultPatchDir is where patch artifacts live, relative to the
// project root.
const DefaultPatchDir = ".sitecheck/patches"

// PatchFixer applies all fixes at once and records them as a single
// unified-diff patch artifact, so a whole session can be undone.
//
// Edits within a file are applied from the bottom up; earlier edits can
// then never shift the line numbers of edits still to come.
type PatchFixer struct {
	// PatchDir is the artifact directory; relative paths are joined
	// onto the project root.
	PatchDir string

	// ContextLines is the unified-diff context size.
	ContextLines int
}

// NewPatchFixer creates a patch fixer with default artifact location
// and context size.
func NewPatchFixer() *PatchFixer {
	return &PatchFixer{
		PatchDir:     DefaultPatchDir,
		ContextLines: 3,
	}
}

func (f *PatchFixer) Name() string        { return "patch" }
func (f *PatchFixer) Description() string { return "Patch-based fixer with undo support" }

// Fix computes per-file diffs for every fixable issue, saves the
// combined patch artifact, and applies it. In dry-run mode the session
// is computed but nothing touches disk.
func (f *PatchFixer) Fix(issues []models.Issue, root string, dryRun bool) (*Session, error) {
	session := NewSession()
	defer session.Complete()

	fixable := Fixable(issues)
	if len(fixable) == 0 {
		return session, nil
	}

	byFile := make(map[string][]models.Issue)
	var fileOrder []string
	for _, issue := range fixable {
		if _, ok := byFile[issue.File]; !ok {
			fileOrder = append(fileOrder, issue.File)
		}
		byFile[issue.File] = append(byFile[issue.File], issue)
	}

	var diffs []string
	for _, file := range fileOrder {
		diffText, results := f.fixFile(file, byFile[file], root)
		if diffText != "" {
			diffs = append(diffs, diffText)
		}
		session.Results = append(session.Results, results...)
	}

	if len(diffs) == 0 || dryRun {
		return session, nil
	}

	combined := strings.Join(diffs, "")
	patchFile, err := f.savePatch(combined, session.ID, root)
	if err != nil {
		return session, fmt.Errorf("failed to save patch: %w", err)
	}

	if err := f.applyPatch(patchFile, root); err != nil {
		return session, fmt.Errorf("failed to apply patch %s: %w", filepath.Base(patchFile), err)
	}

	for i := range session.Results {
		if session.Results[i].Action == ActionAccept {
			session.Results[i].Applied = true
		}
	}
	return session, nil
}

// fixFile applies one file's fixes in memory and renders the unified
// diff. An empty diff means the edits were no-ops; the results still
// count as accepted.
func (f *PatchFixer) fixFile(file string, issues []models.Issue, root string) (string, []Result) {
	var results []Result

	data, err := os.ReadFile(file)
	if err != nil {
		for _, issue := range issues {
			results = append(results, Result{
				Issue:  issue,
				Action: ActionSkip,
				Err:    fmt.Sprintf("Failed to read file: %v", err),
			})
		}
		return "", results
	}

	// Descending line order: bottom-up application keeps line numbers
	// of pending edits stable.
	sorted := make([]models.Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Line > sorted[j].Line })

	lines := splitKeepEnds(string(data))
	original := strings.Join(lines, "")

	for _, issue := range sorted {
		fix := issue.GetFix()
		if fix == nil {
			results = append(results, Result{Issue: issue, Action: ActionSkip, Err: "No fix available"})
			continue
		}

		idx := issue.Line - 1
		if idx < 0 || idx >= len(lines) {
			results = append(results, Result{
				Issue:  issue,
				Action: ActionSkip,
				Err:    fmt.Sprintf("Line %d out of range", issue.Line),
			})
			continue
		}

		lines[idx] = fix.ApplyToLine(lines[idx])
		results = append(results, Result{Issue: issue, Action: ActionAccept, Fix: fix})
	}

	fixed := strings.Join(lines, "")
	if fixed == original {
		return "", results
	}

	rel, err := filepath.Rel(root, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = file
	}
	rel = filepath.ToSlash(rel)

	diffText, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitKeepEnds(original),
		B:        splitKeepEnds(fixed),
		FromFile: "a/" + rel,
		ToFile:   "b/" + rel,
		Context:  f.ContextLines,
	})
	if err != nil {
		return "", results
	}
	return diffText, results
}

// patchDirPath resolves the configured patch directory against root.
func (f *PatchFixer) patchDirPath(root string) string {
	dir := f.PatchDir
	if dir == "" {
		dir = DefaultPatchDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

// savePatch writes the artifact under a sortable timestamped name.
func (f *PatchFixer) savePatch(patch, sessionID, root string) (string, error) {
	dir := f.patchDirPath(root)
	name := fmt.Sprintf("%s_%s.patch", time.Now().Format("2006-01-02_150405"), sessionID)
	path := filepath.Join(dir, name)

	if err := filelock.LockAndWrite(path, []byte(patch)); err != nil {
		return "", err
	}
	return path, nil
}

// applyPatch works through the tool tiers: git apply, then patch(1),
// then the built-in applier.
func (f *PatchFixer) applyPatch(patchFile, root string) error {
	if err := runTool(root, "git", "apply", "--whitespace=nowarn", patchFile); err == nil {
		return nil
	}
	if err := runTool(root, "patch", "-p1", "-i", patchFile); err == nil {
		return nil
	}

	data, err := os.ReadFile(patchFile)
	if err != nil {
		return fmt.Errorf("failed to read patch: %w", err)
	}
	return applyUnifiedPatch(string(data), root)
}

// Undo reverts a previously saved patch via git apply -R or patch -R.
// There is no built-in reversal tier; without an external tool undo
// fails.
func (f *PatchFixer) Undo(patchFile, root string) error {
	if err := runTool(root, "git", "apply", "-R", "--whitespace=nowarn", patchFile); err == nil {
		return nil
	}
	if err := runTool(root, "patch", "-R", "-p1", "-i", patchFile); err == nil {
		return nil
	}
	return fmt.Errorf("no available tool could revert %s", filepath.Base(patchFile))
}

// ListPatches returns saved patch artifacts, newest first. The
// timestamp-prefixed names make the lexical sort chronological.
func (f *PatchFixer) ListPatches(root string) []string {
	matches, err := filepath.Glob(filepath.Join(f.patchDirPath(root), "*.patch"))
	if err != nil {
		return nil
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	return matches
}

// LatestPatch returns the most recent patch artifact, if any.
func (f *PatchFixer) LatestPatch(root string) (string, bool) {
	patches := f.ListPatches(root)
	if len(patches) == 0 {
		return "", false
	}
	return patches[0], true
}

// PreviewPatch returns a saved artifact's unified-diff text.
func (f *PatchFixer) PreviewPatch(patchFile string) (string, error) {
	data, err := os.ReadFile(patchFile)
	if err != nil {
		return "", fmt.Errorf("failed to read patch: %w", err)
	}
	return string(data), nil
}

func runTool(dir string, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// splitKeepEnds splits content into lines that keep their trailing
// newline. A final line without one is given one, mirroring how the
// diffs are generated and applied.
func splitKeepEnds(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if n := len(lines); lines[n-1] == "" {
		lines = lines[:n-1]
	}
	if n := len(lines); !strings.HasSuffix(lines[n-1], "\n") {
		lines[n-1] += "\n"
	}
	return lines
}
