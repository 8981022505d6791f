package fixer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// applyUnifiedPatch is the last-resort applier used when neither git
// nor patch(1) is available. It understands exactly the unified-diff
// dialect the PatchFixer produces: a/<rel> b/<rel> headers and
// @@ -start,count +start,count @@ hunks.
//
// Files are patched one by one; within a file, hunks run bottom to top
// so applied hunks never shift the offsets of pending ones. A hunk
// whose target file is missing is skipped, not an error.
func applyUnifiedPatch(patchText, root string) error {
	fileDiffs, err := diff.NewMultiFileDiffReader(strings.NewReader(patchText)).ReadAllFiles()
	if err != nil {
		return fmt.Errorf("failed to parse patch: %w", err)
	}

	for _, fd := range fileDiffs {
		target := filepath.Join(root, filepath.FromSlash(stripDiffPrefix(fd.NewName)))

		data, err := os.ReadFile(target)
		if err != nil {
			continue
		}

		lines := splitDropEnds(string(data))

		hunks := make([]*diff.Hunk, len(fd.Hunks))
		copy(hunks, fd.Hunks)
		sort.SliceStable(hunks, func(i, j int) bool {
			return hunks[i].OrigStartLine > hunks[j].OrigStartLine
		})

		for _, hunk := range hunks {
			oldLines, newLines := hunkLines(hunk.Body)

			start := int(hunk.OrigStartLine) - 1
			if start < 0 || start > len(lines) {
				continue
			}
			end := start + len(oldLines)
			if end > len(lines) {
				end = len(lines)
			}

			patched := make([]string, 0, len(lines)-(end-start)+len(newLines))
			patched = append(patched, lines[:start]...)
			patched = append(patched, newLines...)
			patched = append(patched, lines[end:]...)
			lines = patched
		}

		content := strings.Join(lines, "\n") + "\n"
		if err := os.WriteFile(target, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
	}

	return nil
}

// hunkLines splits a hunk body into the before and after line sets.
// Context lines belong to both; the no-newline marker belongs to
// neither.
func hunkLines(body []byte) (oldLines, newLines []string) {
	for _, line := range splitDropEnds(string(body)) {
		if line == "" {
			// A bare empty line inside a hunk is context for an empty
			// source line.
			oldLines = append(oldLines, "")
			newLines = append(newLines, "")
			continue
		}
		text := line[1:]
		switch line[0] {
		case ' ':
			oldLines = append(oldLines, text)
			newLines = append(newLines, text)
		case '-':
			oldLines = append(oldLines, text)
		case '+':
			newLines = append(newLines, text)
		case '\\':
			// "\ No newline at end of file"
		}
	}
	return oldLines, newLines
}

// stripDiffPrefix removes the conventional a/ or b/ label prefix.
func stripDiffPrefix(name string) string {
	if strings.HasPrefix(name, "a/") || strings.HasPrefix(name, "b/") {
		return name[2:]
	}
	return name
}

// splitDropEnds splits on newlines without keeping them; a trailing
// newline does not yield a final empty element.
func splitDropEnds(content string) []string {
	lines := strings.Split(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
