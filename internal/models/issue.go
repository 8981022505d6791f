package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Severity classifies how serious an issue is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// NoColumn marks an issue or fix whose column position is unknown.
const NoColumn = -1

// ContextLine is one numbered line of file content.
type ContextLine struct {
	Num  int
	Text string
}

// ContextLines holds the lines surrounding an issue for display.
type ContextLines struct {
	Before  []ContextLine
	Current ContextLine
	After   []ContextLine
}

// AllLines returns the context lines in file order, including the issue line.
func (c *ContextLines) AllLines() []ContextLine {
	lines := make([]ContextLine, 0, len(c.Before)+1+len(c.After))
	lines = append(lines, c.Before...)
	lines = append(lines, c.Current)
	lines = append(lines, c.After...)
	return lines
}

// Fix is a concrete single-line text substitution derived from an Issue.
//
// When StartCol is NoColumn the replacement is textual: the first
// occurrence of Original within the line is replaced. When StartCol is
// set, the replacement covers [StartCol, EndCol); an unset EndCol
// (NoColumn) means StartCol + len(Original). Mixing up the two rules
// duplicates content, so ApplyToLine is the only place they live.
type Fix struct {
	Original    string
	Replacement string
	Line        int
	StartCol    int
	EndCol      int
	Description string
}

// ApplyToLine applies the fix to one line of content and returns the result.
func (f *Fix) ApplyToLine(line string) string {
	if f.StartCol == NoColumn {
		return strings.Replace(line, f.Original, f.Replacement, 1)
	}

	start := f.StartCol
	if start > len(line) {
		start = len(line)
	}
	end := f.EndCol
	if end == NoColumn {
		end = start + len(f.Original)
	}
	if end > len(line) {
		end = len(line)
	}
	return line[:start] + f.Replacement + line[end:]
}

// Issue is one problem detected by a checker.
//
// An issue is immutable after creation except for the Context field,
// which the runner fills in after collection. Suggestion being non-empty
// is what makes an issue auto-fixable.
type Issue struct {
	File     string
	Line     int
	Column   int
	Type     string
	Message  string
	Original string
	Checker  string

	Suggestion string
	Severity   Severity
	Metadata   map[string]string

	Context *ContextLines
}

// HasSuggestion reports whether the issue carries an auto-fix suggestion.
func (i *Issue) HasSuggestion() bool {
	return i.Suggestion != ""
}

// Location formats the issue position as file:line or file:line:column.
func (i *Issue) Location() string {
	if i.Column != NoColumn {
		return fmt.Sprintf("%s:%d:%d", i.File, i.Line, i.Column)
	}
	return fmt.Sprintf("%s:%d", i.File, i.Line)
}

// RelFile returns the issue file path relative to root, or the original
// path when it is not under root.
func (i *Issue) RelFile(root string) string {
	rel, err := filepath.Rel(root, i.File)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(i.File)
	}
	return filepath.ToSlash(rel)
}

// GetFix derives the fix for this issue, or nil when it has no suggestion.
func (i *Issue) GetFix() *Fix {
	if !i.HasSuggestion() {
		return nil
	}
	return &Fix{
		Original:    i.Original,
		Replacement: i.Suggestion,
		Line:        i.Line,
		StartCol:    i.Column,
		EndCol:      NoColumn,
		Description: fmt.Sprintf("Fix %s: %s", i.Type, i.Message),
	}
}

func (i *Issue) String() string {
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Location(), i.Message)
}
