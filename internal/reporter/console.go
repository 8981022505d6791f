package reporter

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/rchen/sitecheck/internal/models"
)

// ColorMode controls when ANSI colors are emitted.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Theme is the immutable color palette threaded through the reporter.
type Theme struct {
	File       *color.Color
	LineNum    *color.Color
	Error      *color.Color
	Warning    *color.Color
	Info       *color.Color
	Suggestion *color.Color
	Context    *color.Color
	Success    *color.Color
}

// DefaultTheme is the palette for dark terminals.
func DefaultTheme() Theme {
	return Theme{
		File:       color.New(color.FgHiCyan),
		LineNum:    color.New(color.FgHiYellow),
		Error:      color.New(color.FgHiRed),
		Warning:    color.New(color.FgHiYellow),
		Info:       color.New(color.FgHiBlue),
		Suggestion: color.New(color.FgHiGreen),
		Context:    color.New(color.FgHiBlack),
		Success:    color.New(color.FgHiGreen),
	}
}

// LightTheme is the palette for light terminals.
func LightTheme() Theme {
	return Theme{
		File:       color.New(color.FgCyan),
		LineNum:    color.New(color.FgYellow),
		Error:      color.New(color.FgRed),
		Warning:    color.New(color.FgYellow),
		Info:       color.New(color.FgBlue),
		Suggestion: color.New(color.FgGreen),
		Context:    color.New(color.FgWhite),
		Success:    color.New(color.FgGreen),
	}
}

type boxChars struct {
	topLeft    string
	bottomLeft string
	vertical   string
	horizontal string
}

var unicodeBox = boxChars{topLeft: "╭", bottomLeft: "╰", vertical: "│", horizontal: "─"}
var asciiBox = boxChars{topLeft: "+", bottomLeft: "+", vertical: "|", horizontal: "-"}

// ConsoleReporter renders issues in a boxed, git-diff-like layout with
// context lines, a caret underline at the issue column, and the
// suggested replacement.
type ConsoleReporter struct {
	Out             io.Writer
	ShowSuggestions bool
	LineNumbers     bool
	BoxDrawing      bool
	Theme           Theme

	useColor bool
	chars    boxChars
}

// NewConsoleReporter creates a reporter writing to out. Color use
// follows mode: auto enables colors only when out is a terminal.
func NewConsoleReporter(out io.Writer, mode ColorMode, theme Theme) *ConsoleReporter {
	r := &ConsoleReporter{
		Out:             out,
		ShowSuggestions: true,
		LineNumbers:     true,
		BoxDrawing:      true,
		Theme:           theme,
		useColor:        shouldUseColor(out, mode),
	}
	r.chars = unicodeBox
	if !r.BoxDrawing {
		r.chars = asciiBox
	}
	return r
}

func shouldUseColor(out io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if f, ok := out.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

func (r *ConsoleReporter) style(text string, c *color.Color) string {
	if !r.useColor || c == nil {
		return text
	}
	// Force past the package-level TTY guess; we decided already.
	c.EnableColor()
	return c.Sprint(text)
}

// Report renders all issues grouped by file, then the summary.
func (r *ConsoleReporter) Report(issues []models.Issue, root string) {
	if len(issues) == 0 {
		fmt.Fprintln(r.Out, r.style("✓ No issues found", r.Theme.Success))
		return
	}

	byFile := make(map[string][]models.Issue)
	var order []string
	for _, issue := range issues {
		if _, ok := byFile[issue.File]; !ok {
			order = append(order, issue.File)
		}
		byFile[issue.File] = append(byFile[issue.File], issue)
	}

	for _, file := range order {
		r.reportFile(file, byFile[file], root)
	}

	r.ReportSummary(issues)
}

func (r *ConsoleReporter) reportFile(file string, issues []models.Issue, root string) {
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Line < issues[j].Line })

	rel := issues[0].RelFile(root)

	fmt.Fprintln(r.Out)
	fmt.Fprintf(r.Out, "%s%s %s\n", r.chars.topLeft, r.chars.horizontal, r.style(rel, r.Theme.File))
	fmt.Fprintln(r.Out, r.chars.vertical)

	for i := range issues {
		r.printIssueBlock(&issues[i])
	}

	fmt.Fprintln(r.Out, r.chars.bottomLeft+strings.Repeat(r.chars.horizontal, 2))
}

// ReportIssue renders a single issue with its own box.
func (r *ConsoleReporter) ReportIssue(issue *models.Issue, root string) {
	rel := issue.RelFile(root)

	fmt.Fprintln(r.Out)
	fmt.Fprintf(r.Out, "%s%s %s%s\n",
		r.chars.topLeft, r.chars.horizontal,
		r.style(rel, r.Theme.File),
		r.style(fmt.Sprintf(":%d", issue.Line), r.Theme.LineNum))
	fmt.Fprintln(r.Out, r.chars.vertical)
	r.printIssueBlock(issue)
	fmt.Fprintln(r.Out, r.chars.bottomLeft+strings.Repeat(r.chars.horizontal, 2))
}

func (r *ConsoleReporter) printIssueBlock(issue *models.Issue) {
	v := r.chars.vertical

	if issue.Context != nil {
		for _, line := range issue.Context.Before {
			r.printContextLine(line)
		}
		r.printIssueLine(issue.Context.Current.Num, issue.Context.Current.Text, issue)
		for _, line := range issue.Context.After {
			r.printContextLine(line)
		}
	} else {
		r.printIssueLine(issue.Line, issue.Original, issue)
	}

	fmt.Fprintln(r.Out, v)
}

func (r *ConsoleReporter) printContextLine(line models.ContextLine) {
	v := r.chars.vertical
	num := r.style(fmt.Sprintf("%4d", line.Num), r.Theme.Context)
	fmt.Fprintf(r.Out, "%s  %s %s %s\n", v, num, v, r.style(line.Text, r.Theme.Context))
}

func (r *ConsoleReporter) printIssueLine(lineNum int, content string, issue *models.Issue) {
	v := r.chars.vertical

	num := r.style(fmt.Sprintf("%4d", lineNum), r.Theme.LineNum)
	fmt.Fprintf(r.Out, "%s  %s %s %s\n", v, num, v, content)

	if issue.Column != models.NoColumn && issue.Original != "" {
		padding := strings.Repeat(" ", issue.Column)
		underline := strings.Repeat("^", len(issue.Original))
		fmt.Fprintf(r.Out, "%s       %s %s%s\n", v, v, padding, r.style(underline, r.Theme.Error))
	}

	msg := fmt.Sprintf("%s %s", r.severityIcon(issue.Severity), issue.Message)
	fmt.Fprintf(r.Out, "%s       %s %s\n", v, v, r.style(msg, r.severityColor(issue.Severity)))

	if r.ShowSuggestions && issue.Suggestion != "" {
		suggestion := fmt.Sprintf("→ Did you mean: `%s`", issue.Suggestion)
		fmt.Fprintf(r.Out, "%s       %s %s\n", v, v, r.style(suggestion, r.Theme.Suggestion))
	}
}

func (r *ConsoleReporter) severityColor(s models.Severity) *color.Color {
	switch s {
	case models.SeverityWarning:
		return r.Theme.Warning
	case models.SeverityInfo:
		return r.Theme.Info
	}
	return r.Theme.Error
}

func (r *ConsoleReporter) severityIcon(s models.Severity) string {
	switch s {
	case models.SeverityWarning:
		return "⚠"
	case models.SeverityInfo:
		return "ℹ"
	}
	return "✗"
}

// ReportSummary prints counts by severity and how many issues carry a
// suggestion.
func (r *ConsoleReporter) ReportSummary(issues []models.Issue) {
	if len(issues) == 0 {
		return
	}

	var errors, warnings, infos, fixable int
	for i := range issues {
		switch issues[i].Severity {
		case models.SeverityError:
			errors++
		case models.SeverityWarning:
			warnings++
		case models.SeverityInfo:
			infos++
		}
		if issues[i].HasSuggestion() {
			fixable++
		}
	}

	var parts []string
	if errors > 0 {
		parts = append(parts, r.style(fmt.Sprintf("%d error(s)", errors), r.Theme.Error))
	}
	if warnings > 0 {
		parts = append(parts, r.style(fmt.Sprintf("%d warning(s)", warnings), r.Theme.Warning))
	}
	if infos > 0 {
		parts = append(parts, r.style(fmt.Sprintf("%d info(s)", infos), r.Theme.Info))
	}

	fmt.Fprintln(r.Out)
	fmt.Fprintf(r.Out, "Found %s\n", strings.Join(parts, ", "))
	if fixable > 0 {
		fmt.Fprintln(r.Out, r.style(fmt.Sprintf("  %d issue(s) can be auto-fixed", fixable), r.Theme.Suggestion))
	}
}
