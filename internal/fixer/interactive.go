package fixer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/rchen/sitecheck/internal/models"
	"github.com/rchen/sitecheck/internal/reporter"
)

const interactiveHelp = `
    y - Accept this fix
    n - Skip this issue
    a - Accept all remaining fixes
    q - Quit (remaining issues are dropped)
    d - Show diff preview
    ? - Show this help
`

// InteractiveFixer walks the fixable issues one by one, asking the user
// what to do with each. Accepted fixes are handed to the patch fixer as
// a single batch at the end.
type InteractiveFixer struct {
	Reporter reporter.Reporter
	Patch    *PatchFixer

	// In and Out default to stdin/stdout; tests inject buffers.
	In  io.Reader
	Out io.Writer
}

// NewInteractiveFixer creates an interactive fixer wired to the
// terminal.
func NewInteractiveFixer(rep reporter.Reporter, patch *PatchFixer) *InteractiveFixer {
	return &InteractiveFixer{
		Reporter: rep,
		Patch:    patch,
		In:       os.Stdin,
		Out:      os.Stdout,
	}
}

func (f *InteractiveFixer) Name() string        { return "interactive" }
func (f *InteractiveFixer) Description() string { return "Interactive fixer with user confirmation" }

// Fix prompts for each fixable issue and applies the accepted batch.
// Quit stops immediately; issues after the quit are never recorded.
func (f *InteractiveFixer) Fix(issues []models.Issue, root string, dryRun bool) (*Session, error) {
	session := NewSession()
	defer session.Complete()

	fixable := Fixable(issues)
	if len(fixable) == 0 {
		fmt.Fprintln(f.Out, color.GreenString("✓ No fixable issues found"))
		return session, nil
	}

	fmt.Fprintf(f.Out, "\nFound %s fixable issue(s)\n", color.YellowString("%d", len(fixable)))
	fmt.Fprintln(f.Out, strings.Repeat("─", 40))

	scanner := bufio.NewScanner(f.In)

	var toFix []models.Issue
	acceptAll := false

loop:
	for i := range fixable {
		issue := fixable[i]

		if acceptAll {
			toFix = append(toFix, issue)
			session.Results = append(session.Results, Result{Issue: issue, Action: ActionAccept, Fix: issue.GetFix()})
			continue
		}

		fmt.Fprintf(f.Out, "\n[%d/%d]\n", i+1, len(fixable))
		f.Reporter.ReportIssue(&issue, root)

		switch f.promptAction(scanner, &issue) {
		case ActionAccept:
			toFix = append(toFix, issue)
			session.Results = append(session.Results, Result{Issue: issue, Action: ActionAccept, Fix: issue.GetFix()})
			fmt.Fprintln(f.Out, color.GreenString("✓ Accepted"))

		case ActionSkip:
			session.Results = append(session.Results, Result{Issue: issue, Action: ActionSkip})
			fmt.Fprintln(f.Out, color.YellowString("○ Skipped"))

		case ActionAcceptAll:
			acceptAll = true
			toFix = append(toFix, issue)
			session.Results = append(session.Results, Result{Issue: issue, Action: ActionAccept, Fix: issue.GetFix()})
			fmt.Fprintln(f.Out, color.GreenString("✓ Accepting all remaining fixes..."))

		case ActionQuit:
			fmt.Fprintln(f.Out, color.YellowString("⚠ Quit requested"))
			break loop
		}
	}

	var applyErr error
	if len(toFix) > 0 {
		fmt.Fprintln(f.Out)
		fmt.Fprintln(f.Out, strings.Repeat("─", 40))
		fmt.Fprintf(f.Out, "Applying %s fix(es)...\n", color.GreenString("%d", len(toFix)))

		if dryRun {
			fmt.Fprintln(f.Out, color.YellowString("[DRY RUN] No changes made"))
		} else {
			var patchSession *Session
			patchSession, applyErr = f.Patch.Fix(toFix, root, false)
			if applyErr != nil {
				fmt.Fprintln(f.Out, color.RedString("✗ %v", applyErr))
			} else {
				// Carry over the patch session's per-issue outcomes; an
				// issue the patch fixer skipped (out-of-range line,
				// unreadable file) stays unapplied in the summary.
				applied := make(map[string]bool, len(patchSession.Results))
				for i := range patchSession.Results {
					if patchSession.Results[i].WasFixed() {
						applied[issueKey(&patchSession.Results[i].Issue)] = true
					}
				}
				for i := range session.Results {
					r := &session.Results[i]
					if r.Action == ActionAccept && applied[issueKey(&r.Issue)] {
						r.Applied = true
					}
				}
				if patch, ok := f.Patch.LatestPatch(root); ok {
					rel, err := filepath.Rel(root, patch)
					if err != nil {
						rel = patch
					}
					fmt.Fprintln(f.Out, color.New(color.Faint).Sprintf("Patch saved to: %s", filepath.ToSlash(rel)))
				}
			}
		}
	}

	f.printSummary(session)
	return session, applyErr
}

// promptAction reads one decision. Diff and help redisplay the prompt;
// empty input skips; end-of-input quits.
func (f *InteractiveFixer) promptAction(scanner *bufio.Scanner, issue *models.Issue) Action {
	for {
		fmt.Fprint(f.Out, color.MagentaString("[y]es [n]o [a]ll [q]uit [d]iff [?]help")+": ")

		if !scanner.Scan() {
			return ActionQuit
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			return ActionAccept
		case "n", "no":
			return ActionSkip
		case "a", "all":
			return ActionAcceptAll
		case "q", "quit":
			return ActionQuit
		case "d", "diff":
			f.showDiffPreview(issue)
		case "?", "help":
			fmt.Fprint(f.Out, interactiveHelp, "\n")
		case "":
			return ActionSkip
		default:
			fmt.Fprintln(f.Out, color.RedString("Unknown option: %s", scanner.Text()))
		}
	}
}

// issueKey identifies an issue across fix sessions.
func issueKey(i *models.Issue) string {
	return fmt.Sprintf("%s:%d:%s", i.File, i.Line, i.Original)
}

func (f *InteractiveFixer) showDiffPreview(issue *models.Issue) {
	fix := issue.GetFix()
	if fix == nil {
		fmt.Fprintln(f.Out, color.RedString("No fix available"))
		return
	}

	fmt.Fprintln(f.Out)
	fmt.Fprintln(f.Out, color.New(color.Faint).Sprint("--- Original"))
	fmt.Fprintln(f.Out, color.RedString("- %s", fix.Original))
	fmt.Fprintln(f.Out, color.New(color.Faint).Sprint("+++ Fixed"))
	fmt.Fprintln(f.Out, color.GreenString("+ %s", fix.Replacement))
	fmt.Fprintln(f.Out)
}

func (f *InteractiveFixer) printSummary(session *Session) {
	accepted := session.AcceptedCount()
	skipped := session.SkippedCount()
	applied := session.AppliedCount()

	fmt.Fprintln(f.Out)
	fmt.Fprintln(f.Out, strings.Repeat("═", 40))
	fmt.Fprintln(f.Out, "Summary:")
	if applied > 0 {
		fmt.Fprintln(f.Out, color.GreenString("  ✓ %d fix(es) applied", applied))
	}
	if pending := accepted - applied; pending > 0 {
		fmt.Fprintln(f.Out, color.YellowString("  ○ %d fix(es) pending", pending))
	}
	if skipped > 0 {
		fmt.Fprintln(f.Out, color.New(color.Faint).Sprintf("  ○ %d issue(s) skipped", skipped))
	}
	fmt.Fprintln(f.Out, strings.Repeat("═", 40))
}
