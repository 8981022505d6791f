package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rchen/sitecheck/internal/checker"
	"github.com/rchen/sitecheck/internal/display"
	"github.com/rchen/sitecheck/internal/models"
)

// NewCheckCommand creates and returns the check subcommand
func NewCheckCommand() *cobra.Command {
	var (
		includes     []string
		excludes     []string
		onlyCheckers []string
		jsonOutput   bool
		quiet        bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Scan the document tree for broken references",
		Long: `Scan files matching the configured include patterns and report
every broken asset reference found.

Exit code: 1 if any error-severity issue is found, else 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, includes, excludes, onlyCheckers, jsonOutput, quiet)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringArrayVarP(&includes, "include", "I", nil, "Additional glob patterns to include")
	cmd.Flags().StringArrayVarP(&excludes, "exclude", "E", nil, "Additional glob patterns to exclude")
	cmd.Flags().StringArrayVar(&onlyCheckers, "checker", nil, "Only run specified checker(s)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only show summary")

	return cmd
}

func runCheck(cmd *cobra.Command, includes, excludes, onlyCheckers []string, jsonOutput, quiet bool) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	r, err := newRunner(cfg, root)
	if err != nil {
		return err
	}
	r.Include = append(r.Include, includes...)
	r.Exclude = append(r.Exclude, excludes...)
	if len(onlyCheckers) > 0 {
		r.Checkers = filterCheckers(r.Checkers, onlyCheckers)
		if len(r.Checkers) == 0 {
			display.Warning{
				Title:      "No configured checker matches the --checker selection",
				Suggestion: "Run 'sitecheck list' to see available checkers",
			}.Display(os.Stderr)
		}
	}

	issues, err := r.Run()
	if err != nil {
		return err
	}

	switch {
	case jsonOutput:
		if err := printJSON(cmd.OutOrStdout(), issues, root); err != nil {
			return err
		}
	case quiet:
		cfg.BuildReporter(cmd.OutOrStdout()).ReportSummary(issues)
	default:
		cfg.BuildReporter(cmd.OutOrStdout()).Report(issues, root)
	}

	errorCount := 0
	for i := range issues {
		if issues[i].Severity == models.SeverityError {
			errorCount++
		}
	}
	if errorCount > 0 {
		return fmt.Errorf("found %d error(s)", errorCount)
	}
	return nil
}

func filterCheckers(checkers []checker.Checker, names []string) []checker.Checker {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var out []checker.Checker
	for _, c := range checkers {
		if wanted[c.Name()] {
			out = append(out, c)
		}
	}
	return out
}

// jsonIssue is the machine-readable issue shape.
type jsonIssue struct {
	File       string `json:"file"`
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	Type       string `json:"type"`
	Message    string `json:"message"`
	Severity   string `json:"severity"`
	Suggestion string `json:"suggestion,omitempty"`
	Checker    string `json:"checker"`
}

func printJSON(out io.Writer, issues []models.Issue, root string) error {
	output := make([]jsonIssue, 0, len(issues))
	for i := range issues {
		issue := &issues[i]
		output = append(output, jsonIssue{
			File:       issue.RelFile(root),
			Line:       issue.Line,
			Column:     issue.Column,
			Type:       issue.Type,
			Message:    issue.Message,
			Severity:   string(issue.Severity),
			Suggestion: issue.Suggestion,
			Checker:    issue.Checker,
		})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
