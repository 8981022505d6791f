package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rchen/sitecheck/internal/fixer"
)

// NewFixCommand creates and returns the fix subcommand
func NewFixCommand() *cobra.Command {
	var (
		all    bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Apply suggested fixes to broken references",
		Long: `Scan the document tree and fix issues that carry a suggestion.

By default each fix is confirmed interactively. With --all every
suggested fix is applied in one batch. Either way the applied changes
are recorded as a patch artifact that 'sitecheck undo' can revert.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, all, dryRun)
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Apply all fixes without prompting")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would change without writing")

	return cmd
}

func runFix(cmd *cobra.Command, all, dryRun bool) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Fix.DryRun {
		dryRun = true
	}

	r, err := newRunner(cfg, root)
	if err != nil {
		return err
	}

	issues, err := r.Run()
	if err != nil {
		return err
	}

	fixable := fixer.Fixable(issues)
	if len(fixable) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ No fixable issues found"))
		return nil
	}

	patch := cfg.BuildPatchFixer()

	if all {
		session, err := patch.Fix(fixable, root, dryRun)
		if err != nil {
			return err
		}
		if dryRun {
			fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("[DRY RUN] No changes made"))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d fix(es) applied, %d skipped\n",
			session.AppliedCount(), session.SkippedCount())
		return nil
	}

	interactive := fixer.NewInteractiveFixer(cfg.BuildReporter(cmd.OutOrStdout()), patch)
	interactive.In = cmd.InOrStdin()
	interactive.Out = cmd.OutOrStdout()
	_, err = interactive.Fix(fixable, root, dryRun)
	return err
}
