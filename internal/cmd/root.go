package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for sitecheck
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitecheck",
		Short: "Content linter for static-site document trees",
		Long: `Sitecheck scans text documents for broken asset references
(Markdown images, HTML media tags), reports them with contextual
diagnostics, and offers a reversible patch-based auto-fix workflow.

Path resolution is pluggable per site layout; fixes are recorded as
unified-diff patch artifacts that can be undone.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to config file (default: search for "+configFileName+")")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(NewCheckCommand())
	cmd.AddCommand(NewFixCommand())
	cmd.AddCommand(NewUndoCommand())
	cmd.AddCommand(NewListCommand())

	return cmd
}
