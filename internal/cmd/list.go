package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rchen/sitecheck/internal/checker"
	"github.com/rchen/sitecheck/internal/resolver"
)

// NewListCommand creates and returns the list subcommand
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available checkers and resolvers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd)
		},
		SilenceUsage: true,
	}
}

func runList(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	checkers := []checker.Checker{
		checker.NewImageChecker(),
	}
	resolvers := []resolver.Resolver{
		resolver.NewDefaultResolver("."),
		resolver.NewHexoResolver("."),
	}

	fmt.Fprintln(out, color.New(color.Bold).Sprint("Available checkers:"))
	for _, c := range checkers {
		fmt.Fprintf(out, "  %-10s %s\n", color.CyanString(c.Name()), c.Description())
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, color.New(color.Bold).Sprint("Available resolvers:"))
	for _, r := range resolvers {
		fmt.Fprintf(out, "  %-10s %s\n", color.CyanString(r.Name()), r.Description())
	}
	return nil
}
