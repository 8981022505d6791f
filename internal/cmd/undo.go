package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewUndoCommand creates and returns the undo subcommand
func NewUndoCommand() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "undo [patch]",
		Short: "Revert a previously applied fix session",
		Long: `Revert the changes recorded in a patch artifact.

Without arguments the most recent patch is reverted. Pass a patch file
name to revert a specific session, or --list to see saved patches.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUndo(cmd, args, list)
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List saved patches, newest first")

	return cmd
}

func runUndo(cmd *cobra.Command, args []string, list bool) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	patch := cfg.BuildPatchFixer()

	if list {
		patches := patch.ListPatches(root)
		if len(patches) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No patches found")
			return nil
		}
		for _, p := range patches {
			rel, err := filepath.Rel(root, p)
			if err != nil {
				rel = p
			}
			fmt.Fprintln(cmd.OutOrStdout(), filepath.ToSlash(rel))
		}
		return nil
	}

	var patchFile string
	if len(args) == 1 {
		patchFile = args[0]
		if !filepath.IsAbs(patchFile) {
			// Try the name as given, then inside the patch directory.
			if _, err := os.Stat(filepath.Join(root, patchFile)); err == nil {
				patchFile = filepath.Join(root, patchFile)
			} else {
				patchFile = filepath.Join(root, cfg.Fix.PatchDir, filepath.Base(patchFile))
			}
		}
		if _, err := os.Stat(patchFile); err != nil {
			return fmt.Errorf("patch not found: %s", args[0])
		}
	} else {
		latest, ok := patch.LatestPatch(root)
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "No patches found")
			return nil
		}
		patchFile = latest
	}

	if err := patch.Undo(patchFile, root); err != nil {
		return fmt.Errorf("failed to revert %s: %w", filepath.Base(patchFile), err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Patch reverted successfully"))

	fmt.Fprint(cmd.OutOrStdout(), "Delete patch file? [y/N]: ")
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if scanner.Scan() {
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if answer == "y" || answer == "yes" {
			if err := os.Remove(patchFile); err != nil {
				return fmt.Errorf("failed to delete patch: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Patch file deleted")
		}
	}
	return nil
}
