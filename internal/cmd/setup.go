package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rchen/sitecheck/internal/config"
	"github.com/rchen/sitecheck/internal/logger"
	"github.com/rchen/sitecheck/internal/runner"
)

const configFileName = config.ConfigFileName

// loadConfig reads the --config flag and loads the configuration.
// Returns the config and the resolved project root.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, configDir, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.ResolveRoot(configDir), nil
}

// newRunner assembles a scan runner from the configuration.
func newRunner(cfg *config.Config, root string) (*runner.Runner, error) {
	r, err := runner.New(root, cfg.BuildResolver(root))
	if err != nil {
		return nil, err
	}
	r.Include = cfg.Include
	r.Exclude = cfg.Exclude
	r.Checkers = cfg.BuildCheckers()
	r.ContextLines = cfg.Output.ContextLines
	r.Log = logger.NewConsoleLogger(os.Stderr, cfg.LogLevel)
	return r, nil
}
