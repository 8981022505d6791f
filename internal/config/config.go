// Package config loads and validates sitecheck configuration and
// assembles the active component set from it.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rchen/sitecheck/internal/checker"
	"github.com/rchen/sitecheck/internal/fixer"
	"github.com/rchen/sitecheck/internal/reporter"
	"github.com/rchen/sitecheck/internal/resolver"
)

// ConfigFileName is searched for upward from the working directory.
const ConfigFileName = ".sitecheck.yaml"

// ResolverConfig selects and parameterizes the path resolver.
type ResolverConfig struct {
	// Name is "default" or "hexo".
	Name string `yaml:"name"`

	// PostDirs are the top-level directories whose documents count as
	// posts (hexo resolver).
	PostDirs []string `yaml:"post_dirs"`

	// AssetFolderPerPost enables the sibling asset folder convention
	// (hexo resolver).
	AssetFolderPerPost bool `yaml:"asset_folder_per_post"`

	// Pages lists plain page directories (hexo resolver).
	Pages []string `yaml:"pages"`
}

// ImageCheckerConfig parameterizes the image checker.
type ImageCheckerConfig struct {
	Enabled          bool    `yaml:"enabled"`
	IgnoreExternal   bool    `yaml:"ignore_external"`
	FuzzyThreshold   float64 `yaml:"fuzzy_threshold"`
	SkipCodeBlocks   bool    `yaml:"skip_code_blocks"`
	SkipInlineCode   bool    `yaml:"skip_inline_code"`
	CheckHTMLImg     bool    `yaml:"check_html_img"`
	CheckVideoPoster bool    `yaml:"check_video_poster"`
}

// CheckersConfig holds per-checker settings.
type CheckersConfig struct {
	Image ImageCheckerConfig `yaml:"image"`
}

// OutputConfig controls reporting.
type OutputConfig struct {
	ContextLines    int    `yaml:"context_lines"`
	ShowSuggestions bool   `yaml:"show_suggestions"`
	Color           string `yaml:"color"` // auto | always | never
	Theme           string `yaml:"theme"` // default | light
}

// FixConfig controls the fix workflow.
type FixConfig struct {
	PatchDir string `yaml:"patch_dir"`
	DryRun   bool   `yaml:"dry_run"`
}

// Config is the full sitecheck configuration.
type Config struct {
	// Root is the project root, relative to the config file location.
	Root string `yaml:"root"`

	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	Resolver ResolverConfig `yaml:"resolver"`
	Checkers CheckersConfig `yaml:"checkers"`
	Output   OutputConfig   `yaml:"output"`
	Fix      FixConfig      `yaml:"fix"`

	// LogLevel sets verbosity for diagnostics (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Root:    ".",
		Include: []string{"**/*.md"},
		Resolver: ResolverConfig{
			Name:               "default",
			PostDirs:           []string{"_posts"},
			AssetFolderPerPost: true,
		},
		Checkers: CheckersConfig{
			Image: ImageCheckerConfig{
				Enabled:          true,
				IgnoreExternal:   true,
				FuzzyThreshold:   0.6,
				SkipCodeBlocks:   true,
				SkipInlineCode:   true,
				CheckHTMLImg:     true,
				CheckVideoPoster: true,
			},
		},
		Output: OutputConfig{
			ContextLines:    3,
			ShowSuggestions: true,
			Color:           "auto",
			Theme:           "default",
		},
		Fix: FixConfig{
			PatchDir: fixer.DefaultPatchDir,
		},
		LogLevel: "info",
	}
}

// LoadConfig loads configuration from path. A missing file yields the
// defaults without error; a malformed file is a fatal config error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Reason: "read failed", Err: err}
	}
	// Unmarshal over the defaults: absent keys keep their default
	// values, present keys override them.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &Error{Path: path, Reason: "parse failed", Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile walks upward from dir looking for the config file.
// The second return is false when no config file exists.
func FindConfigFile(dir string) (string, bool) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(current, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// Load locates and loads the configuration. An explicit path must
// exist; otherwise the file is searched upward from the working
// directory, falling back to defaults.
//
// The second return is the directory the relative Root resolves
// against.
func Load(explicitPath string) (*Config, string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return nil, "", &Error{Path: explicitPath, Reason: "not found", Err: err}
		}
		cfg, err := LoadConfig(explicitPath)
		if err != nil {
			return nil, "", err
		}
		abs, _ := filepath.Abs(explicitPath)
		return cfg, filepath.Dir(abs), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to determine working directory: %w", err)
	}

	path, found := FindConfigFile(cwd)
	if !found {
		return DefaultConfig(), cwd, nil
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, filepath.Dir(path), nil
}

// ResolveRoot returns the absolute project root given the directory the
// configuration was loaded from.
func (c *Config) ResolveRoot(configDir string) string {
	if filepath.IsAbs(c.Root) {
		return filepath.Clean(c.Root)
	}
	root, err := filepath.Abs(filepath.Join(configDir, c.Root))
	if err != nil {
		return filepath.Join(configDir, c.Root)
	}
	return root
}

// Validate checks field values, returning a structured config error on
// the first violation.
func (c *Config) Validate() error {
	switch c.Resolver.Name {
	case "default", "hexo":
	default:
		return &Error{Field: "resolver.name", Value: c.Resolver.Name, Expected: "default or hexo"}
	}

	t := c.Checkers.Image.FuzzyThreshold
	if t < 0 || t > 1 {
		return &Error{Field: "checkers.image.fuzzy_threshold", Value: fmt.Sprintf("%v", t), Expected: "a value in [0, 1]"}
	}

	if c.Output.ContextLines < 0 {
		return &Error{Field: "output.context_lines", Value: fmt.Sprintf("%d", c.Output.ContextLines), Expected: "a value >= 0"}
	}

	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return &Error{Field: "output.color", Value: c.Output.Color, Expected: "auto, always or never"}
	}

	switch c.Output.Theme {
	case "default", "light":
	default:
		return &Error{Field: "output.theme", Value: c.Output.Theme, Expected: "default or light"}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &Error{Field: "log_level", Value: c.LogLevel, Expected: "debug, info, warn or error"}
	}

	if c.Fix.PatchDir == "" {
		return &Error{Field: "fix.patch_dir", Value: "", Expected: "a non-empty directory"}
	}

	return nil
}

// BuildResolver assembles the configured resolver for a project root.
func (c *Config) BuildResolver(root string) resolver.Resolver {
	switch c.Resolver.Name {
	case "hexo":
		r := resolver.NewHexoResolver(root)
		if len(c.Resolver.PostDirs) > 0 {
			r.PostDirs = c.Resolver.PostDirs
		}
		r.AssetFolderPerPost = c.Resolver.AssetFolderPerPost
		r.Pages = c.Resolver.Pages
		return r
	default:
		return resolver.NewDefaultResolver(root)
	}
}

// BuildCheckers assembles the configured checker set.
func (c *Config) BuildCheckers() []checker.Checker {
	img := checker.NewImageChecker()
	img.Disabled = !c.Checkers.Image.Enabled
	img.IgnoreExternal = c.Checkers.Image.IgnoreExternal
	img.FuzzyThreshold = c.Checkers.Image.FuzzyThreshold
	img.SkipCodeBlocks = c.Checkers.Image.SkipCodeBlocks
	img.SkipInlineCode = c.Checkers.Image.SkipInlineCode
	img.CheckHTMLImg = c.Checkers.Image.CheckHTMLImg
	img.CheckVideoPoster = c.Checkers.Image.CheckVideoPoster

	return []checker.Checker{img}
}

// BuildReporter assembles the configured console reporter writing to
// out.
func (c *Config) BuildReporter(out io.Writer) *reporter.ConsoleReporter {
	theme := reporter.DefaultTheme()
	if c.Output.Theme == "light" {
		theme = reporter.LightTheme()
	}

	rep := reporter.NewConsoleReporter(out, reporter.ColorMode(c.Output.Color), theme)
	rep.ShowSuggestions = c.Output.ShowSuggestions
	return rep
}

// BuildPatchFixer assembles the patch fixer with the configured
// artifact directory.
func (c *Config) BuildPatchFixer() *fixer.PatchFixer {
	f := fixer.NewPatchFixer()
	f.PatchDir = c.Fix.PatchDir
	f.ContextLines = c.Output.ContextLines
	return f
}
