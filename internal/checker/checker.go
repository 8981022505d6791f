package checker

import "github.com/rchen/sitecheck/internal/models"

// Checker inspects one file's content and reports issues.
type Checker interface {
	// Name identifies the checker in configuration and issue records.
	Name() string

	// Description is a one-line human summary.
	Description() string

	// Enabled reports whether the checker should run at all.
	Enabled() bool

	// SupportsFile reports whether the checker accepts this file type.
	SupportsFile(file string) bool

	// Check scans content and returns the issues found. Errors are
	// isolated per (file, checker) pair by the runner.
	Check(file, content string, ctx *Context) ([]models.Issue, error)
}
