// Package runner orchestrates a scan: it collects files, dispatches
// enabled checkers, aggregates issues, and attaches surrounding-line
// context.
package runner

import (
	"fmt"
	"path/filepath"

	"github.com/rchen/sitecheck/internal/checker"
	"github.com/rchen/sitecheck/internal/fileutil"
	"github.com/rchen/sitecheck/internal/logger"
	"github.com/rchen/sitecheck/internal/models"
	"github.com/rchen/sitecheck/internal/resolver"
)

// Runner walks the configured file set and runs every enabled checker
// against each accepted file.
//
// Failure policy: a file that fails to read is skipped; a checker that
// fails on one file is skipped for that file only. Neither aborts the
// run.
type Runner struct {
	Root         string
	Include      []string
	Exclude      []string
	Checkers     []checker.Checker
	ContextLines int
	Log          *logger.ConsoleLogger

	ctx *checker.Context
}

// New creates a runner with the standard defaults: markdown files
// everywhere under root, three context lines.
func New(root string, res resolver.Resolver) (*Runner, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	return &Runner{
		Root:         abs,
		Include:      []string{"**/*.md"},
		ContextLines: 3,
		Log:          logger.NewConsoleLogger(nil, "info"),
		ctx:          checker.NewContext(abs, res),
	}, nil
}

// Context exposes the shared check context, so a fix run can reuse the
// same file cache and resolver.
func (r *Runner) Context() *checker.Context {
	return r.ctx
}

// Run scans the file set and returns all collected issues with context
// attached.
func (r *Runner) Run() ([]models.Issue, error) {
	files, err := fileutil.CollectFiles(r.Root, fileutil.ScanOptions{
		Include: r.Include,
		Exclude: r.Exclude,
	})
	if err != nil {
		return nil, err
	}
	r.Log.Debugf("scanning %d file(s)", len(files))

	var allIssues []models.Issue
	for _, file := range files {
		allIssues = append(allIssues, r.checkFile(file)...)
	}

	// Attach context after collection; checkers may have set their own.
	for i := range allIssues {
		issue := &allIssues[i]
		if issue.Context != nil {
			continue
		}
		ctx, err := r.ctx.ContextLines(issue.File, issue.Line, r.ContextLines, r.ContextLines)
		if err != nil {
			continue
		}
		issue.Context = ctx
	}

	return allIssues, nil
}

func (r *Runner) checkFile(file string) []models.Issue {
	content, err := r.ctx.ReadFile(file)
	if err != nil {
		r.Log.Debugf("skipping unreadable file %s: %v", file, err)
		return nil
	}

	var issues []models.Issue
	for _, c := range r.Checkers {
		if !c.Enabled() || !c.SupportsFile(file) {
			continue
		}
		found, err := r.runChecker(c, file, content)
		if err != nil {
			r.Log.Debugf("checker %s failed on %s: %v", c.Name(), file, err)
			continue
		}
		issues = append(issues, found...)
	}
	return issues
}

// runChecker isolates one (file, checker) pair: errors and panics are
// contained so the remaining checkers and files continue.
func (r *Runner) runChecker(c checker.Checker, file, content string) (issues []models.Issue, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			issues = nil
			err = fmt.Errorf("checker panicked: %v", rec)
		}
	}()
	return c.Check(file, content, r.ctx)
}
