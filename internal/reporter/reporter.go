// Package reporter renders collected issues for humans.
package reporter

import "github.com/rchen/sitecheck/internal/models"

// Reporter presents issues to the user. It is a thin UI collaborator:
// it never mutates issues and has no influence on exit codes.
type Reporter interface {
	// Report renders all issues grouped by file, then a summary.
	Report(issues []models.Issue, root string)

	// ReportIssue renders a single issue standalone.
	ReportIssue(issue *models.Issue, root string)

	// ReportSummary renders the closing count line.
	ReportSummary(issues []models.Issue)
}
