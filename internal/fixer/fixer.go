// Package fixer turns accepted issues into file mutations recorded as
// undoable patch artifacts.
package fixer

import (
	"time"

	"github.com/google/uuid"

	"github.com/rchen/sitecheck/internal/models"
)

// Action is the per-issue decision taken during a fix run.
type Action string

const (
	ActionAccept    Action = "accept"
	ActionSkip      Action = "skip"
	ActionAcceptAll Action = "accept_all"
	ActionQuit      Action = "quit"
)

// Result records the outcome for one issue in a fix session.
type Result struct {
	Issue   models.Issue
	Action  Action
	Fix     *models.Fix
	Applied bool
	Err     string
}

// WasFixed reports whether this issue's fix was actually applied.
func (r *Result) WasFixed() bool {
	return r.Applied && r.Action == ActionAccept
}

// Session groups the ordered outcomes of one fix run. Immutable once
// Complete has been called.
type Session struct {
	ID          string
	Results     []Result
	StartedAt   time.Time
	CompletedAt time.Time
}

// NewSession creates a session with a fresh identifier.
func NewSession() *Session {
	return &Session{
		ID:        uuid.NewString()[:8],
		StartedAt: time.Now(),
	}
}

// Complete stamps the session as finished.
func (s *Session) Complete() {
	s.CompletedAt = time.Now()
}

// AcceptedCount counts results the user accepted.
func (s *Session) AcceptedCount() int {
	n := 0
	for i := range s.Results {
		if s.Results[i].Action == ActionAccept {
			n++
		}
	}
	return n
}

// SkippedCount counts results the user skipped.
func (s *Session) SkippedCount() int {
	n := 0
	for i := range s.Results {
		if s.Results[i].Action == ActionSkip {
			n++
		}
	}
	return n
}

// AppliedCount counts fixes that made it to disk.
func (s *Session) AppliedCount() int {
	n := 0
	for i := range s.Results {
		if s.Results[i].Applied {
			n++
		}
	}
	return n
}

// Fixer applies fixes for a list of issues under a project root. In
// dry-run mode everything is computed but nothing is written.
type Fixer interface {
	Name() string
	Description() string
	Fix(issues []models.Issue, root string, dryRun bool) (*Session, error)
}

// Fixable filters the issues that carry a suggestion.
func Fixable(issues []models.Issue) []models.Issue {
	var out []models.Issue
	for _, issue := range issues {
		if issue.HasSuggestion() {
			out = append(out, issue)
		}
	}
	return out
}
