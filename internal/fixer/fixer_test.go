package fixer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rchen/sitecheck/internal/models"
)

func TestFixable(t *testing.T) {
	issues := []models.Issue{
		{File: "a.md", Original: "x.png", Suggestion: "y.png"},
		{File: "b.md", Original: "z.png"},
		{File: "c.md", Original: "w.png", Suggestion: "v.png"},
	}

	fixable := Fixable(issues)
	require.Len(t, fixable, 2)
	assert.Equal(t, "a.md", fixable[0].File)
	assert.Equal(t, "c.md", fixable[1].File)
}

func TestSessionCounts(t *testing.T) {
	s := NewSession()
	assert.Len(t, s.ID, 8)
	assert.False(t, s.StartedAt.IsZero())

	s.Results = []Result{
		{Action: ActionAccept, Applied: true},
		{Action: ActionAccept},
		{Action: ActionSkip},
	}
	s.Complete()

	assert.Equal(t, 2, s.AcceptedCount())
	assert.Equal(t, 1, s.SkippedCount())
	assert.Equal(t, 1, s.AppliedCount())
	assert.False(t, s.CompletedAt.IsZero())
}

func TestResultWasFixed(t *testing.T) {
	assert.True(t, (&Result{Action: ActionAccept, Applied: true}).WasFixed())
	assert.False(t, (&Result{Action: ActionAccept}).WasFixed())
	assert.False(t, (&Result{Action: ActionSkip, Applied: true}).WasFixed())
}
