// Package similarity provides fuzzy string matching for suggestion
// ranking. It is built on the difflib sequence matcher so that match
// quality is the familiar 2*M/T ratio over character sequences.
package similarity

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns the similarity of two strings in [0, 1].
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

// ClosestMatches returns up to n candidates whose similarity to target
// meets cutoff, ordered by descending similarity. Candidates with equal
// similarity keep their input order.
func ClosestMatches(target string, candidates []string, n int, cutoff float64) []string {
	type scored struct {
		name  string
		ratio float64
	}

	matches := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if r := Ratio(target, c); r >= cutoff {
			matches = append(matches, scored{name: c, ratio: r})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].ratio > matches[j].ratio
	})

	if n > 0 && len(matches) > n {
		matches = matches[:n]
	}

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.name
	}
	return names
}
