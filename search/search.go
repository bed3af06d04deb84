// Package search matches snapshot records by approximate display name
package search

import (
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/sig-0/exilian/storage/types"
)

// Matches reports whether the name approximately matches the query:
// every query rune appears in the name, in order, ignoring case.
// An empty query matches every name
func Matches(query, name string) bool {
	if query == "" {
		return true
	}

	return fuzzy.RankMatchFold(query, name) >= 0
}

// Search returns the records whose display name matches the query,
// in their original order
func Search[R types.Record](s types.Snapshot[R], query string) []R {
	matches := make([]R, 0, len(s.Lines))

	for _, line := range s.Lines {
		if Matches(query, line.DisplayName()) {
			matches = append(matches, line)
		}
	}

	return matches
}

// FindExact returns the first record whose display name equals name
func FindExact[R types.Record](s types.Snapshot[R], name string) (R, bool) {
	for _, line := range s.Lines {
		if line.DisplayName() == name {
			return line, true
		}
	}

	var zero R

	return zero, false
}
