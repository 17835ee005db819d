// Package normalize provides utilities for normalizing and sanitizing data.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Name cleans a user-supplied display name: NFC composition, null bytes
// dropped, inner whitespace collapsed, ends trimmed.
// "  Mind  bending " → "Mind bending".
func Name(raw string) string {
	s := norm.NFC.String(sanitizeString(raw))
	return strings.Join(strings.Fields(s), " ")
}

// Key returns the identity key for a tag or category name. Two names with
// the same key are duplicates: "Sci-Fi", "sci-fi" and " SCI-FI " collide,
// and so do the composed and decomposed spellings of "Amélie".
func Key(raw string) string {
	return cases.Fold().String(Name(raw))
}

// Genres joins provider genre names into the single comma-separated genre
// field stored on a movie, keeping first-seen order and dropping duplicates.
func Genres(names []string) string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = Name(n)
		if n == "" {
			continue
		}
		k := Key(n)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, n)
	}
	return strings.Join(out, ", ")
}

// sanitizeString removes null bytes from strings, which can cause
// issues in databases and JSON parsing.
func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s)
}
