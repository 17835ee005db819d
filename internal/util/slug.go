// Package util provides common utility functions.
package util

import (
	"regexp"
	"strings"
)

// Matches every maximal run of characters outside [a-z0-9].
var nonSlugRunRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s, replaces each run of characters outside [a-z0-9]
// with a single dash, and trims leading/trailing dashes.
//
// Examples:
//
//	"Mind-bending"    → "mind-bending"
//	"Sci-Fi & Horror" → "sci-fi-horror"
//	"Amélie"          → "am-lie"
//	"!!!"             → ""
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = nonSlugRunRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// JoinSlug joins non-empty segments with dashes.
// Empty segments are dropped so degenerate input never yields "-x" or "x--y".
func JoinSlug(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, "-")
}
