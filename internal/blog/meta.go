package blog

import (
	"strings"
	"unicode/utf8"

	"github.com/reelnotes/reelnotes-server/internal/domain"
)

// Meta description budgets, in runes.
const (
	noteMinLen      = 20  // notes this short or shorter are not used
	noteExcerptLen  = 100 // note characters kept before "..."
	overviewExcerpt = 80  // overview characters kept
)

// SelectMetaDescription picks the SEO description for a post. The first
// matching source wins:
//
//  1. the user's note, if longer than 20 characters once trimmed
//  2. the movie overview
//  3. a templated sentence from title, director and taxonomy
//
// The result is capped at 160 characters after assembly.
func SelectMetaDescription(movie *domain.Movie, tags []*domain.Tag, categories []*domain.Category, note *domain.UserNote, fullName string) string {
	head := movie.Title + " (" + movie.Year() + ")"
	tagNames := domain.TagNames(tags)
	categoryNames := domain.CategoryNames(categories)

	var desc string
	switch text := note.Text(); {
	case utf8.RuneCountInString(text) > noteMinLen:
		var b strings.Builder
		b.WriteString(head)
		b.WriteString(": ")
		if len(categoryNames) > 0 {
			b.WriteString("[" + strings.Join(categoryNames, ", ") + "] ")
		}
		b.WriteString(truncateRunes(text, noteExcerptLen))
		if utf8.RuneCountInString(text) > noteExcerptLen {
			b.WriteString("...")
		}
		desc = b.String()

	case movie.Overview != "":
		desc = head + " -" + metaPhrase(tagNames, categoryNames) + " " + truncateRunes(movie.Overview, overviewExcerpt) + "..."

	default:
		desc = head
		if movie.Director != "" {
			desc += " directed by " + movie.Director
		}
		desc += "." + metaPhrase(tagNames, categoryNames) + " Curated by " + fullName + "."
	}

	return truncateRunes(desc, domain.MetaDescriptionMaxLen)
}

// metaPhrase renders " Category: a, b. Tags: c, d." with either part omitted
// when empty, or "" when both are.
func metaPhrase(tagNames, categoryNames []string) string {
	var parts []string
	if len(categoryNames) > 0 {
		parts = append(parts, "Category: "+strings.Join(categoryNames, ", ")+".")
	}
	if len(tagNames) > 0 {
		parts = append(parts, "Tags: "+strings.Join(tagNames, ", ")+".")
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}

// truncateRunes returns the first n runes of s.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
