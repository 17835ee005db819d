package blog

import (
	"fmt"
	"strings"

	"github.com/reelnotes/reelnotes-server/internal/domain"
)

// defaultTitleSuffix is used when the post has no tags.
const defaultTitleSuffix = "Movie Review"

// GenerateTitle returns "{title} ({year}) - {tag names | Movie Review}".
func GenerateTitle(movie *domain.Movie, tags []*domain.Tag) string {
	suffix := defaultTitleSuffix
	if len(tags) > 0 {
		suffix = strings.Join(domain.TagNames(tags), ", ")
	}
	return fmt.Sprintf("%s (%s) - %s", movie.Title, movie.Year(), suffix)
}

// formatRuntime renders the article's runtime badge. The hour segment is
// omitted when zero ("45m"); zero minutes yields "" so the badge is left out.
// The detail page uses domain.FormatRuntime, which always shows hours.
func formatRuntime(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	h, m := minutes/60, minutes%60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
