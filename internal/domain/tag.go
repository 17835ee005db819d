package domain

import (
	"regexp"
	"time"

	"github.com/reelnotes/reelnotes-server/internal/util"
)

// DefaultColor is assigned to tags and categories created without a color.
const DefaultColor = "#6366f1"

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidColor reports whether c is a #RRGGBB color.
func ValidColor(c string) bool {
	return hexColorRe.MatchString(c)
}

// Tag is a global, admin-curated label. Users apply tags to movies per
// (user, movie) pair through UserMovieTag.
type Tag struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Slug returns the tag-browse slug derived from the name.
func (t *Tag) Slug() string {
	return util.Slugify(t.Name)
}

// Touch updates the UpdatedAt timestamp.
func (t *Tag) Touch() {
	t.UpdatedAt = time.Now()
}

// Category is a global, admin-curated grouping. Same shape as Tag but
// rendered without a browse link.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (c *Category) Touch() {
	c.UpdatedAt = time.Now()
}

// UserMovieTag records that a user applied a tag to a movie.
// (UserID, MovieID, TagID) is unique.
type UserMovieTag struct {
	UserID    string    `json:"user_id"`
	MovieID   string    `json:"movie_id"`
	TagID     string    `json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

// UserMovieCategory records that a user filed a movie under a category.
// (UserID, MovieID, CategoryID) is unique.
type UserMovieCategory struct {
	UserID     string    `json:"user_id"`
	MovieID    string    `json:"movie_id"`
	CategoryID string    `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TagNames returns the names in order.
func TagNames(tags []*Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

// CategoryNames returns the names in order.
func CategoryNames(categories []*Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}
