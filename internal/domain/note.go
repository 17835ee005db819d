package domain

import (
	"strings"
	"time"
)

// UserNote is a personal free-text annotation on a movie.
type UserNote struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MovieID   string    `json:"movie_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Text returns the trimmed note content. A nil note has no text.
func (n *UserNote) Text() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Content)
}

// Personalization is everything one user attached to one movie.
type Personalization struct {
	Tags       []*Tag      `json:"tags"`
	Categories []*Category `json:"categories"`
	Note       *UserNote   `json:"note,omitempty"`
}

// IsEmpty reports whether nothing is attached.
func (p *Personalization) IsEmpty() bool {
	return len(p.Tags) == 0 && len(p.Categories) == 0 && p.Note.Text() == ""
}
