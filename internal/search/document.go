// Package search provides full-text search over catalog movies and public
// blog posts using Bleve.
package search

import (
	"strconv"

	"github.com/reelnotes/reelnotes-server/internal/domain"
)

// DocType represents the type of document in the unified index.
type DocType string

// Document types for the search index.
const (
	DocTypeMovie DocType = "movie"
	DocTypePost  DocType = "post"
)

// SearchDocument is the unified document stored in the index.
// Post documents carry the movie's title, director and genre so a single
// query finds reviews by the film they are about.
type SearchDocument struct {
	EntityID string  // movie or post id
	Type     DocType // discriminator

	Title      string
	Slug       string // posts only
	MovieID    string // posts only
	Overview   string
	Director   string
	Genre      string
	Tags       []string
	Categories []string
	Body       string // plain text of the post article
	Year       int

	UpdatedAt int64 // Unix millis
}

// DocID is the index key. Movie and post ids share a namespace in the index,
// so the type is part of the key.
func DocID(t DocType, entityID string) string {
	return string(t) + ":" + entityID
}

// ID returns the index key of the document.
func (d *SearchDocument) ID() string {
	return DocID(d.Type, d.EntityID)
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *SearchDocument) ToMap() map[string]any {
	m := map[string]any{
		"entity_id":  d.EntityID,
		"type":       string(d.Type),
		"title":      d.Title,
		"updated_at": d.UpdatedAt,
	}

	if d.Slug != "" {
		m["slug"] = d.Slug
	}
	if d.MovieID != "" {
		m["movie_id"] = d.MovieID
	}
	if d.Overview != "" {
		m["overview"] = d.Overview
	}
	if d.Director != "" {
		m["director"] = d.Director
	}
	if d.Genre != "" {
		m["genre"] = d.Genre
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if len(d.Categories) > 0 {
		m["categories"] = d.Categories
	}
	if d.Body != "" {
		m["body"] = d.Body
	}
	if d.Year > 0 {
		m["year"] = d.Year
	}

	return m
}

// MovieDocument builds the index document for a catalog movie.
func MovieDocument(m *domain.Movie) *SearchDocument {
	return &SearchDocument{
		EntityID:  m.ID,
		Type:      DocTypeMovie,
		Title:     m.Title,
		Overview:  m.Overview,
		Director:  m.Director,
		Genre:     m.Genre,
		Year:      parseYear(m),
		UpdatedAt: m.UpdatedAt.UnixMilli(),
	}
}

// PostDocument builds the index document for a blog post about movie.
func PostDocument(p *domain.BlogPost, movie *domain.Movie, tags []*domain.Tag, categories []*domain.Category) *SearchDocument {
	return &SearchDocument{
		EntityID:   p.ID,
		Type:       DocTypePost,
		Title:      p.Title,
		Slug:       p.Slug,
		MovieID:    p.MovieID,
		Overview:   p.MetaDescription,
		Director:   movie.Director,
		Genre:      movie.Genre,
		Tags:       domain.TagNames(tags),
		Categories: domain.CategoryNames(categories),
		Body:       PlainText(p.Content),
		Year:       parseYear(movie),
		UpdatedAt:  p.UpdatedAt.UnixMilli(),
	}
}

func parseYear(m *domain.Movie) int {
	y, err := strconv.Atoi(m.Year())
	if err != nil {
		return 0
	}
	return y
}
