// Package blog turns a user's personalization of a movie into an SEO blog post.
package blog

import (
	"errors"

	"github.com/reelnotes/reelnotes-server/internal/domain"
)

// Input is a snapshot of everything a post is composed from.
type Input struct {
	Movie      *domain.Movie
	Tags       []*domain.Tag
	Categories []*domain.Category
	Note       *domain.UserNote
	Author     *domain.Profile
}

// Composed is the deterministic output of Compose.
type Composed struct {
	Slug            string
	Title           string
	Content         string
	MetaDescription string
}

// Compose derives slug, title, meta description and HTML content.
// Identical inputs always produce identical output.
func Compose(in Input) (*Composed, error) {
	if in.Movie == nil {
		return nil, errors.New("compose: movie is required")
	}
	if in.Author == nil {
		return nil, errors.New("compose: author is required")
	}

	userName := in.Author.DisplayUsername()
	fullName := in.Author.DisplayName()

	content, err := AssembleContent(ContentInput{
		Movie:      in.Movie,
		Tags:       in.Tags,
		Categories: in.Categories,
		Note:       in.Note,
		UserName:   userName,
		FullName:   fullName,
		Links:      GenerateExternalLinks(in.Movie.TMDBID, in.Movie.IMDbID),
	})
	if err != nil {
		return nil, err
	}

	return &Composed{
		Slug:            GenerateSlug(in.Movie.Title, in.Movie.Year(), userName),
		Title:           GenerateTitle(in.Movie, in.Tags),
		Content:         content,
		MetaDescription: SelectMetaDescription(in.Movie, in.Tags, in.Categories, in.Note, fullName),
	}, nil
}
