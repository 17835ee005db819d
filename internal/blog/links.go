package blog

import (
	"strconv"
	"strings"
)

// Link base URLs.
const (
	tmdbMovieBaseURL  = "https://www.themoviedb.org/movie/"
	imdbTitleBaseURL  = "https://www.imdb.com/title/"
	metacriticBaseURL = "https://www.metacritic.com/movie/"
)

// ExternalLinks holds third-party pages for a movie. A nil field means no link.
type ExternalLinks struct {
	TMDB           *string `json:"tmdb"`
	IMDb           *string `json:"imdb"`
	Metacritic     *string `json:"metacritic"`
	RottenTomatoes *string `json:"rotten_tomatoes"` // always nil: no id-based URL scheme exists
}

// Link is one rendered external link.
type Link struct {
	Label string
	URL   string
}

// GenerateExternalLinks builds links from the provider identifiers.
//
// The Metacritic URL substitutes the IMDb id without its "tt" prefix. Metacritic
// does not key pages by IMDb id, so this link is a guess that usually 404s.
func GenerateExternalLinks(tmdbID *int64, imdbID string) ExternalLinks {
	var links ExternalLinks

	if tmdbID != nil {
		u := tmdbMovieBaseURL + strconv.FormatInt(*tmdbID, 10)
		links.TMDB = &u
	}
	if imdbID != "" {
		u := imdbTitleBaseURL + imdbID
		links.IMDb = &u

		mc := metacriticBaseURL + strings.TrimPrefix(imdbID, "tt")
		links.Metacritic = &mc
	}

	return links
}

// Entries lists the present links in display order: TMDB, IMDb, Metacritic.
func (l ExternalLinks) Entries() []Link {
	var out []Link
	add := func(label string, u *string) {
		if u != nil {
			out = append(out, Link{Label: label, URL: *u})
		}
	}
	add("The Movie Database", l.TMDB)
	add("IMDb", l.IMDb)
	add("Metacritic", l.Metacritic)
	add("Rotten Tomatoes", l.RottenTomatoes)
	return out
}
