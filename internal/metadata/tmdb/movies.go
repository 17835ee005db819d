package tmdb

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const maxSearchResults = 20

// SearchMovies searches TMDB by title, optionally narrowed to a release year (0 = any).
func (c *Client) SearchMovies(ctx context.Context, query string, year int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, wrapError("search", "", ErrBadRequest)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	c.logger.Debug("searching tmdb", "query", query, "year", year)

	body, err := c.get(ctx, "search", "/search/movie", params)
	if err != nil {
		return nil, wrapError("search", query, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("search", query, fmt.Errorf("parse response: %w", err))
	}

	results := make([]SearchResult, 0, min(len(resp.Results), maxSearchResults))
	for _, r := range resp.Results {
		if len(results) == maxSearchResults {
			break
		}
		results = append(results, SearchResult{
			TMDBID:      r.ID,
			Title:       r.Title,
			Overview:    r.Overview,
			ReleaseDate: r.ReleaseDate,
			PosterURL:   c.PosterURL(r.PosterPath),
		})
	}

	return results, nil
}

// GetMovie fetches full details, including credits, for a TMDB movie id.
func (c *Client) GetMovie(ctx context.Context, tmdbID int64) (*MovieDetails, error) {
	id := strconv.FormatInt(tmdbID, 10)

	params := url.Values{}
	params.Set("append_to_response", "credits")

	body, err := c.get(ctx, "movie", "/movie/"+id, params)
	if err != nil {
		return nil, wrapError("movie", id, err)
	}

	var raw rawMovie
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, wrapError("movie", id, fmt.Errorf("parse response: %w", err))
	}

	details := &MovieDetails{
		TMDBID:         raw.ID,
		Title:          raw.Title,
		Overview:       raw.Overview,
		ReleaseDate:    raw.ReleaseDate,
		PosterURL:      c.PosterURL(raw.PosterPath),
		Director:       directorOf(raw.Credits.Crew),
		RuntimeMinutes: raw.Runtime,
		Tagline:        raw.Tagline,
		IMDbID:         raw.IMDbID,
	}
	for _, g := range raw.Genres {
		details.Genres = append(details.Genres, g.Name)
	}

	return details, nil
}

// directorOf returns the first crew member credited as Director.
func directorOf(crew []rawCrew) string {
	for _, m := range crew {
		if m.Job == "Director" {
			return m.Name
		}
	}
	return ""
}
