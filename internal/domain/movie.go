package domain

import (
	"fmt"
	"strings"
	"time"
)

// UnknownYear is the year label used when a movie has no release date.
const UnknownYear = "unknown"

// Movie is a catalog entry. Catalog rows are shared by all users; personal
// data (tags, categories, notes) hangs off (user, movie) pairs.
type Movie struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Overview       string     `json:"overview,omitempty"`
	ReleaseDate    string     `json:"release_date,omitempty"` // YYYY-MM-DD, may be just YYYY
	PosterURL      string     `json:"poster_url,omitempty"`
	PosterBlurHash string     `json:"poster_blur_hash,omitempty"`
	Director       string     `json:"director,omitempty"`
	Genre          string     `json:"genre,omitempty"`
	RuntimeMinutes int        `json:"runtime_minutes,omitempty"`
	Tagline        string     `json:"tagline,omitempty"`
	TMDBID         *int64     `json:"tmdb_id,omitempty"`
	IMDbID         string     `json:"imdb_id,omitempty"`
	EnrichedAt     *time.Time `json:"enriched_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Year returns the four-digit release year, or "unknown".
func (m *Movie) Year() string {
	if len(m.ReleaseDate) >= 4 {
		return m.ReleaseDate[:4]
	}
	return UnknownYear
}

// IsEnriched reports whether provider metadata has been merged in.
func (m *Movie) IsEnriched() bool {
	return m.EnrichedAt != nil
}

// Touch updates the UpdatedAt timestamp.
func (m *Movie) Touch() {
	m.UpdatedAt = time.Now()
}

// RuntimeLabel is the runtime as shown on the movie detail page.
func (m *Movie) RuntimeLabel() string {
	return FormatRuntime(m.RuntimeMinutes)
}

// FormatRuntime renders minutes as "{h}h {m}m" for the detail page.
// The hour segment is always present ("0h 45m"); zero minutes yields "".
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// MovieFilter narrows a catalog listing.
type MovieFilter struct {
	Genre string
}

// Normalized trims the filter values.
func (f MovieFilter) Normalized() MovieFilter {
	return MovieFilter{Genre: strings.TrimSpace(f.Genre)}
}
