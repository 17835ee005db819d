package tmdb

// SearchResult is one movie from a TMDB search.
type SearchResult struct {
	TMDBID      int64  `json:"tmdb_id"`
	Title       string `json:"title"`
	Overview    string `json:"overview,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	PosterURL   string `json:"poster_url,omitempty"`
}

// MovieDetails is the enrichment payload for one movie.
type MovieDetails struct {
	TMDBID         int64
	Title          string
	Overview       string
	ReleaseDate    string
	PosterURL      string
	Director       string
	Genres         []string
	RuntimeMinutes int
	Tagline        string
	IMDbID         string
}

// Raw API response types

type searchResponse struct {
	Page         int         `json:"page"`
	Results      []rawResult `json:"results"`
	TotalResults int         `json:"total_results"`
}

type rawResult struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Overview    string `json:"overview"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
}

type rawMovie struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Overview    string     `json:"overview"`
	ReleaseDate string     `json:"release_date"`
	PosterPath  string     `json:"poster_path"`
	Runtime     int        `json:"runtime"`
	Tagline     string     `json:"tagline"`
	IMDbID      string     `json:"imdb_id"`
	Genres      []rawGenre `json:"genres"`
	Credits     rawCredits `json:"credits"`
}

type rawGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type rawCredits struct {
	Crew []rawCrew `json:"crew"`
}

type rawCrew struct {
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}
