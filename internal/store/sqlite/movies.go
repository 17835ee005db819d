package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/reelnotes/reelnotes-server/internal/domain"
	"github.com/reelnotes/reelnotes-server/internal/store"
)

// movieColumns is the ordered list of columns selected in movie queries.
// Must match the scan order in scanMovie.
const movieColumns = `id, title, overview, release_date, poster_url, poster_blurhash,
	director, genre, runtime_minutes, tagline, tmdb_id, imdb_id, enriched_at,
	created_at, updated_at`

// scanMovie scans a sql.Row (or sql.Rows via its Scan method) into a domain.Movie.
func scanMovie(scanner interface{ Scan(dest ...any) error }) (*domain.Movie, error) {
	var m domain.Movie

	var (
		tmdbID     sql.NullInt64
		imdbID     sql.NullString
		enrichedAt sql.NullString
		createdAt  string
		updatedAt  string
	)

	err := scanner.Scan(
		&m.ID,
		&m.Title,
		&m.Overview,
		&m.ReleaseDate,
		&m.PosterURL,
		&m.PosterBlurHash,
		&m.Director,
		&m.Genre,
		&m.RuntimeMinutes,
		&m.Tagline,
		&tmdbID,
		&imdbID,
		&enrichedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if tmdbID.Valid {
		v := tmdbID.Int64
		m.TMDBID = &v
	}
	m.IMDbID = imdbID.String

	m.EnrichedAt, err = parseNullableTime(enrichedAt)
	if err != nil {
		return nil, err
	}
	m.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	m.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func scanMovies(rows *sql.Rows) ([]*domain.Movie, error) {
	defer rows.Close()

	movies := []*domain.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// CreateMovie inserts a new movie.
// Returns store.ErrAlreadyExists when the TMDB id is already cataloged.
func (s *Store) CreateMovie(ctx context.Context, m *domain.Movie) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO movies (`+movieColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.Title,
		m.Overview,
		m.ReleaseDate,
		m.PosterURL,
		m.PosterBlurHash,
		m.Director,
		m.Genre,
		m.RuntimeMinutes,
		m.Tagline,
		nullInt64Ptr(m.TMDBID),
		nullString(m.IMDbID),
		nullTimeString(m.EnrichedAt),
		formatTime(m.CreatedAt),
		formatTime(m.UpdatedAt),
	)
	return classify("create movie", err)
}

// GetMovie retrieves a movie by ID.
func (s *Store) GetMovie(ctx context.Context, id string) (*domain.Movie, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE id = ?`, id)

	m, err := scanMovie(row)
	if err != nil {
		return nil, classify("get movie", err)
	}
	return m, nil
}

// GetMovieByTMDBID retrieves a movie by its provider id.
func (s *Store) GetMovieByTMDBID(ctx context.Context, tmdbID int64) (*domain.Movie, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE tmdb_id = ?`, tmdbID)

	m, err := scanMovie(row)
	if err != nil {
		return nil, classify("get movie by tmdb id", err)
	}
	return m, nil
}

// GetMoviesByTMDBIDs returns the cataloged movies among tmdbIDs, keyed by TMDB id.
func (s *Store) GetMoviesByTMDBIDs(ctx context.Context, tmdbIDs []int64) (map[int64]*domain.Movie, error) {
	result := make(map[int64]*domain.Movie, len(tmdbIDs))
	if len(tmdbIDs) == 0 {
		return result, nil
	}

	args := make([]any, len(tmdbIDs))
	for i, v := range tmdbIDs {
		args[i] = v
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE tmdb_id IN (`+placeholders(len(args))+`)`, args...)
	if err != nil {
		return nil, classify("get movies by tmdb ids", err)
	}
	movies, err := scanMovies(rows)
	if err != nil {
		return nil, classify("get movies by tmdb ids", err)
	}
	for _, m := range movies {
		result[*m.TMDBID] = m
	}
	return result, nil
}

// GetMoviesByIDs returns the movies with the given ids, in the requested order.
// Unknown ids are skipped.
func (s *Store) GetMoviesByIDs(ctx context.Context, ids []string) ([]*domain.Movie, error) {
	if len(ids) == 0 {
		return []*domain.Movie{}, nil
	}

	args := make([]any, len(ids))
	for i, v := range ids {
		args[i] = v
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE id IN (`+placeholders(len(args))+`)`, args...)
	if err != nil {
		return nil, classify("get movies by ids", err)
	}
	movies, err := scanMovies(rows)
	if err != nil {
		return nil, classify("get movies by ids", err)
	}

	byID := make(map[string]*domain.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}
	ordered := make([]*domain.Movie, 0, len(movies))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			ordered = append(ordered, m)
		}
	}
	return ordered, nil
}

// UpdateMovie overwrites every mutable column of a movie.
func (s *Store) UpdateMovie(ctx context.Context, m *domain.Movie) error {
	return s.execAffectingOne(ctx, "update movie", `
		UPDATE movies SET
			title = ?, overview = ?, release_date = ?, poster_url = ?, poster_blurhash = ?,
			director = ?, genre = ?, runtime_minutes = ?, tagline = ?, tmdb_id = ?,
			imdb_id = ?, enriched_at = ?, updated_at = ?
		WHERE id = ?`,
		m.Title,
		m.Overview,
		m.ReleaseDate,
		m.PosterURL,
		m.PosterBlurHash,
		m.Director,
		m.Genre,
		m.RuntimeMinutes,
		m.Tagline,
		nullInt64Ptr(m.TMDBID),
		nullString(m.IMDbID),
		nullTimeString(m.EnrichedAt),
		formatTime(m.UpdatedAt),
		m.ID,
	)
}

// DeleteMovie removes a movie. Joins, notes and posts cascade.
func (s *Store) DeleteMovie(ctx context.Context, id string) error {
	return s.execAffectingOne(ctx, "delete movie", `DELETE FROM movies WHERE id = ?`, id)
}

// ListMovies returns a page of movies ordered by title.
// A genre filter matches any movie whose genre list contains it, case-insensitively.
func (s *Store) ListMovies(ctx context.Context, filter domain.MovieFilter, params store.PaginationParams) (*store.PaginatedResult[*domain.Movie], error) {
	params.Validate()
	offset, err := params.Offset()
	if err != nil {
		return nil, store.Unknown("list movies", err)
	}

	where := ""
	var args []any
	if genre := filter.Normalized().Genre; genre != "" {
		where = ` WHERE instr(lower(genre), ?) > 0`
		args = append(args, strings.ToLower(genre))
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`+where, args...).Scan(&total); err != nil {
		return nil, classify("count movies", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies`+where+` ORDER BY title COLLATE NOCASE, id LIMIT ? OFFSET ?`,
		append(args, params.Limit, offset)...)
	if err != nil {
		return nil, classify("list movies", err)
	}
	movies, err := scanMovies(rows)
	if err != nil {
		return nil, classify("list movies", err)
	}

	return store.NewPage(movies, offset, total), nil
}

// ListAllMovies returns every movie. Used to rebuild the search index.
func (s *Store) ListAllMovies(ctx context.Context) ([]*domain.Movie, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies ORDER BY created_at`)
	if err != nil {
		return nil, classify("list all movies", err)
	}
	movies, err := scanMovies(rows)
	if err != nil {
		return nil, classify("list all movies", err)
	}
	return movies, nil
}
