package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/reelnotes/reelnotes-server/internal/domain"
	"github.com/reelnotes/reelnotes-server/internal/service"
)

func (s *Server) registerMovieRoutes() {
	register(s, huma.Operation{
		OperationID: "listMovies",
		Method:      http.MethodGet,
		Path:        "/api/v1/movies",
		Summary:     "List movies",
		Description: "Returns the catalog ordered by title",
		Tags:        []string{"Movies"},
	}, s.handleListMovies)

	register(s, huma.Operation{
		OperationID: "searchMovies",
		Method:      http.MethodGet,
		Path:        "/api/v1/movies/search",
		Summary:     "Search movies",
		Description: "Searches the local catalog and, when configured, the metadata provider. Provider results already in the catalog are omitted.",
		Tags:        []string{"Movies"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchMovies)

	register(s, huma.Operation{
		OperationID:   "createMovie",
		Method:        http.MethodPost,
		Path:          "/api/v1/movies",
		Summary:       "Add movie",
		Description:   "Adds a movie to the catalog. Movies with a TMDB ID are enriched from the provider; enrichment failures do not fail the request.",
		Tags:          []string{"Movies"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateMovie)

	register(s, huma.Operation{
		OperationID: "getMovie",
		Method:      http.MethodGet,
		Path:        "/api/v1/movies/{id}",
		Summary:     "Get movie",
		Description: "Returns a movie by ID",
		Tags:        []string{"Movies"},
	}, s.handleGetMovie)

	register(s, huma.Operation{
		OperationID: "deleteMovie",
		Method:      http.MethodDelete,
		Path:        "/api/v1/movies/{id}",
		Summary:     "Delete movie",
		Description: "Removes a movie with all personalization and posts attached to it (admin only)",
		Tags:        []string{"Movies"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteMovie)

	register(s, huma.Operation{
		OperationID: "refreshMovie",
		Method:      http.MethodPost,
		Path:        "/api/v1/movies/{id}/refresh",
		Summary:     "Refresh movie metadata",
		Description: "Re-fetches provider metadata, overwriting provider fields, and regenerates the movie's posts (admin only)",
		Tags:        []string{"Movies"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRefreshMovie)
}

// === DTOs ===

// ListMoviesInput contains parameters for listing movies.
type ListMoviesInput struct {
	PaginationInput
	Genre string `query:"genre" maxLength:"100" doc:"Only movies whose genre list contains this genre"`
}

// MovieListResponse is a page of movies.
type MovieListResponse struct {
	Movies []MovieResponse `json:"movies" doc:"Movies on this page"`
	PageInfo
}

// MovieListOutput wraps the movie list response for Huma.
type MovieListOutput struct {
	Body MovieListResponse
}

// SearchMoviesInput contains parameters for searching movies.
type SearchMoviesInput struct {
	Query string `query:"q" required:"true" minLength:"1" maxLength:"200" doc:"Search text"`
	Year  int    `query:"year" minimum:"0" maximum:"9999" doc:"Exact release year"`
}

// ExternalMovieResponse is a provider search result not yet in the catalog.
type ExternalMovieResponse struct {
	TMDBID      int64  `json:"tmdb_id" doc:"TMDB movie ID"`
	Title       string `json:"title" doc:"Title"`
	ReleaseDate string `json:"release_date,omitempty" doc:"Release date"`
	Overview    string `json:"overview,omitempty" doc:"Plot overview"`
	PosterURL   string `json:"poster_url,omitempty" doc:"Poster image URL"`
}

// MovieSearchResponse contains local and provider search results.
type MovieSearchResponse struct {
	Local    []MovieResponse         `json:"local" doc:"Matching catalog movies"`
	External []ExternalMovieResponse `json:"external" doc:"Provider matches not in the catalog"`
}

// MovieSearchOutput wraps the search response for Huma.
type MovieSearchOutput struct {
	Body MovieSearchResponse
}

// CreateMovieRequest is the request body for adding a movie.
type CreateMovieRequest struct {
	Title       string `json:"title" minLength:"1" maxLength:"300" doc:"Title"`
	Overview    string `json:"overview,omitempty" maxLength:"5000" doc:"Plot overview"`
	ReleaseDate string `json:"release_date,omitempty" maxLength:"10" doc:"Release date (YYYY-MM-DD or YYYY)"`
	PosterURL   string `json:"poster_url,omitempty" doc:"Poster image URL"`
	TMDBID      *int64 `json:"tmdb_id,omitempty" doc:"TMDB movie ID; enables enrichment"`
	IMDbID      string `json:"imdb_id,omitempty" maxLength:"20" doc:"IMDb title ID (tt...)"`
}

// CreateMovieInput wraps the create request for Huma.
type CreateMovieInput struct {
	Body CreateMovieRequest
}

// MovieIDInput identifies a movie in the path.
type MovieIDInput struct {
	ID string `path:"id" doc:"Movie ID"`
}

// MovieOutput wraps the movie response for Huma.
type MovieOutput struct {
	Body MovieResponse
}

// === Handlers ===

func (s *Server) handleListMovies(ctx context.Context, input *ListMoviesInput) (*MovieListOutput, error) {
	page, err := s.services.Movie.List(ctx, domain.MovieFilter{Genre: input.Genre}, input.params())
	if err != nil {
		return nil, err
	}

	return &MovieListOutput{
		Body: MovieListResponse{Movies: toMovieResponses(page.Items), PageInfo: pageInfo(page)},
	}, nil
}

func (s *Server) handleSearchMovies(ctx context.Context, input *SearchMoviesInput) (*MovieSearchOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if !s.searchLimiter.Allow(userID) {
		s.logger.Warn("Rate limit exceeded", "user_id", userID, "path", "/api/v1/movies/search")
		return nil, huma.Error429TooManyRequests("Too many searches. Please try again later.")
	}

	res, err := s.services.Movie.Search(ctx, input.Query, input.Year)
	if err != nil {
		return nil, err
	}

	external := make([]ExternalMovieResponse, len(res.External))
	for i, r := range res.External {
		external[i] = ExternalMovieResponse{
			TMDBID:      r.TMDBID,
			Title:       r.Title,
			ReleaseDate: r.ReleaseDate,
			Overview:    r.Overview,
			PosterURL:   r.PosterURL,
		}
	}

	return &MovieSearchOutput{
		Body: MovieSearchResponse{Local: toMovieResponses(res.Local), External: external},
	}, nil
}

func (s *Server) handleCreateMovie(ctx context.Context, input *CreateMovieInput) (*MovieOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	movie, err := s.services.Movie.Create(ctx, service.CreateMovieInput{
		Title:       input.Body.Title,
		Overview:    input.Body.Overview,
		ReleaseDate: input.Body.ReleaseDate,
		PosterURL:   input.Body.PosterURL,
		TMDBID:      input.Body.TMDBID,
		IMDbID:      input.Body.IMDbID,
	})
	if err != nil {
		return nil, err
	}

	return &MovieOutput{Body: toMovieResponse(movie)}, nil
}

func (s *Server) handleGetMovie(ctx context.Context, input *MovieIDInput) (*MovieOutput, error) {
	movie, err := s.services.Movie.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &MovieOutput{Body: toMovieResponse(movie)}, nil
}

func (s *Server) handleDeleteMovie(ctx context.Context, input *MovieIDInput) (*MessageOutput, error) {
	p, err := GetPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Movie.Delete(ctx, p.Actor(), input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Movie deleted"}}, nil
}

func (s *Server) handleRefreshMovie(ctx context.Context, input *MovieIDInput) (*MovieOutput, error) {
	p, err := GetPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	movie, err := s.services.Movie.Refresh(ctx, p.Actor(), input.ID)
	if err != nil {
		return nil, err
	}
	return &MovieOutput{Body: toMovieResponse(movie)}, nil
}
