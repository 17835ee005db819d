package api

import (
	"time"

	"github.com/reelnotes/reelnotes-server/internal/domain"
	"github.com/reelnotes/reelnotes-server/internal/store"
)

// PaginationInput holds cursor pagination query parameters.
type PaginationInput struct {
	Limit  int    `query:"limit" minimum:"0" maximum:"100" doc:"Items per page (default 20)"`
	Cursor string `query:"cursor" maxLength:"64" doc:"Cursor from the previous page"`
}

func (p PaginationInput) params() store.PaginationParams {
	return store.PaginationParams{Limit: p.Limit, Cursor: p.Cursor}
}

// PageInfo describes the position of a page in a listing.
type PageInfo struct {
	NextCursor string `json:"next_cursor,omitempty" doc:"Cursor for the next page, empty on the last page"`
	HasMore    bool   `json:"has_more" doc:"Whether more items follow"`
	Total      int    `json:"total" doc:"Total items across all pages"`
}

func pageInfo[T any](p *store.PaginatedResult[T]) PageInfo {
	return PageInfo{NextCursor: p.NextCursor, HasMore: p.HasMore, Total: p.Total}
}

// ProfileResponse contains profile data in API responses.
type ProfileResponse struct {
	UserID          string    `json:"user_id" doc:"Identity-provider user ID"`
	Email           string    `json:"email" doc:"Email address"`
	Username        string    `json:"username,omitempty" doc:"Stored username"`
	FullName        string    `json:"full_name,omitempty" doc:"Stored full name"`
	DisplayUsername string    `json:"display_username" doc:"Username shown on posts"`
	DisplayName     string    `json:"display_name" doc:"Name shown on posts"`
	IsAdmin         bool      `json:"is_admin" doc:"Whether the user moderates the catalog"`
	CreatedAt       time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt       time.Time `json:"updated_at" doc:"Last update time"`
}

func toProfileResponse(p *domain.Profile, isAdmin bool) ProfileResponse {
	return ProfileResponse{
		UserID:          p.UserID,
		Email:           p.Email,
		Username:        p.Username,
		FullName:        p.FullName,
		DisplayUsername: p.DisplayUsername(),
		DisplayName:     p.DisplayName(),
		IsAdmin:         isAdmin,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// MovieResponse contains movie data in API responses.
type MovieResponse struct {
	ID             string     `json:"id" doc:"Movie ID"`
	Title          string     `json:"title" doc:"Title"`
	Year           string     `json:"year" doc:"Release year, or unknown"`
	Overview       string     `json:"overview,omitempty" doc:"Plot overview"`
	ReleaseDate    string     `json:"release_date,omitempty" doc:"Release date (YYYY-MM-DD or YYYY)"`
	PosterURL      string     `json:"poster_url,omitempty" doc:"Poster image URL"`
	PosterBlurHash string     `json:"poster_blur_hash,omitempty" doc:"BlurHash placeholder for the poster"`
	Director       string     `json:"director,omitempty" doc:"Director"`
	Genre          string     `json:"genre,omitempty" doc:"Comma-separated genres"`
	RuntimeMinutes int        `json:"runtime_minutes,omitempty" doc:"Runtime in minutes"`
	RuntimeLabel   string     `json:"runtime_label,omitempty" doc:"Runtime formatted as 2h 28m"`
	Tagline        string     `json:"tagline,omitempty" doc:"Tagline"`
	TMDBID         *int64     `json:"tmdb_id,omitempty" doc:"TMDB movie ID"`
	IMDbID         string     `json:"imdb_id,omitempty" doc:"IMDb title ID"`
	EnrichedAt     *time.Time `json:"enriched_at,omitempty" doc:"When provider metadata was merged"`
	CreatedAt      time.Time  `json:"created_at" doc:"Creation time"`
	UpdatedAt      time.Time  `json:"updated_at" doc:"Last update time"`
}

func toMovieResponse(m *domain.Movie) MovieResponse {
	return MovieResponse{
		ID:             m.ID,
		Title:          m.Title,
		Year:           m.Year(),
		Overview:       m.Overview,
		ReleaseDate:    m.ReleaseDate,
		PosterURL:      m.PosterURL,
		PosterBlurHash: m.PosterBlurHash,
		Director:       m.Director,
		Genre:          m.Genre,
		RuntimeMinutes: m.RuntimeMinutes,
		RuntimeLabel:   m.RuntimeLabel(),
		Tagline:        m.Tagline,
		TMDBID:         m.TMDBID,
		IMDbID:         m.IMDbID,
		EnrichedAt:     m.EnrichedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toMovieResponses(movies []*domain.Movie) []MovieResponse {
	resp := make([]MovieResponse, len(movies))
	for i, m := range movies {
		resp[i] = toMovieResponse(m)
	}
	return resp
}

// TermResponse contains tag or category data in API responses.
type TermResponse struct {
	ID          string    `json:"id" doc:"Term ID"`
	Name        string    `json:"name" doc:"Display name"`
	Slug        string    `json:"slug,omitempty" doc:"Browse slug (tags only)"`
	Description string    `json:"description,omitempty" doc:"Description"`
	Color       string    `json:"color" doc:"Display color (#RRGGBB)"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

func toTagResponse(t *domain.Tag) TermResponse {
	return TermResponse{
		ID:          t.ID,
		Name:        t.Name,
		Slug:        t.Slug(),
		Description: t.Description,
		Color:       t.Color,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTagResponses(tags []*domain.Tag) []TermResponse {
	resp := make([]TermResponse, len(tags))
	for i, t := range tags {
		resp[i] = toTagResponse(t)
	}
	return resp
}

func toCategoryResponse(c *domain.Category) TermResponse {
	return TermResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCategoryResponses(categories []*domain.Category) []TermResponse {
	resp := make([]TermResponse, len(categories))
	for i, c := range categories {
		resp[i] = toCategoryResponse(c)
	}
	return resp
}

// NoteResponse contains a personal note in API responses.
type NoteResponse struct {
	ID        string    `json:"id" doc:"Note ID"`
	Content   string    `json:"content" doc:"Note text"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

func toNoteResponse(n *domain.UserNote) *NoteResponse {
	if n == nil {
		return nil
	}
	return &NoteResponse{ID: n.ID, Content: n.Content, CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt}
}

// PersonalizationResponse is everything the caller attached to a movie.
type PersonalizationResponse struct {
	MovieID    string         `json:"movie_id" doc:"Movie ID"`
	Tags       []TermResponse `json:"tags" doc:"Applied tags"`
	Categories []TermResponse `json:"categories" doc:"Applied categories"`
	Note       *NoteResponse  `json:"note,omitempty" doc:"Latest personal note"`
}

// BlogPostResponse contains a full post in API responses.
type BlogPostResponse struct {
	ID              string    `json:"id" doc:"Post ID"`
	UserID          string    `json:"user_id" doc:"Author user ID"`
	MovieID         string    `json:"movie_id" doc:"Movie ID"`
	Slug            string    `json:"slug" doc:"Public URL slug"`
	Title           string    `json:"title" doc:"Post title"`
	Content         string    `json:"content" doc:"Rendered HTML"`
	MetaDescription string    `json:"meta_description" doc:"SEO description"`
	IsPublic        bool      `json:"is_public" doc:"Owner-controlled visibility"`
	AdminApproved   bool      `json:"admin_approved" doc:"Moderation approval"`
	ViewCount       int64     `json:"view_count" doc:"Public views"`
	PublishedAt     time.Time `json:"published_at" doc:"First generation time"`
	UpdatedAt       time.Time `json:"updated_at" doc:"Last regeneration time"`
}

func toBlogPostResponse(p *domain.BlogPost) BlogPostResponse {
	return BlogPostResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		MovieID:         p.MovieID,
		Slug:            p.Slug,
		Title:           p.Title,
		Content:         p.Content,
		MetaDescription: p.MetaDescription,
		IsPublic:        p.IsPublic,
		AdminApproved:   p.AdminApproved,
		ViewCount:       p.ViewCount,
		PublishedAt:     p.PublishedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// BlogPostSummaryResponse is a post listing row.
type BlogPostSummaryResponse struct {
	ID              string    `json:"id" doc:"Post ID"`
	Slug            string    `json:"slug" doc:"Public URL slug"`
	Title           string    `json:"title" doc:"Post title"`
	MetaDescription string    `json:"meta_description" doc:"SEO description"`
	MovieID         string    `json:"movie_id" doc:"Movie ID"`
	MovieTitle      string    `json:"movie_title" doc:"Movie title"`
	PosterURL       string    `json:"poster_url,omitempty" doc:"Poster image URL"`
	UserID          string    `json:"user_id" doc:"Author user ID"`
	Username        string    `json:"username" doc:"Author username"`
	IsPublic        bool      `json:"is_public" doc:"Owner-controlled visibility"`
	AdminApproved   bool      `json:"admin_approved" doc:"Moderation approval"`
	ViewCount       int64     `json:"view_count" doc:"Public views"`
	PublishedAt     time.Time `json:"published_at" doc:"First generation time"`
	UpdatedAt       time.Time `json:"updated_at" doc:"Last regeneration time"`
}

func toBlogPostSummaries(posts []*domain.BlogPostSummary) []BlogPostSummaryResponse {
	resp := make([]BlogPostSummaryResponse, len(posts))
	for i, p := range posts {
		resp[i] = BlogPostSummaryResponse{
			ID:              p.ID,
			Slug:            p.Slug,
			Title:           p.Title,
			MetaDescription: p.MetaDescription,
			MovieID:         p.MovieID,
			MovieTitle:      p.MovieTitle,
			PosterURL:       p.PosterURL,
			UserID:          p.UserID,
			Username:        p.Username,
			IsPublic:        p.IsPublic,
			AdminApproved:   p.AdminApproved,
			ViewCount:       p.ViewCount,
			PublishedAt:     p.PublishedAt,
			UpdatedAt:       p.UpdatedAt,
		}
	}
	return resp
}

// BlogPostListResponse is a page of post summaries.
type BlogPostListResponse struct {
	Posts []BlogPostSummaryResponse `json:"posts" doc:"Posts on this page"`
	PageInfo
}

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Result message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}
