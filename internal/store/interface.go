// Package store defines the persistence interface for the ReelNotes server.
package store

import (
	"context"

	"github.com/reelnotes/reelnotes-server/internal/domain"
)

// Store defines the interface for all persistence operations.
// Implementations return *Error values classified by Kind.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error

	// Movies
	CreateMovie(ctx context.Context, movie *domain.Movie) error
	GetMovie(ctx context.Context, id string) (*domain.Movie, error)
	GetMovieByTMDBID(ctx context.Context, tmdbID int64) (*domain.Movie, error)
	GetMoviesByTMDBIDs(ctx context.Context, tmdbIDs []int64) (map[int64]*domain.Movie, error)
	GetMoviesByIDs(ctx context.Context, ids []string) ([]*domain.Movie, error)
	UpdateMovie(ctx context.Context, movie *domain.Movie) error
	DeleteMovie(ctx context.Context, id string) error
	ListMovies(ctx context.Context, filter domain.MovieFilter, params PaginationParams) (*PaginatedResult[*domain.Movie], error)
	ListAllMovies(ctx context.Context) ([]*domain.Movie, error)

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	UpdateTag(ctx context.Context, tag *domain.Tag) error
	DeleteTag(ctx context.Context, id string) error

	// Categories
	CreateCategory(ctx context.Context, category *domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id string) error

	// Per-user tag and category applications
	AddUserMovieTag(ctx context.Context, umt *domain.UserMovieTag) error
	RemoveUserMovieTag(ctx context.Context, userID, movieID, tagID string) error
	ListUserMovieTags(ctx context.Context, userID, movieID string) ([]*domain.Tag, error)
	ListTagPairs(ctx context.Context, tagID string) ([]domain.PostKey, error)
	AddUserMovieCategory(ctx context.Context, umc *domain.UserMovieCategory) error
	RemoveUserMovieCategory(ctx context.Context, userID, movieID, categoryID string) error
	ListUserMovieCategories(ctx context.Context, userID, movieID string) ([]*domain.Category, error)
	ListCategoryPairs(ctx context.Context, categoryID string) ([]domain.PostKey, error)

	// Notes
	PutNote(ctx context.Context, note *domain.UserNote) error
	GetNote(ctx context.Context, userID, movieID string) (*domain.UserNote, error)
	DeleteNotes(ctx context.Context, userID, movieID string) error

	// Profiles
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpsertProfile(ctx context.Context, profile *domain.Profile) error

	// Blog posts
	UpsertBlogPost(ctx context.Context, post *domain.BlogPost, isPublic *bool) error
	GetBlogPost(ctx context.Context, id string) (*domain.BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string) (*domain.BlogPost, error)
	GetBlogPostByPair(ctx context.Context, userID, movieID string) (*domain.BlogPost, error)
	IncrementViewCount(ctx context.Context, id string) error
	SetBlogPostVisibility(ctx context.Context, id string, isPublic bool) error
	SetBlogPostApproval(ctx context.Context, id string, approved bool) error
	DeleteBlogPost(ctx context.Context, id string) error
	ListPublicBlogPosts(ctx context.Context, params PaginationParams) (*PaginatedResult[*domain.BlogPostSummary], error)
	ListPublicBlogPostsByTag(ctx context.Context, tagID string) ([]*domain.BlogPostSummary, error)
	ListBlogPostsByUser(ctx context.Context, userID string) ([]*domain.BlogPostSummary, error)
	ListBlogPostIDsByMovie(ctx context.Context, movieID string) ([]string, error)
	ListAllBlogPosts(ctx context.Context, params PaginationParams) (*PaginatedResult[*domain.BlogPostSummary], error)
}
