package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reelnotes/reelnotes-server/internal/domain"
	"github.com/reelnotes/reelnotes-server/internal/search"
	"github.com/reelnotes/reelnotes-server/internal/store"
)

// SearchService bridges the search index with the store: it builds
// documents from stored entities and keeps the index in step with writes.
// Index failures are logged by callers and never fail a write.
type SearchService struct {
	index  *search.SearchIndex
	store  store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// Search runs a query against the index.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	return s.index.Search(ctx, params)
}

// IndexMovie adds or replaces a movie document.
func (s *SearchService) IndexMovie(movie *domain.Movie) error {
	if err := s.index.IndexMovie(search.MovieDocument(movie)); err != nil {
		return fmt.Errorf("index movie %s: %w", movie.ID, err)
	}
	s.logger.Debug("indexed movie", "id", movie.ID, "title", movie.Title)
	return nil
}

// SyncPost indexes a visible post and removes a hidden one.
func (s *SearchService) SyncPost(ctx context.Context, post *domain.BlogPost) error {
	if !post.IsVisible() {
		return s.index.Delete(search.DocTypePost, post.ID)
	}

	doc, err := s.buildPostDocument(ctx, post)
	if err != nil {
		return err
	}
	if err := s.index.IndexPost(doc); err != nil {
		return fmt.Errorf("index post %s: %w", post.ID, err)
	}
	s.logger.Debug("indexed post", "id", post.ID, "slug", post.Slug)
	return nil
}

// RemovePost deletes a post document.
func (s *SearchService) RemovePost(id string) error {
	return s.index.Delete(search.DocTypePost, id)
}

// RemoveMovie deletes a movie and its posts from the index.
func (s *SearchService) RemoveMovie(movieID string, postIDs []string) error {
	if err := s.index.DeleteMany(search.DocTypePost, postIDs); err != nil {
		return fmt.Errorf("remove posts of movie %s: %w", movieID, err)
	}
	return s.index.Delete(search.DocTypeMovie, movieID)
}

// ReindexIfNeeded rebuilds index contents from the store when the index was
// created empty on open.
func (s *SearchService) ReindexIfNeeded(ctx context.Context) error {
	if !s.index.NeedsReindex() {
		return nil
	}
	return s.ReindexAll(ctx)
}

// ReindexAll indexes every movie and every visible post.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	movies, err := s.store.ListAllMovies(ctx)
	if err != nil {
		return fmt.Errorf("list movies: %w", err)
	}

	docs := make([]*search.SearchDocument, 0, len(movies))
	for _, m := range movies {
		docs = append(docs, search.MovieDocument(m))
	}

	params := store.PaginationParams{Limit: store.MaxPageLimit}
	for {
		page, err := s.store.ListPublicBlogPosts(ctx, params)
		if err != nil {
			return fmt.Errorf("list posts: %w", err)
		}
		for _, summary := range page.Items {
			post, err := s.store.GetBlogPost(ctx, summary.ID)
			if err != nil {
				return fmt.Errorf("get post %s: %w", summary.ID, err)
			}
			doc, err := s.buildPostDocument(ctx, post)
			if err != nil {
				return err
			}
			docs = append(docs, doc)
		}
		if !page.HasMore {
			break
		}
		params.Cursor = page.NextCursor
	}

	if err := s.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("index documents: %w", err)
	}

	s.logger.Info("search index rebuilt from store", "documents", len(docs))
	return nil
}

func (s *SearchService) buildPostDocument(ctx context.Context, post *domain.BlogPost) (*search.SearchDocument, error) {
	movie, err := s.store.GetMovie(ctx, post.MovieID)
	if err != nil {
		return nil, fmt.Errorf("load movie for post %s: %w", post.ID, err)
	}
	tags, err := s.store.ListUserMovieTags(ctx, post.UserID, post.MovieID)
	if err != nil {
		return nil, fmt.Errorf("load tags for post %s: %w", post.ID, err)
	}
	categories, err := s.store.ListUserMovieCategories(ctx, post.UserID, post.MovieID)
	if err != nil {
		return nil, fmt.Errorf("load categories for post %s: %w", post.ID, err)
	}
	return search.PostDocument(post, movie, tags, categories), nil
}
