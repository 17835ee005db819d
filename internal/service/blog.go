package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/reelnotes/reelnotes-server/internal/blog"
	"github.com/reelnotes/reelnotes-server/internal/domain"
	domainerrors "github.com/reelnotes/reelnotes-server/internal/errors"
	"github.com/reelnotes/reelnotes-server/internal/id"
	"github.com/reelnotes/reelnotes-server/internal/metrics"
	"github.com/reelnotes/reelnotes-server/internal/search"
	"github.com/reelnotes/reelnotes-server/internal/store"
)

// FeedSize is the number of posts in the RSS feed.
const FeedSize = 50

// slugTarget is the constraint target reported when a post slug is taken.
const slugTarget = "movie_blog_posts.slug"

// BlogService composes, publishes and moderates blog posts.
type BlogService struct {
	store  store.Store
	search *SearchService
	feed   blog.FeedConfig
	logger *slog.Logger
}

// NewBlogService creates a new blog service.
func NewBlogService(store store.Store, search *SearchService, feed blog.FeedConfig, logger *slog.Logger) *BlogService {
	return &BlogService{
		store:  store,
		search: search,
		feed:   feed,
		logger: logger,
	}
}

// Regenerate composes the post for a (user, movie) pair and upserts it.
// It is the regeneration queue's job. Pairs without any personalization
// and without an existing post are skipped, as are pairs whose movie or
// profile no longer exists.
func (s *BlogService) Regenerate(ctx context.Context, key domain.PostKey) error {
	post, err := s.regenerate(ctx, key)
	switch {
	case err != nil:
		metrics.BlogRegenerations.WithLabelValues("error").Inc()
		return err
	case post == nil:
		metrics.BlogRegenerations.WithLabelValues("skipped").Inc()
		return nil
	}

	metrics.BlogRegenerations.WithLabelValues("ok").Inc()
	if err := s.search.SyncPost(ctx, post); err != nil {
		s.logger.Error("failed to sync post to search", "post_id", post.ID, "error", err)
	}
	s.logger.Debug("blog post regenerated", "key", key.String(), "slug", post.Slug)
	return nil
}

func (s *BlogService) regenerate(ctx context.Context, key domain.PostKey) (*domain.BlogPost, error) {
	movie, err := s.store.GetMovie(ctx, key.MovieID)
	if domainerrors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	author, err := s.store.GetProfile(ctx, key.UserID)
	if domainerrors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p, err := loadPersonalization(ctx, s.store, key.UserID, key.MovieID)
	if err != nil {
		return nil, err
	}

	if p.IsEmpty() {
		_, err := s.store.GetBlogPostByPair(ctx, key.UserID, key.MovieID)
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
	}

	composed, err := blog.Compose(blog.Input{
		Movie:      movie,
		Tags:       p.Tags,
		Categories: p.Categories,
		Note:       p.Note,
		Author:     author,
	})
	if err != nil {
		return nil, err
	}

	postID, err := id.Generate(id.PrefixPost)
	if err != nil {
		return nil, err
	}
	post := &domain.BlogPost{
		ID:              postID,
		UserID:          key.UserID,
		MovieID:         key.MovieID,
		Slug:            composed.Slug,
		Title:           composed.Title,
		Content:         composed.Content,
		MetaDescription: composed.MetaDescription,
		UpdatedAt:       time.Now(),
	}

	err = s.store.UpsertBlogPost(ctx, post, nil)
	if isSlugCollision(err) {
		post.Slug = blog.DisambiguateSlug(composed.Slug, key.UserID)
		s.logger.Info("post slug taken, disambiguating", "key", key.String(), "slug", post.Slug)
		err = s.store.UpsertBlogPost(ctx, post, nil)
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func isSlugCollision(err error) bool {
	return domainerrors.Is(err, store.ErrAlreadyExists) && store.ConstraintTarget(err) == slugTarget
}

// GetPublic returns a publicly visible post and counts the view. A failed
// view increment is logged and does not fail the read.
func (s *BlogService) GetPublic(ctx context.Context, slug string) (*domain.BlogPost, error) {
	post, err := s.visibleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.store.IncrementViewCount(ctx, post.ID); err != nil {
		s.logger.Warn("failed to increment view count", "post_id", post.ID, "error", err)
	} else {
		post.ViewCount++
		metrics.BlogPostViews.Inc()
	}
	return post, nil
}

// Markdown exports a publicly visible post as Markdown.
func (s *BlogService) Markdown(ctx context.Context, slug string) (string, error) {
	post, err := s.visibleBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	md, err := blog.ToMarkdown(post.Title, post.Content)
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "export failed")
	}
	return md, nil
}

func (s *BlogService) visibleBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, domainerrors.Validation("slug is required")
	}
	post, err := s.store.GetBlogPostBySlug(ctx, slug)
	if err != nil {
		return nil, storeError(err, "blog post")
	}
	// Hidden posts are indistinguishable from missing ones.
	if !post.IsVisible() {
		return nil, domainerrors.NotFound("blog post not found")
	}
	return post, nil
}

// ListPublic returns a page of visible posts, newest first.
func (s *BlogService) ListPublic(ctx context.Context, params store.PaginationParams) (*store.PaginatedResult[*domain.BlogPostSummary], error) {
	params, err := pagination(params)
	if err != nil {
		return nil, err
	}
	page, err := s.store.ListPublicBlogPosts(ctx, params)
	if err != nil {
		return nil, storeError(err, "blog post")
	}
	return page, nil
}

// Search finds visible posts. Only visible posts are indexed.
func (s *BlogService) Search(ctx context.Context, query string, limit, offset int) (*search.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.Validation("query is required")
	}
	res, err := s.search.Search(ctx, search.SearchParams{
		Query:  query,
		Types:  []search.DocType{search.DocTypePost},
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "search failed")
	}
	return res, nil
}

// Feed renders the newest visible posts as RSS 2.0.
func (s *BlogService) Feed(ctx context.Context) ([]byte, error) {
	page, err := s.store.ListPublicBlogPosts(ctx, store.PaginationParams{Limit: FeedSize})
	if err != nil {
		return nil, storeError(err, "blog post")
	}
	out, err := blog.RenderFeed(s.feed, page.Items)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "render feed")
	}
	return out, nil
}

// ListMine returns every post owned by the user regardless of visibility.
func (s *BlogService) ListMine(ctx context.Context, userID string) ([]*domain.BlogPostSummary, error) {
	posts, err := s.store.ListBlogPostsByUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, "blog post")
	}
	return posts, nil
}

// SetVisibility publishes or hides one of the user's own posts.
func (s *BlogService) SetVisibility(ctx context.Context, userID, postID string, isPublic bool) (*domain.BlogPost, error) {
	post, err := s.store.GetBlogPost(ctx, postID)
	if err != nil {
		return nil, storeError(err, "blog post")
	}
	if post.UserID != userID {
		return nil, domainerrors.Forbidden("not your blog post")
	}

	if err := s.store.SetBlogPostVisibility(ctx, postID, isPublic); err != nil {
		return nil, storeError(err, "blog post")
	}
	post.IsPublic = isPublic
	s.sync(ctx, post)

	s.logger.Info("blog post visibility changed", "post_id", postID, "is_public", isPublic)
	return post, nil
}

// Delete removes a post. Owners and admins only. The post comes back on the
// pair's next curation change.
func (s *BlogService) Delete(ctx context.Context, actor Actor, postID string) error {
	post, err := s.store.GetBlogPost(ctx, postID)
	if err != nil {
		return storeError(err, "blog post")
	}
	if !actor.CanModify(post.UserID) {
		return domainerrors.Forbidden("not your blog post")
	}

	if err := s.store.DeleteBlogPost(ctx, postID); err != nil {
		return storeError(err, "blog post")
	}
	if err := s.search.RemovePost(postID); err != nil {
		s.logger.Error("failed to remove post from search", "post_id", postID, "error", err)
	}

	s.logger.Info("blog post deleted", "post_id", postID, "by", actor.UserID)
	return nil
}

// ListAll returns every post for moderation.
func (s *BlogService) ListAll(ctx context.Context, actor Actor, params store.PaginationParams) (*store.PaginatedResult[*domain.BlogPostSummary], error) {
	if !actor.IsAdmin {
		return nil, domainerrors.Forbidden("admin access required")
	}
	params, err := pagination(params)
	if err != nil {
		return nil, err
	}
	page, err := s.store.ListAllBlogPosts(ctx, params)
	if err != nil {
		return nil, storeError(err, "blog post")
	}
	return page, nil
}

// SetApproval grants or revokes moderation approval. Revoked approval
// survives regeneration.
func (s *BlogService) SetApproval(ctx context.Context, actor Actor, postID string, approved bool) (*domain.BlogPost, error) {
	if !actor.IsAdmin {
		return nil, domainerrors.Forbidden("admin access required")
	}

	if err := s.store.SetBlogPostApproval(ctx, postID, approved); err != nil {
		return nil, storeError(err, "blog post")
	}
	post, err := s.store.GetBlogPost(ctx, postID)
	if err != nil {
		return nil, storeError(err, "blog post")
	}
	s.sync(ctx, post)

	s.logger.Info("blog post approval changed", "post_id", postID, "approved", approved)
	return post, nil
}

func (s *BlogService) sync(ctx context.Context, post *domain.BlogPost) {
	if err := s.search.SyncPost(ctx, post); err != nil {
		s.logger.Error("failed to sync post to search", "post_id", post.ID, "error", err)
	}
}
