package sqlite

import (
	"context"
	"database/sql"

	"github.com/reelnotes/reelnotes-server/internal/domain"
	"github.com/reelnotes/reelnotes-server/internal/store"
)

const blogPostColumns = `id, user_id, movie_id, slug, title, content, meta_description,
	is_public, admin_approved, view_count, published_at, updated_at`

func scanBlogPost(scanner interface{ Scan(dest ...any) error }) (*domain.BlogPost, error) {
	var p domain.BlogPost

	var (
		publishedAt string
		updatedAt   string
	)

	err := scanner.Scan(
		&p.ID,
		&p.UserID,
		&p.MovieID,
		&p.Slug,
		&p.Title,
		&p.Content,
		&p.MetaDescription,
		&p.IsPublic,
		&p.AdminApproved,
		&p.ViewCount,
		&publishedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.PublishedAt, err = parseTime(publishedAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// UpsertBlogPost inserts or regenerates the post for (post.UserID, post.MovieID).
//
// Insert: is_public = isPublic or true, admin_approved = true, view_count = 0,
// published_at = updated_at = post.UpdatedAt.
// Update: slug, title, content, meta_description and updated_at are replaced;
// is_public only when isPublic is non-nil. admin_approved, view_count and
// published_at are never touched, so a revoked approval survives regeneration.
//
// On return post carries the stored id, flags, view count and publish time.
// A slug owned by a different pair surfaces as a unique violation on
// movie_blog_posts.slug.
func (s *Store) UpsertBlogPost(ctx context.Context, post *domain.BlogPost, isPublic *bool) error {
	public := nullBoolPtr(isPublic)
	now := formatTime(post.UpdatedAt)

	var publishedAt string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO movie_blog_posts (`+blogPostColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, COALESCE(?, 1), 1, 0, ?, ?)
		ON CONFLICT(user_id, movie_id) DO UPDATE SET
			slug = excluded.slug,
			title = excluded.title,
			content = excluded.content,
			meta_description = excluded.meta_description,
			updated_at = excluded.updated_at,
			is_public = COALESCE(?, movie_blog_posts.is_public)
		RETURNING id, is_public, admin_approved, view_count, published_at`,
		post.ID,
		post.UserID,
		post.MovieID,
		post.Slug,
		post.Title,
		post.Content,
		post.MetaDescription,
		public,
		now,
		now,
		public,
	).Scan(&post.ID, &post.IsPublic, &post.AdminApproved, &post.ViewCount, &publishedAt)
	if err != nil {
		return classify("upsert blog post", err)
	}

	post.PublishedAt, err = parseTime(publishedAt)
	return err
}

// GetBlogPost retrieves a post by ID.
func (s *Store) GetBlogPost(ctx context.Context, id string) (*domain.BlogPost, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+blogPostColumns+` FROM movie_blog_posts WHERE id = ?`, id)

	p, err := scanBlogPost(row)
	if err != nil {
		return nil, classify("get blog post", err)
	}
	return p, nil
}

// GetBlogPostBySlug retrieves a post by slug regardless of visibility.
func (s *Store) GetBlogPostBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+blogPostColumns+` FROM movie_blog_posts WHERE slug = ?`, slug)

	p, err := scanBlogPost(row)
	if err != nil {
		return nil, classify("get blog post by slug", err)
	}
	return p, nil
}

// GetBlogPostByPair retrieves the post for a (user, movie) pair.
func (s *Store) GetBlogPostByPair(ctx context.Context, userID, movieID string) (*domain.BlogPost, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+blogPostColumns+` FROM movie_blog_posts WHERE user_id = ? AND movie_id = ?`, userID, movieID)

	p, err := scanBlogPost(row)
	if err != nil {
		return nil, classify("get blog post by pair", err)
	}
	return p, nil
}

// IncrementViewCount adds one view in a single statement.
func (s *Store) IncrementViewCount(ctx context.Context, id string) error {
	return s.execAffectingOne(ctx, "increment view count",
		`UPDATE movie_blog_posts SET view_count = view_count + 1 WHERE id = ?`, id)
}

// SetBlogPostVisibility sets the owner's is_public flag.
func (s *Store) SetBlogPostVisibility(ctx context.Context, id string, isPublic bool) error {
	return s.execAffectingOne(ctx, "set blog post visibility",
		`UPDATE movie_blog_posts SET is_public = ? WHERE id = ?`, isPublic, id)
}

// SetBlogPostApproval sets the moderation flag.
func (s *Store) SetBlogPostApproval(ctx context.Context, id string, approved bool) error {
	return s.execAffectingOne(ctx, "set blog post approval",
		`UPDATE movie_blog_posts SET admin_approved = ? WHERE id = ?`, approved, id)
}

// DeleteBlogPost removes a post.
func (s *Store) DeleteBlogPost(ctx context.Context, id string) error {
	return s.execAffectingOne(ctx, "delete blog post", `DELETE FROM movie_blog_posts WHERE id = ?`, id)
}

// summarySelect joins a post with its movie and author for listings.
// Must match the scan order in scanSummary.
const summarySelect = `
	SELECT p.id, p.slug, p.title, p.meta_description, p.movie_id, m.title, m.poster_url,
		p.user_id, pr.username, pr.email, p.is_public, p.admin_approved, p.view_count,
		p.published_at, p.updated_at
	FROM movie_blog_posts p
	JOIN movies m ON m.id = p.movie_id
	JOIN profiles pr ON pr.user_id = p.user_id`

const publicPredicate = `p.is_public = 1 AND p.admin_approved = 1`

func scanSummary(scanner interface{ Scan(dest ...any) error }) (*domain.BlogPostSummary, error) {
	var (
		sum         domain.BlogPostSummary
		author      domain.Profile
		publishedAt string
		updatedAt   string
	)

	err := scanner.Scan(
		&sum.ID,
		&sum.Slug,
		&sum.Title,
		&sum.MetaDescription,
		&sum.MovieID,
		&sum.MovieTitle,
		&sum.PosterURL,
		&sum.UserID,
		&author.Username,
		&author.Email,
		&sum.IsPublic,
		&sum.AdminApproved,
		&sum.ViewCount,
		&publishedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	sum.Username = author.DisplayUsername()

	sum.PublishedAt, err = parseTime(publishedAt)
	if err != nil {
		return nil, err
	}
	sum.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

func scanSummaries(rows *sql.Rows) ([]*domain.BlogPostSummary, error) {
	defer rows.Close()

	out := []*domain.BlogPostSummary{}
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *Store) listSummaries(ctx context.Context, op, where string, args ...any) ([]*domain.BlogPostSummary, error) {
	query := summarySelect
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY p.published_at DESC, p.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	out, err := scanSummaries(rows)
	if err != nil {
		return nil, classify(op, err)
	}
	return out, nil
}

func (s *Store) pageSummaries(ctx context.Context, op, where string, params store.PaginationParams) (*store.PaginatedResult[*domain.BlogPostSummary], error) {
	params.Validate()
	offset, err := params.Offset()
	if err != nil {
		return nil, store.Unknown(op, err)
	}

	countQuery := `SELECT COUNT(*) FROM movie_blog_posts p`
	query := summarySelect
	if where != "" {
		countQuery += " WHERE " + where
		query += " WHERE " + where
	}
	query += " ORDER BY p.published_at DESC, p.id LIMIT ? OFFSET ?"

	var total int
	if err := s.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, classify(op, err)
	}

	rows, err := s.db.QueryContext(ctx, query, params.Limit, offset)
	if err != nil {
		return nil, classify(op, err)
	}
	items, err := scanSummaries(rows)
	if err != nil {
		return nil, classify(op, err)
	}
	return store.NewPage(items, offset, total), nil
}

// ListPublicBlogPosts returns a page of publicly visible posts, newest first.
func (s *Store) ListPublicBlogPosts(ctx context.Context, params store.PaginationParams) (*store.PaginatedResult[*domain.BlogPostSummary], error) {
	return s.pageSummaries(ctx, "list public blog posts", publicPredicate, params)
}

// ListAllBlogPosts returns a page of every post, for moderation.
func (s *Store) ListAllBlogPosts(ctx context.Context, params store.PaginationParams) (*store.PaginatedResult[*domain.BlogPostSummary], error) {
	return s.pageSummaries(ctx, "list all blog posts", "", params)
}

// ListPublicBlogPostsByTag returns public posts whose author applied the tag to the movie.
func (s *Store) ListPublicBlogPostsByTag(ctx context.Context, tagID string) ([]*domain.BlogPostSummary, error) {
	return s.listSummaries(ctx, "list public blog posts by tag", publicPredicate+` AND EXISTS (
		SELECT 1 FROM user_movie_tags umt
		WHERE umt.user_id = p.user_id AND umt.movie_id = p.movie_id AND umt.tag_id = ?)`, tagID)
}

// ListBlogPostsByUser returns every post the user owns.
func (s *Store) ListBlogPostsByUser(ctx context.Context, userID string) ([]*domain.BlogPostSummary, error) {
	return s.listSummaries(ctx, "list blog posts by user", `p.user_id = ?`, userID)
}

// ListBlogPostIDsByMovie returns the ids of every post about the movie.
func (s *Store) ListBlogPostIDsByMovie(ctx context.Context, movieID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM movie_blog_posts WHERE movie_id = ?`, movieID)
	if err != nil {
		return nil, classify("list blog post ids by movie", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, classify("list blog post ids by movie", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list blog post ids by movie", err)
	}
	return ids, nil
}
