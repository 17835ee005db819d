package sqlite

import (
	"context"
	"database/sql"

	"github.com/reelnotes/reelnotes-server/internal/domain"
)

// AddUserMovieTag records a tag application.
// Returns store.ErrAlreadyExists when the user already applied the tag to
// the movie, and store.ErrForeignKey when the user, movie or tag is missing.
func (s *Store) AddUserMovieTag(ctx context.Context, umt *domain.UserMovieTag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_movie_tags (user_id, movie_id, tag_id, created_at)
		VALUES (?, ?, ?, ?)`,
		umt.UserID,
		umt.MovieID,
		umt.TagID,
		formatTime(umt.CreatedAt),
	)
	return classify("add user movie tag", err)
}

// RemoveUserMovieTag deletes a tag application.
func (s *Store) RemoveUserMovieTag(ctx context.Context, userID, movieID, tagID string) error {
	return s.execAffectingOne(ctx, "remove user movie tag", `
		DELETE FROM user_movie_tags WHERE user_id = ? AND movie_id = ? AND tag_id = ?`,
		userID, movieID, tagID)
}

// ListUserMovieTags returns the tags a user applied to a movie, in the order applied.
func (s *Store) ListUserMovieTags(ctx context.Context, userID, movieID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.description, t.color, t.created_at, t.updated_at
		FROM user_movie_tags umt
		JOIN tags t ON t.id = umt.tag_id
		WHERE umt.user_id = ? AND umt.movie_id = ?
		ORDER BY umt.created_at, umt.rowid`,
		userID, movieID)
	if err != nil {
		return nil, classify("list user movie tags", err)
	}
	tags, err := scanTags(rows)
	if err != nil {
		return nil, classify("list user movie tags", err)
	}
	return tags, nil
}

// ListTagPairs returns every (user, movie) pair the tag is applied to.
func (s *Store) ListTagPairs(ctx context.Context, tagID string) ([]domain.PostKey, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, movie_id FROM user_movie_tags WHERE tag_id = ? ORDER BY created_at`, tagID)
	if err != nil {
		return nil, classify("list tag pairs", err)
	}
	keys, err := scanPostKeys(rows)
	if err != nil {
		return nil, classify("list tag pairs", err)
	}
	return keys, nil
}

// AddUserMovieCategory records a category application.
// Errors mirror AddUserMovieTag.
func (s *Store) AddUserMovieCategory(ctx context.Context, umc *domain.UserMovieCategory) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_movie_categories (user_id, movie_id, category_id, created_at)
		VALUES (?, ?, ?, ?)`,
		umc.UserID,
		umc.MovieID,
		umc.CategoryID,
		formatTime(umc.CreatedAt),
	)
	return classify("add user movie category", err)
}

// RemoveUserMovieCategory deletes a category application.
func (s *Store) RemoveUserMovieCategory(ctx context.Context, userID, movieID, categoryID string) error {
	return s.execAffectingOne(ctx, "remove user movie category", `
		DELETE FROM user_movie_categories WHERE user_id = ? AND movie_id = ? AND category_id = ?`,
		userID, movieID, categoryID)
}

// ListUserMovieCategories returns the categories a user filed a movie under, in the order applied.
func (s *Store) ListUserMovieCategories(ctx context.Context, userID, movieID string) ([]*domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.description, c.color, c.created_at, c.updated_at
		FROM user_movie_categories umc
		JOIN categories c ON c.id = umc.category_id
		WHERE umc.user_id = ? AND umc.movie_id = ?
		ORDER BY umc.created_at, umc.rowid`,
		userID, movieID)
	if err != nil {
		return nil, classify("list user movie categories", err)
	}
	categories, err := scanCategories(rows)
	if err != nil {
		return nil, classify("list user movie categories", err)
	}
	return categories, nil
}

// ListCategoryPairs returns every (user, movie) pair the category is applied to.
func (s *Store) ListCategoryPairs(ctx context.Context, categoryID string) ([]domain.PostKey, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, movie_id FROM user_movie_categories WHERE category_id = ? ORDER BY created_at`, categoryID)
	if err != nil {
		return nil, classify("list category pairs", err)
	}
	keys, err := scanPostKeys(rows)
	if err != nil {
		return nil, classify("list category pairs", err)
	}
	return keys, nil
}

func scanPostKeys(rows *sql.Rows) ([]domain.PostKey, error) {
	defer rows.Close()

	keys := []domain.PostKey{}
	for rows.Next() {
		var k domain.PostKey
		if err := rows.Scan(&k.UserID, &k.MovieID); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
