package sqlite

import (
	"context"
	"database/sql"

	"github.com/reelnotes/reelnotes-server/internal/domain"
	"github.com/reelnotes/reelnotes-server/internal/normalize"
)

const categoryColumns = `id, name, description, color, created_at, updated_at`

func scanCategory(scanner interface{ Scan(dest ...any) error }) (*domain.Category, error) {
	var c domain.Category

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Color,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func scanCategories(rows *sql.Rows) ([]*domain.Category, error) {
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateCategory inserts a new category.
// Returns store.ErrAlreadyExists when the normalized name is taken.
func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, name_key, description, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.Name,
		normalize.Key(c.Name),
		c.Description,
		c.Color,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	return classify("create category", err)
}

// GetCategory retrieves a category by its ID.
func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)

	c, err := scanCategory(row)
	if err != nil {
		return nil, classify("get category", err)
	}
	return c, nil
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, classify("list categories", err)
	}
	categories, err := scanCategories(rows)
	if err != nil {
		return nil, classify("list categories", err)
	}
	return categories, nil
}

// UpdateCategory overwrites name, description and color.
func (s *Store) UpdateCategory(ctx context.Context, c *domain.Category) error {
	return s.execAffectingOne(ctx, "update category", `
		UPDATE categories SET name = ?, name_key = ?, description = ?, color = ?, updated_at = ?
		WHERE id = ?`,
		c.Name,
		normalize.Key(c.Name),
		c.Description,
		c.Color,
		formatTime(c.UpdatedAt),
		c.ID,
	)
}

// DeleteCategory removes a category and, by cascade, every application of it.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return s.execAffectingOne(ctx, "delete category", `DELETE FROM categories WHERE id = ?`, id)
}
