package sqlite

import (
	"context"
	"database/sql"

	"github.com/reelnotes/reelnotes-server/internal/domain"
	"github.com/reelnotes/reelnotes-server/internal/normalize"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, name, description, color, created_at, updated_at`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.Color,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func scanTags(rows *sql.Rows) ([]*domain.Tag, error) {
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// CreateTag inserts a new tag.
// Returns store.ErrAlreadyExists when the normalized name or the slug is taken.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, name_key, slug, description, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.Name,
		normalize.Key(t.Name),
		t.Slug(),
		t.Description,
		t.Color,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	return classify("create tag", err)
}

// GetTag retrieves a tag by its ID.
func (s *Store) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ?`, id)

	t, err := scanTag(row)
	if err != nil {
		return nil, classify("get tag", err)
	}
	return t, nil
}

// GetTagBySlug retrieves a tag by its browse slug.
func (s *Store) GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE slug = ?`, slug)

	t, err := scanTag(row)
	if err != nil {
		return nil, classify("get tag by slug", err)
	}
	return t, nil
}

// ListTags returns all tags ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, classify("list tags", err)
	}
	tags, err := scanTags(rows)
	if err != nil {
		return nil, classify("list tags", err)
	}
	return tags, nil
}

// UpdateTag overwrites name, description and color.
func (s *Store) UpdateTag(ctx context.Context, t *domain.Tag) error {
	return s.execAffectingOne(ctx, "update tag", `
		UPDATE tags SET name = ?, name_key = ?, slug = ?, description = ?, color = ?, updated_at = ?
		WHERE id = ?`,
		t.Name,
		normalize.Key(t.Name),
		t.Slug(),
		t.Description,
		t.Color,
		formatTime(t.UpdatedAt),
		t.ID,
	)
}

// DeleteTag removes a tag and, by cascade, every application of it.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	return s.execAffectingOne(ctx, "delete tag", `DELETE FROM tags WHERE id = ?`, id)
}
