package sqlite

import (
	"context"

	"github.com/reelnotes/reelnotes-server/internal/domain"
)

// GetProfile retrieves a profile by user id.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	var (
		p         domain.Profile
		createdAt string
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, email, username, full_name, created_at, updated_at
		FROM profiles WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &p.Email, &p.Username, &p.FullName, &createdAt, &updatedAt)
	if err != nil {
		return nil, classify("get profile", err)
	}

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProfile inserts or replaces a profile's identity fields.
// created_at is kept from the first insert.
func (s *Store) UpsertProfile(ctx context.Context, p *domain.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, email, username, full_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			email = excluded.email,
			username = excluded.username,
			full_name = excluded.full_name,
			updated_at = excluded.updated_at`,
		p.UserID,
		p.Email,
		p.Username,
		p.FullName,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	return classify("upsert profile", err)
}
