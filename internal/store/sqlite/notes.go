package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/reelnotes/reelnotes-server/internal/domain"
)

const noteColumns = `id, user_id, movie_id, content, created_at, updated_at`

func scanNote(scanner interface{ Scan(dest ...any) error }) (*domain.UserNote, error) {
	var n domain.UserNote

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(&n.ID, &n.UserID, &n.MovieID, &n.Content, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	n.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	n.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &n, nil
}

// PutNote stores the note for a (user, movie) pair. The most recent existing
// note for the pair is rewritten in place; otherwise note is inserted as given.
// On return note.ID and note.CreatedAt reflect the stored row.
func (s *Store) PutNote(ctx context.Context, note *domain.UserNote) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("put note", err)
	}
	defer tx.Rollback()

	var (
		existingID string
		createdAt  string
	)
	err = tx.QueryRowContext(ctx, `
		SELECT id, created_at FROM user_notes
		WHERE user_id = ? AND movie_id = ?
		ORDER BY updated_at DESC LIMIT 1`,
		note.UserID, note.MovieID,
	).Scan(&existingID, &createdAt)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx, `
			INSERT INTO user_notes (`+noteColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			note.ID,
			note.UserID,
			note.MovieID,
			note.Content,
			formatTime(note.CreatedAt),
			formatTime(note.UpdatedAt),
		)
		if err != nil {
			return classify("put note", err)
		}
	case err != nil:
		return classify("put note", err)
	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE user_notes SET content = ?, updated_at = ? WHERE id = ?`,
			note.Content, formatTime(note.UpdatedAt), existingID,
		); err != nil {
			return classify("put note", err)
		}
		note.ID = existingID
		if note.CreatedAt, err = parseTime(createdAt); err != nil {
			return fmt.Errorf("put note: %w", err)
		}
	}

	return classify("put note", tx.Commit())
}

// GetNote returns the most recently updated note for the pair.
func (s *Store) GetNote(ctx context.Context, userID, movieID string) (*domain.UserNote, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+noteColumns+` FROM user_notes
		WHERE user_id = ? AND movie_id = ?
		ORDER BY updated_at DESC LIMIT 1`,
		userID, movieID)

	n, err := scanNote(row)
	if err != nil {
		return nil, classify("get note", err)
	}
	return n, nil
}

// DeleteNotes removes every note for the pair.
func (s *Store) DeleteNotes(ctx context.Context, userID, movieID string) error {
	return s.execAffectingOne(ctx, "delete notes",
		`DELETE FROM user_notes WHERE user_id = ? AND movie_id = ?`, userID, movieID)
}
