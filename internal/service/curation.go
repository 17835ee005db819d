package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/reelnotes/reelnotes-server/internal/domain"
	domainerrors "github.com/reelnotes/reelnotes-server/internal/errors"
	"github.com/reelnotes/reelnotes-server/internal/id"
	"github.com/reelnotes/reelnotes-server/internal/store"
	"github.com/reelnotes/reelnotes-server/internal/validation"
)

// CurationService records a user's tags, categories and note on a movie.
// Every successful mutation schedules regeneration of the pair's blog post;
// the mutation's result never depends on it.
type CurationService struct {
	store     store.Store
	regen     Regenerator
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCurationService creates a new curation service.
func NewCurationService(store store.Store, regen Regenerator, validator *validation.Validator, logger *slog.Logger) *CurationService {
	return &CurationService{
		store:     store,
		regen:     regen,
		validator: validator,
		logger:    logger,
	}
}

// PutNoteInput sets the note text.
type PutNoteInput struct {
	Content string `json:"content" validate:"required,notblank,max=10000"`
}

// AddTag applies a tag to a movie for the user.
func (s *CurationService) AddTag(ctx context.Context, userID, movieID, tagID string) error {
	if err := s.requireMovie(ctx, movieID); err != nil {
		return err
	}
	if _, err := s.store.GetTag(ctx, tagID); err != nil {
		return storeError(err, "tag")
	}

	err := s.store.AddUserMovieTag(ctx, &domain.UserMovieTag{
		UserID:    userID,
		MovieID:   movieID,
		TagID:     tagID,
		CreatedAt: time.Now(),
	})
	if domainerrors.Is(err, store.ErrAlreadyExists) {
		return domainerrors.Conflict("tag is already applied to this movie")
	}
	if err != nil {
		return storeError(err, "tag")
	}

	s.trigger(userID, movieID)
	s.logger.Debug("tag applied", "user_id", userID, "movie_id", movieID, "tag_id", tagID)
	return nil
}

// RemoveTag removes a tag the user applied to a movie.
func (s *CurationService) RemoveTag(ctx context.Context, userID, movieID, tagID string) error {
	if err := s.requireMovie(ctx, movieID); err != nil {
		return err
	}
	if err := s.store.RemoveUserMovieTag(ctx, userID, movieID, tagID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("tag is not applied to this movie")
		}
		return storeError(err, "tag")
	}

	s.trigger(userID, movieID)
	return nil
}

// AddCategory files a movie under a category for the user.
func (s *CurationService) AddCategory(ctx context.Context, userID, movieID, categoryID string) error {
	if err := s.requireMovie(ctx, movieID); err != nil {
		return err
	}
	if _, err := s.store.GetCategory(ctx, categoryID); err != nil {
		return storeError(err, "category")
	}

	err := s.store.AddUserMovieCategory(ctx, &domain.UserMovieCategory{
		UserID:     userID,
		MovieID:    movieID,
		CategoryID: categoryID,
		CreatedAt:  time.Now(),
	})
	if domainerrors.Is(err, store.ErrAlreadyExists) {
		return domainerrors.Conflict("category is already applied to this movie")
	}
	if err != nil {
		return storeError(err, "category")
	}

	s.trigger(userID, movieID)
	s.logger.Debug("category applied", "user_id", userID, "movie_id", movieID, "category_id", categoryID)
	return nil
}

// RemoveCategory removes a category the user filed a movie under.
func (s *CurationService) RemoveCategory(ctx context.Context, userID, movieID, categoryID string) error {
	if err := s.requireMovie(ctx, movieID); err != nil {
		return err
	}
	if err := s.store.RemoveUserMovieCategory(ctx, userID, movieID, categoryID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("category is not applied to this movie")
		}
		return storeError(err, "category")
	}

	s.trigger(userID, movieID)
	return nil
}

// PutNote creates or replaces the user's note on a movie.
func (s *CurationService) PutNote(ctx context.Context, userID, movieID string, input PutNoteInput) (*domain.UserNote, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}
	if err := s.requireMovie(ctx, movieID); err != nil {
		return nil, err
	}

	noteID, err := id.Generate(id.PrefixNote)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate note id")
	}
	now := time.Now()
	note := &domain.UserNote{
		ID:        noteID,
		UserID:    userID,
		MovieID:   movieID,
		Content:   strings.TrimSpace(input.Content),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.PutNote(ctx, note); err != nil {
		return nil, storeError(err, "note")
	}

	s.trigger(userID, movieID)
	return note, nil
}

// DeleteNote removes the user's note on a movie.
func (s *CurationService) DeleteNote(ctx context.Context, userID, movieID string) error {
	if err := s.requireMovie(ctx, movieID); err != nil {
		return err
	}
	if err := s.store.DeleteNotes(ctx, userID, movieID); err != nil {
		return storeError(err, "note")
	}

	s.trigger(userID, movieID)
	return nil
}

// Personalization returns everything the user attached to a movie.
func (s *CurationService) Personalization(ctx context.Context, userID, movieID string) (*domain.Personalization, error) {
	if err := s.requireMovie(ctx, movieID); err != nil {
		return nil, err
	}
	return loadPersonalization(ctx, s.store, userID, movieID)
}

func (s *CurationService) requireMovie(ctx context.Context, movieID string) error {
	if strings.TrimSpace(movieID) == "" {
		return domainerrors.Validation("movie id is required")
	}
	if _, err := s.store.GetMovie(ctx, movieID); err != nil {
		return storeError(err, "movie")
	}
	return nil
}

func (s *CurationService) trigger(userID, movieID string) {
	key := domain.PostKey{UserID: userID, MovieID: movieID}
	if !s.regen.Enqueue(key) {
		s.logger.Warn("regeneration not scheduled, queue closed", "key", key.String())
	}
}

// loadPersonalization reads the tags, categories and latest note of a pair.
func loadPersonalization(ctx context.Context, st store.Store, userID, movieID string) (*domain.Personalization, error) {
	tags, err := st.ListUserMovieTags(ctx, userID, movieID)
	if err != nil {
		return nil, storeError(err, "tag")
	}
	categories, err := st.ListUserMovieCategories(ctx, userID, movieID)
	if err != nil {
		return nil, storeError(err, "category")
	}
	note, err := st.GetNote(ctx, userID, movieID)
	switch {
	case domainerrors.Is(err, store.ErrNotFound):
		note = nil
	case err != nil:
		return nil, storeError(err, "note")
	}

	return &domain.Personalization{Tags: tags, Categories: categories, Note: note}, nil
}
