// Package service implements the ReelNotes catalog operations on top of the
// store, the search index and the metadata provider.
package service

import (
	"context"

	"github.com/reelnotes/reelnotes-server/internal/domain"
	domainerrors "github.com/reelnotes/reelnotes-server/internal/errors"
	"github.com/reelnotes/reelnotes-server/internal/metadata/tmdb"
	"github.com/reelnotes/reelnotes-server/internal/store"
)

// Regenerator schedules blog post regeneration for a (user, movie) pair.
// Enqueue never blocks and returns false once the queue is shut down.
type Regenerator interface {
	Enqueue(key domain.PostKey) bool
}

// MetadataProvider looks movies up in an external catalog.
type MetadataProvider interface {
	Enabled() bool
	SearchMovies(ctx context.Context, query string, year int) ([]tmdb.SearchResult, error)
	GetMovie(ctx context.Context, tmdbID int64) (*tmdb.MovieDetails, error)
	FetchPoster(ctx context.Context, posterURL string) ([]byte, error)
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID  string
	IsAdmin bool
}

// CanModify reports whether the actor may modify a resource owned by ownerID.
func (a Actor) CanModify(ownerID string) bool {
	return a.IsAdmin || a.UserID == ownerID
}

// storeError maps a store failure onto a domain error. what names the
// resource in the client-facing message.
func storeError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case domainerrors.Is(err, store.ErrNotFound):
		return domainerrors.Wrapf(err, domainerrors.CodeNotFound, "%s not found", what)
	case domainerrors.Is(err, store.ErrAlreadyExists):
		return domainerrors.Wrapf(err, domainerrors.CodeAlreadyExists, "%s already exists", what)
	case domainerrors.Is(err, store.ErrForeignKey):
		return domainerrors.Wrapf(err, domainerrors.CodeNotFound, "%s references a missing resource", what)
	case domainerrors.Is(err, store.ErrConstraintViolation):
		return domainerrors.Wrapf(err, domainerrors.CodeValidation, "invalid %s", what)
	default:
		return domainerrors.Wrapf(err, domainerrors.CodeInternal, "%s: storage failure", what)
	}
}

// pagination validates params, rejecting undecodable cursors.
func pagination(params store.PaginationParams) (store.PaginationParams, error) {
	params.Validate()
	if _, err := params.Offset(); err != nil {
		return params, domainerrors.Validation("invalid cursor")
	}
	return params, nil
}
