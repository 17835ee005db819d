package tmdb

import (
	"errors"
	"fmt"
)

// Sentinel errors for TMDB operations.
var (
	ErrDisabled     = errors.New("tmdb: no api key configured")
	ErrNotFound     = errors.New("tmdb: not found")
	ErrUnauthorized = errors.New("tmdb: invalid api key")
	ErrRateLimited  = errors.New("tmdb: rate limited by server")
	ErrBadRequest   = errors.New("tmdb: bad request")
	ErrServer       = errors.New("tmdb: server error")
	ErrCircuitOpen  = errors.New("tmdb: circuit open")
	ErrTooLarge     = errors.New("tmdb: response too large")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op  string // "search", "movie", "poster"
	ID  string // movie id or query, if applicable
	Err error
}

func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("tmdb %s [%s]: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("tmdb %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, id string, err error) error {
	return &Error{Op: op, ID: id, Err: err}
}

// tripsBreaker reports whether err counts as a provider failure.
// Client-side outcomes (not found, bad key, bad request) do not.
func tripsBreaker(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrBadRequest):
		return false
	default:
		return true
	}
}
