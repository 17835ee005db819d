package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/reelnotes/reelnotes-server/internal/auth"
	"github.com/reelnotes/reelnotes-server/internal/config"
	"github.com/reelnotes/reelnotes-server/internal/domain"
	domainerrors "github.com/reelnotes/reelnotes-server/internal/errors"
	"github.com/reelnotes/reelnotes-server/internal/store"
	"github.com/reelnotes/reelnotes-server/internal/validation"
)

// ProfileService resolves identity claims into stored profiles.
type ProfileService struct {
	store     store.Store
	identity  config.IdentityConfig
	regen     Regenerator
	validator *validation.Validator
	logger    *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(
	store store.Store,
	identity config.IdentityConfig,
	regen Regenerator,
	validator *validation.Validator,
	logger *slog.Logger,
) *ProfileService {
	return &ProfileService{
		store:     store,
		identity:  identity,
		regen:     regen,
		validator: validator,
		logger:    logger,
	}
}

// UpdateProfileInput changes the public identity of a profile.
// Nil fields are left unchanged.
type UpdateProfileInput struct {
	Username *string `json:"username" validate:"omitempty,notblank,max=50"`
	FullName *string `json:"full_name" validate:"omitempty,notblank,max=100"`
}

// IsAdmin reports whether email is configured as an administrator.
func (s *ProfileService) IsAdmin(email string) bool {
	return s.identity.IsAdmin(email)
}

// Resolve returns the profile for the token's user, creating it on first
// sight. Username and name supplied in the claims refresh stored values.
func (s *ProfileService) Resolve(ctx context.Context, claims *auth.Claims) (*domain.Profile, error) {
	now := time.Now()

	profile, err := s.store.GetProfile(ctx, claims.UserID)
	switch {
	case domainerrors.Is(err, store.ErrNotFound):
		profile = &domain.Profile{
			UserID:    claims.UserID,
			Email:     claims.Email,
			Username:  strings.TrimSpace(claims.Username),
			FullName:  strings.TrimSpace(claims.Name),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.store.UpsertProfile(ctx, profile); err != nil {
			return nil, storeError(err, "profile")
		}
		s.logger.Info("profile created", "user_id", profile.UserID)
		return profile, nil

	case err != nil:
		return nil, storeError(err, "profile")
	}

	before := *profile
	profile.Email = claims.Email
	if u := strings.TrimSpace(claims.Username); u != "" {
		profile.Username = u
	}
	if n := strings.TrimSpace(claims.Name); n != "" {
		profile.FullName = n
	}
	if *profile == before {
		return profile, nil
	}

	profile.UpdatedAt = now
	if err := s.store.UpsertProfile(ctx, profile); err != nil {
		return nil, storeError(err, "profile")
	}
	if bylineChanged(&before, profile) {
		s.regenerateUserPosts(ctx, profile.UserID)
	}
	return profile, nil
}

// Get returns a stored profile.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, storeError(err, "profile")
	}
	return p, nil
}

// Update changes username and/or full name and regenerates the user's posts,
// whose slug and byline derive from them.
func (s *ProfileService) Update(ctx context.Context, userID string, input UpdateProfileInput) (*domain.Profile, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, storeError(err, "profile")
	}

	before := *profile
	if input.Username != nil {
		profile.Username = strings.TrimSpace(*input.Username)
	}
	if input.FullName != nil {
		profile.FullName = strings.TrimSpace(*input.FullName)
	}
	profile.UpdatedAt = time.Now()

	if err := s.store.UpsertProfile(ctx, profile); err != nil {
		return nil, storeError(err, "profile")
	}

	if bylineChanged(&before, profile) {
		s.regenerateUserPosts(ctx, userID)
	}

	s.logger.Info("profile updated", "user_id", userID)
	return profile, nil
}

func bylineChanged(before, after *domain.Profile) bool {
	return before.DisplayUsername() != after.DisplayUsername() ||
		before.DisplayName() != after.DisplayName()
}

// regenerateUserPosts enqueues every post the user owns. Failures to list are
// logged; the profile change itself already succeeded.
func (s *ProfileService) regenerateUserPosts(ctx context.Context, userID string) {
	posts, err := s.store.ListBlogPostsByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list posts for regeneration", "user_id", userID, "error", err)
		return
	}
	for _, p := range posts {
		s.regen.Enqueue(domain.PostKey{UserID: userID, MovieID: p.MovieID})
	}
}
