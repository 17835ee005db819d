package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelnotes/reelnotes-server/internal/cache"
	"github.com/reelnotes/reelnotes-server/internal/domain"
	domainerrors "github.com/reelnotes/reelnotes-server/internal/errors"
)

func TestTaxonomyService_CreateTag(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tag, err := env.taxonomy.CreateTag(ctx, admin, CreateTermInput{Name: "  Mind   bending "})
	require.NoError(t, err)
	assert.Equal(t, "Mind bending", tag.Name)
	assert.Equal(t, domain.DefaultColor, tag.Color)
	assert.Equal(t, "mind-bending", tag.Slug())

	colored, err := env.taxonomy.CreateTag(ctx, admin, CreateTermInput{Name: "Noir", Color: "#1A1A1A"})
	require.NoError(t, err)
	assert.Equal(t, "#1a1a1a", colored.Color)
}

func TestTaxonomyService_CreateTag_Rejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.taxonomy.CreateTag(ctx, alice, CreateTermInput{Name: "Twist"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))

	env.seedTag(t, "Sci-Fi")

	for _, name := range []string{"sci-fi", " SCI-FI ", "Sci Fi"} {
		_, err = env.taxonomy.CreateTag(ctx, admin, CreateTermInput{Name: name})
		assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict), name)
	}

	_, err = env.taxonomy.CreateTag(ctx, admin, CreateTermInput{Name: " SCI-FI "})
	var derr *domainerrors.Error
	require.True(t, domainerrors.As(err, &derr))
	assert.Equal(t, `a tag named "SCI-FI" already exists`, derr.Message)

	_, err = env.taxonomy.CreateTag(ctx, admin, CreateTermInput{Name: "Sci Fi"})
	require.True(t, domainerrors.As(err, &derr))
	assert.Equal(t, `tag "Sci Fi" conflicts with the browse slug of existing tag "Sci-Fi"`, derr.Message)

	for _, input := range []CreateTermInput{
		{Name: ""},
		{Name: "!!!"},
		{Name: "Twist", Color: "red"},
		{Name: "Twist", Color: "#fff"},
	} {
		_, err = env.taxonomy.CreateTag(ctx, admin, input)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation), "%+v", input)
	}
}

func TestTaxonomyService_ListTags_Cached(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tags, err := env.taxonomy.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)

	env.seedTag(t, "Twist")

	tags, err = env.taxonomy.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1, "create invalidates the cached listing")

	// A write behind the service's back is not visible until the entry expires.
	now := time.Now()
	require.NoError(t, env.store.CreateTag(ctx, &domain.Tag{ID: "tag-direct", Name: "Direct", Color: domain.DefaultColor, CreatedAt: now, UpdatedAt: now}))

	tags, err = env.taxonomy.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestTaxonomyService_ListTags_Expires(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := cache.ClockFunc(func() time.Time { return now })
	svc := NewTaxonomyService(env.store, cache.NewMemoryBackend(), time.Hour, env.regen, env.validator, env.logger, cache.WithClock(clock))

	tags, err := svc.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)

	created := time.Now()
	require.NoError(t, env.store.CreateTag(ctx, &domain.Tag{ID: "tag-direct", Name: "Direct", Color: domain.DefaultColor, CreatedAt: created, UpdatedAt: created}))

	tags, err = svc.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)

	now = now.Add(time.Hour + time.Second)

	tags, err = svc.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestTaxonomyService_UpdateTag_RegeneratesPosts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedProfile(t, alice.UserID, "alice", "")
	movie := env.seedMovie(t, "Heat", "1995-12-15")
	tag := env.seedTag(t, "Heist")
	require.NoError(t, env.curation.AddTag(ctx, alice.UserID, movie.ID, tag.ID))
	env.regen.Reset()

	updated, err := env.taxonomy.UpdateTag(ctx, admin, tag.ID, UpdateTermInput{Name: strPtr("Heists"), Color: strPtr("#ff0000")})
	require.NoError(t, err)
	assert.Equal(t, "Heists", updated.Name)
	assert.Equal(t, "#ff0000", updated.Color)

	assert.Equal(t, []domain.PostKey{{UserID: alice.UserID, MovieID: movie.ID}}, env.regen.Keys())

	bySlug, err := env.taxonomy.TagBySlug(ctx, "heists")
	require.NoError(t, err)
	assert.Equal(t, tag.ID, bySlug.ID)

	_, err = env.taxonomy.UpdateTag(ctx, admin, "tag-missing", UpdateTermInput{Name: strPtr("X")})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestTaxonomyService_DeleteTag_RegeneratesPosts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedProfile(t, alice.UserID, "alice", "")
	env.seedProfile(t, bob.UserID, "bob", "")
	movie := env.seedMovie(t, "Heat", "1995-12-15")
	tag := env.seedTag(t, "Heist")
	require.NoError(t, env.curation.AddTag(ctx, alice.UserID, movie.ID, tag.ID))
	require.NoError(t, env.curation.AddTag(ctx, bob.UserID, movie.ID, tag.ID))
	env.regen.Reset()

	err := env.taxonomy.DeleteTag(ctx, alice, tag.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))

	require.NoError(t, env.taxonomy.DeleteTag(ctx, admin, tag.ID))
	assert.ElementsMatch(t, []domain.PostKey{
		{UserID: alice.UserID, MovieID: movie.ID},
		{UserID: bob.UserID, MovieID: movie.ID},
	}, env.regen.Keys())

	p, err := env.curation.Personalization(ctx, alice.UserID, movie.ID)
	require.NoError(t, err)
	assert.Empty(t, p.Tags)

	tags, err := env.taxonomy.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestTaxonomyService_Categories(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	category := env.seedCategory(t, "Crime")

	_, err := env.taxonomy.CreateCategory(ctx, admin, CreateTermInput{Name: "crime"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))

	categories, err := env.taxonomy.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)

	updated, err := env.taxonomy.UpdateCategory(ctx, admin, category.ID, UpdateTermInput{Description: strPtr("Heists and detectives")})
	require.NoError(t, err)
	assert.Equal(t, "Crime", updated.Name)
	assert.Equal(t, "Heists and detectives", updated.Description)

	categories, err = env.taxonomy.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Heists and detectives", categories[0].Description)

	require.NoError(t, env.taxonomy.DeleteCategory(ctx, admin, category.ID))
	err = env.taxonomy.DeleteCategory(ctx, admin, category.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestTaxonomyService_MoviesForTag(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	key := curatedInception(t, env)
	require.NoError(t, env.blog.Regenerate(ctx, key))

	tag, posts, err := env.taxonomy.MoviesForTag(ctx, "mind-bending")
	require.NoError(t, err)
	assert.Equal(t, "Mind-bending", tag.Name)
	require.Len(t, posts, 1)
	assert.Equal(t, "inception-2010-alice", posts[0].Slug)

	_, _, err = env.taxonomy.MoviesForTag(ctx, "unknown")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}
