package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelnotes/reelnotes-server/internal/domain"
	domainerrors "github.com/reelnotes/reelnotes-server/internal/errors"
)

func TestCurationService_AddTag(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedProfile(t, alice.UserID, "alice", "Alice Smith")
	movie := env.seedMovie(t, "Inception", "2010-07-16")
	tag := env.seedTag(t, "Mind-bending")

	require.NoError(t, env.curation.AddTag(ctx, alice.UserID, movie.ID, tag.ID))

	assert.Equal(t, []domain.PostKey{{UserID: alice.UserID, MovieID: movie.ID}}, env.regen.Keys())

	p, err := env.curation.Personalization(ctx, alice.UserID, movie.ID)
	require.NoError(t, err)
	require.Len(t, p.Tags, 1)
	assert.Equal(t, "Mind-bending", p.Tags[0].Name)
}

func TestCurationService_AddTag_AlreadyApplied(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedProfile(t, alice.UserID, "alice", "")
	movie := env.seedMovie(t, "Inception", "2010")
	tag := env.seedTag(t, "Twist")

	require.NoError(t, env.curation.AddTag(ctx, alice.UserID, movie.ID, tag.ID))
	env.regen.Reset()

	err := env.curation.AddTag(ctx, alice.UserID, movie.ID, tag.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
	assert.Empty(t, env.regen.Keys(), "a rejected mutation must not trigger regeneration")
}

func TestCurationService_AddTag_Missing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedProfile(t, alice.UserID, "alice", "")
	movie := env.seedMovie(t, "Inception", "2010")
	tag := env.seedTag(t, "Twist")

	err := env.curation.AddTag(ctx, alice.UserID, "mov-missing", tag.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	err = env.curation.AddTag(ctx, alice.UserID, movie.ID, "tag-missing")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	err = env.curation.AddTag(ctx, alice.UserID, "", tag.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	assert.Empty(t, env.regen.Keys())
}

func TestCurationService_RemoveTag(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedProfile(t, alice.UserID, "alice", "")
	movie := env.seedMovie(t, "Heat", "1995-12-15")
	tag := env.seedTag(t, "Heist")

	err := env.curation.RemoveTag(ctx, alice.UserID, movie.ID, tag.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	require.NoError(t, env.curation.AddTag(ctx, alice.UserID, movie.ID, tag.ID))
	require.NoError(t, env.curation.RemoveTag(ctx, alice.UserID, movie.ID, tag.ID))

	assert.Len(t, env.regen.Keys(), 2)

	p, err := env.curation.Personalization(ctx, alice.UserID, movie.ID)
	require.NoError(t, err)
	assert.Empty(t, p.Tags)
}

func TestCurationService_Categories(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedProfile(t, alice.UserID, "alice", "")
	movie := env.seedMovie(t, "Heat", "1995-12-15")
	category := env.seedCategory(t, "Crime")

	require.NoError(t, env.curation.AddCategory(ctx, alice.UserID, movie.ID, category.ID))

	err := env.curation.AddCategory(ctx, alice.UserID, movie.ID, category.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))

	p, err := env.curation.Personalization(ctx, alice.UserID, movie.ID)
	require.NoError(t, err)
	require.Len(t, p.Categories, 1)
	assert.Equal(t, "Crime", p.Categories[0].Name)

	require.NoError(t, env.curation.RemoveCategory(ctx, alice.UserID, movie.ID, category.ID))
	err = env.curation.RemoveCategory(ctx, alice.UserID, movie.ID, category.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestCurationService_Notes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedProfile(t, alice.UserID, "alice", "")
	movie := env.seedMovie(t, "Heat", "1995-12-15")

	note, err := env.curation.PutNote(ctx, alice.UserID, movie.ID, PutNoteInput{Content: "  first take  "})
	require.NoError(t, err)
	assert.Equal(t, "first take", note.Content)

	_, err = env.curation.PutNote(ctx, alice.UserID, movie.ID, PutNoteInput{Content: "second take"})
	require.NoError(t, err)

	p, err := env.curation.Personalization(ctx, alice.UserID, movie.ID)
	require.NoError(t, err)
	require.NotNil(t, p.Note)
	assert.Equal(t, "second take", p.Note.Content)

	require.NoError(t, env.curation.DeleteNote(ctx, alice.UserID, movie.ID))

	p, err = env.curation.Personalization(ctx, alice.UserID, movie.ID)
	require.NoError(t, err)
	assert.Nil(t, p.Note)
	assert.True(t, p.IsEmpty())

	err = env.curation.DeleteNote(ctx, alice.UserID, movie.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	assert.Len(t, env.regen.Keys(), 3)
}

func TestCurationService_PutNote_Blank(t *testing.T) {
	env := newTestEnv(t)

	env.seedProfile(t, alice.UserID, "alice", "")
	movie := env.seedMovie(t, "Heat", "1995-12-15")

	_, err := env.curation.PutNote(context.Background(), alice.UserID, movie.ID, PutNoteInput{Content: "   "})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
	assert.Empty(t, env.regen.Keys())
}
