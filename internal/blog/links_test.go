package blog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateExternalLinks(t *testing.T) {
	tmdbID := int64(27205)

	t.Run("both ids", func(t *testing.T) {
		links := GenerateExternalLinks(&tmdbID, "tt1375666")

		require.NotNil(t, links.TMDB)
		require.NotNil(t, links.IMDb)
		require.NotNil(t, links.Metacritic)
		assert.Equal(t, "https://www.themoviedb.org/movie/27205", *links.TMDB)
		assert.Equal(t, "https://www.imdb.com/title/tt1375666", *links.IMDb)
		assert.Equal(t, "https://www.metacritic.com/movie/1375666", *links.Metacritic)
		assert.Nil(t, links.RottenTomatoes)
	})

	t.Run("tmdb only", func(t *testing.T) {
		links := GenerateExternalLinks(&tmdbID, "")
		assert.NotNil(t, links.TMDB)
		assert.Nil(t, links.IMDb)
		assert.Nil(t, links.Metacritic)
	})

	t.Run("imdb only", func(t *testing.T) {
		links := GenerateExternalLinks(nil, "tt0133093")
		assert.Nil(t, links.TMDB)
		assert.NotNil(t, links.IMDb)
		assert.NotNil(t, links.Metacritic)
	})

	t.Run("none", func(t *testing.T) {
		links := GenerateExternalLinks(nil, "")
		assert.Empty(t, links.Entries())
	})
}

func TestExternalLinks_EntriesOrder(t *testing.T) {
	tmdbID := int64(603)
	entries := GenerateExternalLinks(&tmdbID, "tt0133093").Entries()

	require.Len(t, entries, 3)
	assert.Equal(t, "The Movie Database", entries[0].Label)
	assert.Equal(t, "IMDb", entries[1].Label)
	assert.Equal(t, "Metacritic", entries[2].Label)
}
