package search

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelnotes/reelnotes-server/internal/domain"
)

func setupTestIndex(t *testing.T) *SearchIndex {
	t.Helper()

	index, err := NewSearchIndex(Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	return index
}

func testMovie(id, title, date, director string) *domain.Movie {
	return &domain.Movie{
		ID:          id,
		Title:       title,
		ReleaseDate: date,
		Director:    director,
		UpdatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewSearchIndex(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
	assert.True(t, index.NeedsReindex())
}

func TestNewSearchIndex_ReopensExisting(t *testing.T) {
	dir := t.TempDir()

	index, err := NewSearchIndex(Options{DataPath: dir})
	require.NoError(t, err)
	require.NoError(t, index.IndexDocuments([]*SearchDocument{MovieDocument(testMovie("m1", "Heat", "1995-12-15", "Michael Mann"))}))
	require.NoError(t, index.Close())

	reopened, err := NewSearchIndex(Options{DataPath: dir})
	require.NoError(t, err)
	defer reopened.Close()

	assert.False(t, reopened.NeedsReindex())
	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestNewSearchIndex_RebuildsOnVersionChange(t *testing.T) {
	dir := t.TempDir()

	index, err := NewSearchIndex(Options{DataPath: dir})
	require.NoError(t, err)
	require.NoError(t, index.IndexMovie(MovieDocument(testMovie("m1", "Heat", "1995", ""))))
	require.NoError(t, index.Close())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "search.version"), []byte("0"), 0o644))

	rebuilt, err := NewSearchIndex(Options{DataPath: dir})
	require.NoError(t, err)
	defer rebuilt.Close()

	assert.True(t, rebuilt.NeedsReindex())
	count, err := rebuilt.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearchIndex_MoviesAndPosts(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	inception := testMovie("m1", "Inception", "2010-07-16", "Christopher Nolan")
	inception.Overview = "A thief who steals corporate secrets through dream-sharing technology."
	heat := testMovie("m2", "Heat", "1995-12-15", "Michael Mann")

	require.NoError(t, index.IndexMovie(MovieDocument(inception)))
	require.NoError(t, index.IndexMovie(MovieDocument(heat)))

	post := &domain.BlogPost{
		ID:              "p1",
		MovieID:         "m1",
		Slug:            "inception-2010-alice",
		Title:           "Inception (2010) - Mind-bending",
		MetaDescription: "Inception (2010): a dream inside a dream",
		Content:         "<article><h1>Inception</h1><blockquote>Totally labyrinthine plotting</blockquote></article>",
		UpdatedAt:       time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, index.IndexPost(PostDocument(post, inception, []*domain.Tag{{Name: "Mind-bending"}}, nil)))

	t.Run("title match across types", func(t *testing.T) {
		res, err := index.Search(ctx, SearchParams{Query: "inception"})
		require.NoError(t, err)
		assert.Equal(t, uint64(2), res.Total)
	})

	t.Run("type filter", func(t *testing.T) {
		res, err := index.Search(ctx, SearchParams{Query: "inception", Types: []DocType{DocTypePost}})
		require.NoError(t, err)
		require.Len(t, res.Hits, 1)
		hit := res.Hits[0]
		assert.Equal(t, "p1", hit.ID)
		assert.Equal(t, DocTypePost, hit.Type)
		assert.Equal(t, "inception-2010-alice", hit.Slug)
		assert.Equal(t, "m1", hit.MovieID)
		assert.Equal(t, 2010, hit.Year)
	})

	t.Run("body text is searchable", func(t *testing.T) {
		res, err := index.Search(ctx, SearchParams{Query: "labyrinthine"})
		require.NoError(t, err)
		require.Len(t, res.Hits, 1)
		assert.Equal(t, "p1", res.Hits[0].ID)
	})

	t.Run("director", func(t *testing.T) {
		res, err := index.Search(ctx, SearchParams{Query: "mann", Types: []DocType{DocTypeMovie}})
		require.NoError(t, err)
		require.Len(t, res.Hits, 1)
		assert.Equal(t, "m2", res.Hits[0].ID)
		assert.Equal(t, "Michael Mann", res.Hits[0].Director)
	})

	t.Run("year filter", func(t *testing.T) {
		res, err := index.Search(ctx, SearchParams{Types: []DocType{DocTypeMovie}, Year: 1995})
		require.NoError(t, err)
		require.Len(t, res.Hits, 1)
		assert.Equal(t, "Heat", res.Hits[0].Title)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, index.Delete(DocTypePost, "p1"))
		res, err := index.Search(ctx, SearchParams{Query: "labyrinthine"})
		require.NoError(t, err)
		assert.Zero(t, res.Total)
	})
}

func TestSearchIndex_DeleteMany(t *testing.T) {
	index := setupTestIndex(t)

	docs := []*SearchDocument{
		MovieDocument(testMovie("m1", "Alien", "1979", "Ridley Scott")),
		MovieDocument(testMovie("m2", "Aliens", "1986", "James Cameron")),
		MovieDocument(testMovie("m3", "Arrival", "2016", "Denis Villeneuve")),
	}
	require.NoError(t, index.IndexDocuments(docs))
	assert.False(t, index.NeedsReindex())

	require.NoError(t, index.DeleteMany(DocTypeMovie, []string{"m1", "m2"}))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestSearchIndex_Rebuild(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexMovie(MovieDocument(testMovie("m1", "Alien", "1979", ""))))

	require.NoError(t, index.Rebuild())

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
	assert.True(t, index.NeedsReindex())
}

func TestDocID(t *testing.T) {
	assert.Equal(t, "movie:abc", DocID(DocTypeMovie, "abc"))
	assert.Equal(t, "post:abc", DocID(DocTypePost, "abc"))
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"nested tags", "<article><h1>Heat</h1><p>Cops &amp; <b>robbers</b></p></article>", "Heat Cops & robbers"},
		{"skips script and style", "<p>a</p><script>var x = 1;</script><style>p{}</style><p>b</p>", "a b"},
		{"collapses whitespace", "<p>\n  spaced \t out  </p>", "spaced out"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PlainText(tt.in))
		})
	}
}
