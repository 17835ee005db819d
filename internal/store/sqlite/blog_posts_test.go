package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/reelnotes/reelnotes-server/internal/domain"
	"github.com/reelnotes/reelnotes-server/internal/store"
)

func makeTestPost(id, userID, movieID, slug string) *domain.BlogPost {
	return &domain.BlogPost{
		ID:              id,
		UserID:          userID,
		MovieID:         movieID,
		Slug:            slug,
		Title:           "Inception (2010) - Movie Review",
		Content:         "<article></article>",
		MetaDescription: "Inception (2010). Curated by Bob.",
		UpdatedAt:       time.Now(),
	}
}

func boolPtr(v bool) *bool { return &v }

func seedPair(t *testing.T, s *Store) {
	t.Helper()
	seedProfile(t, s, "user-1", "bob")
	seedMovie(t, s, "mov-1", "Inception")
}

func countPosts(t *testing.T, s *Store) int {
	t.Helper()
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM movie_blog_posts`).Scan(&n); err != nil {
		t.Fatalf("count posts: %v", err)
	}
	return n
}

func TestUpsertBlogPost_InsertDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedPair(t, s)

	post := makeTestPost("post-1", "user-1", "mov-1", "inception-2010-bob")
	if err := s.UpsertBlogPost(ctx, post, nil); err != nil {
		t.Fatalf("UpsertBlogPost: %v", err)
	}

	if !post.IsPublic {
		t.Error("is_public should default to true on insert")
	}
	if !post.AdminApproved {
		t.Error("admin_approved should be forced true on insert")
	}
	if post.ViewCount != 0 {
		t.Errorf("ViewCount: got %d", post.ViewCount)
	}
	if post.PublishedAt.Unix() != post.UpdatedAt.Unix() {
		t.Errorf("PublishedAt should equal UpdatedAt on insert: %v vs %v", post.PublishedAt, post.UpdatedAt)
	}

	private := makeTestPost("post-2", "user-1", "mov-2", "memento-2000-bob")
	seedMovie(t, s, "mov-2", "Memento")
	if err := s.UpsertBlogPost(ctx, private, boolPtr(false)); err != nil {
		t.Fatalf("UpsertBlogPost private: %v", err)
	}
	if private.IsPublic {
		t.Error("supplied is_public=false should be stored")
	}
}

func TestUpsertBlogPost_LastWriteWinsSingleRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedPair(t, s)

	first := makeTestPost("post-1", "user-1", "mov-1", "inception-2010-bob")
	first.Title = "Inception (2010) - Twist"
	if err := s.UpsertBlogPost(ctx, first, nil); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := makeTestPost("post-ignored", "user-1", "mov-1", "inception-2010-bob")
	second.Title = "Inception (2010) - Twist, Heist"
	second.UpdatedAt = time.Now().Add(time.Minute)
	if err := s.UpsertBlogPost(ctx, second, nil); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if n := countPosts(t, s); n != 1 {
		t.Fatalf("expected exactly one row, got %d", n)
	}
	if second.ID != "post-1" {
		t.Errorf("update should report the existing id, got %q", second.ID)
	}
	if second.PublishedAt.Unix() != first.PublishedAt.Unix() {
		t.Error("published_at must not change on update")
	}

	got, err := s.GetBlogPostByPair(ctx, "user-1", "mov-1")
	if err != nil {
		t.Fatalf("GetBlogPostByPair: %v", err)
	}
	if got.Title != "Inception (2010) - Twist, Heist" {
		t.Errorf("Title: got %q, want the second snapshot", got.Title)
	}
}

func TestUpsertBlogPost_PreservesModerationAndViews(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedPair(t, s)

	post := makeTestPost("post-1", "user-1", "mov-1", "inception-2010-bob")
	if err := s.UpsertBlogPost(ctx, post, nil); err != nil {
		t.Fatalf("UpsertBlogPost: %v", err)
	}

	if err := s.SetBlogPostApproval(ctx, "post-1", false); err != nil {
		t.Fatalf("SetBlogPostApproval: %v", err)
	}
	if err := s.SetBlogPostVisibility(ctx, "post-1", false); err != nil {
		t.Fatalf("SetBlogPostVisibility: %v", err)
	}
	for range 3 {
		if err := s.IncrementViewCount(ctx, "post-1"); err != nil {
			t.Fatalf("IncrementViewCount: %v", err)
		}
	}

	regen := makeTestPost("post-x", "user-1", "mov-1", "inception-2010-bob")
	if err := s.UpsertBlogPost(ctx, regen, nil); err != nil {
		t.Fatalf("regenerate: %v", err)
	}

	got, err := s.GetBlogPost(ctx, "post-1")
	if err != nil {
		t.Fatalf("GetBlogPost: %v", err)
	}
	if got.AdminApproved {
		t.Error("regeneration must not restore a revoked approval")
	}
	if got.IsPublic {
		t.Error("regeneration without is_public must keep the stored value")
	}
	if got.ViewCount != 3 {
		t.Errorf("ViewCount: got %d, want 3", got.ViewCount)
	}

	// Supplying is_public changes it; approval still untouched.
	if err := s.UpsertBlogPost(ctx, makeTestPost("post-y", "user-1", "mov-1", "inception-2010-bob"), boolPtr(true)); err != nil {
		t.Fatalf("upsert with is_public: %v", err)
	}
	got, err = s.GetBlogPost(ctx, "post-1")
	if err != nil {
		t.Fatalf("GetBlogPost: %v", err)
	}
	if !got.IsPublic || got.AdminApproved {
		t.Errorf("got is_public=%v admin_approved=%v, want true/false", got.IsPublic, got.AdminApproved)
	}
}

func TestUpsertBlogPost_SlugCollision(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedPair(t, s)
	seedProfile(t, s, "user-2", "bob")

	if err := s.UpsertBlogPost(ctx, makeTestPost("post-1", "user-1", "mov-1", "inception-2010-bob"), nil); err != nil {
		t.Fatalf("first: %v", err)
	}

	err := s.UpsertBlogPost(ctx, makeTestPost("post-2", "user-2", "mov-1", "inception-2010-bob"), nil)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected unique violation, got %v", err)
	}
	if target := store.ConstraintTarget(err); target != "movie_blog_posts.slug" {
		t.Errorf("ConstraintTarget: got %q", target)
	}
}

func TestIncrementViewCount_Concurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedPair(t, s)

	if err := s.UpsertBlogPost(ctx, makeTestPost("post-1", "user-1", "mov-1", "inception-2010-bob"), nil); err != nil {
		t.Fatalf("UpsertBlogPost: %v", err)
	}

	const readers = 20
	var wg sync.WaitGroup
	for range readers {
		wg.Go(func() {
			if err := s.IncrementViewCount(ctx, "post-1"); err != nil {
				t.Errorf("IncrementViewCount: %v", err)
			}
		})
	}
	wg.Wait()

	got, err := s.GetBlogPost(ctx, "post-1")
	if err != nil {
		t.Fatalf("GetBlogPost: %v", err)
	}
	if got.ViewCount != readers {
		t.Errorf("ViewCount: got %d, want %d", got.ViewCount, readers)
	}

	if err := s.IncrementViewCount(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListPublicBlogPosts_FiltersVisibility(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedProfile(t, s, "user-1", "bob")
	movies := []string{"mov-1", "mov-2", "mov-3"}
	for _, id := range movies {
		seedMovie(t, s, id, "Movie "+id)
	}

	base := time.Now()
	for i, movieID := range movies {
		p := makeTestPost("post-"+movieID, "user-1", movieID, "slug-"+movieID)
		p.UpdatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := s.UpsertBlogPost(ctx, p, nil); err != nil {
			t.Fatalf("UpsertBlogPost: %v", err)
		}
	}
	if err := s.SetBlogPostVisibility(ctx, "post-mov-1", false); err != nil {
		t.Fatalf("SetBlogPostVisibility: %v", err)
	}
	if err := s.SetBlogPostApproval(ctx, "post-mov-2", false); err != nil {
		t.Fatalf("SetBlogPostApproval: %v", err)
	}

	page, err := s.ListPublicBlogPosts(ctx, store.PaginationParams{})
	if err != nil {
		t.Fatalf("ListPublicBlogPosts: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 || page.Items[0].ID != "post-mov-3" {
		t.Fatalf("expected only post-mov-3, got total=%d items=%v", page.Total, page.Items)
	}
	if page.Items[0].Username != "bob" || page.Items[0].MovieTitle != "Movie mov-3" {
		t.Errorf("summary join: got %+v", page.Items[0])
	}

	all, err := s.ListAllBlogPosts(ctx, store.PaginationParams{})
	if err != nil {
		t.Fatalf("ListAllBlogPosts: %v", err)
	}
	if all.Total != 3 || all.Items[0].ID != "post-mov-3" {
		t.Errorf("ListAllBlogPosts: total=%d first=%v", all.Total, all.Items[0].ID)
	}

	mine, err := s.ListBlogPostsByUser(ctx, "user-1")
	if err != nil || len(mine) != 3 {
		t.Errorf("ListBlogPostsByUser: %d, %v", len(mine), err)
	}
}

func TestListPublicBlogPostsByTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedPair(t, s)
	seedMovie(t, s, "mov-2", "Memento")
	tag := seedTag(t, s, "tag-1", "Twist")

	for _, movieID := range []string{"mov-1", "mov-2"} {
		if err := s.UpsertBlogPost(ctx, makeTestPost("post-"+movieID, "user-1", movieID, "slug-"+movieID), nil); err != nil {
			t.Fatalf("UpsertBlogPost: %v", err)
		}
	}
	if err := s.AddUserMovieTag(ctx, &domain.UserMovieTag{UserID: "user-1", MovieID: "mov-2", TagID: tag.ID, CreatedAt: time.Now()}); err != nil {
		t.Fatalf("AddUserMovieTag: %v", err)
	}

	posts, err := s.ListPublicBlogPostsByTag(ctx, tag.ID)
	if err != nil {
		t.Fatalf("ListPublicBlogPostsByTag: %v", err)
	}
	if len(posts) != 1 || posts[0].MovieID != "mov-2" {
		t.Errorf("expected the Memento post only, got %v", posts)
	}

	ids, err := s.ListBlogPostIDsByMovie(ctx, "mov-2")
	if err != nil || len(ids) != 1 || ids[0] != "post-mov-2" {
		t.Errorf("ListBlogPostIDsByMovie: %v, %v", ids, err)
	}
}

func TestDeleteBlogPost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedPair(t, s)

	if err := s.UpsertBlogPost(ctx, makeTestPost("post-1", "user-1", "mov-1", "inception-2010-bob"), nil); err != nil {
		t.Fatalf("UpsertBlogPost: %v", err)
	}
	got, err := s.GetBlogPostBySlug(ctx, "inception-2010-bob")
	if err != nil || got.ID != "post-1" {
		t.Fatalf("GetBlogPostBySlug: %v, %v", got, err)
	}

	if err := s.DeleteBlogPost(ctx, "post-1"); err != nil {
		t.Fatalf("DeleteBlogPost: %v", err)
	}
	if err := s.DeleteBlogPost(ctx, "post-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
