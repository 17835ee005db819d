// Package main seeds a ReelNotes database with demo movies, taxonomy and
// curation so the blog has content during local development.
//
// Usage:
//
//	DATA_PATH=./data go run ./cmd/seed
//	DATA_PATH=./data TMDB_API_KEY=... go run ./cmd/seed  # enrich from TMDB
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/reelnotes/reelnotes-server/internal/auth"
	"github.com/reelnotes/reelnotes-server/internal/blog"
	"github.com/reelnotes/reelnotes-server/internal/cache"
	"github.com/reelnotes/reelnotes-server/internal/config"
	"github.com/reelnotes/reelnotes-server/internal/domain"
	"github.com/reelnotes/reelnotes-server/internal/logger"
	"github.com/reelnotes/reelnotes-server/internal/metadata/tmdb"
	"github.com/reelnotes/reelnotes-server/internal/search"
	"github.com/reelnotes/reelnotes-server/internal/service"
	"github.com/reelnotes/reelnotes-server/internal/store/sqlite"
	"github.com/reelnotes/reelnotes-server/internal/validation"
)

var adminEmail = flag.String("admin", "admin@example.com", "Email of the admin that creates tags and categories")

type seedMovie struct {
	title       string
	releaseDate string
	tmdbID      int64
	tags        []string
	categories  []string
	note        string
}

var users = []auth.Claims{
	{UserID: "seed-alice", Email: "alice@example.com", Username: "alice", Name: "Alice Smith"},
	{UserID: "seed-bob", Email: "bob@example.com", Username: "bob", Name: "Bob Jones"},
}

var movies = []seedMovie{
	{
		title: "Inception", releaseDate: "2010-07-16", tmdbID: 27205,
		tags: []string{"Mind-bending", "Heist"}, categories: []string{"Science Fiction"},
		note: "A heist movie set inside dreams. The hallway fight still holds up.",
	},
	{
		title: "Heat", releaseDate: "1995-12-15", tmdbID: 949,
		tags: []string{"Heist"}, categories: []string{"Crime"},
		note: "The diner scene is two masters sizing each other up.",
	},
	{
		title: "Arrival", releaseDate: "2016-11-11", tmdbID: 329865,
		tags: []string{"Mind-bending"}, categories: []string{"Science Fiction"},
		note: "Quiet, patient and devastating on a second watch.",
	},
}

// syncRegen regenerates posts inline so the seeded blog is complete on exit.
type syncRegen struct {
	blog *service.BlogService
}

func (r *syncRegen) Enqueue(key domain.PostKey) bool {
	if err := r.blog.Regenerate(context.Background(), key); err != nil {
		log.Printf("Failed to regenerate post for %s/%s: %v", key.UserID, key.MovieID, err)
	}
	return true
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = "./data"
	}
	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		log.Fatalf("Failed to create data path: %v", err)
	}

	fmt.Printf("Seeding data at: %s\n", dataPath)

	appLog := logger.New(logger.Config{Level: logger.ParseLevel("warn")}).Logger

	st, err := sqlite.Open(filepath.Join(dataPath, "reelnotes.db"), appLog)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	index, err := search.NewSearchIndex(search.Options{DataPath: dataPath, Logger: appLog})
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer index.Close()

	provider := tmdb.New(tmdb.Config{
		APIKey:       os.Getenv("TMDB_API_KEY"),
		BaseURL:      "https://api.themoviedb.org/3",
		ImageBaseURL: "https://image.tmdb.org/t/p",
	}, appLog)

	validator := validation.New()
	searchSvc := service.NewSearchService(index, st, appLog)
	blogSvc := service.NewBlogService(st, searchSvc, blog.FeedConfig{SiteURL: "http://localhost:8080"}, appLog)
	regen := &syncRegen{blog: blogSvc}

	identity := config.IdentityConfig{AdminEmails: []string{*adminEmail}}
	profiles := service.NewProfileService(st, identity, regen, validator, appLog)
	movieSvc := service.NewMovieService(st, provider, searchSvc, regen, validator, 10*time.Second, appLog)
	taxonomy := service.NewTaxonomyService(st, cache.NewMemoryBackend(), time.Minute, regen, validator, appLog)
	curation := service.NewCurationService(st, regen, validator, appLog)

	ctx := context.Background()
	admin := service.Actor{UserID: "seed-admin", IsAdmin: true}

	for i := range users {
		if _, err := profiles.Resolve(ctx, &users[i]); err != nil {
			log.Fatalf("Failed to create profile %s: %v", users[i].Username, err)
		}
	}

	tagIDs := map[string]string{}
	categoryIDs := map[string]string{}

	for _, m := range movies {
		for _, name := range m.tags {
			if _, ok := tagIDs[name]; ok {
				continue
			}
			tag, err := taxonomy.CreateTag(ctx, admin, service.CreateTermInput{Name: name})
			if err != nil {
				log.Fatalf("Failed to create tag %q: %v", name, err)
			}
			tagIDs[name] = tag.ID
		}
		for _, name := range m.categories {
			if _, ok := categoryIDs[name]; ok {
				continue
			}
			category, err := taxonomy.CreateCategory(ctx, admin, service.CreateTermInput{Name: name})
			if err != nil {
				log.Fatalf("Failed to create category %q: %v", name, err)
			}
			categoryIDs[name] = category.ID
		}
	}

	postsCreated := 0
	for _, m := range movies {
		tmdbID := m.tmdbID
		movie, err := movieSvc.Create(ctx, service.CreateMovieInput{
			Title:       m.title,
			ReleaseDate: m.releaseDate,
			TMDBID:      &tmdbID,
		})
		if err != nil {
			log.Printf("Skipping %s: %v", m.title, err)
			continue
		}
		fmt.Printf("  Movie: %s (%s)\n", movie.Title, movie.ID)

		for _, u := range users {
			for _, name := range m.tags {
				if err := curation.AddTag(ctx, u.UserID, movie.ID, tagIDs[name]); err != nil {
					log.Printf("Failed to tag %s for %s: %v", m.title, u.Username, err)
				}
			}
			for _, name := range m.categories {
				if err := curation.AddCategory(ctx, u.UserID, movie.ID, categoryIDs[name]); err != nil {
					log.Printf("Failed to categorize %s for %s: %v", m.title, u.Username, err)
				}
			}
			if _, err := curation.PutNote(ctx, u.UserID, movie.ID, service.PutNoteInput{Content: m.note}); err != nil {
				log.Printf("Failed to annotate %s for %s: %v", m.title, u.Username, err)
			}
			postsCreated++
		}
	}

	fmt.Printf("\nSeeded %d users, %d tags, %d categories and %d posts\n",
		len(users), len(tagIDs), len(categoryIDs), postsCreated)
}
