package domain

import "time"

// MetaDescriptionMaxLen caps BlogPost.MetaDescription, in runes.
const MetaDescriptionMaxLen = 160

// BlogPost is the generated article for one (user, movie) pair.
// Public visibility requires both IsPublic (owner) and AdminApproved (moderation).
type BlogPost struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	MovieID         string    `json:"movie_id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	MetaDescription string    `json:"meta_description"`
	IsPublic        bool      `json:"is_public"`
	AdminApproved   bool      `json:"admin_approved"`
	ViewCount       int64     `json:"view_count"`
	PublishedAt     time.Time `json:"published_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsVisible reports whether the post may be shown to the public.
func (p *BlogPost) IsVisible() bool {
	return p.IsPublic && p.AdminApproved
}

// BlogPostSummary is a listing row: a post joined with its movie and author.
type BlogPostSummary struct {
	ID              string    `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	MetaDescription string    `json:"meta_description"`
	MovieID         string    `json:"movie_id"`
	MovieTitle      string    `json:"movie_title"`
	PosterURL       string    `json:"poster_url,omitempty"`
	UserID          string    `json:"user_id"`
	Username        string    `json:"username"`
	IsPublic        bool      `json:"is_public"`
	AdminApproved   bool      `json:"admin_approved"`
	ViewCount       int64     `json:"view_count"`
	PublishedAt     time.Time `json:"published_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PostKey identifies the (user, movie) pair a post belongs to.
type PostKey struct {
	UserID  string
	MovieID string
}

// String renders the key for logs and queue bookkeeping.
func (k PostKey) String() string {
	return k.UserID + "/" + k.MovieID
}
