package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerBlogRoutes() {
	register(s, huma.Operation{
		OperationID: "listBlogPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/blog",
		Summary:     "List public posts",
		Description: "Returns public, approved posts, newest first",
		Tags:        []string{"Blog"},
	}, s.handleListBlogPosts)

	register(s, huma.Operation{
		OperationID: "searchBlogPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/blog/search",
		Summary:     "Search public posts",
		Description: "Full-text search over public posts",
		Tags:        []string{"Blog"},
	}, s.handleSearchBlogPosts)

	register(s, huma.Operation{
		OperationID: "getBlogPost",
		Method:      http.MethodGet,
		Path:        "/api/v1/blog/{slug}",
		Summary:     "Get public post",
		Description: "Returns a public post by slug and counts the view",
		Tags:        []string{"Blog"},
		Middlewares: huma.Middlewares{s.ipRateLimit(s.publicLimiter)},
	}, s.handleGetBlogPost)

	register(s, huma.Operation{
		OperationID: "getBlogPostMarkdown",
		Method:      http.MethodGet,
		Path:        "/api/v1/blog/{slug}/markdown",
		Summary:     "Export post as Markdown",
		Description: "Returns a public post converted to Markdown",
		Tags:        []string{"Blog"},
	}, s.handleGetBlogPostMarkdown)

	register(s, huma.Operation{
		OperationID: "getFeed",
		Method:      http.MethodGet,
		Path:        "/feed.xml",
		Summary:     "RSS feed",
		Description: "RSS 2.0 feed of the newest public posts",
		Tags:        []string{"Blog"},
	}, s.handleGetFeed)

	register(s, huma.Operation{
		OperationID: "listMyPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/me/posts",
		Summary:     "List my posts",
		Description: "Returns every post generated for the caller, whatever its visibility",
		Tags:        []string{"Blog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMyPosts)

	register(s, huma.Operation{
		OperationID: "setMyPostVisibility",
		Method:      http.MethodPatch,
		Path:        "/api/v1/me/posts/{id}",
		Summary:     "Publish or hide post",
		Description: "Sets the visibility of one of the caller's posts. Public posts still need admin approval.",
		Tags:        []string{"Blog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetMyPostVisibility)

	register(s, huma.Operation{
		OperationID: "deletePost",
		Method:      http.MethodDelete,
		Path:        "/api/v1/posts/{id}",
		Summary:     "Delete post",
		Description: "Deletes a post (owner or admin). It is generated again on the next curation change.",
		Tags:        []string{"Blog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeletePost)
}

// === DTOs ===

// BlogPostListInput contains parameters for listing posts.
type BlogPostListInput struct {
	PaginationInput
}

// BlogPostListOutput wraps the post list response for Huma.
type BlogPostListOutput struct {
	Body BlogPostListResponse
}

// SearchBlogPostsInput contains parameters for searching posts.
type SearchBlogPostsInput struct {
	Query  string `query:"q" required:"true" minLength:"1" maxLength:"200" doc:"Search text"`
	Limit  int    `query:"limit" minimum:"0" maximum:"100" doc:"Maximum hits (default 20)"`
	Offset int    `query:"offset" minimum:"0" doc:"Hits to skip"`
}

// BlogSearchHit is a matching post.
type BlogSearchHit struct {
	ID         string            `json:"id" doc:"Post ID"`
	Slug       string            `json:"slug" doc:"Public URL slug"`
	Title      string            `json:"title" doc:"Post title"`
	MovieID    string            `json:"movie_id" doc:"Movie ID"`
	Score      float64           `json:"score" doc:"Relevance score"`
	Highlights map[string]string `json:"highlights,omitempty" doc:"Matched fragments by field"`
}

// BlogSearchResponse contains post search results.
type BlogSearchResponse struct {
	Query  string          `json:"query" doc:"Executed query"`
	Total  uint64          `json:"total" doc:"Total matching posts"`
	TookMs int64           `json:"took_ms" doc:"Search time in milliseconds"`
	Hits   []BlogSearchHit `json:"hits" doc:"Matching posts"`
}

// BlogSearchOutput wraps the search response for Huma.
type BlogSearchOutput struct {
	Body BlogSearchResponse
}

// SlugInput identifies a post by slug.
type SlugInput struct {
	Slug string `path:"slug" maxLength:"200" doc:"Post slug"`
}

// BlogPostOutput wraps the post response for Huma.
type BlogPostOutput struct {
	Body BlogPostResponse
}

// RawOutput is a non-JSON response body written as is.
type RawOutput struct {
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}

// MyPostsResponse contains every post of the caller.
type MyPostsResponse struct {
	Posts []BlogPostSummaryResponse `json:"posts" doc:"The caller's posts"`
}

// MyPostsOutput wraps the caller's posts for Huma.
type MyPostsOutput struct {
	Body MyPostsResponse
}

// SetVisibilityRequest is the request body for publishing or hiding a post.
type SetVisibilityRequest struct {
	IsPublic bool `json:"is_public" doc:"Whether the post should be public"`
}

// SetVisibilityInput wraps the visibility request for Huma.
type SetVisibilityInput struct {
	ID   string `path:"id" doc:"Post ID"`
	Body SetVisibilityRequest
}

// PostIDInput identifies a post by ID.
type PostIDInput struct {
	ID string `path:"id" doc:"Post ID"`
}

// === Handlers ===

func (s *Server) handleListBlogPosts(ctx context.Context, input *BlogPostListInput) (*BlogPostListOutput, error) {
	page, err := s.services.Blog.ListPublic(ctx, input.params())
	if err != nil {
		return nil, err
	}
	return &BlogPostListOutput{
		Body: BlogPostListResponse{Posts: toBlogPostSummaries(page.Items), PageInfo: pageInfo(page)},
	}, nil
}

func (s *Server) handleSearchBlogPosts(ctx context.Context, input *SearchBlogPostsInput) (*BlogSearchOutput, error) {
	res, err := s.services.Blog.Search(ctx, input.Query, input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	hits := make([]BlogSearchHit, len(res.Hits))
	for i, h := range res.Hits {
		hits[i] = BlogSearchHit{
			ID:         h.ID,
			Slug:       h.Slug,
			Title:      h.Title,
			MovieID:    h.MovieID,
			Score:      h.Score,
			Highlights: h.Highlights,
		}
	}

	return &BlogSearchOutput{
		Body: BlogSearchResponse{Query: res.Query, Total: res.Total, TookMs: res.TookMs, Hits: hits},
	}, nil
}

func (s *Server) handleGetBlogPost(ctx context.Context, input *SlugInput) (*BlogPostOutput, error) {
	post, err := s.services.Blog.GetPublic(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	return &BlogPostOutput{Body: toBlogPostResponse(post)}, nil
}

func (s *Server) handleGetBlogPostMarkdown(ctx context.Context, input *SlugInput) (*RawOutput, error) {
	md, err := s.services.Blog.Markdown(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	return &RawOutput{
		ContentType:  "text/markdown; charset=utf-8",
		CacheControl: CacheFiveMinutes,
		Body:         []byte(md),
	}, nil
}

func (s *Server) handleGetFeed(ctx context.Context, _ *struct{}) (*RawOutput, error) {
	feed, err := s.services.Blog.Feed(ctx)
	if err != nil {
		return nil, err
	}
	return &RawOutput{
		ContentType:  "application/rss+xml; charset=utf-8",
		CacheControl: CacheFiveMinutes,
		Body:         feed,
	}, nil
}

func (s *Server) handleListMyPosts(ctx context.Context, _ *struct{}) (*MyPostsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	posts, err := s.services.Blog.ListMine(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &MyPostsOutput{Body: MyPostsResponse{Posts: toBlogPostSummaries(posts)}}, nil
}

func (s *Server) handleSetMyPostVisibility(ctx context.Context, input *SetVisibilityInput) (*BlogPostOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	post, err := s.services.Blog.SetVisibility(ctx, userID, input.ID, input.Body.IsPublic)
	if err != nil {
		return nil, err
	}
	return &BlogPostOutput{Body: toBlogPostResponse(post)}, nil
}

func (s *Server) handleDeletePost(ctx context.Context, input *PostIDInput) (*MessageOutput, error) {
	p, err := GetPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Blog.Delete(ctx, p.Actor(), input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Post deleted"}}, nil
}
