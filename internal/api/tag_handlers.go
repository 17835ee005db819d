package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/reelnotes/reelnotes-server/internal/service"
)

func (s *Server) registerTaxonomyRoutes() {
	register(s, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns every tag ordered by name",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	register(s, huma.Operation{
		OperationID:   "createTag",
		Method:        http.MethodPost,
		Path:          "/api/v1/tags",
		Summary:       "Create tag",
		Description:   "Creates a tag. Names are unique ignoring case, accents and punctuation (admin only).",
		Tags:          []string{"Tags"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateTag)

	register(s, huma.Operation{
		OperationID: "updateTag",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Update tag",
		Description: "Updates a tag and regenerates posts that carry it (admin only)",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateTag)

	register(s, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Delete tag",
		Description: "Deletes a tag, removing it from every movie (admin only)",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTag)

	register(s, huma.Operation{
		OperationID: "getTagPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{slug}/posts",
		Summary:     "Get tag posts",
		Description: "Returns the tag and the public posts carrying it",
		Tags:        []string{"Tags"},
	}, s.handleGetTagPosts)

	register(s, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Returns every category ordered by name",
		Tags:        []string{"Categories"},
	}, s.handleListCategories)

	register(s, huma.Operation{
		OperationID:   "createCategory",
		Method:        http.MethodPost,
		Path:          "/api/v1/categories",
		Summary:       "Create category",
		Description:   "Creates a category (admin only)",
		Tags:          []string{"Categories"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateCategory)

	register(s, huma.Operation{
		OperationID: "updateCategory",
		Method:      http.MethodPatch,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Update category",
		Description: "Updates a category and regenerates posts filed under it (admin only)",
		Tags:        []string{"Categories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCategory)

	register(s, huma.Operation{
		OperationID: "deleteCategory",
		Method:      http.MethodDelete,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Delete category",
		Description: "Deletes a category, removing it from every movie (admin only)",
		Tags:        []string{"Categories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteCategory)
}

// === DTOs ===

// TermListResponse contains a list of tags or categories.
type TermListResponse struct {
	Items []TermResponse `json:"items" doc:"Terms ordered by name"`
}

// TermListOutput wraps the term list response for Huma.
type TermListOutput struct {
	Body TermListResponse
}

// CreateTermRequest is the request body for creating a tag or category.
type CreateTermRequest struct {
	Name        string `json:"name" minLength:"1" maxLength:"50" doc:"Display name"`
	Description string `json:"description,omitempty" maxLength:"500" doc:"Description"`
	Color       string `json:"color,omitempty" doc:"Display color (#RRGGBB)"`
}

// CreateTermInput wraps the create request for Huma.
type CreateTermInput struct {
	Body CreateTermRequest
}

// UpdateTermRequest is the request body for updating a tag or category.
type UpdateTermRequest struct {
	Name        *string `json:"name,omitempty" maxLength:"50" doc:"Display name"`
	Description *string `json:"description,omitempty" maxLength:"500" doc:"Description"`
	Color       *string `json:"color,omitempty" doc:"Display color (#RRGGBB)"`
}

// UpdateTermInput wraps the update request for Huma.
type UpdateTermInput struct {
	ID   string `path:"id" doc:"Term ID"`
	Body UpdateTermRequest
}

// TermIDInput identifies a tag or category in the path.
type TermIDInput struct {
	ID string `path:"id" doc:"Term ID"`
}

// TermOutput wraps the term response for Huma.
type TermOutput struct {
	Body TermResponse
}

// TagPostsInput identifies a tag by browse slug.
type TagPostsInput struct {
	Slug string `path:"slug" maxLength:"100" doc:"Tag slug"`
}

// TagPostsResponse contains a tag and its public posts.
type TagPostsResponse struct {
	Tag   TermResponse              `json:"tag" doc:"The tag"`
	Posts []BlogPostSummaryResponse `json:"posts" doc:"Public posts carrying the tag"`
}

// TagPostsOutput wraps the tag posts response for Huma.
type TagPostsOutput struct {
	Body TagPostsResponse
}

func (r CreateTermRequest) toService() service.CreateTermInput {
	return service.CreateTermInput{Name: r.Name, Description: r.Description, Color: r.Color}
}

func (r UpdateTermRequest) toService() service.UpdateTermInput {
	return service.UpdateTermInput{Name: r.Name, Description: r.Description, Color: r.Color}
}

// === Tag handlers ===

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*TermListOutput, error) {
	tags, err := s.services.Taxonomy.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	return &TermListOutput{Body: TermListResponse{Items: toTagResponses(tags)}}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTermInput) (*TermOutput, error) {
	p, err := GetPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	t, err := s.services.Taxonomy.CreateTag(ctx, p.Actor(), input.Body.toService())
	if err != nil {
		return nil, err
	}
	return &TermOutput{Body: toTagResponse(t)}, nil
}

func (s *Server) handleUpdateTag(ctx context.Context, input *UpdateTermInput) (*TermOutput, error) {
	p, err := GetPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	t, err := s.services.Taxonomy.UpdateTag(ctx, p.Actor(), input.ID, input.Body.toService())
	if err != nil {
		return nil, err
	}
	return &TermOutput{Body: toTagResponse(t)}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *TermIDInput) (*MessageOutput, error) {
	p, err := GetPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Taxonomy.DeleteTag(ctx, p.Actor(), input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Tag deleted"}}, nil
}

func (s *Server) handleGetTagPosts(ctx context.Context, input *TagPostsInput) (*TagPostsOutput, error) {
	tag, posts, err := s.services.Taxonomy.MoviesForTag(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	return &TagPostsOutput{
		Body: TagPostsResponse{Tag: toTagResponse(tag), Posts: toBlogPostSummaries(posts)},
	}, nil
}

// === Category handlers ===

func (s *Server) handleListCategories(ctx context.Context, _ *struct{}) (*TermListOutput, error) {
	categories, err := s.services.Taxonomy.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &TermListOutput{Body: TermListResponse{Items: toCategoryResponses(categories)}}, nil
}

func (s *Server) handleCreateCategory(ctx context.Context, input *CreateTermInput) (*TermOutput, error) {
	p, err := GetPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.services.Taxonomy.CreateCategory(ctx, p.Actor(), input.Body.toService())
	if err != nil {
		return nil, err
	}
	return &TermOutput{Body: toCategoryResponse(c)}, nil
}

func (s *Server) handleUpdateCategory(ctx context.Context, input *UpdateTermInput) (*TermOutput, error) {
	p, err := GetPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.services.Taxonomy.UpdateCategory(ctx, p.Actor(), input.ID, input.Body.toService())
	if err != nil {
		return nil, err
	}
	return &TermOutput{Body: toCategoryResponse(c)}, nil
}

func (s *Server) handleDeleteCategory(ctx context.Context, input *TermIDInput) (*MessageOutput, error) {
	p, err := GetPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Taxonomy.DeleteCategory(ctx, p.Actor(), input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Category deleted"}}, nil
}
