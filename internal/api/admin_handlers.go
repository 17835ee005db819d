package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerAdminRoutes() {
	register(s, huma.Operation{
		OperationID: "adminListPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/posts",
		Summary:     "List all posts",
		Description: "Returns every post for moderation, newest first (admin only)",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminListPosts)

	register(s, huma.Operation{
		OperationID: "adminSetPostApproval",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/posts/{id}",
		Summary:     "Approve or revoke post",
		Description: "Grants or revokes moderation approval. Revoked approval survives regeneration (admin only).",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminSetPostApproval)
}

// SetApprovalRequest is the request body for moderating a post.
type SetApprovalRequest struct {
	AdminApproved bool `json:"admin_approved" doc:"Whether the post may be shown publicly"`
}

// SetApprovalInput wraps the approval request for Huma.
type SetApprovalInput struct {
	ID   string `path:"id" doc:"Post ID"`
	Body SetApprovalRequest
}

func (s *Server) handleAdminListPosts(ctx context.Context, input *BlogPostListInput) (*BlogPostListOutput, error) {
	p, err := RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Blog.ListAll(ctx, p.Actor(), input.params())
	if err != nil {
		return nil, err
	}
	return &BlogPostListOutput{
		Body: BlogPostListResponse{Posts: toBlogPostSummaries(page.Items), PageInfo: pageInfo(page)},
	}, nil
}

func (s *Server) handleAdminSetPostApproval(ctx context.Context, input *SetApprovalInput) (*BlogPostOutput, error) {
	p, err := RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	post, err := s.services.Blog.SetApproval(ctx, p.Actor(), input.ID, input.Body.AdminApproved)
	if err != nil {
		return nil, err
	}
	return &BlogPostOutput{Body: toBlogPostResponse(post)}, nil
}
