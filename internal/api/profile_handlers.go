package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/reelnotes/reelnotes-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	register(s, huma.Operation{
		OperationID: "getMe",
		Method:      http.MethodGet,
		Path:        "/api/v1/me",
		Summary:     "Get current profile",
		Description: "Returns the caller's profile, created on first sight from the identity token",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMe)

	register(s, huma.Operation{
		OperationID: "updateMe",
		Method:      http.MethodPatch,
		Path:        "/api/v1/me",
		Summary:     "Update current profile",
		Description: "Changes username or full name. The caller's posts are regenerated with the new byline.",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateMe)
}

// ProfileOutput wraps the profile response for Huma.
type ProfileOutput struct {
	Body ProfileResponse
}

// UpdateProfileRequest is the request body for updating a profile.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" maxLength:"50" doc:"New username"`
	FullName *string `json:"full_name,omitempty" maxLength:"100" doc:"New full name"`
}

// UpdateProfileInput wraps the update request for Huma.
type UpdateProfileInput struct {
	Body UpdateProfileRequest
}

func (s *Server) handleGetMe(ctx context.Context, _ *struct{}) (*ProfileOutput, error) {
	p, err := GetPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.Get(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: toProfileResponse(profile, p.IsAdmin)}, nil
}

func (s *Server) handleUpdateMe(ctx context.Context, input *UpdateProfileInput) (*ProfileOutput, error) {
	p, err := GetPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.Update(ctx, p.UserID, service.UpdateProfileInput{
		Username: input.Body.Username,
		FullName: input.Body.FullName,
	})
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: toProfileResponse(profile, p.IsAdmin)}, nil
}
